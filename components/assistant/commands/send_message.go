package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// WidgetSource resolves the widget controller for a viewer.
type WidgetSource interface {
	Widget(viewer assistant.ViewerContext) *assistant.Controller
}

// SendMessageInput carries one chat turn for a viewer.
type SendMessageInput struct {
	Viewer  assistant.ViewerContext `json:"viewer"`
	Message string                  `json:"message"`
}

// SendMessageCommand runs a chat turn through the viewer's widget.
type SendMessageCommand struct {
	widgets   WidgetSource
	telemetry Telemetry
}

// NewSendMessageCommand creates the command.
func NewSendMessageCommand(widgets WidgetSource, telemetry Telemetry) *SendMessageCommand {
	return &SendMessageCommand{widgets: widgets, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SendMessageInput] = (*SendMessageCommand)(nil)

// Execute sends the message. Empty messages and turns rejected because the
// assistant is already typing are not errors; the widget treats them as
// no-ops.
func (c *SendMessageCommand) Execute(ctx context.Context, msg SendMessageInput) error {
	if c.widgets == nil {
		return errors.New("send message command requires widget source")
	}
	widget := c.widgets.Widget(msg.Viewer)
	reply, ok := widget.SendMessage(ctx, msg.Message)
	c.telemetry.Record(ctx, "assistant.command.send_message", map[string]any{
		"username": msg.Viewer.Username,
		"accepted": ok,
		"is_error": reply.IsError,
	})
	return nil
}
