package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// ToggleChatInput flips the chat panel for a viewer.
type ToggleChatInput struct {
	Viewer assistant.ViewerContext `json:"viewer"`
}

// ToggleChatCommand expands or collapses the chat panel.
type ToggleChatCommand struct {
	widgets   WidgetSource
	telemetry Telemetry
}

// NewToggleChatCommand creates the command.
func NewToggleChatCommand(widgets WidgetSource, telemetry Telemetry) *ToggleChatCommand {
	return &ToggleChatCommand{widgets: widgets, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleChatInput] = (*ToggleChatCommand)(nil)

// Execute toggles the panel and records the resulting state.
func (c *ToggleChatCommand) Execute(ctx context.Context, msg ToggleChatInput) error {
	if c.widgets == nil {
		return errors.New("toggle chat command requires widget source")
	}
	expanded := c.widgets.Widget(msg.Viewer).ToggleChat(ctx)
	c.telemetry.Record(ctx, "assistant.command.toggle_chat", map[string]any{
		"username": msg.Viewer.Username,
		"expanded": expanded,
	})
	return nil
}
