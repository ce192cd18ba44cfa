package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// RefreshInsightsInput re-runs the insights load for a viewer.
type RefreshInsightsInput struct {
	Viewer assistant.ViewerContext `json:"viewer"`
}

// RefreshInsightsCommand reloads the insights panel.
type RefreshInsightsCommand struct {
	widgets   WidgetSource
	telemetry Telemetry
}

// NewRefreshInsightsCommand creates the command.
func NewRefreshInsightsCommand(widgets WidgetSource, telemetry Telemetry) *RefreshInsightsCommand {
	return &RefreshInsightsCommand{widgets: widgets, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshInsightsInput] = (*RefreshInsightsCommand)(nil)

// Execute refreshes the panel. A failed load surfaces through the widget's
// errored state rather than a command error.
func (c *RefreshInsightsCommand) Execute(ctx context.Context, msg RefreshInsightsInput) error {
	if c.widgets == nil {
		return errors.New("refresh insights command requires widget source")
	}
	view := c.widgets.Widget(msg.Viewer).RefreshInsights(ctx)
	c.telemetry.Record(ctx, "assistant.command.refresh_insights", map[string]any{
		"username": msg.Viewer.Username,
		"state":    view.State.String(),
	})
	return nil
}
