package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// SavePreferencesInput persists widget preferences for a viewer.
type SavePreferencesInput struct {
	Viewer      assistant.ViewerContext     `json:"viewer"`
	Preferences assistant.WidgetPreferences `json:"preferences"`
}

// SavePreferencesCommand writes preferences through the store.
type SavePreferencesCommand struct {
	store     assistant.PreferenceStore
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(store assistant.PreferenceStore, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute saves the preferences.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.store == nil {
		return errors.New("save preferences command requires store")
	}
	if err := c.store.SavePreferences(ctx, msg.Viewer, msg.Preferences); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "assistant.command.save_preferences", map[string]any{
		"username":      msg.Viewer.Username,
		"chat_expanded": msg.Preferences.ChatExpanded,
	})
	return nil
}
