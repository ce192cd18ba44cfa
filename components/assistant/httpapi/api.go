package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
	"github.com/balajinrrbgm/go-assistant-widget/components/assistant/commands"
)

// Executor is the command surface transports mount against.
type Executor interface {
	SendMessage(ctx context.Context, input commands.SendMessageInput) error
	ToggleChat(ctx context.Context, input commands.ToggleChatInput) error
	RefreshInsights(ctx context.Context, input commands.RefreshInsightsInput) error
	SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error
}

// CommandExecutor adapts go-command commanders to the Executor interface.
type CommandExecutor struct {
	SendMessageCommander     gocommand.Commander[commands.SendMessageInput]
	ToggleChatCommander      gocommand.Commander[commands.ToggleChatInput]
	RefreshInsightsCommander gocommand.Commander[commands.RefreshInsightsInput]
	SavePreferencesCommander gocommand.Commander[commands.SavePreferencesInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) SendMessage(ctx context.Context, input commands.SendMessageInput) error {
	if e.SendMessageCommander == nil {
		return errors.New("httpapi: send message commander not configured")
	}
	return e.SendMessageCommander.Execute(ctx, input)
}

func (e *CommandExecutor) ToggleChat(ctx context.Context, input commands.ToggleChatInput) error {
	if e.ToggleChatCommander == nil {
		return errors.New("httpapi: toggle chat commander not configured")
	}
	return e.ToggleChatCommander.Execute(ctx, input)
}

func (e *CommandExecutor) RefreshInsights(ctx context.Context, input commands.RefreshInsightsInput) error {
	if e.RefreshInsightsCommander == nil {
		return errors.New("httpapi: refresh insights commander not configured")
	}
	return e.RefreshInsightsCommander.Execute(ctx, input)
}

func (e *CommandExecutor) SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error {
	if e.SavePreferencesCommander == nil {
		return errors.New("httpapi: save preferences commander not configured")
	}
	return e.SavePreferencesCommander.Execute(ctx, input)
}

// Handlers exposes plain net/http endpoints backed by shared commands, for
// hosts that do not mount the go-router integration.
type Handlers struct {
	API     Executor
	Widgets commands.WidgetSource
}

// HandleSendMessage accepts a chat message and responds with the updated
// transcript tail.
func (h *Handlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload commands.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SendMessage(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.respondTranscript(w, r, payload.Viewer)
}

// HandleToggleChat flips the chat panel.
func (h *Handlers) HandleToggleChat(w http.ResponseWriter, r *http.Request) {
	var payload commands.ToggleChatInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.ToggleChat(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	expanded := h.Widgets.Widget(payload.Viewer).Expanded()
	writeJSON(w, http.StatusOK, map[string]any{"expanded": expanded})
}

// HandleRefreshInsights reloads the insights panel and responds with the
// resulting view.
func (h *Handlers) HandleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshInsightsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.RefreshInsights(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	view := h.Widgets.Widget(payload.Viewer).Insights()
	writeJSON(w, http.StatusOK, view)
}

// HandleSavePreferences persists widget preferences.
func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var payload commands.SavePreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SavePreferences(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handlers) respondTranscript(w http.ResponseWriter, r *http.Request, viewer assistant.ViewerContext) {
	widget := h.Widgets.Widget(viewer)
	writeJSON(w, http.StatusOK, map[string]any{
		"typing":   widget.Typing(),
		"messages": widget.Transcript(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
