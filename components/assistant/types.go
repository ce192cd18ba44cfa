package assistant

import (
	"context"
	"time"
)

// Sender identifies which side of the conversation produced a transcript entry.
type Sender string

const (
	// SenderUser marks messages typed by the account holder.
	SenderUser Sender = "user"
	// SenderAssistant marks replies produced by the advisor backend.
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one transcript entry. The transcript is append-only: entries
// are never mutated or removed within a session.
type ChatMessage struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Sender  Sender    `json:"sender"`
	IsError bool      `json:"is_error,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// ChatRequest is the wire payload for POST /api/ai/chat.
type ChatRequest struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ChatReply carries the assistant's answer. An empty AIResponse is valid wire
// data; the controller substitutes a fixed apology when it happens.
type ChatReply struct {
	AIResponse string `json:"ai_response"`
}

// InsightsSummary is the optional summary block of an insights payload.
// HealthScore is produced on a 0-100 scale by the advisor; the widget renders
// it as-is without re-clamping.
type InsightsSummary struct {
	Balance     float64 `json:"balance"`
	HealthScore int     `json:"health_score"`
	NetChange   float64 `json:"net_change"`
	TopCategory string  `json:"top_category"`
}

// ChartDataset is one named visualization from the insights payload. Line,
// bar, and pie datasets carry Data; gauge datasets carry Value.
type ChartDataset struct {
	Type  string             `json:"type"`
	Title string             `json:"title"`
	Data  map[string]float64 `json:"data,omitempty"`
	Value float64            `json:"value,omitempty"`
}

// InsightsPayload mirrors the advisor response for
// GET /api/ai/insights/{username}. Every section is independently optional;
// the payload always replaces the previous render wholesale, never merged
// into it.
type InsightsPayload struct {
	Summary        *InsightsSummary        `json:"summary,omitempty"`
	Visualizations map[string]ChartDataset `json:"visualizations,omitempty"`
	Insights       string                  `json:"insights,omitempty"`
	Timestamp      string                  `json:"timestamp,omitempty"`
}

// Client talks to the advisor backend on behalf of the widget.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatReply, error)
	Insights(ctx context.Context, username string) (InsightsPayload, error)
}

// ViewerContext identifies the account holder the widget renders for.
type ViewerContext struct {
	Username   string
	AccountNum string
	Locale     string
}

// PayloadValidator checks an insights payload at the client boundary before
// any section of it is rendered.
type PayloadValidator interface {
	Validate(payload InsightsPayload) error
}

// ChartRenderer turns one dataset into a chart handle bound to a surface.
type ChartRenderer interface {
	Render(ctx context.Context, surface SurfaceDefinition, dataset ChartDataset) (*ChartHandle, error)
}

// Telemetry records widget events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// RefreshHook notifies transports (WebSocket/SSE) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error { return nil }

// WidgetEvent describes a widget change that transports might care about.
type WidgetEvent struct {
	Kind     string         `json:"kind"`
	Username string         `json:"username"`
	Detail   map[string]any `json:"detail,omitempty"`
}

// Event kinds emitted by the controller.
const (
	EventChatSent         = "chat.sent"
	EventChatReplied      = "chat.replied"
	EventChatToggled      = "chat.toggled"
	EventInsightsLoading  = "insights.loading"
	EventInsightsRendered = "insights.rendered"
	EventInsightsErrored  = "insights.errored"
)
