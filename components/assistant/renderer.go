package assistant

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// TemplatePayload is the data handed to the widget template. Every text field
// is already escaped; HTML fields are rendered verbatim.
type TemplatePayload struct {
	Viewer   ViewerContext `json:"viewer"`
	Chat     ChatPanel     `json:"chat"`
	Insights InsightsPanel `json:"insights"`
}

// ChatPanel is the chat sub-view of the template payload.
type ChatPanel struct {
	Expanded bool         `json:"expanded"`
	Typing   bool         `json:"typing"`
	Messages []ChatBubble `json:"messages"`
}

// ChatBubble is one rendered transcript entry. HTML carries the escaped
// message text.
type ChatBubble struct {
	ID      string `json:"id"`
	Sender  Sender `json:"sender"`
	HTML    string `json:"html"`
	IsError bool   `json:"is_error"`
	SentAt  string `json:"sent_at"`
}

// InsightsPanel is the insights sub-view of the template payload.
type InsightsPanel struct {
	State     string         `json:"state"`
	Summary   *SummaryCards  `json:"summary,omitempty"`
	Charts    []ChartSection `json:"charts,omitempty"`
	Narrative string         `json:"narrative,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// ChartSection pairs a surface title with its rendered chart HTML.
type ChartSection struct {
	SurfaceID string `json:"surface_id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
}

// TemplatePayload materializes the current widget state for the template.
// Transcript text is escaped here so templates can emit bubbles verbatim.
func (c *Controller) TemplatePayload(_ context.Context) TemplatePayload {
	c.mu.Lock()
	messages := make([]ChatBubble, 0, len(c.transcript))
	for _, msg := range c.transcript {
		messages = append(messages, ChatBubble{
			ID:      msg.ID,
			Sender:  msg.Sender,
			HTML:    EscapeText(msg.Text),
			IsError: msg.IsError,
			SentAt:  msg.SentAt.Format("15:04"),
		})
	}
	chat := ChatPanel{
		Expanded: c.expanded,
		Typing:   c.typing,
		Messages: messages,
	}
	insights := InsightsPanel{
		State:     c.insights.State.String(),
		Summary:   c.insights.Summary,
		Narrative: c.insights.Narrative,
		Error:     c.insights.ErrorMessage,
		Timestamp: c.insights.Timestamp,
	}
	state := c.insights.State
	c.mu.Unlock()

	// Chart sections only accompany a rendered view. A loading or errored
	// panel must not leak the previous render's charts to JSON consumers.
	if state == StateRendered {
		for _, handle := range c.charts.Handles() {
			surface, ok := c.opts.Surfaces.Surface(handle.SurfaceID)
			title := surface.Title
			if !ok {
				title = handle.Dataset
			}
			insights.Charts = append(insights.Charts, ChartSection{
				SurfaceID: handle.SurfaceID,
				Title:     title,
				HTML:      handle.HTML,
			})
		}
	}

	return TemplatePayload{
		Viewer:   c.viewer,
		Chat:     chat,
		Insights: insights,
	}
}

// RenderTemplate renders the full widget HTML into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	renderer := c.opts.Renderer
	if renderer == nil {
		var err error
		renderer, err = sharedRenderer()
		if err != nil {
			return fmt.Errorf("assistant: template renderer: %w", err)
		}
	}
	payload := c.TemplatePayload(ctx)
	data := map[string]any{
		"Viewer":   payload.Viewer,
		"Chat":     payload.Chat,
		"Insights": payload.Insights,
	}
	if _, err := renderer.Render("widget", data, out); err != nil {
		return fmt.Errorf("assistant: render widget: %w", err)
	}
	return nil
}

var (
	rendererOnce sync.Once
	rendererInst Renderer
	rendererErr  error
)

func sharedRenderer() (Renderer, error) {
	rendererOnce.Do(func() {
		rendererInst, rendererErr = NewTemplateRenderer()
	})
	return rendererInst, rendererErr
}
