package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// WidgetSource resolves the widget controller for a viewer.
type WidgetSource interface {
	Widget(viewer assistant.ViewerContext) *assistant.Controller
}

// TranscriptQuery reads a viewer's chat transcript.
type TranscriptQuery struct {
	widgets WidgetSource
}

// NewTranscriptQuery builds the query.
func NewTranscriptQuery(widgets WidgetSource) *TranscriptQuery {
	return &TranscriptQuery{widgets: widgets}
}

var _ gocommand.Querier[assistant.ViewerContext, []assistant.ChatMessage] = (*TranscriptQuery)(nil)

// Query returns the transcript in send order.
func (q *TranscriptQuery) Query(_ context.Context, viewer assistant.ViewerContext) ([]assistant.ChatMessage, error) {
	return q.widgets.Widget(viewer).Transcript(), nil
}
