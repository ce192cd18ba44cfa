package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// InsightsViewQuery reads the current insights render state for a viewer.
type InsightsViewQuery struct {
	widgets WidgetSource
}

// NewInsightsViewQuery builds the query.
func NewInsightsViewQuery(widgets WidgetSource) *InsightsViewQuery {
	return &InsightsViewQuery{widgets: widgets}
}

var _ gocommand.Querier[assistant.ViewerContext, assistant.InsightsView] = (*InsightsViewQuery)(nil)

// Query returns the insights view without triggering a load.
func (q *InsightsViewQuery) Query(_ context.Context, viewer assistant.ViewerContext) (assistant.InsightsView, error) {
	return q.widgets.Widget(viewer).Insights(), nil
}
