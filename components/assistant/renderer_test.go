package assistant

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTemplateRenderer struct {
	lastTemplate string
	lastData     map[string]any
	err          error
}

func (r *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastData = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<div class=\"ai-assistant\"></div>"))
	}
	return "<div class=\"ai-assistant\"></div>", r.err
}

func TestRenderTemplateUsesWidgetTemplate(t *testing.T) {
	t.Parallel()

	renderer := &stubTemplateRenderer{}
	client := &stubClient{reply: ChatReply{AIResponse: "Sure."}}
	ctrl := newTestController(t, client, func(o *Options) { o.Renderer = renderer })

	_, ok := ctrl.SendMessage(context.Background(), "What's my balance?")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, ctrl.RenderTemplate(context.Background(), &buf))

	assert.Equal(t, "widget", renderer.lastTemplate)
	assert.NotZero(t, buf.Len())

	require.NotNil(t, renderer.lastData)
	chat, ok := renderer.lastData["Chat"].(ChatPanel)
	require.True(t, ok)
	assert.Len(t, chat.Messages, 2)

	viewer, ok := renderer.lastData["Viewer"].(ViewerContext)
	require.True(t, ok)
	assert.Equal(t, "testuser", viewer.Username)
}

func TestTemplatePayloadStampsSendTimes(t *testing.T) {
	t.Parallel()

	client := &stubClient{reply: ChatReply{AIResponse: "ok"}}
	ctrl := newTestController(t, client)

	_, ok := ctrl.SendMessage(context.Background(), "hi")
	require.True(t, ok)

	payload := ctrl.TemplatePayload(context.Background())
	require.Len(t, payload.Chat.Messages, 2)
	for _, bubble := range payload.Chat.Messages {
		assert.Regexp(t, `^\d{2}:\d{2}$`, bubble.SentAt)
		assert.NotEmpty(t, bubble.ID)
	}
}

func TestTemplatePayloadIncludesChartSections(t *testing.T) {
	t.Parallel()

	payload := summaryPayload()
	payload.Visualizations = map[string]ChartDataset{
		"financial_health_gauge": {Type: "gauge", Value: 85},
	}
	client := &stubClient{payload: payload}
	ctrl := newTestController(t, client, func(o *Options) { o.Charts = stubRenderer{} })

	view := ctrl.LoadInsights(context.Background())
	require.Equal(t, StateRendered, view.State)

	rendered := ctrl.TemplatePayload(context.Background())
	require.Len(t, rendered.Insights.Charts, 1)
	assert.Equal(t, "assistant.surface.health_gauge", rendered.Insights.Charts[0].SurfaceID)
	assert.Equal(t, "Financial Health Score", rendered.Insights.Charts[0].Title)
	assert.Contains(t, rendered.Insights.Charts[0].HTML, "financial_health_gauge")
}

func TestTemplatePayloadOmitsChartsAfterFailedRefresh(t *testing.T) {
	t.Parallel()

	payload := summaryPayload()
	payload.Visualizations = map[string]ChartDataset{
		"financial_health_gauge": {Type: "gauge", Value: 85},
	}
	client := &stubClient{payload: payload}
	ctrl := newTestController(t, client, func(o *Options) { o.Charts = stubRenderer{} })

	view := ctrl.LoadInsights(context.Background())
	require.Equal(t, StateRendered, view.State)
	require.Len(t, ctrl.TemplatePayload(context.Background()).Insights.Charts, 1)

	client.loadErr = errors.New("http 502")
	view = ctrl.RefreshInsights(context.Background())
	require.Equal(t, StateErrored, view.State)

	rendered := ctrl.TemplatePayload(context.Background())
	assert.Equal(t, "errored", rendered.Insights.State)
	assert.Empty(t, rendered.Insights.Charts, "an errored panel carries no stale chart sections")
	assert.Equal(t, InsightsErrorText, rendered.Insights.Error)
}
