package assistantapi

import (
	"context"
	"sync"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// MockData seeds deterministic advisor responses for tests or local demos.
type MockData struct {
	Reply    assistant.ChatReply
	Insights assistant.InsightsPayload
}

// MockClient implements assistant.Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock advisor client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var _ assistant.Client = (*MockClient)(nil)

// Chat returns the configured reply ignoring the request.
func (c *MockClient) Chat(context.Context, assistant.ChatRequest) (assistant.ChatReply, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Reply, nil
}

// Insights returns the configured payload ignoring the username.
func (c *MockClient) Insights(context.Context, string) (assistant.InsightsPayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clonePayload(c.data.Insights), nil
}

func clonePayload(payload assistant.InsightsPayload) assistant.InsightsPayload {
	out := assistant.InsightsPayload{
		Insights:  payload.Insights,
		Timestamp: payload.Timestamp,
	}
	if payload.Summary != nil {
		summary := *payload.Summary
		out.Summary = &summary
	}
	if len(payload.Visualizations) > 0 {
		out.Visualizations = make(map[string]assistant.ChartDataset, len(payload.Visualizations))
		for name, dataset := range payload.Visualizations {
			data := make(map[string]float64, len(dataset.Data))
			for k, v := range dataset.Data {
				data[k] = v
			}
			dataset.Data = data
			out.Visualizations[name] = dataset
		}
	}
	return out
}
