package assistantapi

import (
	"context"

	advisor "github.com/balajinrrbgm/go-assistant-widget/components/advisor"
	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// LocalClient serves the widget directly from an in-process advisor service,
// skipping the HTTP hop when both run in one binary.
type LocalClient struct {
	service *advisor.Service
}

// NewLocalClient wraps an advisor service as an assistant.Client.
func NewLocalClient(service *advisor.Service) *LocalClient {
	return &LocalClient{service: service}
}

var _ assistant.Client = (*LocalClient)(nil)

// Chat runs one chat turn against the advisor.
func (c *LocalClient) Chat(ctx context.Context, req assistant.ChatRequest) (assistant.ChatReply, error) {
	response := c.service.Chat(ctx, req.Username, req.Message)
	return assistant.ChatReply{AIResponse: response.AIResponse}, nil
}

// Insights fetches the insights payload for a username.
func (c *LocalClient) Insights(ctx context.Context, username string) (assistant.InsightsPayload, error) {
	response := c.service.GenerateInsights(ctx, username)
	payload := assistant.InsightsPayload{
		Insights:  response.Insights,
		Timestamp: response.Timestamp,
	}
	if response.Summary != nil {
		payload.Summary = &assistant.InsightsSummary{
			Balance:     response.Summary.Balance,
			HealthScore: response.Summary.HealthScore,
			NetChange:   response.Summary.NetChange,
			TopCategory: response.Summary.TopCategory,
		}
	}
	if len(response.Visualizations) > 0 {
		payload.Visualizations = make(map[string]assistant.ChartDataset, len(response.Visualizations))
		for name, dataset := range response.Visualizations {
			payload.Visualizations[name] = assistant.ChartDataset{
				Type:  dataset.Type,
				Title: dataset.Title,
				Data:  dataset.Data,
				Value: dataset.Value,
			}
		}
	}
	return payload, nil
}
