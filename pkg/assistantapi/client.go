// Package assistantapi provides a typed HTTP client for the advisor service
// endpoints the widget consumes.
package assistantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// Config configures the HTTP advisor client.
type Config struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

// HTTPClient talks to a remote advisor service via its REST endpoints.
type HTTPClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

// NewHTTPClient builds a client capable of hitting a live advisor service.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("assistantapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL:   cfg.BaseURL,
		authToken: cfg.AuthToken,
		client:    httpClient,
	}, nil
}

var _ assistant.Client = (*HTTPClient)(nil)

// Chat sends one chat turn to the advisor.
func (c *HTTPClient) Chat(ctx context.Context, req assistant.ChatRequest) (assistant.ChatReply, error) {
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/chat", req, &resp); err != nil {
		return assistant.ChatReply{}, err
	}
	return assistant.ChatReply{AIResponse: resp.AIResponse}, nil
}

// Insights fetches the insights payload for a username.
func (c *HTTPClient) Insights(ctx context.Context, username string) (assistant.InsightsPayload, error) {
	path := "/api/ai/insights/" + url.PathEscape(username)
	var resp insightsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return assistant.InsightsPayload{}, err
	}
	return resp.toPayload(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("assistantapi: encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("assistantapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("assistantapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("assistantapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("assistantapi: decode response: %w", err)
	}
	return nil
}

type chatResponse struct {
	AIResponse string `json:"ai_response"`
}

type insightsSummary struct {
	Balance     float64 `json:"balance"`
	HealthScore int     `json:"health_score"`
	NetChange   float64 `json:"net_change"`
	TopCategory string  `json:"top_category"`
}

type insightsDataset struct {
	Type  string             `json:"type"`
	Title string             `json:"title,omitempty"`
	Data  map[string]float64 `json:"data,omitempty"`
	Value float64            `json:"value,omitempty"`
}

type insightsResponse struct {
	Summary        *insightsSummary           `json:"summary,omitempty"`
	Visualizations map[string]insightsDataset `json:"visualizations,omitempty"`
	Insights       string                     `json:"insights,omitempty"`
	Timestamp      string                     `json:"timestamp,omitempty"`
}

func (r insightsResponse) toPayload() assistant.InsightsPayload {
	payload := assistant.InsightsPayload{
		Insights:  r.Insights,
		Timestamp: r.Timestamp,
	}
	if r.Summary != nil {
		payload.Summary = &assistant.InsightsSummary{
			Balance:     r.Summary.Balance,
			HealthScore: r.Summary.HealthScore,
			NetChange:   r.Summary.NetChange,
			TopCategory: r.Summary.TopCategory,
		}
	}
	if len(r.Visualizations) > 0 {
		payload.Visualizations = make(map[string]assistant.ChartDataset, len(r.Visualizations))
		for name, dataset := range r.Visualizations {
			payload.Visualizations[name] = assistant.ChartDataset{
				Type:  dataset.Type,
				Title: dataset.Title,
				Data:  dataset.Data,
				Value: dataset.Value,
			}
		}
	}
	return payload
}
