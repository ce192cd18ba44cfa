// Package advisor implements the financial advisor service behind the
// assistant widget: analytics over account data, chart datasets, and
// AI-generated narratives and chat replies.
package advisor

import "context"

// Analytics is the derived view of one account's recent activity.
type Analytics struct {
	CurrentBalance    float64                    `json:"current_balance"`
	TotalTransactions int                        `json:"total_transactions"`
	SpendingByMonth   map[string]float64         `json:"spending_by_month"`
	IncomeByMonth     map[string]float64         `json:"income_by_month"`
	Categories        map[string]float64         `json:"transaction_categories"`
	ContactActivity   map[string]ContactActivity `json:"contact_analysis"`
	TotalIncome       float64                    `json:"total_income"`
	TotalSpending     float64                    `json:"total_spending"`
	NetChange         float64                    `json:"net_change"`
	HealthScore       int                        `json:"financial_health_score"`
}

// ContactActivity aggregates transfers to or from one named contact.
type ContactActivity struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
	Type        string  `json:"type"`
}

// Dataset is one named chart payload. Series charts populate Data; gauge
// charts populate Value.
type Dataset struct {
	Type  string             `json:"type"`
	Title string             `json:"title"`
	Data  map[string]float64 `json:"data,omitempty"`
	Value float64            `json:"value,omitempty"`
}

// Summary is the headline block of an insights response.
type Summary struct {
	Balance     float64 `json:"balance"`
	HealthScore int     `json:"health_score"`
	NetChange   float64 `json:"net_change"`
	TopCategory string  `json:"top_category"`
}

// InsightsResponse is the full payload served by the insights endpoint.
type InsightsResponse struct {
	Username       string             `json:"username"`
	Insights       string             `json:"insights"`
	Analytics      Analytics          `json:"analytics"`
	Visualizations map[string]Dataset `json:"visualizations"`
	Summary        *Summary           `json:"summary,omitempty"`
	Timestamp      string             `json:"timestamp"`
}

// ChatResponse is the payload served by the chat endpoint.
type ChatResponse struct {
	Username    string `json:"username"`
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
}

// SpendingAnalysisResponse is the payload served by the spending analysis
// endpoint.
type SpendingAnalysisResponse struct {
	Username  string           `json:"username"`
	Analysis  SpendingAnalysis `json:"analysis"`
	Timestamp string           `json:"timestamp"`
}

// SpendingAnalysis breaks down outgoing activity by category and month.
type SpendingAnalysis struct {
	TotalSpending   float64            `json:"total_spending"`
	ByCategory      map[string]float64 `json:"by_category"`
	ByMonth         map[string]float64 `json:"by_month"`
	TopCategory     string             `json:"top_category"`
	AverageSpending float64            `json:"average_transaction"`
}

// Generator produces AI text from a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Telemetry records advisor events for observability.
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
