package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

// Fixed texts served when generation is unconfigured or failing. The widget
// renders these verbatim.
const (
	InsightsUnavailableText = "AI insights are currently unavailable. Please check configuration."
	ChatUnavailableText     = "AI chat is currently unavailable. Please check configuration."
	InsightsFailureText     = "I'm having trouble analyzing your financial data right now. Please try again later."
	ChatFailureText         = "I'm sorry, I'm having trouble understanding your request right now. Please try again."
)

// ProfileFetcher resolves account data for a username.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username, authToken string) bankdata.Profile
}

// Options configures the advisor service. Bank is required; a nil Generator
// serves the unavailable texts instead of erroring.
type Options struct {
	Bank      ProfileFetcher
	Generator Generator
	Cache     InsightsCache
	Telemetry Telemetry
	Clock     func() time.Time
}

func (opts *Options) applyDefaults() {
	if opts.Cache == nil {
		opts.Cache = noopCache{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
}

// Service implements the advisor operations behind the HTTP endpoints.
type Service struct {
	opts Options
}

// NewService builds the advisor service.
func NewService(opts Options) (*Service, error) {
	if opts.Bank == nil {
		return nil, fmt.Errorf("advisor: profile fetcher is required")
	}
	opts.applyDefaults()
	return &Service{opts: opts}, nil
}

// Ready reports whether AI generation is configured.
func (s *Service) Ready() bool {
	return s.opts.Generator != nil
}

// GenerateInsights builds the full insights payload for a username. Results
// are cached per username; generation failures fall back to the fixed
// failure text with empty sections.
func (s *Service) GenerateInsights(ctx context.Context, username string) InsightsResponse {
	if cached, ok := s.opts.Cache.Get(ctx, username); ok {
		s.opts.Telemetry.Record(ctx, "advisor.insights.cache_hit", map[string]any{"username": username})
		return cached
	}

	timestamp := s.opts.Clock().UTC().Format(time.RFC3339)
	if s.opts.Generator == nil {
		return InsightsResponse{
			Username:       username,
			Insights:       InsightsUnavailableText,
			Visualizations: map[string]Dataset{},
			Timestamp:      timestamp,
		}
	}

	profile := s.opts.Bank.FetchProfile(ctx, username, bankdata.DemoToken)
	analytics := ComputeAnalytics(profile)
	visualizations := BuildVisualizations(analytics)

	narrative, err := s.opts.Generator.GenerateText(ctx, insightsPrompt(analytics))
	if err != nil {
		s.opts.Telemetry.Record(ctx, "advisor.insights.generation_error", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return InsightsResponse{
			Username:       username,
			Insights:       InsightsFailureText,
			Visualizations: map[string]Dataset{},
			Timestamp:      timestamp,
		}
	}

	response := InsightsResponse{
		Username:       username,
		Insights:       narrative,
		Analytics:      analytics,
		Visualizations: visualizations,
		Summary: &Summary{
			Balance:     analytics.CurrentBalance,
			HealthScore: analytics.HealthScore,
			NetChange:   analytics.NetChange,
			TopCategory: topCategory(analytics.Categories),
		},
		Timestamp: timestamp,
	}
	s.opts.Cache.Set(ctx, username, response)
	s.opts.Telemetry.Record(ctx, "advisor.insights.generated", map[string]any{
		"username":     username,
		"health_score": analytics.HealthScore,
	})
	return response
}

// Chat answers one user question grounded in the account's recent activity.
func (s *Service) Chat(ctx context.Context, username, message string) ChatResponse {
	timestamp := s.opts.Clock().UTC().Format(time.RFC3339)
	response := ChatResponse{
		Username:    username,
		UserMessage: message,
		Timestamp:   timestamp,
	}
	if s.opts.Generator == nil {
		response.AIResponse = ChatUnavailableText
		return response
	}

	profile := s.opts.Bank.FetchProfile(ctx, username, bankdata.DemoToken)
	reply, err := s.opts.Generator.GenerateText(ctx, s.chatPrompt(message, profile))
	if err != nil {
		s.opts.Telemetry.Record(ctx, "advisor.chat.generation_error", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		response.AIResponse = ChatFailureText
		return response
	}
	response.AIResponse = reply
	s.opts.Telemetry.Record(ctx, "advisor.chat.replied", map[string]any{"username": username})
	return response
}

// SpendingAnalysis summarizes outgoing activity for a username using the
// caller's auth token.
func (s *Service) SpendingAnalysis(ctx context.Context, username, authToken string) SpendingAnalysisResponse {
	profile := s.opts.Bank.FetchProfile(ctx, username, authToken)
	return SpendingAnalysisResponse{
		Username:  username,
		Analysis:  AnalyzeSpending(profile),
		Timestamp: s.opts.Clock().UTC().Format(time.RFC3339),
	}
}

func insightsPrompt(analytics Analytics) string {
	var b strings.Builder
	b.WriteString("You are a professional financial advisor AI for a retail bank.\n")
	b.WriteString("Analyze this financial data and provide detailed, actionable insights.\n")
	b.WriteString("Be specific, encouraging, and provide concrete recommendations.\n\n")
	b.WriteString("FINANCIAL PROFILE:\n")
	fmt.Fprintf(&b, "- Current Balance: $%.2f\n", analytics.CurrentBalance)
	fmt.Fprintf(&b, "- Total Income: $%.2f\n", analytics.TotalIncome)
	fmt.Fprintf(&b, "- Total Spending: $%.2f\n", analytics.TotalSpending)
	fmt.Fprintf(&b, "- Net Change: $%.2f\n", analytics.NetChange)
	fmt.Fprintf(&b, "- Financial Health Score: %d/100\n", analytics.HealthScore)
	fmt.Fprintf(&b, "- Total Transactions: %d\n\n", analytics.TotalTransactions)
	b.WriteString("MONTHLY TRENDS:\n")
	fmt.Fprintf(&b, "- Spending by Month: %s\n", formatSeries(analytics.SpendingByMonth))
	fmt.Fprintf(&b, "- Income by Month: %s\n\n", formatSeries(analytics.IncomeByMonth))
	b.WriteString("SPENDING CATEGORIES:\n")
	fmt.Fprintf(&b, "%s\n\n", formatSeries(analytics.Categories))
	b.WriteString("Please cover: financial health assessment, spending analysis, income trends, ")
	b.WriteString("budget recommendations, savings opportunities, goal setting, and risk assessment.\n")
	b.WriteString("Format as a readable financial report with bullet points and clear sections.\n")
	b.WriteString("Be encouraging while being realistic about areas for improvement.\n")
	return b.String()
}

func (s *Service) chatPrompt(message string, profile bankdata.Profile) string {
	currentMonth := s.opts.Clock().UTC().Format("2006-01")
	var monthlySpent, monthlyReceived float64
	for _, tx := range profile.Transactions {
		if !strings.HasPrefix(tx.Timestamp, currentMonth) {
			continue
		}
		amount, income, ok := transactionAmount(tx)
		if !ok {
			continue
		}
		if income {
			monthlyReceived += amount
		} else {
			monthlySpent += amount
		}
	}

	var b strings.Builder
	b.WriteString("You are a helpful banking AI assistant.\n")
	fmt.Fprintf(&b, "The user has asked: %q\n\n", message)
	b.WriteString("Current Account Information:\n")
	fmt.Fprintf(&b, "- Balance: $%.2f\n", profile.Balance.Amount)
	fmt.Fprintf(&b, "- Total Transactions: %d\n", len(profile.Transactions))
	fmt.Fprintf(&b, "- This Month's Spending: $%.2f\n", monthlySpent)
	fmt.Fprintf(&b, "- This Month's Income: $%.2f\n\n", monthlyReceived)
	b.WriteString("Recent Transaction History (last 10):\n")
	limit := len(profile.Transactions)
	if limit > 10 {
		limit = 10
	}
	for _, tx := range profile.Transactions[:limit] {
		day := tx.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}
		fmt.Fprintf(&b, "- %s: %s - $%s\n", day, tx.Description, tx.Amount)
	}
	b.WriteString("\nUser's Contacts:\n")
	for _, contact := range profile.Contacts {
		fmt.Fprintf(&b, "- %s: Account %s\n", contact.Label, contact.AccountNum)
	}
	b.WriteString("\nProvide a helpful, accurate, and specific response to their question.\n")
	b.WriteString("Use the actual data provided above to answer questions about balances, transactions, spending, or contacts.\n")
	b.WriteString("Keep responses friendly and professional.\n")
	return b.String()
}

// formatSeries renders a map deterministically for prompts.
func formatSeries(series map[string]float64) string {
	if len(series) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %.2f", key, series[key]))
	}
	return strings.Join(parts, ", ")
}
