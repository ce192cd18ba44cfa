package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

type stubBank struct {
	profile bankdata.Profile
	calls   int
	tokens  []string
}

func (b *stubBank) FetchProfile(_ context.Context, username, authToken string) bankdata.Profile {
	b.calls++
	b.tokens = append(b.tokens, authToken)
	profile := b.profile
	profile.Username = username
	return profile
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	}
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = fixedClock()
	}
	service, err := NewService(opts)
	require.NoError(t, err)
	return service
}

func TestNewServiceRequiresBank(t *testing.T) {
	t.Parallel()

	_, err := NewService(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile fetcher is required")
}

func TestGenerateInsightsWithoutGenerator(t *testing.T) {
	t.Parallel()

	bank := &stubBank{}
	service := newTestService(t, Options{Bank: bank})

	response := service.GenerateInsights(context.Background(), "testuser")

	assert.False(t, service.Ready())
	assert.Equal(t, InsightsUnavailableText, response.Insights)
	assert.NotNil(t, response.Visualizations)
	assert.Empty(t, response.Visualizations)
	assert.Nil(t, response.Summary)
	assert.Equal(t, "2026-08-26T10:00:00Z", response.Timestamp)
	assert.Zero(t, bank.calls)
}

func TestGenerateInsightsSuccess(t *testing.T) {
	t.Parallel()

	bank := &stubBank{profile: bankdata.Profile{
		Balance: bankdata.Balance{Amount: 1250.75, Currency: "USD"},
		Transactions: []bankdata.Transaction{
			{Amount: "+2500.00", RawAmount: 250000, Description: "Salary Deposit", Timestamp: "2026-08-01T09:00:00Z"},
			{Amount: "-45.30", RawAmount: 4530, Description: "Coffee Shop", Timestamp: "2026-08-02T10:30:00Z"},
		},
	}}
	generator := &stubGenerator{text: "**Summary**: strong month."}
	service := newTestService(t, Options{Bank: bank, Generator: generator})

	response := service.GenerateInsights(context.Background(), "testuser")

	assert.True(t, service.Ready())
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "**Summary**: strong month.", response.Insights)
	assert.Len(t, response.Visualizations, 5)

	require.NotNil(t, response.Summary)
	assert.Equal(t, 1250.75, response.Summary.Balance)
	assert.InDelta(t, 2454.70, response.Summary.NetChange, 0.001)
	assert.Equal(t, "Income", response.Summary.TopCategory)

	// Prompt carries the computed analytics.
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Current Balance: $1250.75")
	assert.Contains(t, generator.prompts[0], "Total Income: $2500.00")

	// Profile fetch uses the demo credential flow.
	require.Len(t, bank.tokens, 1)
	assert.Equal(t, bankdata.DemoToken, bank.tokens[0])
}

func TestGenerateInsightsGenerationFailure(t *testing.T) {
	t.Parallel()

	bank := &stubBank{}
	generator := &stubGenerator{err: errors.New("quota exceeded")}
	service := newTestService(t, Options{Bank: bank, Generator: generator})

	response := service.GenerateInsights(context.Background(), "testuser")

	assert.Equal(t, InsightsFailureText, response.Insights)
	assert.Empty(t, response.Visualizations)
	assert.Nil(t, response.Summary)
}

func TestGenerateInsightsUsesCache(t *testing.T) {
	t.Parallel()

	bank := &stubBank{}
	generator := &stubGenerator{text: "narrative"}
	cache := NewMemoryCache(time.Minute)
	service := newTestService(t, Options{Bank: bank, Generator: generator, Cache: cache})

	first := service.GenerateInsights(context.Background(), "testuser")
	second := service.GenerateInsights(context.Background(), "testuser")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, bank.calls)
	assert.Len(t, generator.prompts, 1)
}

func TestGenerateInsightsDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	bank := &stubBank{}
	generator := &stubGenerator{err: errors.New("quota exceeded")}
	cache := NewMemoryCache(time.Minute)
	service := newTestService(t, Options{Bank: bank, Generator: generator, Cache: cache})

	_ = service.GenerateInsights(context.Background(), "testuser")

	generator.err = nil
	generator.text = "recovered"
	response := service.GenerateInsights(context.Background(), "testuser")
	assert.Equal(t, "recovered", response.Insights)
}

func TestChatWithoutGenerator(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Options{Bank: &stubBank{}})

	response := service.Chat(context.Background(), "testuser", "what's my balance?")

	assert.Equal(t, ChatUnavailableText, response.AIResponse)
	assert.Equal(t, "what's my balance?", response.UserMessage)
}

func TestChatPromptCarriesAccountContext(t *testing.T) {
	t.Parallel()

	bank := &stubBank{profile: bankdata.Profile{
		Balance: bankdata.Balance{Amount: 1250.75, Currency: "USD"},
		Transactions: []bankdata.Transaction{
			{Amount: "+2500.00", RawAmount: 250000, Description: "Salary Deposit", Timestamp: "2026-08-01T09:00:00Z"},
			{Amount: "-45.30", RawAmount: 4530, Description: "Coffee Shop", Timestamp: "2026-08-02T10:30:00Z"},
			{Amount: "-120.00", RawAmount: 12000, Description: "Grocery Store", Timestamp: "2026-07-14T16:45:00Z"},
		},
		Contacts: []bankdata.Contact{
			{Label: "Alice Johnson", AccountNum: "1234567890"},
		},
	}}
	generator := &stubGenerator{text: "You spent $45.30 on coffee."}
	service := newTestService(t, Options{Bank: bank, Generator: generator})

	response := service.Chat(context.Background(), "testuser", "how much coffee?")
	assert.Equal(t, "You spent $45.30 on coffee.", response.AIResponse)

	require.Len(t, generator.prompts, 1)
	prompt := generator.prompts[0]
	assert.Contains(t, prompt, `The user has asked: "how much coffee?"`)
	assert.Contains(t, prompt, "Balance: $1250.75")
	// Only August activity counts toward the current month.
	assert.Contains(t, prompt, "This Month's Spending: $45.30")
	assert.Contains(t, prompt, "This Month's Income: $2500.00")
	assert.Contains(t, prompt, "2026-08-02: Coffee Shop - $-45.30")
	assert.Contains(t, prompt, "Alice Johnson: Account 1234567890")
}

func TestChatGenerationFailure(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{err: errors.New("timeout")}
	service := newTestService(t, Options{Bank: &stubBank{}, Generator: generator})

	response := service.Chat(context.Background(), "testuser", "hello")
	assert.Equal(t, ChatFailureText, response.AIResponse)
}

func TestSpendingAnalysisUsesCallerToken(t *testing.T) {
	t.Parallel()

	bank := &stubBank{profile: bankdata.Profile{
		Transactions: []bankdata.Transaction{
			{Amount: "-45.30", RawAmount: 4530, Description: "Coffee Shop", Timestamp: "2026-08-02T10:30:00Z"},
		},
	}}
	service := newTestService(t, Options{Bank: bank})

	response := service.SpendingAnalysis(context.Background(), "testuser", "caller-token")

	assert.Equal(t, "testuser", response.Username)
	assert.InDelta(t, 45.30, response.Analysis.TotalSpending, 0.001)
	assert.Equal(t, "Food & Dining", response.Analysis.TopCategory)
	require.Len(t, bank.tokens, 1)
	assert.Equal(t, "caller-token", bank.tokens[0])
}

func TestFormatSeries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(none)", formatSeries(nil))
	assert.Equal(t,
		"2026-07: 145.50, 2026-08: 165.30",
		formatSeries(map[string]float64{"2026-08": 165.30, "2026-07": 145.50}),
	)
	if !strings.Contains(formatSeries(map[string]float64{"Food & Dining": 10}), "Food & Dining: 10.00") {
		t.Fatalf("expected category formatting")
	}
}
