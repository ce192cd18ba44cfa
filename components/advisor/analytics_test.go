package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

func testProfile() bankdata.Profile {
	return bankdata.Profile{
		Username: "testuser",
		Balance:  bankdata.Balance{Amount: 1250.75, Currency: "USD"},
		Transactions: []bankdata.Transaction{
			{Amount: "+2500.00", RawAmount: 250000, Description: "Salary Deposit", Timestamp: "2026-08-01T09:00:00Z"},
			{Amount: "-45.30", RawAmount: 4530, Description: "Coffee Shop", Timestamp: "2026-08-02T10:30:00Z"},
			{Amount: "-120.00", RawAmount: 12000, Description: "Grocery Store", Timestamp: "2026-08-03T16:45:00Z"},
			{Amount: "-85.50", RawAmount: 8550, Description: "Gas Station", Timestamp: "2026-07-12T18:20:00Z"},
			{Amount: "-60.00", RawAmount: 6000, Description: "Payment to Alice Johnson", Timestamp: "2026-07-15T12:00:00Z"},
		},
	}
}

func TestComputeAnalyticsMonthlySplit(t *testing.T) {
	t.Parallel()

	analytics := ComputeAnalytics(testProfile())

	assert.Equal(t, 5, analytics.TotalTransactions)
	assert.Equal(t, 1250.75, analytics.CurrentBalance)

	assert.Equal(t, map[string]float64{"2026-08": 2500.00}, analytics.IncomeByMonth)
	assert.InDelta(t, 165.30, analytics.SpendingByMonth["2026-08"], 0.001)
	assert.InDelta(t, 145.50, analytics.SpendingByMonth["2026-07"], 0.001)

	assert.InDelta(t, 2500.00, analytics.TotalIncome, 0.001)
	assert.InDelta(t, 310.80, analytics.TotalSpending, 0.001)
	assert.InDelta(t, 2189.20, analytics.NetChange, 0.001)
}

func TestComputeAnalyticsTracksContacts(t *testing.T) {
	t.Parallel()

	analytics := ComputeAnalytics(testProfile())

	activity, ok := analytics.ContactActivity["Alice"]
	require.True(t, ok)
	assert.Equal(t, 1, activity.Count)
	assert.InDelta(t, 60.0, activity.TotalAmount, 0.001)
	assert.Equal(t, "expense", activity.Type)
}

func TestHealthScoreClamped(t *testing.T) {
	t.Parallel()

	analytics := ComputeAnalytics(bankdata.Profile{
		Balance: bankdata.Balance{Amount: 50000},
		Transactions: []bankdata.Transaction{
			{Amount: "+1000.00", RawAmount: 100000, Description: "Salary Deposit", Timestamp: "2026-08-01T09:00:00Z"},
		},
	})
	assert.LessOrEqual(t, analytics.HealthScore, 100)
	assert.GreaterOrEqual(t, analytics.HealthScore, 0)

	// Heavy overspending drives the raw score negative.
	analytics = ComputeAnalytics(bankdata.Profile{
		Transactions: []bankdata.Transaction{
			{Amount: "+10.00", RawAmount: 1000, Description: "Deposit", Timestamp: "2026-08-01T09:00:00Z"},
			{Amount: "-500.00", RawAmount: 50000, Description: "Rent", Timestamp: "2026-08-02T09:00:00Z"},
		},
	})
	assert.Equal(t, 0, analytics.HealthScore)
}

func TestCategorizeTransaction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		want        string
	}{
		{"Salary Deposit", "Income"},
		{"Coffee Shop", "Food & Dining"},
		{"Grocery Store", "Food & Dining"},
		{"Gas Station", "Transportation"},
		{"Amazon order", "Shopping"},
		{"Monthly rent", "Housing"},
		{"Transfer to account 123", "Transfers"},
		{"Payment to Bob", "Transfers"},
		{"Mystery charge", "Other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategorizeTransaction(tc.description), "description %q", tc.description)
	}
}

func TestCategorizeTransactionPriorityOrder(t *testing.T) {
	t.Parallel()

	// "received from" outranks the Transfers keywords even though both match.
	assert.Equal(t, "Income", CategorizeTransaction("Transfer received from Alice"))
}

func TestExtractContact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		want        string
	}{
		{"Payment from Alice Johnson", "Alice"},
		{"Payment to Bob Smith", "Bob"},
		{"Carol (monthly split)", "Carol"},
		{"Transfer to account 5555555555", ""},
		{"Coffee Shop", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractContact(tc.description), "description %q", tc.description)
	}
}

func TestAnalyzeSpending(t *testing.T) {
	t.Parallel()

	analysis := AnalyzeSpending(testProfile())

	assert.InDelta(t, 310.80, analysis.TotalSpending, 0.001)
	assert.InDelta(t, 77.70, analysis.AverageSpending, 0.001)
	assert.InDelta(t, 165.30, analysis.ByCategory["Food & Dining"], 0.001)
	assert.InDelta(t, 85.50, analysis.ByCategory["Transportation"], 0.001)
	assert.Equal(t, "Food & Dining", analysis.TopCategory)
	assert.InDelta(t, 165.30, analysis.ByMonth["2026-08"], 0.001)
}

func TestAnalyzeSpendingEmptyProfile(t *testing.T) {
	t.Parallel()

	analysis := AnalyzeSpending(bankdata.Profile{})

	assert.Zero(t, analysis.TotalSpending)
	assert.Zero(t, analysis.AverageSpending)
	assert.Equal(t, "No data", analysis.TopCategory)
}
