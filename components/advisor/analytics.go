package advisor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

// balanceTarget normalizes the balance component of the health score.
const balanceTarget = 5000.0

// ComputeAnalytics derives monthly trends, category totals, contact activity,
// and the health score from an account profile.
func ComputeAnalytics(profile bankdata.Profile) Analytics {
	analytics := Analytics{
		CurrentBalance:    profile.Balance.Amount,
		TotalTransactions: len(profile.Transactions),
		SpendingByMonth:   map[string]float64{},
		IncomeByMonth:     map[string]float64{},
		Categories:        map[string]float64{},
		ContactActivity:   map[string]ContactActivity{},
	}

	for _, tx := range profile.Transactions {
		amount, income, ok := transactionAmount(tx)
		if !ok {
			continue
		}

		if len(tx.Timestamp) >= 7 {
			month := tx.Timestamp[:7]
			if income {
				analytics.IncomeByMonth[month] += amount
				analytics.TotalIncome += amount
			} else {
				analytics.SpendingByMonth[month] += amount
				analytics.TotalSpending += amount
			}
		}

		category := CategorizeTransaction(tx.Description)
		analytics.Categories[category] += amount

		if contact := extractContact(tx.Description); contact != "" {
			activity := analytics.ContactActivity[contact]
			activity.Count++
			activity.TotalAmount += amount
			if income {
				activity.Type = "income"
			} else if activity.Type == "" {
				activity.Type = "expense"
			}
			analytics.ContactActivity[contact] = activity
		}
	}

	analytics.NetChange = analytics.TotalIncome - analytics.TotalSpending
	analytics.HealthScore = healthScore(analytics)
	return analytics
}

// transactionAmount resolves the absolute dollar amount and direction of a
// transaction, preferring the raw cent value when present.
func transactionAmount(tx bankdata.Transaction) (amount float64, income, ok bool) {
	if tx.RawAmount != 0 {
		return math.Abs(float64(tx.RawAmount) / 100.0), strings.HasPrefix(tx.Amount, "+"), true
	}
	parsed, err := strconv.ParseFloat(tx.Amount, 64)
	if err != nil {
		return 0, false, false
	}
	return math.Abs(parsed), parsed > 0, true
}

// healthScore blends savings rate, balance cushion, and category diversity
// into a 0 to 100 score.
func healthScore(analytics Analytics) int {
	var savingsRate float64
	if analytics.TotalIncome > 0 {
		savingsRate = (analytics.TotalIncome - analytics.TotalSpending) / analytics.TotalIncome
	}
	balanceRatio := math.Min(analytics.CurrentBalance/balanceTarget, 1)
	diversity := math.Min(float64(len(analytics.Categories))/5, 1)

	score := int(savingsRate*40 + balanceRatio*40 + diversity*20)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Income", []string{"salary", "deposit", "income", "received from"}},
	{"Food & Dining", []string{"grocery", "food", "restaurant", "coffee"}},
	{"Transportation", []string{"gas", "fuel", "transport", "uber", "taxi"}},
	{"Shopping", []string{"shopping", "retail", "amazon", "store"}},
	{"Housing", []string{"rent", "mortgage", "utilities", "electric", "water"}},
	{"Transfers", []string{"transfer", "sent to", "payment"}},
}

// CategorizeTransaction maps a transaction description to a spending
// category. Keyword groups are checked in priority order; unmatched
// descriptions fall into Other.
func CategorizeTransaction(description string) string {
	lower := strings.ToLower(description)
	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.category
			}
		}
	}
	return "Other"
}

var contactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`from\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`to\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+)\s+\(`),
}

// extractContact pulls a contact first name out of a transaction
// description, matching phrasings like "Payment from Alice".
func extractContact(description string) string {
	for _, pattern := range contactPatterns {
		if match := pattern.FindStringSubmatch(description); match != nil {
			return match[1]
		}
	}
	return ""
}

// AnalyzeSpending summarizes outgoing activity for the spending analysis
// endpoint.
func AnalyzeSpending(profile bankdata.Profile) SpendingAnalysis {
	analysis := SpendingAnalysis{
		ByCategory: map[string]float64{},
		ByMonth:    map[string]float64{},
	}

	var count int
	for _, tx := range profile.Transactions {
		amount, income, ok := transactionAmount(tx)
		if !ok || income {
			continue
		}
		count++
		analysis.TotalSpending += amount
		analysis.ByCategory[CategorizeTransaction(tx.Description)] += amount
		if len(tx.Timestamp) >= 7 {
			analysis.ByMonth[tx.Timestamp[:7]] += amount
		}
	}
	if count > 0 {
		analysis.AverageSpending = analysis.TotalSpending / float64(count)
	}
	analysis.TopCategory = topCategory(analysis.ByCategory)
	return analysis
}

// topCategory returns the highest-total category, or "No data" when nothing
// was categorized. Ties break alphabetically so the result is stable.
func topCategory(categories map[string]float64) string {
	top := "No data"
	var best float64
	for category, total := range categories {
		if total > best || (total == best && top != "No data" && category < top) {
			top = category
			best = total
		}
	}
	return top
}
