package advisor

// Dataset names served under the visualizations key. The widget binds chart
// surfaces to these names.
const (
	DatasetMonthlySpending = "monthly_spending_chart"
	DatasetMonthlyIncome   = "monthly_income_chart"
	DatasetCategoryPie     = "category_pie_chart"
	DatasetIncomeVsExpense = "income_vs_expense_chart"
	DatasetHealthGauge     = "financial_health_gauge"
)

// BuildVisualizations shapes analytics into the five chart datasets the
// widget renders.
func BuildVisualizations(analytics Analytics) map[string]Dataset {
	return map[string]Dataset{
		DatasetMonthlySpending: {
			Type:  "line",
			Title: "Monthly Spending Trends",
			Data:  analytics.SpendingByMonth,
		},
		DatasetMonthlyIncome: {
			Type:  "line",
			Title: "Monthly Income Trends",
			Data:  analytics.IncomeByMonth,
		},
		DatasetCategoryPie: {
			Type:  "pie",
			Title: "Spending by Category",
			Data:  analytics.Categories,
		},
		DatasetIncomeVsExpense: {
			Type:  "bar",
			Title: "Income vs Expenses Overview",
			Data: map[string]float64{
				"Income":   analytics.TotalIncome,
				"Expenses": analytics.TotalSpending,
				"Net":      analytics.NetChange,
			},
		},
		DatasetHealthGauge: {
			Type:  "gauge",
			Title: "Financial Health Score",
			Value: float64(analytics.HealthScore),
		},
	}
}
