package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVisualizationsShapesFiveDatasets(t *testing.T) {
	t.Parallel()

	analytics := Analytics{
		SpendingByMonth: map[string]float64{"2026-08": 165.30},
		IncomeByMonth:   map[string]float64{"2026-08": 2500.00},
		Categories:      map[string]float64{"Food & Dining": 165.30},
		TotalIncome:     2500.00,
		TotalSpending:   310.80,
		NetChange:       2189.20,
		HealthScore:     84,
	}

	viz := BuildVisualizations(analytics)
	require.Len(t, viz, 5)

	spending := viz[DatasetMonthlySpending]
	assert.Equal(t, "line", spending.Type)
	assert.Equal(t, "Monthly Spending Trends", spending.Title)
	assert.Equal(t, analytics.SpendingByMonth, spending.Data)

	income := viz[DatasetMonthlyIncome]
	assert.Equal(t, "line", income.Type)
	assert.Equal(t, "Monthly Income Trends", income.Title)

	pie := viz[DatasetCategoryPie]
	assert.Equal(t, "pie", pie.Type)
	assert.Equal(t, "Spending by Category", pie.Title)

	bar := viz[DatasetIncomeVsExpense]
	assert.Equal(t, "bar", bar.Type)
	assert.Equal(t, "Income vs Expenses Overview", bar.Title)
	assert.Equal(t, map[string]float64{
		"Income":   2500.00,
		"Expenses": 310.80,
		"Net":      2189.20,
	}, bar.Data)

	gauge := viz[DatasetHealthGauge]
	assert.Equal(t, "gauge", gauge.Type)
	assert.Equal(t, "Financial Health Score", gauge.Title)
	assert.Equal(t, 84.0, gauge.Value)
}
