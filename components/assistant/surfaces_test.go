package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurfaceRegistryHasDefaults(t *testing.T) {
	t.Parallel()

	reg := NewSurfaceRegistry()

	defs := reg.Surfaces()
	require.Len(t, defs, len(DefaultSurfaceDefinitions()))

	gauge, ok := reg.SurfaceForDataset("financial_health_gauge")
	require.True(t, ok)
	assert.Equal(t, "assistant.surface.health_gauge", gauge.ID)
	assert.Equal(t, "gauge", gauge.ChartType)

	byID, ok := reg.Surface("assistant.surface.category_breakdown")
	require.True(t, ok)
	assert.Equal(t, "category_pie_chart", byID.Dataset)
}

func TestRegisterSurfaceValidation(t *testing.T) {
	t.Parallel()

	reg := NewSurfaceRegistry()

	err := reg.RegisterSurface(SurfaceDefinition{Dataset: "orphan_chart"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface id is required")

	err = reg.RegisterSurface(SurfaceDefinition{ID: "assistant.surface.orphan"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a dataset binding")
}

func TestRegisterSurfaceReplacesDatasetBinding(t *testing.T) {
	t.Parallel()

	reg := NewSurfaceRegistry()
	before := len(reg.Surfaces())

	require.NoError(t, reg.RegisterSurface(SurfaceDefinition{
		ID:        "assistant.surface.spending_v2",
		Dataset:   "monthly_spending_chart",
		ChartType: "bar",
		Title:     "Spending",
	}))

	assert.Len(t, reg.Surfaces(), before)
	def, ok := reg.SurfaceForDataset("monthly_spending_chart")
	require.True(t, ok)
	assert.Equal(t, "assistant.surface.spending_v2", def.ID)
	assert.Equal(t, "bar", def.ChartType)
}

func TestDatasetOrderFollowsRegistrationThenSortsExtras(t *testing.T) {
	t.Parallel()

	reg := NewSurfaceRegistry()
	require.NoError(t, reg.RegisterSurface(SurfaceDefinition{
		ID:        "assistant.surface.custom",
		Dataset:   "custom_chart",
		ChartType: "bar",
	}))

	payload := map[string]ChartDataset{
		"zz_unknown_chart":       {Type: "line"},
		"custom_chart":           {Type: "bar"},
		"financial_health_gauge": {Type: "gauge"},
		"monthly_spending_chart": {Type: "line"},
		"aa_unknown_chart":       {Type: "pie"},
	}

	order := reg.DatasetOrder(payload)
	assert.Equal(t, []string{
		"monthly_spending_chart",
		"financial_health_gauge",
		"custom_chart",
		"aa_unknown_chart",
		"zz_unknown_chart",
	}, order)
}
