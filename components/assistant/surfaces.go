package assistant

import (
	"fmt"
	"sort"
	"sync"
)

// SurfaceDefinition describes one chart surface in the insights panel: the
// named dataset it is bound to, the chart style used to render it, and an
// optional configuration schema for manifest entries.
type SurfaceDefinition struct {
	ID        string         `json:"id" yaml:"id"`
	Dataset   string         `json:"dataset" yaml:"dataset"`
	ChartType string         `json:"chart_type" yaml:"chart_type"`
	Title     string         `json:"title" yaml:"title"`
	Schema    map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// SurfaceHook lets packages register chart surfaces during init().
type SurfaceHook func(reg *SurfaceRegistry) error

var (
	surfaceHookMu sync.Mutex
	surfaceHooks  []SurfaceHook
)

// RegisterSurfaceHook registers a hook executed against new registries.
func RegisterSurfaceHook(h SurfaceHook) {
	surfaceHookMu.Lock()
	defer surfaceHookMu.Unlock()
	surfaceHooks = append(surfaceHooks, h)
}

// SurfaceRegistry maps payload dataset names to chart surfaces. One surface is
// bound to one dataset; rendering order follows registration order.
type SurfaceRegistry struct {
	mu        sync.RWMutex
	byDataset map[string]SurfaceDefinition
	byID      map[string]SurfaceDefinition
	order     []string
}

// NewSurfaceRegistry builds a registry pre-populated with the default
// surfaces and applies global hooks.
func NewSurfaceRegistry() *SurfaceRegistry {
	reg := &SurfaceRegistry{
		byDataset: map[string]SurfaceDefinition{},
		byID:      map[string]SurfaceDefinition{},
	}
	for _, def := range DefaultSurfaceDefinitions() {
		_ = reg.RegisterSurface(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered surface hooks.
func (r *SurfaceRegistry) ApplyHooks() error {
	surfaceHookMu.Lock()
	defer surfaceHookMu.Unlock()
	for _, hook := range surfaceHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSurface stores a surface definition, replacing any prior binding
// for the same dataset.
func (r *SurfaceRegistry) RegisterSurface(def SurfaceDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("assistant: surface id is required")
	}
	if def.Dataset == "" {
		return fmt.Errorf("assistant: surface %s is missing a dataset binding", def.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.byDataset[def.Dataset]; !seen {
		r.order = append(r.order, def.Dataset)
	}
	r.byDataset[def.Dataset] = def
	r.byID[def.ID] = def
	return nil
}

// SurfaceForDataset resolves the surface bound to a payload dataset name.
func (r *SurfaceRegistry) SurfaceForDataset(dataset string) (SurfaceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byDataset[dataset]
	return def, ok
}

// Surface resolves a surface definition by its id.
func (r *SurfaceRegistry) Surface(id string) (SurfaceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[id]
	return def, ok
}

// Surfaces returns all registered definitions in registration order.
func (r *SurfaceRegistry) Surfaces() []SurfaceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]SurfaceDefinition, 0, len(r.order))
	for _, dataset := range r.order {
		defs = append(defs, r.byDataset[dataset])
	}
	return defs
}

// DatasetOrder returns the dataset names a payload should be rendered in:
// registered datasets first (registration order), then any unregistered
// names sorted for determinism.
func (r *SurfaceRegistry) DatasetOrder(payload map[string]ChartDataset) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := make([]string, 0, len(payload))
	seen := make(map[string]struct{}, len(payload))
	for _, dataset := range r.order {
		if _, ok := payload[dataset]; ok {
			ordered = append(ordered, dataset)
			seen[dataset] = struct{}{}
		}
	}
	var extra []string
	for name := range payload {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}

// DefaultSurfaceDefinitions lists the surfaces the advisor payload populates.
func DefaultSurfaceDefinitions() []SurfaceDefinition {
	return []SurfaceDefinition{
		{
			ID:        "assistant.surface.spending_trend",
			Dataset:   "monthly_spending_chart",
			ChartType: "line",
			Title:     "Monthly Spending Trends",
		},
		{
			ID:        "assistant.surface.income_trend",
			Dataset:   "monthly_income_chart",
			ChartType: "line",
			Title:     "Monthly Income Trends",
		},
		{
			ID:        "assistant.surface.category_breakdown",
			Dataset:   "category_pie_chart",
			ChartType: "pie",
			Title:     "Spending by Category",
		},
		{
			ID:        "assistant.surface.income_vs_expense",
			Dataset:   "income_vs_expense_chart",
			ChartType: "bar",
			Title:     "Income vs Expenses Overview",
		},
		{
			ID:        "assistant.surface.health_gauge",
			Dataset:   "financial_health_gauge",
			ChartType: "gauge",
			Title:     "Financial Health Score",
		},
	}
}
