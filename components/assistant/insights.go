package assistant

import (
	"context"
)

// InsightsErrorText is the fixed error panel text shown in place of the
// narrative when a load fails.
const InsightsErrorText = "Unable to load your financial insights right now. Please try refreshing in a moment."

// InsightsState is the insights panel state machine:
// Idle -> Loading -> {Rendered | Errored}, re-entrant on refresh.
type InsightsState int

const (
	StateIdle InsightsState = iota
	StateLoading
	StateRendered
	StateErrored
)

func (s InsightsState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// SummaryCards is the materialized render state for the summary block.
type SummaryCards struct {
	Balance       string     `json:"balance"`
	HealthScore   int        `json:"health_score"`
	HealthTier    HealthTier `json:"health_tier"`
	NetChange     string     `json:"net_change"`
	NetChangeTone ChangeTone `json:"net_change_tone"`
	TopCategory   string     `json:"top_category"`
}

// InsightsView is the fully materialized render state of the insights panel.
// A load replaces the whole view; sections are shown exactly when their
// payload counterpart was present.
type InsightsView struct {
	State        InsightsState `json:"state"`
	Summary      *SummaryCards `json:"summary,omitempty"`
	HasCharts    bool          `json:"has_charts"`
	Narrative    string        `json:"narrative,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Timestamp    string        `json:"timestamp,omitempty"`
}

// LoadInsights fetches and renders the insights payload. It enters the
// loading state (hiding every result section), fetches, validates the payload
// at the boundary, renders each present section, and installs the new chart
// handles after releasing the previous ones.
//
// Loads are not cancelled when a newer one starts. Instead every load takes a
// monotonically increasing token; a load that finishes after a newer one
// began discards its result, so stale responses never overwrite newer state.
func (c *Controller) LoadInsights(ctx context.Context) InsightsView {
	token := c.beginLoad()
	c.broadcast(ctx, EventInsightsLoading, nil)

	payload, err := c.opts.Client.Insights(ctx, c.viewer.Username)
	if err == nil {
		err = c.opts.Validator.Validate(payload)
	}
	if err != nil {
		c.record(ctx, "assistant.insights.error", map[string]any{
			"username": c.viewer.Username,
			"error":    err.Error(),
		})
		return c.finishErrored(ctx, token)
	}

	view, handles := c.buildView(ctx, payload)
	return c.finishRendered(ctx, token, view, handles)
}

// RefreshInsights re-runs LoadInsights. Refreshing is idempotent and
// re-enters the loading state from any terminal state.
func (c *Controller) RefreshInsights(ctx context.Context) InsightsView {
	return c.LoadInsights(ctx)
}

// Insights returns the current insights view.
func (c *Controller) Insights() InsightsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insights
}

func (c *Controller) beginLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextToken++
	c.latestToken = c.nextToken
	c.insights = InsightsView{State: StateLoading}
	return c.latestToken
}

func (c *Controller) finishErrored(ctx context.Context, token uint64) InsightsView {
	c.mu.Lock()
	if token != c.latestToken {
		view := c.insights
		c.mu.Unlock()
		return view
	}
	c.insights = InsightsView{
		State:        StateErrored,
		ErrorMessage: InsightsErrorText,
	}
	view := c.insights
	c.mu.Unlock()

	c.broadcast(ctx, EventInsightsErrored, nil)
	return view
}

func (c *Controller) finishRendered(ctx context.Context, token uint64, view InsightsView, handles []*ChartHandle) InsightsView {
	c.mu.Lock()
	if token != c.latestToken {
		// A newer load owns the panel; drop this result on the floor.
		for _, h := range handles {
			h.Release()
		}
		current := c.insights
		c.mu.Unlock()
		return current
	}
	c.charts.ReplaceAll(handles)
	c.insights = view
	c.mu.Unlock()

	c.broadcast(ctx, EventInsightsRendered, map[string]any{
		"summary":   view.Summary != nil,
		"charts":    view.HasCharts,
		"narrative": view.Narrative != "",
	})
	c.record(ctx, "assistant.insights.rendered", map[string]any{
		"username": c.viewer.Username,
		"charts":   len(handles),
	})
	return view
}

// buildView materializes every present payload section. Chart rendering
// happens outside the controller lock; the handles are installed atomically
// by finishRendered.
func (c *Controller) buildView(ctx context.Context, payload InsightsPayload) (InsightsView, []*ChartHandle) {
	view := InsightsView{
		State:     StateRendered,
		Timestamp: payload.Timestamp,
	}

	if payload.Summary != nil {
		view.Summary = &SummaryCards{
			Balance:       FormatCurrency(payload.Summary.Balance),
			HealthScore:   payload.Summary.HealthScore,
			HealthTier:    ClassifyHealthScore(payload.Summary.HealthScore),
			NetChange:     FormatCurrency(payload.Summary.NetChange),
			NetChangeTone: NetChangeTone(payload.Summary.NetChange),
			TopCategory:   payload.Summary.TopCategory,
		}
	}

	if payload.Insights != "" {
		view.Narrative = FormatNarrative(payload.Insights)
	}

	var handles []*ChartHandle
	for _, name := range c.opts.Surfaces.DatasetOrder(payload.Visualizations) {
		dataset := payload.Visualizations[name]
		surface, ok := c.opts.Surfaces.SurfaceForDataset(name)
		if !ok {
			// Unknown dataset names are skipped, not fatal; the advisor may
			// ship new charts before the widget binds surfaces for them.
			c.record(ctx, "assistant.insights.unbound_dataset", map[string]any{"dataset": name})
			continue
		}
		if err := c.opts.Schemas.Validate(surface, dataset); err != nil {
			c.record(ctx, "assistant.insights.schema_error", map[string]any{
				"surface": surface.ID,
				"error":   err.Error(),
			})
			continue
		}
		handle, err := c.opts.Charts.Render(ctx, surface, dataset)
		if err != nil {
			c.record(ctx, "assistant.insights.chart_error", map[string]any{
				"surface": surface.ID,
				"error":   err.Error(),
			})
			continue
		}
		handles = append(handles, handle)
	}
	view.HasCharts = len(handles) > 0

	return view, handles
}
