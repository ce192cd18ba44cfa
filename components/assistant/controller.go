package assistant

import (
	"context"
	"errors"
	"sync"
)

var errMissingClient = errors.New("assistant: advisor client not configured")

// Options configures a widget Controller. Every collaborator is provided via
// interface so applications can swap implementations without importing
// sibling packages.
type Options struct {
	Client      Client
	Charts      ChartRenderer
	Surfaces    *SurfaceRegistry
	Validator   PayloadValidator
	Schemas     SurfaceValidator
	Preferences PreferenceStore
	Renderer    Renderer
	RefreshHook RefreshHook
	Telemetry   Telemetry
}

func (opts *Options) applyDefaults() {
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.Surfaces == nil {
		opts.Surfaces = NewSurfaceRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewInsightsValidator()
	}
	if opts.Schemas == nil {
		opts.Schemas = NewSurfaceSchemaValidator()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
}

// Controller owns one viewer's widget state: the chat transcript and typing
// flag, the insights render state, and the chart registry. All state lives on
// the instance; there are no package-level state bags.
type Controller struct {
	opts   Options
	viewer ViewerContext

	mu         sync.Mutex
	transcript []ChatMessage
	typing     bool
	expanded   bool

	insights    InsightsView
	latestToken uint64
	nextToken   uint64

	charts *ChartRegistry
}

// NewController builds a widget controller for one viewer with safe defaults.
func NewController(viewer ViewerContext, opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, errMissingClient
	}
	opts.applyDefaults()
	c := &Controller{
		opts:   opts,
		viewer: viewer,
		charts: NewChartRegistry(),
	}
	if prefs, err := opts.Preferences.Preferences(context.Background(), viewer); err == nil {
		c.expanded = prefs.ChatExpanded
	}
	return c, nil
}

// Viewer returns the viewer this controller renders for.
func (c *Controller) Viewer() ViewerContext {
	return c.viewer
}

// Charts exposes the live chart registry.
func (c *Controller) Charts() *ChartRegistry {
	return c.charts
}

func (c *Controller) record(ctx context.Context, event string, payload map[string]any) {
	c.opts.Telemetry.Record(ctx, event, payload)
}

func (c *Controller) broadcast(ctx context.Context, kind string, detail map[string]any) {
	_ = c.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		Kind:     kind,
		Username: c.viewer.Username,
		Detail:   detail,
	})
}

// Manager hands out one controller per viewer, constructing it on first use.
// It is what transports talk to: a request resolves its viewer, the manager
// resolves the viewer's widget.
type Manager struct {
	opts Options

	mu      sync.Mutex
	widgets map[string]*Controller
}

// NewManager validates shared options and builds an empty manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Client == nil {
		return nil, errMissingClient
	}
	opts.applyDefaults()
	return &Manager{
		opts:    opts,
		widgets: map[string]*Controller{},
	}, nil
}

// Widget returns the controller for a viewer, creating it when absent.
func (m *Manager) Widget(viewer ViewerContext) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.widgets[viewer.Username]; ok {
		return w
	}
	w, err := NewController(viewer, m.opts)
	if err != nil {
		// Options were validated in NewManager; only a nil client errors.
		panic(err)
	}
	m.widgets[viewer.Username] = w
	return w
}
