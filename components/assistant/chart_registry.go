package assistant

import "sync"

// ChartHandle is a rendered chart bound to one surface. Handles are not
// reusable across payload replacements: the registry releases the previous
// handle for a surface before registering its replacement.
type ChartHandle struct {
	SurfaceID string
	Dataset   string
	ChartType string
	HTML      string

	mu       sync.Mutex
	released bool
}

// Release frees the handle. Releasing twice is harmless.
func (h *ChartHandle) Release() {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.released = true
	h.mu.Unlock()
}

// Released reports whether the handle has been freed.
func (h *ChartHandle) Released() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// ChartRegistry tracks the live chart handle per surface id. Entries are
// destroyed and replaced on every insights refresh, never updated in place.
type ChartRegistry struct {
	mu      sync.RWMutex
	entries map[string]*ChartHandle
	order   []string
}

// NewChartRegistry builds an empty registry.
func NewChartRegistry() *ChartRegistry {
	return &ChartRegistry{entries: map[string]*ChartHandle{}}
}

// ReplaceAll releases every registered handle and installs the new set. A full
// refresh goes through here so no handle from an earlier payload survives.
func (r *ChartRegistry) ReplaceAll(handles []*ChartHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, old := range r.entries {
		old.Release()
	}
	r.entries = make(map[string]*ChartHandle, len(handles))
	r.order = r.order[:0]
	for _, h := range handles {
		if h == nil || h.SurfaceID == "" {
			continue
		}
		if prev, ok := r.entries[h.SurfaceID]; ok {
			prev.Release()
		} else {
			r.order = append(r.order, h.SurfaceID)
		}
		r.entries[h.SurfaceID] = h
	}
}

// Clear releases and removes every handle.
func (r *ChartRegistry) Clear() {
	r.ReplaceAll(nil)
}

// Handle returns the live handle for a surface id.
func (r *ChartRegistry) Handle(surfaceID string) (*ChartHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.entries[surfaceID]
	return h, ok
}

// Handles returns the live handles in installation order.
func (r *ChartRegistry) Handles() []*ChartHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ChartHandle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Len reports how many surfaces currently hold a live handle.
func (r *ChartRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
