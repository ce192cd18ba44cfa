package assistant

import (
	"context"
	"fmt"
	"sync"
)

// WidgetPreferences captures per-viewer widget settings that survive a page
// reload.
type WidgetPreferences struct {
	ChatExpanded   bool     `json:"chat_expanded"`
	HiddenSections []string `json:"hidden_sections,omitempty"`
	Locale         string   `json:"locale,omitempty"`
}

// PreferenceStore persists widget preferences per viewer.
type PreferenceStore interface {
	Preferences(ctx context.Context, viewer ViewerContext) (WidgetPreferences, error)
	SavePreferences(ctx context.Context, viewer ViewerContext, prefs WidgetPreferences) error
}

// InMemoryPreferenceStore is a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]WidgetPreferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]WidgetPreferences),
	}
}

// Preferences returns stored preferences or defaults.
func (s *InMemoryPreferenceStore) Preferences(_ context.Context, viewer ViewerContext) (WidgetPreferences, error) {
	if viewer.Username == "" {
		return WidgetPreferences{Locale: viewer.Locale}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.data[s.key(viewer)]; ok {
		if prefs.Locale == "" {
			prefs.Locale = viewer.Locale
		}
		return prefs, nil
	}
	return WidgetPreferences{Locale: viewer.Locale}, nil
}

// SavePreferences persists preferences for a viewer.
func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, viewer ViewerContext, prefs WidgetPreferences) error {
	if viewer.Username == "" {
		return fmt.Errorf("assistant: preference store requires viewer username")
	}
	if prefs.Locale == "" {
		prefs.Locale = viewer.Locale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(viewer)] = prefs
	return nil
}

func (s *InMemoryPreferenceStore) key(viewer ViewerContext) string {
	if viewer.Locale == "" {
		return viewer.Username
	}
	return viewer.Username + "::" + viewer.Locale
}
