package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPreferenceStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewInMemoryPreferenceStore()
	viewer := ViewerContext{Username: "testuser"}

	prefs, err := store.Preferences(context.Background(), viewer)
	require.NoError(t, err)
	assert.False(t, prefs.ChatExpanded)

	saved := WidgetPreferences{
		ChatExpanded:   true,
		HiddenSections: []string{"narrative"},
	}
	require.NoError(t, store.SavePreferences(context.Background(), viewer, saved))

	loaded, err := store.Preferences(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestInMemoryPreferenceStoreScopesByLocale(t *testing.T) {
	t.Parallel()

	store := NewInMemoryPreferenceStore()
	english := ViewerContext{Username: "testuser", Locale: "en"}
	spanish := ViewerContext{Username: "testuser", Locale: "es"}

	require.NoError(t, store.SavePreferences(context.Background(), english, WidgetPreferences{ChatExpanded: true}))

	loaded, err := store.Preferences(context.Background(), spanish)
	require.NoError(t, err)
	assert.False(t, loaded.ChatExpanded)
}

func TestInMemoryPreferenceStoreRequiresUsernameOnSave(t *testing.T) {
	t.Parallel()

	store := NewInMemoryPreferenceStore()

	err := store.SavePreferences(context.Background(), ViewerContext{}, WidgetPreferences{ChatExpanded: true})
	require.Error(t, err)

	prefs, err := store.Preferences(context.Background(), ViewerContext{})
	require.NoError(t, err)
	assert.Equal(t, WidgetPreferences{}, prefs)
}
