package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookFiltersByUsername(t *testing.T) {
	t.Parallel()

	hook := NewBroadcastHook()
	aliceEvents, cancelAlice := hook.Subscribe("alice")
	defer cancelAlice()
	allEvents, cancelAll := hook.Subscribe("")
	defer cancelAll()

	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{
		Kind:     EventChatSent,
		Username: "bob",
	}))
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{
		Kind:     EventChatReplied,
		Username: "alice",
	}))

	event := <-aliceEvents
	assert.Equal(t, EventChatReplied, event.Kind)
	select {
	case extra := <-aliceEvents:
		t.Fatalf("unexpected event for alice: %+v", extra)
	default:
	}

	first := <-allEvents
	second := <-allEvents
	assert.Equal(t, EventChatSent, first.Kind)
	assert.Equal(t, EventChatReplied, second.Kind)
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe("testuser")
	defer cancel()

	for i := 0; i < 20; i++ {
		require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{
			Kind:     EventInsightsLoading,
			Username: "testuser",
		}))
	}

	received := 0
	for {
		select {
		case <-events:
			received++
		default:
			assert.Equal(t, 8, received)
			return
		}
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	t.Parallel()

	hook := NewBroadcastHook()
	events, cancel := hook.Subscribe("testuser")
	cancel()
	cancel()

	_, ok := <-events
	assert.False(t, ok)

	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{
		Kind:     EventChatSent,
		Username: "testuser",
	}))
}

// sseRecorder is a concurrency-safe ResponseWriter for streaming handlers.
type sseRecorder struct {
	mu     sync.Mutex
	header http.Header
	body   strings.Builder
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: make(http.Header)}
}

func (r *sseRecorder) Header() http.Header { return r.header }
func (r *sseRecorder) WriteHeader(int)     {}
func (r *sseRecorder) Flush()              {}

func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *sseRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func TestBroadcastHookServeSSE(t *testing.T) {
	t.Parallel()

	hook := NewBroadcastHook()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/assistant/widget/events?username=testuser", nil).WithContext(ctx)
	rec := newSSERecorder()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hook.ServeSSE(rec, req)
	}()

	require.Eventually(t, func() bool {
		_ = hook.WidgetUpdated(context.Background(), WidgetEvent{
			Kind:     EventInsightsRendered,
			Username: "testuser",
		})
		return strings.Contains(rec.Body(), "insights.rendered")
	}, time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	body := rec.Body()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "data: "))
	assert.Contains(t, body, `"username":"testuser"`)
}
