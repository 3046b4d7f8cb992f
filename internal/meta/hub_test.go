package meta

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_LatestEmpty(t *testing.T) {
	h := NewHub(slog.Default())

	_, ok := h.Latest()
	require.False(t, ok)
}

func TestHub_PublishAndLatest(t *testing.T) {
	h := NewHub(slog.Default())

	snap := h.Publish("image", "/tmp/a.png", map[string]any{"width": 640})
	require.NotEmpty(t, snap.ID)

	latest, ok := h.Latest()
	require.True(t, ok)
	require.Equal(t, snap.ID, latest.ID)
	require.Equal(t, "image", latest.Kind)
	require.Equal(t, 640, latest.Payload["width"])
}

func TestHub_GetByVersion(t *testing.T) {
	h := NewHub(slog.Default())

	first := h.Publish("pdf", "a.pdf", map[string]any{"pages": 3})
	second := h.Publish("pdf", "b.pdf", map[string]any{"pages": 9})

	// Latest moved on, but the first snapshot stays addressable.
	latest, _ := h.Latest()
	require.Equal(t, second.ID, latest.ID)

	got, ok := h.Get(first.ID)
	require.True(t, ok)
	require.Equal(t, 3, got.Payload["pages"])

	_, ok = h.Get("01ZZZZZZZZZZZZZZZZZZZZZZZZ")
	require.False(t, ok)
}

func TestHub_SubscribeReceivesPublishes(t *testing.T) {
	h := NewHub(slog.Default())

	ch, cancel := h.Subscribe()
	defer cancel()

	want := h.Publish("video", "clip.mp4", map[string]any{"duration": "00:00:12"})

	select {
	case got := <-ch:
		require.Equal(t, want.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive snapshot")
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	h := NewHub(slog.Default())

	ch, cancel := h.Subscribe()
	cancel()
	cancel() // double cancel must not panic

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic or block.
	h.Publish("text", "", nil)
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(slog.Default())

	_, cancel := h.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := range subscriberBuffer * 3 {
			h.Publish("image", fmt.Sprintf("img-%d", i), nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_ConcurrentPublishAndRead(t *testing.T) {
	// Every read must observe a fully-formed previous write, never a torn
	// snapshot. Run with -race.
	h := NewHub(slog.Default())

	var wg sync.WaitGroup

	for w := range 4 {
		wg.Go(func() {
			for i := range 100 {
				src := fmt.Sprintf("writer-%d-%d", w, i)
				h.Publish("image", src, map[string]any{"i": i, "src": src})
			}
		})
	}

	wg.Go(func() {
		for range 400 {
			if snap, ok := h.Latest(); ok {
				// A formed snapshot has a consistent payload.
				require.Equal(t, snap.Source, snap.Payload["src"])
				require.NotEmpty(t, snap.ID)
			}
		}
	})

	wg.Wait()
}
