// Package meta distributes computed metadata to detail views.
//
// Each computed metadata payload becomes an immutable Snapshot with a ULID
// version. The latest snapshot stays cheap to read, recent snapshots remain
// addressable by id through an LRU, and subscribers receive every publish
// as a message-passing event instead of polling shared state.
package meta

import (
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
)

// recentSize bounds how many snapshots stay addressable by id.
const recentSize = 128

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind misses snapshots rather than blocking publishers.
const subscriberBuffer = 16

// Snapshot is one fully-formed metadata result. Snapshots are immutable
// after publish; consumers must not mutate Payload.
type Snapshot struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Source  string         `json:"source"`
	Payload map[string]any `json:"payload"`
	At      time.Time      `json:"at"`
}

// Hub stores the latest snapshot and fans new snapshots out to subscribers.
type Hub struct {
	log *slog.Logger

	mu     sync.RWMutex
	latest *Snapshot
	recent *lru.Cache[string, *Snapshot]

	subMu   sync.Mutex
	subs    map[int]chan *Snapshot
	nextSub int
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	// lru.New only fails for non-positive sizes.
	recent, _ := lru.New[string, *Snapshot](recentSize)

	return &Hub{
		log:    log.With("component", "meta_hub"),
		recent: recent,
		subs:   make(map[int]chan *Snapshot),
	}
}

// Publish stores a new snapshot as latest and delivers it to all
// subscribers. The returned snapshot carries its assigned version id.
func (h *Hub) Publish(kind, source string, payload map[string]any) *Snapshot {
	snap := &Snapshot{
		ID:      ulid.Make().String(),
		Kind:    kind,
		Source:  source,
		Payload: payload,
		At:      time.Now(),
	}

	h.mu.Lock()
	h.latest = snap
	h.recent.Add(snap.ID, snap)
	h.mu.Unlock()

	h.log.Debug("Published metadata snapshot", "id", snap.ID, "kind", kind, "source", source)

	h.subMu.Lock()
	defer h.subMu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- snap:
		default:
			h.log.Debug("Subscriber behind, snapshot dropped", "subscriber", id, "id", snap.ID)
		}
	}

	return snap
}

// Latest returns the most recently published snapshot.
func (h *Hub) Latest() (*Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.latest == nil {
		return nil, false
	}

	return h.latest, true
}

// Get returns a snapshot by version id, if it is still retained.
func (h *Hub) Get(id string) (*Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.recent.Get(id)
}

// Subscribe registers a listener for future snapshots. The returned cancel
// function must be called to release the subscription; the channel is
// closed on cancel.
func (h *Hub) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, subscriberBuffer)

	h.subMu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = ch
	h.subMu.Unlock()

	h.log.Debug("Subscriber registered", "subscriber", id)

	cancel := func() {
		h.subMu.Lock()
		defer h.subMu.Unlock()

		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}
