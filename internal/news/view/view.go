package view

import (
	"sync"

	"github.com/zappabad/stocksurge/internal/news"
)

// NewsHistory is the append-only, insertion-ordered log of emitted news.
type NewsHistory struct {
	mu    sync.RWMutex
	items []news.Event
}

// NewNewsHistory creates an empty NewsHistory.
func NewNewsHistory() *NewsHistory {
	return &NewsHistory{}
}

// Apply appends an event to the log.
func (v *NewsHistory) Apply(ev news.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, ev)
}

// All returns a copy of every event, oldest first.
func (v *NewsHistory) All() []news.Event {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]news.Event, len(v.items))
	copy(out, v.items)
	return out
}

// Latest returns the last n events in chronological order (oldest first).
func (v *NewsHistory) Latest(n int) []news.Event {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if n <= 0 || len(v.items) == 0 {
		return nil
	}
	if n > len(v.items) {
		n = len(v.items)
	}
	out := make([]news.Event, n)
	copy(out, v.items[len(v.items)-n:])
	return out
}

// Count returns the number of events in the log.
func (v *NewsHistory) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Reset empties the log.
func (v *NewsHistory) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
}
