package view

import (
	"sync"

	"github.com/zappabad/stocksurge/internal/notify"
)

// Notifications keeps the most recent notifications up to a fixed capacity.
type Notifications struct {
	mu       sync.RWMutex
	items    []notify.Notification
	capacity int
}

// NewNotifications creates a Notifications with the given capacity.
func NewNotifications(capacity int) *Notifications {
	if capacity <= 0 {
		capacity = 100
	}
	return &Notifications{
		items:    make([]notify.Notification, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a notification, dropping the oldest when full.
func (v *Notifications) Add(n notify.Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.items) >= v.capacity {
		// Remove oldest
		v.items = v.items[1:]
	}
	v.items = append(v.items, n)
}

// All returns a copy of every notification, oldest first.
func (v *Notifications) All() []notify.Notification {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]notify.Notification, len(v.items))
	copy(out, v.items)
	return out
}

// Unseen returns a copy of the notifications not yet marked seen.
func (v *Notifications) Unseen() []notify.Notification {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []notify.Notification
	for _, n := range v.items {
		if !n.Seen {
			out = append(out, n)
		}
	}
	return out
}

// Latest returns the most recent notification.
func (v *Notifications) Latest() (notify.Notification, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.items) == 0 {
		return notify.Notification{}, false
	}
	return v.items[len(v.items)-1], true
}

// MarkSeen flags every notification as seen.
func (v *Notifications) MarkSeen() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.items {
		v.items[i].Seen = true
	}
}

// Clear drops every notification.
func (v *Notifications) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = v.items[:0]
}
