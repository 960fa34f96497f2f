package game

import (
	"sync"
	"time"
)

// Sample is the total portfolio value at one instant.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	TotalValue float64   `json:"total_value"`
}

// PortfolioHistory is the ever-growing series of total-value samples taken
// after every state change.
type PortfolioHistory struct {
	mu      sync.RWMutex
	samples []Sample
}

// Add appends a sample.
func (h *PortfolioHistory) Add(s Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples, s)
}

// Samples returns a copy of the series, oldest first.
func (h *PortfolioHistory) Samples() []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Len returns the number of samples.
func (h *PortfolioHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset drops every sample.
func (h *PortfolioHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = nil
}
