package view

// PriceHistory is a fixed-capacity ring buffer of price samples. When full,
// pushing a sample overwrites the oldest one.
// It is not safe for concurrent use; the market engine guards it.
type PriceHistory struct {
	buf   []float64
	size  int
	start int
	count int
}

// NewPriceHistory creates a PriceHistory holding at most capacity samples.
func NewPriceHistory(capacity int) *PriceHistory {
	if capacity <= 0 {
		capacity = 1
	}
	return &PriceHistory{
		buf:  make([]float64, capacity),
		size: capacity,
	}
}

// Push appends a sample, dropping the oldest one if the buffer is full.
func (h *PriceHistory) Push(price float64) {
	if h.count < h.size {
		h.buf[(h.start+h.count)%h.size] = price
		h.count++
		return
	}
	// overwrite oldest
	h.buf[h.start] = price
	h.start = (h.start + 1) % h.size
}

// Values returns a copy of the samples, oldest first.
func (h *PriceHistory) Values() []float64 {
	out := make([]float64, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(h.start+i)%h.size]
	}
	return out
}

// Last returns the most recent sample.
func (h *PriceHistory) Last() (float64, bool) {
	if h.count == 0 {
		return 0, false
	}
	return h.buf[(h.start+h.count-1)%h.size], true
}

// Len returns the number of samples held.
func (h *PriceHistory) Len() int {
	return h.count
}

// Cap returns the maximum number of samples held.
func (h *PriceHistory) Cap() int {
	return h.size
}

// Clear drops all samples.
func (h *PriceHistory) Clear() {
	h.start = 0
	h.count = 0
}
