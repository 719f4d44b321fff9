package emotion

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of samples kept per session.
const DefaultHistorySize = 10

// Sample is a timestamped reading.
type Sample struct {
	Label      string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// History is a fixed-capacity FIFO of samples. Adding past capacity evicts the oldest.
// All methods are safe for concurrent use.
type History struct {
	mu       sync.Mutex
	buf      []Sample
	start    int
	size     int
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		buf:      make([]Sample, capacity),
		capacity: capacity,
	}
}

// Add appends s and returns the number of samples held afterwards.
func (h *History) Add(s Sample) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < h.capacity {
		h.buf[(h.start+h.size)%h.capacity] = s
		h.size++
		return h.size
	}

	// full: overwrite oldest and advance
	h.buf[h.start] = s
	h.start = (h.start + 1) % h.capacity
	return h.size
}

// Snapshot returns the samples in chronological order.
func (h *History) Snapshot() []Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *History) snapshotLocked() []Sample {
	out := make([]Sample, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%h.capacity]
	}
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *History) Cap() int {
	return h.capacity
}

// Dominant returns the label with the largest summed confidence among samples whose
// confidence reaches threshold. Ties go to the most recent label. Without any trusted
// sample the result is neutral.
func (h *History) Dominant(threshold float64) string {
	h.mu.Lock()
	samples := h.snapshotLocked()
	h.mu.Unlock()

	weights := make(map[string]float64)
	lastSeen := make(map[string]int)
	for i, s := range samples {
		if s.Confidence < threshold {
			continue
		}
		weights[s.Label] += s.Confidence
		lastSeen[s.Label] = i
	}

	best := Neutral
	bestWeight := 0.0
	bestSeen := -1
	for label, w := range weights {
		if w > bestWeight || (w == bestWeight && lastSeen[label] > bestSeen) {
			best, bestWeight, bestSeen = label, w, lastSeen[label]
		}
	}
	return best
}
