package history

import (
	"sync"

	"netmonitor/internal/models"
)

// DefaultCapacity bounds the rolling window when no size is configured.
const DefaultCapacity = 50

// Buffer is a fixed-capacity ring of measurements in insertion order.
// Once full, every push evicts the oldest entry. Safe for concurrent
// use; readers always see a consistent window.
type Buffer struct {
	mu      sync.RWMutex
	entries []models.Measurement
	pos     int
	count   int
}

// New creates an empty buffer holding at most capacity measurements.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{entries: make([]models.Measurement, capacity)}
}

// Push appends a measurement, evicting the oldest entry at capacity.
func (b *Buffer) Push(m models.Measurement) {
	b.mu.Lock()
	b.entries[b.pos] = m
	b.pos = (b.pos + 1) % cap(b.entries)
	if b.count < cap(b.entries) {
		b.count++
	}
	b.mu.Unlock()
}

// Snapshot returns a copy of the current window, oldest first.
func (b *Buffer) Snapshot() []models.Measurement {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Measurement, 0, b.count)
	start := b.pos - b.count
	if start < 0 {
		start += cap(b.entries)
	}
	for i := 0; i < b.count; i++ {
		out = append(out, b.entries[(start+i)%cap(b.entries)])
	}
	return out
}

// Len returns the number of buffered measurements.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Capacity returns the fixed window size.
func (b *Buffer) Capacity() int {
	return cap(b.entries)
}

// Clear empties the buffer without releasing its backing storage.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.pos = 0
	b.count = 0
	b.mu.Unlock()
}
