// Package circularbuffer keeps the last N values pushed into it. The panel
// uses it to hand new clients a backlog of recent controller events.
package circularbuffer

import "sync"

type CircularBuffer[T any] struct {
	mu       sync.Mutex
	values   []T
	position int
	full     bool
}

func New[T any](size int) *CircularBuffer[T] {
	return &CircularBuffer[T]{
		values: make([]T, size),
	}
}

// Push appends an element, evicting the oldest once the buffer is full.
func (cb *CircularBuffer[T]) Push(element T) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.values[cb.position] = element
	cb.position++

	if cb.position >= len(cb.values) {
		cb.position = 0
		cb.full = true
	}
}

// Snapshot copies the buffered elements out in insertion order.
func (cb *CircularBuffer[T]) Snapshot() []T {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	i := 0
	count := cb.position
	if cb.full {
		i = cb.position
		count = len(cb.values)
	}

	var out []T
	for n := 0; n < count; n++ {
		out = append(out, cb.values[i])
		i++
		if i >= len(cb.values) {
			i = 0
		}
	}
	return out
}

// Each visits the buffered elements in insertion order.
func (cb *CircularBuffer[T]) Each(fn func(T)) {
	for _, v := range cb.Snapshot() {
		fn(v)
	}
}
