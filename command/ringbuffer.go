// Package command defines the sum types exchanged across the
// control/audio boundary, the single-producer-single-consumer queues
// that carry them, and the control-side sentinel errors. The atomic
// handle that publishes an instance's live state is instance.Handle,
// not part of this package. Grounded on original_source/kira/src/command.rs and
// original_source/kira/src/manager/mod.rs.
package command

import "sync/atomic"

// RingBuffer is a fixed-capacity single-producer-single-consumer queue.
// One goroutine may call Push; a different single goroutine may call
// Pop; neither blocks nor allocates after construction. Grounded on
// spec.md §5's SPSC bounded-channel requirement; implemented over
// sync/atomic rather than github.com/smallnest/ringbuffer because that
// package serializes access with a mutex (see DESIGN.md).
type RingBuffer[T any] struct {
	buf  []T
	cap  uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewRingBuffer constructs a queue that holds up to capacity items.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{buf: make([]T, capacity), cap: uint64(capacity)}
}

// Push enqueues v. Reports false if the queue is full.
func (r *RingBuffer[T]) Push(v T) bool {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail-head >= r.cap {
		return false
	}
	r.buf[tail%r.cap] = v
	r.tail.Store(tail + 1)
	return true
}

// Pop dequeues the oldest item. Reports false if the queue is empty.
func (r *RingBuffer[T]) Pop() (T, bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head >= tail {
		var zero T
		return zero, false
	}
	v := r.buf[head%r.cap]
	r.head.Store(head + 1)
	return v, true
}

// Len returns a snapshot item count. Racy by nature on an SPSC queue
// observed from a third goroutine; safe for the owning producer or
// consumer to use as a hint.
func (r *RingBuffer[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}
