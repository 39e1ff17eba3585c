package command

import "fmt"

// Queue is the control->audio command channel: a single producer (the
// control side, possibly funneled from many application threads through
// a shared send path) and a single consumer (the audio callback).
type Queue struct {
	ring *RingBuffer[Command]
}

// NewQueue constructs a Queue with the given fixed capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ring: NewRingBuffer[Command](capacity)}
}

// Push enqueues a command, returning ErrQueueFull if the queue has no
// room. Per spec.md §5, blocking is not an option on this path.
func (q *Queue) Push(c Command) error {
	if !q.ring.Push(c) {
		return fmt.Errorf("push %v: %w", c.Kind, ErrQueueFull)
	}
	return nil
}

// Drain pops up to max commands, invoking fn for each. Used by the
// audio side's per-frame dispatch (spec.md §4.7 step 1).
func (q *Queue) Drain(max int, fn func(Command)) {
	for i := 0; i < max; i++ {
		c, ok := q.ring.Pop()
		if !ok {
			return
		}
		fn(c)
	}
}

// Unloader is the audio->control channel carrying resources removed
// from the audio side for destruction off the audio thread.
type Unloader struct {
	ring *RingBuffer[Resource]
}

// NewUnloader constructs an Unloader with the given fixed capacity.
func NewUnloader(capacity int) *Unloader {
	return &Unloader{ring: NewRingBuffer[Resource](capacity)}
}

// Push enqueues a resource for control-side destruction. Per spec.md
// §7, an overflowing outbound queue drops silently rather than blocking
// the audio thread.
func (u *Unloader) Push(r Resource) {
	u.ring.Push(r)
}

// Drain pops every pending resource, invoking fn for each. Intended to
// be called periodically by the control side, off the audio thread.
func (u *Unloader) Drain(fn func(Resource)) {
	for {
		r, ok := u.ring.Pop()
		if !ok {
			return
		}
		fn(r)
	}
}
