package instance

import "sync/atomic"

// Handle is a lock-free, atomic cell publishing an instance's lifecycle
// state to the control side. Play mints one and hands a pointer to both
// sides: the audio side Stores into it once per frame (Instances.Process),
// the control side Loads from it at any time, from any thread. Neither
// side ever touches a shared map to reach it, so there is no container to
// synchronize — only the atomic int32 itself.
type Handle struct {
	state atomic.Int32
}

// NewHandle returns a handle initialized to Playing, matching the state
// a freshly constructed Instance starts in.
func NewHandle() *Handle {
	h := &Handle{}
	h.state.Store(int32(Playing))
	return h
}

// Store publishes a new state. Called from the audio side only.
func (h *Handle) Store(s State) { h.state.Store(int32(s)) }

// Load reads the last-published state. Safe from any thread.
func (h *Handle) Load() State { return State(h.state.Load()) }
