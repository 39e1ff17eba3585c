package store

import "sync/atomic"

// ID is the opaque, process-unique integer identifier shared by every
// long-lived entity (sound, arrangement, instance, group, track,
// parameter, metronome, sequence instance, effect, audio stream).
// Equality and hashing are on the integer alone; it is Copy-cheap and
// safe to send between threads, per spec.md §3.
type ID uint64

var nextID atomic.Uint64

// NewID mints a fresh, process-wide monotonically increasing identifier.
// Grounded on kira's per-resource `NEXT_*_INDEX: AtomicUsize` counters
// (instance/mod.rs, mixer/track/mod.rs, metronome/mod.rs,
// sequence/instance.rs) collapsed into a single shared counter since Go
// identifiers here are untyped integers rather than distinct newtypes
// per resource kind.
func NewID() ID {
	return ID(nextID.Add(1))
}
