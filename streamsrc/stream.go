// Package streamsrc implements the external audio-stream contract of
// spec.md §6: a caller-supplied Stream is sampled once per audio frame
// and its output is summed into a mixer track, alongside instances.
// Grounded on the teacher's internal/audio/stream.go SampleSource
// interface, generalized from "drives the device" to "one of many
// inputs summed into a track".
package streamsrc

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
)

// Stream is an external, continuously-running audio source: a
// procedurally generated tone, a decoded file being streamed in, a
// network voice feed. Next is called once per audio frame and must not
// block or allocate.
type Stream interface {
	Next(dt float64) frame.Frame
}

type entry struct {
	id     store.ID
	stream Stream
	track  sound.TrackRef
}

// Streams is the capacity-bounded registry of active streams bound to
// mixer tracks.
type Streams struct {
	byID *store.Indexed[store.ID, entry]
}

// New constructs an empty stream registry with the given capacity.
func New(capacity int) *Streams {
	return &Streams{byID: store.New[store.ID, entry](capacity)}
}

// Add registers a stream routed into track. Reports false if the
// registry is full (non-instance resources are rejected, not evicted).
func (s *Streams) Add(id store.ID, stream Stream, track sound.TrackRef) bool {
	return s.byID.Insert(id, entry{id: id, stream: stream, track: track})
}

// Remove unregisters a stream.
func (s *Streams) Remove(id store.ID) {
	s.byID.Remove(id)
}

// Mixer is the narrow interface Process needs from the mixer package,
// kept local to avoid a dependency from streamsrc on mixer's whole
// surface.
type Mixer interface {
	AddInput(ref sound.TrackRef, f frame.Frame)
}

// Process samples every registered stream once and routes its frame
// into its bound track, per spec.md §4.7 step 6.
func (s *Streams) Process(dt float64, mx Mixer) {
	s.byID.Range(func(_ store.ID, e entry) bool {
		mx.AddInput(e.track, e.stream.Next(dt))
		return true
	})
}
