// Package mixer implements the track graph and effect chain of
// spec.md §4.4: a main track, insertion-ordered sub-tracks, and
// per-track effect slots with a dry/wet blend. The DSP effects
// themselves are grounded on the teacher's internal/effects package,
// generalized here to sit behind a wet/dry mix the teacher's Chain
// never exposed (the teacher always ran 100% wet).
package mixer

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

// Effector processes one stereo frame per call, per spec.md §6 and §9's
// narrow capability set `{process(dt, input, params) -> Frame}`. dt lets
// a time-varying effect (an LFO-modulated chorus, a filter whose cutoff
// tracks the engine's actual callback rate) stay correct without
// capturing a fixed sample rate at construction; params lets an effect
// bind one of its knobs to a live Parameter instead of a value frozen
// at construction. Every DSP effect in this package implements it.
type Effector interface {
	Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame
	Reset()
}

// EffectSlot wraps an Effector with an enable flag and a dry/wet mix,
// per spec.md §4.4: "lerps dry*(1-mix) + wet*mix when enabled".
type EffectSlot struct {
	ID      store.ID
	Effect  Effector
	Enabled bool
	Mix     float32
}

// NewEffectSlot wraps effect in a fully-enabled, fully-wet slot with the
// given id, minted control-side before the AddEffect command is sent.
func NewEffectSlot(id store.ID, effect Effector) *EffectSlot {
	return &EffectSlot{ID: id, Effect: effect, Enabled: true, Mix: 1}
}

// Process runs the effect and blends its output with the dry input.
// A disabled slot passes the dry signal through untouched.
func (s *EffectSlot) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	if !s.Enabled {
		return in
	}
	wet := s.Effect.Process(dt, in, params)
	mix := s.Mix
	return frame.Frame{
		Left:  in.Left*(1-mix) + wet.Left*mix,
		Right: in.Right*(1-mix) + wet.Right*mix,
	}
}

// Track is a mixer bus: a volume, an insertion-ordered effect chain,
// and a per-cycle input accumulator every routed instance adds into.
type Track struct {
	ID      store.ID
	Volume  tween.CachedValue[Gain]
	Effects []*EffectSlot

	input frame.Frame
}

// Gain is the ~float64 type Track.Volume is parameterized over.
type Gain float64

// NewTrack constructs a track with the given volume source and id;
// Mixer.Process resolves the volume against the parameters each frame.
// The id is minted control-side before the AddSubTrack command is sent,
// matching kira's "ids are allocated by the manager, not the backend"
// convention.
func NewTrack(id store.ID, volume tween.Value[Gain]) *Track {
	return &Track{ID: id, Volume: tween.NewCachedValue(volume, 1, nil)}
}

// AddEffect appends an effect slot to the end of the chain.
func (t *Track) AddEffect(slot *EffectSlot) {
	t.Effects = append(t.Effects, slot)
}

// RemoveEffect removes the effect slot with the given id, if present.
func (t *Track) RemoveEffect(id store.ID) {
	for i, slot := range t.Effects {
		if slot.ID == id {
			t.Effects = append(t.Effects[:i], t.Effects[i+1:]...)
			return
		}
	}
}

// Add accumulates f into this track's per-cycle input.
func (t *Track) Add(f frame.Frame) {
	t.input = t.input.Add(f)
}

// process runs the track's effect chain over its accumulated input,
// scales by volume, resets the accumulator, and returns the result.
func (t *Track) process(dt float64, params tween.Registry) frame.Frame {
	out := t.input
	for _, slot := range t.Effects {
		out = slot.Process(dt, out, params)
	}
	out = out.Scale(float32(t.Volume.Value()))
	t.input = frame.Silence
	return out
}

// Mixer owns the main track and an insertion-ordered set of sub-tracks,
// per spec.md §4.4.
type Mixer struct {
	Main *Track
	subs *store.Indexed[store.ID, *Track]
}

// New constructs a Mixer with the given sub-track capacity.
func New(subTrackCapacity int) *Mixer {
	return &Mixer{
		Main: NewTrack(store.NewID(), tween.Fixed[Gain](1)),
		subs: store.New[store.ID, *Track](subTrackCapacity),
	}
}

// AddTrack registers a new sub-track, returning false if the mixer is
// at capacity (non-instance resources are rejected, not evicted, per
// spec.md §5).
func (m *Mixer) AddTrack(t *Track) bool {
	return m.subs.Insert(t.ID, t)
}

// RemoveTrack unregisters a sub-track.
func (m *Mixer) RemoveTrack(id store.ID) {
	m.subs.Remove(id)
}

// SubTrack returns the sub-track with the given id, if registered.
func (m *Mixer) SubTrack(id store.ID) (*Track, bool) {
	return m.subs.Get(id)
}

// Track resolves a TrackRef to its Track, the main track for
// sound.MainTrack or an unknown sub-track id.
func (m *Mixer) Track(ref sound.TrackRef) *Track {
	if !ref.IsSub {
		return m.Main
	}
	if t, ok := m.subs.Get(ref.ID); ok {
		return t
	}
	return m.Main
}

// AddInput routes f into the track ref points at.
func (m *Mixer) AddInput(ref sound.TrackRef, f frame.Frame) {
	m.Track(ref).Add(f)
}

// RemoveEffect removes the effect slot with the given id from whichever
// track in the mixer holds it (main or any sub-track).
func (m *Mixer) RemoveEffect(id store.ID) {
	m.Main.RemoveEffect(id)
	m.subs.Range(func(_ store.ID, t *Track) bool {
		t.RemoveEffect(id)
		return true
	})
}

// Process runs every sub-track's chain in insertion order, sums the
// results into the main track, runs the main track's own chain, and
// returns the final stereo frame, per spec.md §4.4.
func (m *Mixer) Process(dt float64, params tween.Registry) frame.Frame {
	m.Main.Volume.Update(params)
	m.subs.Range(func(_ store.ID, t *Track) bool {
		t.Volume.Update(params)
		m.Main.input = m.Main.input.Add(t.process(dt, params))
		return true
	})
	return m.Main.process(dt, params)
}
