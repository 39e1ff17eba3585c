package sound

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/store"
)

// Kind tags which variant a Playable holds.
type Kind int

const (
	KindSound Kind = iota
	KindArrangement
)

// Playable is the `{Sound(id) | Arrangement(id)}` tagged variant
// instances reference, per spec.md §3.
type Playable struct {
	Kind Kind
	ID   store.ID
}

// OfSound builds a Playable referring to a Sound.
func OfSound(id store.ID) Playable { return Playable{Kind: KindSound, ID: id} }

// OfArrangement builds a Playable referring to an Arrangement.
func OfArrangement(id store.ID) Playable { return Playable{Kind: KindArrangement, ID: id} }

// Playables is the read side every other subsystem uses to resolve a
// Playable into duration, default track, frame data, and cooldown state.
type Playables struct {
	Sounds       *store.Indexed[store.ID, *Sound]
	Arrangements *store.Indexed[store.ID, *Arrangement]
}

// Duration returns the Playable's rendered duration, or 0 if it no
// longer exists (spec.md §7: missing resources are silently ignored on
// the audio side).
func (ps *Playables) Duration(p Playable) float64 {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			return s.Duration()
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			return a.Duration()
		}
	}
	return 0
}

// DefaultTrack returns the Playable's configured default output track.
func (ps *Playables) DefaultTrack(p Playable) TrackRef {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			return s.Settings.DefaultTrack
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			return a.Settings.DefaultTrack
		}
	}
	return MainTrack
}

// DefaultLoopStart returns the Playable's default loop start, if set.
func (ps *Playables) DefaultLoopStart(p Playable) (float64, bool) {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok && s.Settings.HasLoopStart {
			return s.Settings.DefaultLoopStart, true
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok && a.Settings.HasLoopStart {
			return a.Settings.DefaultLoopStart, true
		}
	}
	return 0, false
}

// Groups returns the set of group ids the Playable belongs to.
func (ps *Playables) Groups(p Playable) []store.ID {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			return s.Settings.Groups
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			return a.Settings.Groups
		}
	}
	return nil
}

// CoolingDown reports whether the Playable is still in its cooldown
// window.
func (ps *Playables) CoolingDown(p Playable) bool {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			return s.CoolingDown()
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			return a.CoolingDown()
		}
	}
	return false
}

// StartCooldown arms the cooldown timer after a successful Play.
func (ps *Playables) StartCooldown(p Playable) {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			s.StartCooldown()
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			a.StartCooldown()
		}
	}
}

// Tick advances the cooldown timers of every registered Sound and
// Arrangement by dt seconds. Called once per audio frame.
func (ps *Playables) Tick(dt float64) {
	ps.Sounds.Range(func(_ store.ID, s *Sound) bool {
		s.Tick(dt)
		return true
	})
	ps.Arrangements.Range(func(_ store.ID, a *Arrangement) bool {
		a.Tick(dt)
		return true
	})
}

// FrameAt resolves the Playable's sample at time t.
func (ps *Playables) FrameAt(p Playable, t float64) frame.Frame {
	switch p.Kind {
	case KindSound:
		if s, ok := ps.Sounds.Get(p.ID); ok {
			return s.FrameAt(t)
		}
	case KindArrangement:
		if a, ok := ps.Arrangements.Get(p.ID); ok {
			return a.FrameAt(t, ps.Sounds)
		}
	}
	return frame.Silence
}
