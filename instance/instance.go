// Package instance implements the per-playback state machine (§4.2) and
// the capacity-bounded instance collection (§4.3), grounded on
// original_source/kira/src/instance/mod.rs and
// original_source/kira/src/manager/backend/instances.rs.
package instance

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

// State is the instance lifecycle state. Paused and Pausing carry the
// frozen/target position in the Instance's pausedPosition field.
type State int

const (
	Playing State = iota
	Paused
	Pausing
	Stopping
	Stopped
)

// Playing reports whether the state keeps emitting audio, per spec.md
// §4.2 ("Pausing, Stopping continue to emit audio").
func (s State) Playing() bool {
	return s == Playing || s == Pausing || s == Stopping
}

// Settings configures an Instance at Play time.
type Settings struct {
	Track         sound.TrackRef
	Volume        tween.Value[Volume]
	Pitch         tween.Value[Pitch]
	Panning       tween.Value[Panning]
	LoopStart     float64
	HasLoopStart  bool
	Reverse       bool
	StartPosition float64
	SequenceID    store.ID
	HasSequenceID bool
	FadeInTween   *tween.Tween
}

// Volume, Pitch, and Panning are distinct ~float64 types so a
// tween.Value[Volume] cannot be mixed up with a tween.Value[Pitch] at
// compile time, per spec.md §3's "each a CachedValue<T>".
type (
	Volume  float64
	Pitch   float64
	Panning float64
)

// ToFactor returns the pitch as a playback rate multiplier: a pitch is
// already a linear factor, and a pitch value of 1 is the default rate,
// matching kira's linear pitch-to-factor convention for this distillation.
func (p Pitch) ToFactor() float64 { return float64(p) }

// Instance is a single, mutable playback occurrence of a Playable.
type Instance struct {
	ID       store.ID
	Playable sound.Playable
	Track    sound.TrackRef

	sequenceID    store.ID
	hasSequenceID bool

	volume  tween.CachedValue[Volume]
	pitch   tween.CachedValue[Pitch]
	panning tween.CachedValue[Panning]

	loopStart    float64
	hasLoopStart bool
	reverse      bool
	position     float64

	fadeVolume tween.Parameter

	state          State
	pausedPosition float64

	// handle is the atomic cell Play hands to the control side. Nil for
	// instances constructed without one (tests, sequence-internal replay).
	handle *Handle
}

// New constructs an Instance per spec.md §4.2's start policy: reverse
// mirrors the start position, and loop_start defaults from the playable
// when unset and is clamped to [0, duration].
func New(id store.ID, playable sound.Playable, duration float64, settings Settings, rng interface{ Float64() float64 }) *Instance {
	start := settings.StartPosition
	if settings.Reverse {
		start = duration - settings.StartPosition
	}

	// Defaulting loop_start from the playable, when unset, is the
	// caller's job (sound.Playables.DefaultLoopStart), done before New
	// is invoked.
	loopStart, hasLoopStart := settings.LoopStart, settings.HasLoopStart
	if hasLoopStart {
		if loopStart < 0 {
			loopStart = 0
		}
		if loopStart > duration {
			loopStart = duration
		}
	}

	fv := tween.NewParameter(1)

	inst := &Instance{
		ID:            id,
		Playable:      playable,
		Track:         settings.Track,
		sequenceID:    settings.SequenceID,
		hasSequenceID: settings.HasSequenceID,
		volume:        tween.NewCachedValue(settings.Volume, 1, rng),
		pitch:         tween.NewCachedValue(settings.Pitch, 1, rng),
		panning:       tween.NewCachedValue(settings.Panning, 0.5, rng),
		loopStart:     loopStart,
		hasLoopStart:  hasLoopStart,
		reverse:       settings.Reverse,
		position:      start,
		fadeVolume:    fv,
		state:         Playing,
	}
	if settings.FadeInTween != nil {
		inst.fadeVolume.Set(0, nil)
		inst.fadeVolume.Set(1, settings.FadeInTween)
	}
	return inst
}

// AttachHandle binds the atomic cell Play hands to the control side. A
// nil handle is valid and simply means nothing observes this instance's
// state (used by sequence-internal replays and tests).
func (i *Instance) AttachHandle(h *Handle) { i.handle = h }

// SequenceID returns the owning sequence id, if any.
func (i *Instance) SequenceID() (store.ID, bool) { return i.sequenceID, i.hasSequenceID }

// State returns the current lifecycle state.
func (i *Instance) State() State { return i.state }

// Position returns the current playback position in seconds.
func (i *Instance) Position() float64 { return i.position }

// SetVolume, SetPitch, and SetPanning replace the underlying Value a
// live instance's corresponding CachedValue resolves against.
func (i *Instance) SetVolume(v tween.Value[Volume], rng interface{ Float64() float64 }) {
	i.volume.Set(v, rng)
}

func (i *Instance) SetPitch(v tween.Value[Pitch], rng interface{ Float64() float64 }) {
	i.pitch.Set(v, rng)
}

func (i *Instance) SetPanning(v tween.Value[Panning], rng interface{ Float64() float64 }) {
	i.panning.Set(v, rng)
}

// Pause transitions Playing -> Pausing(p) with a fade-to-zero, or
// Paused(p) with an immediate snap, per spec.md §4.2.
func (i *Instance) Pause(fade *tween.Tween) {
	if i.state != Playing {
		return
	}
	i.pausedPosition = i.position
	if fade != nil {
		i.state = Pausing
		i.fadeVolume.Set(0, fade)
	} else {
		i.state = Paused
		i.fadeVolume.Set(0, nil)
	}
}

// Resume transitions Paused/Pausing -> Playing, optionally rewinding to
// the position captured at pause time.
func (i *Instance) Resume(fade *tween.Tween, rewindToPausePosition bool) {
	if i.state != Paused && i.state != Pausing {
		return
	}
	if rewindToPausePosition {
		i.position = i.pausedPosition
	}
	i.state = Playing
	i.fadeVolume.Set(1, fade)
}

// Stop transitions to Stopping (with a fade-to-zero) or directly to
// Stopped when fade is nil.
func (i *Instance) Stop(fade *tween.Tween) {
	if i.state == Stopped {
		return
	}
	if fade != nil {
		i.state = Stopping
		i.fadeVolume.Set(0, fade)
	} else {
		i.state = Stopped
	}
}

// Update advances the instance by dt seconds: resolves parameters,
// advances position, applies loop/reverse wrapping, and retires fades
// into their terminal state. Returns true if the instance is now
// Stopped and should be removed.
func (i *Instance) Update(dt float64, params tween.Registry, duration float64) bool {
	if i.state == Stopped {
		return true
	}

	i.volume.Update(params)
	i.pitch.Update(params)
	i.panning.Update(params)

	fadeFinished := i.fadeVolume.Update(dt)
	if fadeFinished {
		switch i.state {
		case Pausing:
			i.state = Paused
		case Stopping:
			i.state = Stopped
			return true
		}
	}

	if !i.state.Playing() {
		return i.state == Stopped
	}

	rate := i.pitch.Value().ToFactor()
	if i.reverse {
		rate = -rate
	}
	i.position += rate * dt

	switch {
	case rate < 0:
		for i.hasLoopStart && i.position < i.loopStart {
			i.position += duration - i.loopStart
		}
		if !i.hasLoopStart && i.position < 0 {
			i.state = Stopped
			return true
		}
	default:
		for i.hasLoopStart && i.position > duration {
			i.position -= duration - i.loopStart
		}
		if !i.hasLoopStart && i.position > duration {
			i.state = Stopped
			return true
		}
	}
	return false
}

// Sample computes the instance's current output frame: the playable's
// sample at position, panned, and scaled by volume*fade_volume.
func (i *Instance) Sample(playables *sound.Playables) frame.Frame {
	if !i.state.Playing() {
		return frame.Silence
	}
	f := playables.FrameAt(i.Playable, i.position)
	f = f.Panned(float32(i.panning.Value()))
	return f.Scale(float32(i.volume.Value()) * float32(i.fadeVolume.ClampedValue()))
}
