// Package sound holds the immutable Sound and Arrangement resources and
// the Playable tagged union instances reference. Once registered, a Sound
// or Arrangement never changes except for its cooldown timer.
package sound

import (
	"math"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/store"
)

// TrackRef identifies a mixer track (main or a sub-track) a Sound or
// Arrangement plays into by default.
type TrackRef struct {
	IsSub bool
	ID    store.ID
}

// MainTrack is the zero-value TrackRef, referring to the mixer's main
// track.
var MainTrack = TrackRef{}

// Settings is the envelope shared by Sound and Arrangement: the default
// output track, an optional cooldown, an optional semantic (musical)
// duration, and an optional default loop start.
type Settings struct {
	DefaultTrack     TrackRef
	Cooldown         float64 // seconds; 0 means "no cooldown"
	SemanticDuration float64 // seconds; 0 means "unset"
	DefaultLoopStart float64 // seconds; only meaningful if HasLoopStart
	HasSemantic      bool
	HasLoopStart     bool
	Groups           []store.ID
}

// Sound is an immutable, fully-resident PCM clip: a sample rate and an
// ordered sequence of stereo frames, plus its settings envelope. Sample
// lookup at time t linearly interpolates between the two bracketing
// frames; out-of-range returns silence, per spec.md §3 and the Playable
// frame contract in §6.
type Sound struct {
	SampleRate int
	Frames     []frame.Frame
	Settings   Settings

	cooldownRemaining float64
}

// NewSound constructs a Sound from decoded PCM frames. Decoding itself is
// out of the core's scope (spec.md §1); callers hand over already-decoded
// frames.
func NewSound(sampleRate int, frames []frame.Frame, settings Settings) *Sound {
	return &Sound{SampleRate: sampleRate, Frames: frames, Settings: settings}
}

// Duration returns the rendered duration in seconds.
func (s *Sound) Duration() float64 {
	if s.SampleRate <= 0 || len(s.Frames) == 0 {
		return 0
	}
	return float64(len(s.Frames)) / float64(s.SampleRate)
}

// FrameAt returns the linearly interpolated sample at time t seconds.
// Outside [0, Duration()] it returns silence.
func (s *Sound) FrameAt(t float64) frame.Frame {
	if len(s.Frames) == 0 {
		return frame.Silence
	}
	pos := t * float64(s.SampleRate)
	if pos < 0 {
		return frame.Silence
	}
	lo := int(math.Floor(pos))
	if lo >= len(s.Frames) {
		return frame.Silence
	}
	hi := lo + 1
	frac := pos - float64(lo)
	a := s.Frames[lo]
	if hi >= len(s.Frames) {
		if frac == 0 {
			return a
		}
		return frame.Silence
	}
	b := s.Frames[hi]
	return frame.Frame{
		Left:  frame.LerpF32(a.Left, b.Left, float32(frac)),
		Right: frame.LerpF32(a.Right, b.Right, float32(frac)),
	}
}

// CoolingDown reports whether a Play issued right now must be rejected
// per spec.md §4.3.
func (s *Sound) CoolingDown() bool {
	return s.cooldownRemaining > 0
}

// StartCooldown arms the cooldown timer after a successful Play.
func (s *Sound) StartCooldown() {
	s.cooldownRemaining = s.Settings.Cooldown
}

// Tick advances the cooldown timer by dt seconds. Called once per frame
// for every registered Sound and Arrangement.
func (s *Sound) Tick(dt float64) {
	if s.cooldownRemaining > 0 {
		s.cooldownRemaining -= dt
		if s.cooldownRemaining < 0 {
			s.cooldownRemaining = 0
		}
	}
}
