package sound

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/store"
)

// SoundClip places a (sub-range of a) sound at a point in an
// arrangement's timeline. PlaybackRate stretches time; a negative rate
// plays the clip in reverse. Grounded on
// original_source/kira/src/arrangement/mod.rs.
type SoundClip struct {
	SoundID            store.ID
	ClipStart, ClipEnd float64 // arrangement-time range this clip occupies
	StartInSound       float64
	EndInSound         float64 // 0 with HasEndInSound=false means "to the sound's end"
	HasEndInSound      bool
	PlaybackRate       float64
}

// Arrangement is an ordered list of SoundClips sharing the Sound/
// Arrangement settings envelope (§3).
type Arrangement struct {
	Clips    []SoundClip
	Settings Settings

	cooldownRemaining float64
}

// NewArrangement constructs an Arrangement from its clip list.
func NewArrangement(clips []SoundClip, settings Settings) *Arrangement {
	return &Arrangement{Clips: clips, Settings: settings}
}

// Duration is the max of every clip's ClipEnd, per spec.md §3.
func (a *Arrangement) Duration() float64 {
	var d float64
	for _, c := range a.Clips {
		if c.ClipEnd > d {
			d = c.ClipEnd
		}
	}
	return d
}

// FrameAt sums the contribution of every clip active at arrangement time
// t, looking each one up in sounds.
func (a *Arrangement) FrameAt(t float64, sounds *store.Indexed[store.ID, *Sound]) frame.Frame {
	var out frame.Frame
	for _, c := range a.Clips {
		if t < c.ClipStart || t > c.ClipEnd {
			continue
		}
		snd, ok := sounds.Get(c.SoundID)
		if !ok {
			continue
		}
		rate := c.PlaybackRate
		if rate == 0 {
			rate = 1
		}
		posInSound := c.StartInSound + (t-c.ClipStart)*rate
		end := c.EndInSound
		if !c.HasEndInSound {
			end = snd.Duration()
		}
		lo, hi := c.StartInSound, end
		if lo > hi {
			lo, hi = hi, lo
		}
		if posInSound < lo || posInSound > hi {
			continue
		}
		out = out.Add(snd.FrameAt(posInSound))
	}
	return out
}

// CoolingDown reports whether a Play issued right now must be rejected.
func (a *Arrangement) CoolingDown() bool {
	return a.cooldownRemaining > 0
}

// StartCooldown arms the cooldown timer after a successful Play.
func (a *Arrangement) StartCooldown() {
	a.cooldownRemaining = a.Settings.Cooldown
}

// Tick advances the cooldown timer by dt seconds.
func (a *Arrangement) Tick(dt float64) {
	if a.cooldownRemaining > 0 {
		a.cooldownRemaining -= dt
		if a.cooldownRemaining < 0 {
			a.cooldownRemaining = 0
		}
	}
}
