// Package tween implements eased scalar interpolation over wall-clock
// time: the Tween/Parameter pair used for volume, pitch, panning, fades,
// and named Parameters referenced from Value.Parameter.
package tween

import "math"

// Easing selects the interpolation curve a Tween applies to its
// normalized progress value.
type Easing int

const (
	// EaseLinear applies no shaping.
	EaseLinear Easing = iota
	// InPowi eases in with t^Power.
	InPowi
	// OutPowi eases out with 1-(1-t)^Power.
	OutPowi
	// InOutPowi blends InPowi and OutPowi around the midpoint.
	InOutPowi
)

// Apply shapes a normalized progress value t in [0, 1] according to the
// easing and its power (only meaningful for the *Powi variants; ignored
// for Linear).
func (e Easing) Apply(t float64, power int) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	switch e {
	case InPowi:
		return ipow(t, power)
	case OutPowi:
		return 1 - ipow(1-t, power)
	case InOutPowi:
		if t < 0.5 {
			return ipow(2*t, power) / 2
		}
		return 1 - ipow(2*(1-t), power)/2
	default:
		return t
	}
}

func ipow(base float64, power int) float64 {
	if power <= 0 {
		power = 2
	}
	return math.Pow(base, float64(power))
}

// Tween describes an interpolation from a start value to a target value
// over a wall-clock duration in seconds, with a given easing curve.
type Tween struct {
	Duration float64
	Easing   Easing
	Power    int // only used by *Powi easings; defaults effectively to 2 when 0 is passed by callers that don't care
}

// Linear builds a linear tween of the given duration.
func Linear(durationSeconds float64) Tween {
	return Tween{Duration: durationSeconds, Easing: EaseLinear}
}

// Parameter is a scalar with a current value and an optional active
// tween interpolating it from a start value to a target value.
type Parameter struct {
	value float64

	tweening bool
	start    float64
	target   float64
	tween    Tween
	elapsed  float64
}

// NewParameter creates a parameter at a fixed initial value with no
// active tween.
func NewParameter(initial float64) Parameter {
	return Parameter{value: initial}
}

// Value returns the parameter's current value.
func (p *Parameter) Value() float64 {
	return p.value
}

// Set either snaps the parameter to target (tween == nil) or starts an
// interpolation toward target over the given tween.
func (p *Parameter) Set(target float64, tw *Tween) {
	if tw == nil || tw.Duration <= 0 {
		p.value = target
		p.tweening = false
		return
	}
	p.start = p.value
	p.target = target
	p.tween = *tw
	p.elapsed = 0
	p.tweening = true
}

// Update advances any active tween by dt seconds and reports whether it
// just completed on this call.
func (p *Parameter) Update(dt float64) (finished bool) {
	if !p.tweening {
		return false
	}
	p.elapsed += dt
	t := p.elapsed / p.tween.Duration
	if t >= 1 {
		p.value = p.target
		p.tweening = false
		return true
	}
	eased := p.tween.Easing.Apply(t, p.tween.Power)
	p.value = p.start + (p.target-p.start)*eased
	return false
}

// ClampedValue returns Value() clamped into [0, 1]. Fade-volume parameters
// use this instead of Value() per spec.md §7 ("fade tweens that would
// produce invalid values are clamped to [0,1]") — an easing curve with a
// power that overshoots (or floating point drift near completion) must
// never hand the mixer a volume multiplier outside the valid range.
func (p *Parameter) ClampedValue() float64 {
	v := p.value
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Tweening reports whether a tween is currently in flight.
func (p *Parameter) Tweening() bool {
	return p.tweening
}
