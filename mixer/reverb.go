package mixer

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// Reverb is a Schroeder-style reverb with four comb filters and two
// allpass filters. It always emits the fully wet signal; EffectSlot
// owns the dry/wet blend.
type Reverb struct {
	combs   [4]combFilter
	allpass [2]allpassFilter

	feedbackParam    tween.ParameterID
	hasFeedbackParam bool
}

type combFilter struct {
	buf []float32
	pos int
	fb  float32
}

type allpassFilter struct {
	buf []float32
	pos int
	fb  float32
}

// NewReverb creates a reverb effect.
// roomSize: 0..1 controls delay lengths
// feedback: 0..1 controls decay time
func NewReverb(sampleRate int, roomSize, feedback float32) *Reverb {
	base := int(float32(sampleRate) * roomSize * 0.05)
	if base < 10 {
		base = 10
	}
	fb := clamp(feedback, 0, 0.95)
	r := &Reverb{}
	// Comb filter delay lengths (prime-ish ratios to avoid resonances)
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = combFilter{
			buf: make([]float32, combLens[i]),
			fb:  fb,
		}
	}
	// Allpass filter delay lengths
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{
			buf: make([]float32, maxInt(apLens[i], 1)),
			fb:  0.5,
		}
	}
	return r
}

// BindFeedback makes the comb filters' decay track a live Parameter
// instead of the value fixed at construction, resolved each Process
// call from params.
func (r *Reverb) BindFeedback(id tween.ParameterID) {
	r.feedbackParam = id
	r.hasFeedbackParam = true
}

func (r *Reverb) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	if r.hasFeedbackParam && params != nil {
		if raw, ok := params.Value(r.feedbackParam); ok {
			fb := clamp(float32(raw), 0, 0.95)
			for i := range r.combs {
				r.combs[i].fb = fb
			}
		}
	}

	mono := (in.Left + in.Right) * 0.5
	var out float32
	for i := range r.combs {
		out += r.combs[i].process(mono)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].process(out)
	}
	return frame.Frame{Left: out, Right: out}
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buf {
			r.allpass[i].buf[j] = 0
		}
		r.allpass[i].pos = 0
	}
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
