package mixer

import (
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// Delay is a stereo delay line with cross-channel feedback. It always
// emits the fully wet signal; EffectSlot owns the dry/wet blend.
type Delay struct {
	bufL, bufR []float32
	pos        int
	feedback   float32
	cross      float32

	feedbackParam    tween.ParameterID
	hasFeedbackParam bool
}

// NewDelay creates a delay effect.
// delayMs: delay time in milliseconds
// feedback: feedback amount 0..1
// cross: cross-channel feedback 0..1
func NewDelay(sampleRate int, delayMs float64, feedback, cross float32) *Delay {
	samples := int(delayMs * float64(sampleRate) / 1000.0)
	if samples < 1 {
		samples = 1
	}
	return &Delay{
		bufL:     make([]float32, samples),
		bufR:     make([]float32, samples),
		feedback: clamp(feedback, 0, 0.95),
		cross:    clamp(cross, 0, 1),
	}
}

// BindFeedback makes the feedback amount track a live Parameter instead
// of the value fixed at construction; resolved each Process call from
// params, clamped the same way the constructor clamps a fixed feedback.
func (d *Delay) BindFeedback(id tween.ParameterID) {
	d.feedbackParam = id
	d.hasFeedbackParam = true
}

func (d *Delay) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	feedback := d.feedback
	if d.hasFeedbackParam && params != nil {
		if raw, ok := params.Value(d.feedbackParam); ok {
			feedback = clamp(float32(raw), 0, 0.95)
		}
	}

	delL := d.bufL[d.pos]
	delR := d.bufR[d.pos]
	fbL := delL*feedback*(1-d.cross) + delR*feedback*d.cross
	fbR := delR*feedback*(1-d.cross) + delL*feedback*d.cross
	d.bufL[d.pos] = in.Left + fbL
	d.bufR[d.pos] = in.Right + fbR
	d.pos++
	if d.pos >= len(d.bufL) {
		d.pos = 0
	}
	return frame.Frame{Left: delL, Right: delR}
}

func (d *Delay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.pos = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
