package mixer

import (
	"math"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// Chorus is a modulated delay for chorus/flanger effects. It always
// emits the fully wet signal; EffectSlot owns the dry/wet blend.
type Chorus struct {
	bufL, bufR []float32
	pos        int
	size       int
	depth      float32 // modulation depth in samples
	rateHz     float64
	phase      float64
	feedback   float32
}

// NewChorus creates a chorus/flanger effect.
// delayMs: base delay time in ms (typically 5-30ms)
// feedback: feedback amount 0..1
// depthMs: modulation depth in ms
// rateHz: modulation rate in Hz (typically 0.1-5Hz)
func NewChorus(sampleRate int, delayMs, feedback, depthMs, rateHz float32) *Chorus {
	baseSamples := int(float64(delayMs) * float64(sampleRate) / 1000.0)
	depthSamples := float64(depthMs) * float64(sampleRate) / 1000.0
	size := baseSamples + int(depthSamples) + 2
	if size < 4 {
		size = 4
	}
	return &Chorus{
		bufL:     make([]float32, size),
		bufR:     make([]float32, size),
		size:     size,
		depth:    float32(depthSamples),
		rateHz:   float64(rateHz),
		feedback: clamp(feedback, 0, 0.9),
	}
}

// Process advances the modulation phase by the call's own dt rather than
// a radians-per-sample constant baked in at construction, so the
// modulation rate stays correct even if the engine's callback rate ever
// differs from the rate NewChorus was built with.
func (c *Chorus) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	mod := float32(math.Sin(c.phase)) * c.depth
	c.phase += 2 * math.Pi * c.rateHz * dt
	if c.phase > 2*math.Pi {
		c.phase -= 2 * math.Pi
	}
	// Write input + feedback into buffer
	c.bufL[c.pos] = in.Left
	c.bufR[c.pos] = in.Right

	// Read with fractional delay
	delay := float32(c.size/2) + mod
	readPos := float32(c.pos) - delay
	for readPos < 0 {
		readPos += float32(c.size)
	}
	idx := int(readPos)
	frac := readPos - float32(idx)
	idx2 := idx + 1
	if idx2 >= c.size {
		idx2 = 0
	}
	delL := c.bufL[idx]*(1-frac) + c.bufL[idx2]*frac
	delR := c.bufR[idx]*(1-frac) + c.bufR[idx2]*frac

	c.bufL[c.pos] += delL * c.feedback
	c.bufR[c.pos] += delR * c.feedback

	c.pos++
	if c.pos >= c.size {
		c.pos = 0
	}
	return frame.Frame{Left: delL, Right: delR}
}

func (c *Chorus) Reset() {
	for i := range c.bufL {
		c.bufL[i] = 0
		c.bufR[i] = 0
	}
	c.pos = 0
	c.phase = 0
}
