package mixer

import (
	"math"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// Compressor is basic dynamic range compression: an envelope follower
// feeding a knee-free gain-reduction curve above threshold.
type Compressor struct {
	threshold float32
	ratio     float32
	attackMs  float32
	releaseMs float32
	makeup    float32
	envL      float32
	envR      float32

	thresholdParam    tween.ParameterID
	hasThresholdParam bool
}

// NewCompressor creates a compressor effect.
// thresholdDB: threshold in dB (e.g., -20)
// ratio: compression ratio (e.g., 4 for 4:1)
// attackMs: attack time in ms
// releaseMs: release time in ms
// makeupDB: makeup gain in dB
func NewCompressor(thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	return &Compressor{
		threshold: float32(math.Pow(10, float64(thresholdDB)/20)),
		ratio:     ratio,
		attackMs:  attackMs,
		releaseMs: releaseMs,
		makeup:    float32(math.Pow(10, float64(makeupDB)/20)),
	}
}

// BindThreshold makes the threshold track a live Parameter (in linear,
// not dB, units) instead of the value fixed at construction, resolved
// each Process call from params.
func (c *Compressor) BindThreshold(id tween.ParameterID) {
	c.thresholdParam = id
	c.hasThresholdParam = true
}

// Process recomputes the envelope follower's attack/release
// coefficients from the call's own dt rather than a sample rate frozen
// at construction.
func (c *Compressor) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	threshold := c.threshold
	if c.hasThresholdParam && params != nil {
		if raw, ok := params.Value(c.thresholdParam); ok {
			threshold = float32(raw)
		}
	}

	attack := float32(1.0 - math.Exp(-dt/(float64(c.attackMs)/1000.0)))
	release := float32(1.0 - math.Exp(-dt/(float64(c.releaseMs)/1000.0)))

	absL := float32(math.Abs(float64(in.Left)))
	absR := float32(math.Abs(float64(in.Right)))
	// Envelope follower
	if absL > c.envL {
		c.envL += attack * (absL - c.envL)
	} else {
		c.envL += release * (absL - c.envL)
	}
	if absR > c.envR {
		c.envR += attack * (absR - c.envR)
	} else {
		c.envR += release * (absR - c.envR)
	}
	// Gain reduction
	gainL := c.computeGain(c.envL, threshold)
	gainR := c.computeGain(c.envR, threshold)
	return frame.Frame{Left: in.Left * gainL * c.makeup, Right: in.Right * gainR * c.makeup}
}

func (c *Compressor) computeGain(env, threshold float32) float32 {
	if env <= threshold || threshold <= 0 {
		return 1.0
	}
	// How far above threshold in linear scale
	over := env / threshold
	// Apply ratio: reduce the excess
	compressed := float32(math.Pow(float64(over), float64(1.0/c.ratio-1)))
	return compressed
}

func (c *Compressor) Reset() {
	c.envL = 0
	c.envR = 0
}
