package mixer

import (
	"math"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// Distortion is waveshaping distortion with pre/post gain and a
// one-pole lowpass filter.
type Distortion struct {
	preGain   float32
	postGain  float32
	lpfCutoff float32
	lpfL      float32
	lpfR      float32

	preGainParam    tween.ParameterID
	hasPreGainParam bool
}

// NewDistortion creates a distortion effect.
// preGain: input gain (higher = more distortion)
// postGain: output gain
// lpfCutoff: lowpass filter cutoff in Hz (0 = no filter)
func NewDistortion(preGain, postGain, lpfCutoff float32) *Distortion {
	return &Distortion{
		preGain:   preGain,
		postGain:  postGain,
		lpfCutoff: lpfCutoff,
	}
}

// BindPreGain makes the drive amount track a live Parameter instead of
// the value fixed at construction, resolved each Process call from
// params.
func (d *Distortion) BindPreGain(id tween.ParameterID) {
	d.preGainParam = id
	d.hasPreGainParam = true
}

// Process recomputes the lowpass coefficient from the call's own dt
// rather than a sample rate frozen at construction, so the cutoff stays
// correct under the engine's actual callback rate.
func (d *Distortion) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	preGain := d.preGain
	if d.hasPreGainParam && params != nil {
		if raw, ok := params.Value(d.preGainParam); ok {
			preGain = float32(raw)
		}
	}

	l := in.Left * preGain
	r := in.Right * preGain
	// Soft clipping via tanh waveshaping
	l = float32(math.Tanh(float64(l)))
	r = float32(math.Tanh(float64(r)))
	l *= d.postGain
	r *= d.postGain

	if d.lpfCutoff > 0 {
		nyquist := 0.5 / dt
		if dt > 0 && d.lpfCutoff < float32(nyquist) {
			rc := 1.0 / (2.0 * math.Pi * float64(d.lpfCutoff))
			alpha := float32(dt / (rc + dt))
			d.lpfL += alpha * (l - d.lpfL)
			d.lpfR += alpha * (r - d.lpfR)
			l = d.lpfL
			r = d.lpfR
		}
	}
	return frame.Frame{Left: l, Right: r}
}

func (d *Distortion) Reset() {
	d.lpfL = 0
	d.lpfR = 0
}
