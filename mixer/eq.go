package mixer

import (
	"math"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/tween"
)

// EQ3Band is a simple 3-band equalizer.
type EQ3Band struct {
	lowGain  float32
	midGain  float32
	highGain float32
	lowFreq  float32
	highFreq float32
	lpL, lpR float32 // lowpass state
	hpL, hpR float32 // highpass state
}

// NewEQ3Band creates a 3-band EQ.
// lowGain, midGain, highGain: gain for each band (1.0 = unity)
// lowFreq: crossover frequency between low and mid bands
// highFreq: crossover frequency between mid and high bands
func NewEQ3Band(lowGain, midGain, highGain, lowFreq, highFreq float32) *EQ3Band {
	return &EQ3Band{
		lowGain:  lowGain,
		midGain:  midGain,
		highGain: highGain,
		lowFreq:  lowFreq,
		highFreq: highFreq,
	}
}

// Process recomputes the crossover filter coefficients from the call's
// own dt rather than a sample rate frozen at construction.
func (eq *EQ3Band) Process(dt float64, in frame.Frame, params tween.Registry) frame.Frame {
	lpRC := 1.0 / (2.0 * math.Pi * float64(eq.lowFreq))
	hpRC := 1.0 / (2.0 * math.Pi * float64(eq.highFreq))
	lpAlpha := float32(dt / (lpRC + dt))
	hpAlpha := float32(dt / (hpRC + dt))

	// Low band (LP filter)
	eq.lpL += lpAlpha * (in.Left - eq.lpL)
	eq.lpR += lpAlpha * (in.Right - eq.lpR)
	lowL, lowR := eq.lpL, eq.lpR

	// High band (HP filter)
	eq.hpL += hpAlpha * (in.Left - eq.hpL)
	eq.hpR += hpAlpha * (in.Right - eq.hpR)
	highL := in.Left - eq.hpL
	highR := in.Right - eq.hpR

	// Mid band (everything between)
	midL := in.Left - lowL - highL
	midR := in.Right - lowR - highR

	return frame.Frame{
		Left:  lowL*eq.lowGain + midL*eq.midGain + highL*eq.highGain,
		Right: lowR*eq.lowGain + midR*eq.midGain + highR*eq.highGain,
	}
}

func (eq *EQ3Band) Reset() {
	eq.lpL, eq.lpR = 0, 0
	eq.hpL, eq.hpR = 0, 0
}
