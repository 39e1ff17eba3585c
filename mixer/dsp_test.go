package mixer

import (
	"math"
	"testing"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

const testDt = 1.0 / 44100.0

func TestDelayProducesOutput(t *testing.T) {
	d := NewDelay(44100, 100, 0.5, 0)
	d.Process(testDt, frame.Frame{Left: 1.0, Right: 1.0}, nil)
	for i := 0; i < 4409; i++ { // ~100ms at 44100Hz
		d.Process(testDt, frame.Silence, nil)
	}
	out := d.Process(testDt, frame.Silence, nil)
	if math.Abs(float64(out.Left)) < 0.01 || math.Abs(float64(out.Right)) < 0.01 {
		t.Errorf("expected delayed output, got l=%f r=%f", out.Left, out.Right)
	}
}

func TestDelayFeedbackTracksBoundParameter(t *testing.T) {
	d := NewDelay(44100, 100, 0.0, 0)
	d.BindFeedback(1)
	params := fakeRegistry{1: 0.9}
	d.Process(testDt, frame.Frame{Left: 1.0, Right: 1.0}, params)
	for i := 0; i < 4409; i++ {
		d.Process(testDt, frame.Silence, params)
	}
	loud := d.Process(testDt, frame.Silence, params)
	if math.Abs(float64(loud.Left)) < 0.01 {
		t.Error("expected a bound high-feedback parameter to sustain the echo")
	}
}

func TestReverbProducesOutput(t *testing.T) {
	r := NewReverb(44100, 0.5, 0.7)
	r.Process(testDt, frame.Frame{Left: 1.0, Right: 1.0}, nil)
	var maxOut float32
	for i := 0; i < 10000; i++ {
		out := r.Process(testDt, frame.Silence, nil)
		if out.Left > maxOut {
			maxOut = out.Left
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestDistortionClips(t *testing.T) {
	d := NewDistortion(10, 0.5, 0)
	out := d.Process(testDt, frame.Frame{Left: 0.5, Right: 0.5}, nil)
	if math.Abs(float64(out.Left)) > 1.0 || math.Abs(float64(out.Right)) > 1.0 {
		t.Error("distortion output should be bounded")
	}
	if math.Abs(float64(out.Left)) < 0.01 {
		t.Error("expected non-zero distortion output")
	}
}

func TestDistortionPreGainTracksBoundParameter(t *testing.T) {
	quiet := NewDistortion(1, 1, 0)
	loud := NewDistortion(1, 1, 0)
	loud.BindPreGain(1)
	params := fakeRegistry{1: 10}
	qOut := quiet.Process(testDt, frame.Frame{Left: 0.1, Right: 0.1}, nil)
	lOut := loud.Process(testDt, frame.Frame{Left: 0.1, Right: 0.1}, params)
	if math.Abs(float64(lOut.Left)) <= math.Abs(float64(qOut.Left)) {
		t.Error("expected a bound higher pre-gain parameter to drive the waveshaper harder")
	}
}

func TestEQ3BandUnityGain(t *testing.T) {
	eq := NewEQ3Band(1.0, 1.0, 1.0, 300, 3000)
	for i := 0; i < 1000; i++ {
		eq.Process(testDt, frame.Frame{Left: 0.5, Right: 0.5}, nil)
	}
	out := eq.Process(testDt, frame.Frame{Left: 0.5, Right: 0.5}, nil)
	if math.Abs(float64(out.Left)-0.5) > 0.1 || math.Abs(float64(out.Right)-0.5) > 0.1 {
		t.Errorf("expected ~0.5 with unity gains, got l=%f r=%f", out.Left, out.Right)
	}
}

func TestEQ5BandBoundGainOverridesSetGain(t *testing.T) {
	eq := NewEQ5Band()
	eq.SetGain(0, 1.0)
	eq.BindGain(0, 1)
	params := fakeRegistry{1: 0}
	var out frame.Frame
	for i := 0; i < 200; i++ {
		out = eq.Process(testDt, frame.Frame{Left: 0.5, Right: 0.5}, params)
	}
	// A constant input settles almost entirely into band 0, so a bound
	// gain of 0 on that band must silence nearly all of it.
	if math.Abs(float64(out.Left)) > 0.1 {
		t.Errorf("expected the bound zero gain to override SetGain's unity gain on band 0, got l=%f", out.Left)
	}
	if g := eq.Gain(0); g != 1.0 {
		t.Errorf("SetGain should be unaffected by a bound parameter override, got %f", g)
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(-10, 4, 1, 50, 0)
	var out frame.Frame
	for i := 0; i < 1000; i++ {
		out = c.Process(testDt, frame.Frame{Left: 1.0, Right: 1.0}, nil)
	}
	if out.Left >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out.Left)
	}
}

func TestEffectSlotBlendsDryWet(t *testing.T) {
	slot := NewEffectSlot(store.NewID(), NewDistortion(50, 1, 0))
	in := frame.Frame{Left: 0.5, Right: 0.5}

	slot.Mix = 0
	out := slot.Process(testDt, in, nil)
	if out.Left != 0.5 || out.Right != 0.5 {
		t.Errorf("mix=0 should pass dry signal through unchanged, got l=%f r=%f", out.Left, out.Right)
	}

	slot.Mix = 1
	out2 := slot.Process(testDt, in, nil)
	if out2.Left == 0.5 {
		t.Error("mix=1 should pass the fully wet signal")
	}

	slot.Enabled = false
	out3 := slot.Process(testDt, in, nil)
	if out3.Left != 0.5 || out3.Right != 0.5 {
		t.Error("a disabled slot should pass the dry signal through unchanged")
	}
}

// fakeRegistry is a minimal tween.Registry for exercising effect
// parameter bindings without a full tween.Parameters store.
type fakeRegistry map[tween.ParameterID]float64

func (r fakeRegistry) Value(id tween.ParameterID) (float64, bool) {
	v, ok := r[id]
	return v, ok
}
