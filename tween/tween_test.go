package tween

import (
	"math"
	"testing"
)

func TestParameterSnapWithoutTween(t *testing.T) {
	p := NewParameter(0)
	p.Set(5, nil)
	if p.Value() != 5 {
		t.Errorf("expected snap to 5, got %f", p.Value())
	}
	if p.Tweening() {
		t.Error("expected no active tween after a snap")
	}
}

func TestParameterLinearTweenReachesTarget(t *testing.T) {
	p := NewParameter(0)
	tw := Tween{Duration: 1, Easing: EaseLinear}
	p.Set(10, &tw)
	for i := 0; i < 10; i++ {
		p.Update(0.1)
	}
	if math.Abs(p.Value()-10) > 1e-6 {
		t.Errorf("expected tween to reach target 10, got %f", p.Value())
	}
}

func TestParameterTweenFinishesExactlyOnce(t *testing.T) {
	p := NewParameter(0)
	tw := Tween{Duration: 0.5, Easing: EaseLinear}
	p.Set(1, &tw)
	finishedCount := 0
	for i := 0; i < 20; i++ {
		if p.Update(0.1) {
			finishedCount++
		}
	}
	if finishedCount != 1 {
		t.Errorf("expected exactly one finish report, got %d", finishedCount)
	}
}

func TestParameterMonotonicDuringLinearFadeOut(t *testing.T) {
	p := NewParameter(1)
	tw := Tween{Duration: 1, Easing: EaseLinear}
	p.Set(0, &tw)
	prev := 1.0
	for i := 0; i < 20; i++ {
		p.Update(0.05)
		if p.Value() > prev+1e-9 {
			t.Fatalf("fade-out volume increased: prev=%f now=%f", prev, p.Value())
		}
		prev = p.Value()
	}
}

func TestClampedValueBounds(t *testing.T) {
	p := NewParameter(0.5)
	p.Set(2.0, nil) // out-of-range target snapped directly
	if p.ClampedValue() != 1 {
		t.Errorf("expected clamp to 1, got %f", p.ClampedValue())
	}
	p.Set(-2.0, nil)
	if p.ClampedValue() != 0 {
		t.Errorf("expected clamp to 0, got %f", p.ClampedValue())
	}
}

func TestEasingInPowi(t *testing.T) {
	if v := InPowi.Apply(0.5, 2); math.Abs(v-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %f", v)
	}
}

func TestEasingOutPowi(t *testing.T) {
	if v := OutPowi.Apply(0.5, 2); math.Abs(v-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", v)
	}
}

func TestCachedValueFixed(t *testing.T) {
	rng := &fakeRNG{}
	cv := NewCachedValue(Fixed(3.0), 0, rng)
	if cv.Value() != 3 {
		t.Errorf("expected 3, got %f", cv.Value())
	}
}

func TestCachedValueRandomDrawnOnceNotPerFrame(t *testing.T) {
	rng := &fakeRNG{seq: []float64{0.0, 1.0}}
	cv := NewCachedValue(Random(0.0, 10.0), 0, rng)
	first := cv.Value()
	params := NewParameters(1)
	cv.Update(params)
	if cv.Value() != first {
		t.Errorf("random value should not change on Update: was %f now %f", first, cv.Value())
	}
}

func TestCachedValueParameterTracksRegistry(t *testing.T) {
	params := NewParameters(4)
	const id ParameterID = 1
	params.Add(id, 2.0)
	rng := &fakeRNG{}
	cv := NewCachedValue[float64](FromParameter[float64](id, DefaultMapping()), 0, rng)
	cv.Update(params)
	if cv.Value() != 2.0 {
		t.Errorf("expected cached value to track parameter, got %f", cv.Value())
	}
	params.Set(id, 9.0, nil)
	cv.Update(params)
	if cv.Value() != 9.0 {
		t.Errorf("expected cached value to track updated parameter, got %f", cv.Value())
	}
}

func TestParametersRejectsOverCapacity(t *testing.T) {
	params := NewParameters(1)
	if !params.Add(1, 0) {
		t.Fatal("expected first add to succeed")
	}
	if params.Add(2, 0) {
		t.Fatal("expected second add to fail at capacity")
	}
}

func TestParametersRemoveUnknownIsNoOp(t *testing.T) {
	params := NewParameters(2)
	params.Remove(999) // must not panic
}

type fakeRNG struct {
	seq []float64
	i   int
}

func (f *fakeRNG) Float64() float64 {
	if len(f.seq) == 0 {
		return 0.5
	}
	v := f.seq[f.i%len(f.seq)]
	f.i++
	return v
}
