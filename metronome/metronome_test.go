package metronome

import (
	"testing"

	"github.com/resonantlabs/resonance/tween"
)

func TestMetronomeFiresAtTimeZero(t *testing.T) {
	m := New(tween.Fixed[Tempo](60), []float64{1}, 4)
	m.Start()
	m.Update(0.01, nil)
	if _, ok := m.Events().Pop(); !ok {
		t.Fatal("expected an event fired at t=0")
	}
}

func TestMetronomeEmitsOnIntervalCrossing(t *testing.T) {
	m := New(tween.Fixed[Tempo](60), []float64{1}, 4)
	m.Start()
	m.Update(0.01, nil) // fires the t=0 event, drain it
	m.Events().Pop()

	// at 60bpm, 1 beat = 1 second. Step to just before and then across 1.0.
	m.Update(0.98, nil)
	if _, ok := m.Events().Pop(); ok {
		t.Fatal("should not have crossed the interval yet")
	}
	m.Update(0.05, nil)
	if _, ok := m.Events().Pop(); !ok {
		t.Fatal("expected interval crossing event")
	}
}

func TestMetronomePauseDoesNotResetTime(t *testing.T) {
	m := New(tween.Fixed[Tempo](60), nil, 4)
	m.Start()
	m.Update(0.5, nil)
	m.Pause()
	if m.EffectiveTempo() != 0 {
		t.Fatal("effective tempo should be 0 while not ticking")
	}
	m.Start()
	m.Update(0.0001, nil)
	if m.time < 0.5 {
		t.Fatal("pause should not reset elapsed time")
	}
}

func TestMetronomeStopResetsTime(t *testing.T) {
	m := New(tween.Fixed[Tempo](60), nil, 4)
	m.Start()
	m.Update(0.5, nil)
	m.Stop()
	if m.time != 0 || m.prev != 0 {
		t.Fatal("stop should reset both time and previous_time to zero")
	}
}

func TestRingBufferDropsOnOverflow(t *testing.T) {
	r := NewRingBuffer(2)
	r.Push(1)
	r.Push(2)
	r.Push(3) // dropped
	var got []float64
	for {
		v, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}
