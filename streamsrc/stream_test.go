package streamsrc

import (
	"testing"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
)

type constStream struct{ f frame.Frame }

func (c constStream) Next(dt float64) frame.Frame { return c.f }

type fakeMixer struct{ got frame.Frame }

func (m *fakeMixer) AddInput(ref sound.TrackRef, f frame.Frame) { m.got = m.got.Add(f) }

func TestProcessRoutesEveryStreamIntoItsTrack(t *testing.T) {
	s := New(4)
	id1, id2 := store.NewID(), store.NewID()
	s.Add(id1, constStream{frame.Frame{Left: 1, Right: 1}}, sound.MainTrack)
	s.Add(id2, constStream{frame.Frame{Left: 2, Right: 2}}, sound.MainTrack)

	m := &fakeMixer{}
	s.Process(1.0/44100, m)

	if m.got.Left != 3 {
		t.Fatalf("expected summed left channel 3, got %v", m.got.Left)
	}
}

func TestRemoveStopsFutureSampling(t *testing.T) {
	s := New(4)
	id := store.NewID()
	s.Add(id, constStream{frame.Frame{Left: 1, Right: 1}}, sound.MainTrack)
	s.Remove(id)

	m := &fakeMixer{}
	s.Process(1.0/44100, m)
	if m.got != frame.Silence {
		t.Fatal("expected no contribution after removal")
	}
}
