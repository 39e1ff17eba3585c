package sound

import (
	"testing"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/store"
)

func mono(vals ...float32) []frame.Frame {
	out := make([]frame.Frame, len(vals))
	for i, v := range vals {
		out[i] = frame.FromMono(v)
	}
	return out
}

func TestSoundFrameAtInterpolates(t *testing.T) {
	s := NewSound(2, mono(0, 1), Settings{})
	got := s.FrameAt(0.25)
	if got.Left != 0.5 {
		t.Fatalf("expected interpolated 0.5, got %v", got.Left)
	}
}

func TestSoundFrameAtOutOfRangeIsSilent(t *testing.T) {
	s := NewSound(1, mono(1), Settings{})
	if got := s.FrameAt(5); got != frame.Silence {
		t.Fatalf("expected silence, got %v", got)
	}
	if got := s.FrameAt(-1); got != frame.Silence {
		t.Fatalf("expected silence for negative t, got %v", got)
	}
}

func TestSoundCooldownBlocksThenExpires(t *testing.T) {
	s := NewSound(1, mono(1), Settings{Cooldown: 1})
	s.StartCooldown()
	if !s.CoolingDown() {
		t.Fatal("expected cooldown to be active")
	}
	s.Tick(0.5)
	if !s.CoolingDown() {
		t.Fatal("expected cooldown still active at 0.5s")
	}
	s.Tick(0.6)
	if s.CoolingDown() {
		t.Fatal("expected cooldown expired past 1s total")
	}
}

func TestArrangementDurationIsMaxClipEnd(t *testing.T) {
	a := NewArrangement([]SoundClip{
		{ClipStart: 0, ClipEnd: 1},
		{ClipStart: 0.5, ClipEnd: 3},
	}, Settings{})
	if a.Duration() != 3 {
		t.Fatalf("expected duration 3, got %v", a.Duration())
	}
}

func TestArrangementFrameAtSumsOverlappingClips(t *testing.T) {
	sounds := store.New[store.ID, *Sound](4)
	id1, id2 := store.NewID(), store.NewID()
	sounds.Insert(id1, NewSound(1, mono(1, 1), Settings{}))
	sounds.Insert(id2, NewSound(1, mono(1, 1), Settings{}))

	a := NewArrangement([]SoundClip{
		{SoundID: id1, ClipStart: 0, ClipEnd: 1, PlaybackRate: 1},
		{SoundID: id2, ClipStart: 0, ClipEnd: 1, PlaybackRate: 1},
	}, Settings{})

	got := a.FrameAt(0, sounds)
	if got.Left != 2 {
		t.Fatalf("expected summed contribution of 2, got %v", got.Left)
	}
}

func TestPlayablesDispatchesToSoundAndArrangement(t *testing.T) {
	sounds := store.New[store.ID, *Sound](4)
	arrangements := store.New[store.ID, *Arrangement](4)
	ps := &Playables{Sounds: sounds, Arrangements: arrangements}

	sid := store.NewID()
	sounds.Insert(sid, NewSound(1, mono(1), Settings{Cooldown: 1}))
	aid := store.NewID()
	arrangements.Insert(aid, NewArrangement([]SoundClip{{SoundID: sid, ClipStart: 0, ClipEnd: 1, PlaybackRate: 1}}, Settings{}))

	sp := OfSound(sid)
	ap := OfArrangement(aid)

	if ps.Duration(sp) != 1 {
		t.Errorf("expected sound duration 1, got %v", ps.Duration(sp))
	}
	if ps.Duration(ap) != 1 {
		t.Errorf("expected arrangement duration 1, got %v", ps.Duration(ap))
	}

	ps.StartCooldown(sp)
	if !ps.CoolingDown(sp) {
		t.Error("expected sound cooldown active")
	}
	ps.Tick(2)
	if ps.CoolingDown(sp) {
		t.Error("expected cooldown expired after tick")
	}

	if got := ps.FrameAt(sp, 0); got.Left != 1 {
		t.Errorf("expected frame 1, got %v", got.Left)
	}

	missing := OfSound(store.NewID())
	if ps.Duration(missing) != 0 {
		t.Error("expected zero duration for missing resource")
	}
	if got := ps.FrameAt(missing, 0); got != frame.Silence {
		t.Error("expected silence for missing resource")
	}
}
