package resonance

import (
	"errors"
	"testing"

	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/group"
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

func testSound(t *testing.T, sampleRate int, vs ...float32) *sound.Sound {
	t.Helper()
	frames := make([]frame.Frame, len(vs))
	for i, v := range vs {
		frames[i] = frame.FromMono(v)
	}
	return sound.NewSound(sampleRate, frames, sound.Settings{})
}

func fixedSettings() instance.Settings {
	return instance.Settings{
		Volume:  tween.Fixed[instance.Volume](1),
		Pitch:   tween.Fixed[instance.Pitch](1),
		Panning: tween.Fixed[instance.Panning](0.5),
	}
}

func TestPlaySoundProducesNonSilentOutputThenStops(t *testing.T) {
	e := New(WithSampleRate(4))
	id, err := e.AddSound(testSound(t, 4, 1, 1, 1, 1))
	if err != nil {
		t.Fatalf("AddSound: %v", err)
	}

	instID, err := e.Play(sound.OfSound(id), fixedSettings())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	f := e.Process() // drains the AddSound + Play commands, then renders frame 0
	if f.Mono() == 0 {
		t.Fatal("expected non-silent output from a playing instance")
	}
	if s, ok := e.State(instID); !ok || s != instance.Playing {
		t.Fatalf("expected Playing after the first frame, got %v ok=%v", s, ok)
	}

	for i := 0; i < 8; i++ {
		e.Process()
	}
	if s, _ := e.State(instID); s != instance.Stopped {
		t.Fatalf("expected Stopped once the sound's duration has elapsed, got %v", s)
	}
}

func TestProcessIsSilentWithNothingPlaying(t *testing.T) {
	e := New(WithSampleRate(48000))
	f := e.Process()
	if f != frame.Silence {
		t.Fatalf("expected silence from an idle engine, got %v", f)
	}
}

func TestPauseThenResumeChangesState(t *testing.T) {
	e := New(WithSampleRate(4))
	id, _ := e.AddSound(testSound(t, 4, 1, 1, 1, 1, 1, 1, 1, 1))
	instID, _ := e.Play(sound.OfSound(id), fixedSettings())
	e.Process()

	if err := e.PauseInstance(instID, nil); err != nil {
		t.Fatalf("PauseInstance: %v", err)
	}
	e.Process()
	if s, _ := e.State(instID); s != instance.Paused {
		t.Fatalf("expected Paused, got %v", s)
	}

	if err := e.ResumeInstance(instID, nil, false); err != nil {
		t.Fatalf("ResumeInstance: %v", err)
	}
	e.Process()
	if s, _ := e.State(instID); s != instance.Playing {
		t.Fatalf("expected Playing after resume, got %v", s)
	}
}

func TestAddGroupRejectsUnknownParentOnControlSide(t *testing.T) {
	e := New()
	a, err := e.AddGroup()
	if err != nil {
		t.Fatalf("AddGroup(a): %v", err)
	}
	b, err := e.AddGroup(a)
	if err != nil {
		t.Fatalf("AddGroup(b, parent=a): %v", err)
	}
	// A parent that was never registered must be rejected synchronously,
	// before any command reaches the audio-side queue.
	if _, err := e.AddGroup(store.NewID()); !errors.Is(err, group.ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup for an unregistered parent, got %v", err)
	}

	if !e.groupValidator.HasAncestor(b, a) {
		t.Fatal("expected b's validated ancestry to include a")
	}
}

func TestAddEffectOnSubTrackBlendsOutput(t *testing.T) {
	e := New(WithSampleRate(4))
	trackID, err := e.AddSubTrack(tween.Fixed[mixer.Gain](1))
	if err != nil {
		t.Fatalf("AddSubTrack: %v", err)
	}
	if _, err := e.AddEffect(trackID, false, mixer.NewDistortion(50, 1, 0), 1); err != nil {
		t.Fatalf("AddEffect: %v", err)
	}

	id, _ := e.AddSound(testSound(t, 4, 1, 1, 1, 1))
	settings := fixedSettings()
	settings.Track = sound.TrackRef{IsSub: true, ID: trackID}
	if _, err := e.Play(sound.OfSound(id), settings); err != nil {
		t.Fatalf("Play: %v", err)
	}

	f := e.Process()
	if f == frame.Silence {
		t.Fatal("expected non-silent output routed through the sub-track's effect")
	}
}

func TestMetronomeEventsAreObservableFromControlSide(t *testing.T) {
	e := New(WithSampleRate(4))
	id, err := e.AddMetronome(tween.Fixed[metronome.Tempo](240), []float64{1})
	if err != nil {
		t.Fatalf("AddMetronome: %v", err)
	}
	if err := e.StartMetronome(id); err != nil {
		t.Fatalf("StartMetronome: %v", err)
	}

	var fired int
	for i := 0; i < 8; i++ {
		e.Process()
		e.DrainMetronomeEvents(id, func(float64) { fired++ })
	}
	if fired == 0 {
		t.Fatal("expected at least one interval-crossing event at 240bpm over 2 seconds")
	}
}

func TestStatsReflectsLiveInstanceCount(t *testing.T) {
	e := New(WithSampleRate(4))
	id, _ := e.AddSound(testSound(t, 4, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1))
	e.Play(sound.OfSound(id), fixedSettings())
	e.Process()
	if got := e.Stats().Instances; got != 1 {
		t.Fatalf("expected 1 live instance, got %d", got)
	}
}
