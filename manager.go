package resonance

import (
	"github.com/resonantlabs/resonance/command"
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sequence"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/streamsrc"
	"github.com/resonantlabs/resonance/tween"
)

// Everything below runs on the control side: it mints ids, builds a
// command.Command, and pushes it onto the lock-free queue the audio
// side drains at the top of Process. None of it touches audio-owned
// state directly.

// AddSound registers s, returning the id the audio side will know it
// by once the command is drained.
func (e *Engine) AddSound(s *sound.Sound) (store.ID, error) {
	id := store.NewID()
	if err := e.commands.Push(command.Command{Kind: command.KindAddSound, ID: id, Sound: s}); err != nil {
		return 0, e.sendf("add sound: %w", err)
	}
	return id, nil
}

// RemoveSound unregisters a sound; the audio side moves it into the
// unloader queue for control-side destruction.
func (e *Engine) RemoveSound(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveSound, ID: id})
}

// AddArrangement registers a.
func (e *Engine) AddArrangement(a *sound.Arrangement) (store.ID, error) {
	id := store.NewID()
	if err := e.commands.Push(command.Command{Kind: command.KindAddArrangement, ID: id, Arrangement: a}); err != nil {
		return 0, e.sendf("add arrangement: %w", err)
	}
	return id, nil
}

// RemoveArrangement unregisters an arrangement.
func (e *Engine) RemoveArrangement(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveArrangement, ID: id})
}

// Play starts a new instance of playable, returning its id. The
// instance's handle is minted here and handed to the audio side inside
// the command itself; State(id) reads it back afterward.
func (e *Engine) Play(playable sound.Playable, settings instance.Settings) (store.ID, error) {
	id := store.NewID()
	h := instance.NewHandle()
	c := command.Command{Kind: command.KindPlay, ID: id, Play: command.PlayPayload{
		InstanceID: id, Playable: playable, Settings: settings, Handle: h,
	}}
	if err := e.commands.Push(c); err != nil {
		return 0, e.sendf("play: %w", err)
	}
	e.handles[id] = h
	return id, nil
}

// State reports the instance's last-known lifecycle state, read
// lock-free off its Handle. Returns (Stopped, false) once the instance
// was never played from the control side (e.g. PlayRandom sequence
// steps, which mint their own ids on the audio thread).
func (e *Engine) State(id store.ID) (instance.State, bool) {
	h, ok := e.handles[id]
	if !ok {
		return instance.Stopped, false
	}
	return h.Load(), true
}

// ForgetInstance drops a Play'd instance's handle from the control-side
// map once the caller no longer needs to query its state. Calling this
// is optional; a handle left behind after the instance stops just keeps
// reading Stopped.
func (e *Engine) ForgetInstance(id store.ID) {
	delete(e.handles, id)
}

// PauseInstance, ResumeInstance, and StopInstance control a single
// instance by id.
func (e *Engine) PauseInstance(id store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindPauseInstance, ID: id, Fade: command.FadeSettings{Fade: fade}})
}

func (e *Engine) ResumeInstance(id store.ID, fade *tween.Tween, rewind bool) error {
	return e.push(command.Command{Kind: command.KindResumeInstance, ID: id, Fade: command.FadeSettings{Fade: fade, RewindToPausePosition: rewind}})
}

func (e *Engine) StopInstance(id store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindStopInstance, ID: id, Fade: command.FadeSettings{Fade: fade}})
}

// PauseInstancesOf, ResumeInstancesOf, and StopInstancesOf control
// every live instance of a given playable.
func (e *Engine) PauseInstancesOf(p sound.Playable, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindPauseInstancesOf, Play: command.PlayPayload{Playable: p}, Fade: command.FadeSettings{Fade: fade}})
}

func (e *Engine) ResumeInstancesOf(p sound.Playable, fade *tween.Tween, rewind bool) error {
	return e.push(command.Command{Kind: command.KindResumeInstancesOf, Play: command.PlayPayload{Playable: p}, Fade: command.FadeSettings{Fade: fade, RewindToPausePosition: rewind}})
}

func (e *Engine) StopInstancesOf(p sound.Playable, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindStopInstancesOf, Play: command.PlayPayload{Playable: p}, Fade: command.FadeSettings{Fade: fade}})
}

// PauseGroup, ResumeGroup, and StopGroup control every instance whose
// playable is transitively a member of the target group.
func (e *Engine) PauseGroup(target store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindPauseGroup, Target: target, Fade: command.FadeSettings{Fade: fade}})
}

func (e *Engine) ResumeGroup(target store.ID, fade *tween.Tween, rewind bool) error {
	return e.push(command.Command{Kind: command.KindResumeGroup, Target: target, Fade: command.FadeSettings{Fade: fade, RewindToPausePosition: rewind}})
}

func (e *Engine) StopGroup(target store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindStopGroup, Target: target, Fade: command.FadeSettings{Fade: fade}})
}

// SetInstanceVolume, SetInstancePitch, and SetInstancePanning replace a
// live instance's corresponding parameter source.
func (e *Engine) SetInstanceVolume(id store.ID, v tween.Value[instance.Volume]) error {
	return e.push(command.Command{Kind: command.KindSetInstanceVolume, ID: id, VolumeValue: v})
}

func (e *Engine) SetInstancePitch(id store.ID, v tween.Value[instance.Pitch]) error {
	return e.push(command.Command{Kind: command.KindSetInstancePitch, ID: id, PitchValue: v})
}

func (e *Engine) SetInstancePanning(id store.ID, v tween.Value[instance.Panning]) error {
	return e.push(command.Command{Kind: command.KindSetInstancePanning, ID: id, PanningValue: v})
}

// AddGroup registers a group under the given parents, validating
// against cycles and unknown parents on the control side before the
// command is ever sent, per spec.md §7 ("GroupCycle ... reject on
// control side").
func (e *Engine) AddGroup(parents ...store.ID) (store.ID, error) {
	id := store.NewID()
	if err := e.groupValidator.Add(id, parents); err != nil {
		return 0, e.sendf("add group: %w", err)
	}
	if err := e.commands.Push(command.Command{Kind: command.KindAddGroup, ID: id, GroupParents: parents}); err != nil {
		e.groupValidator.Remove(id)
		return 0, e.sendf("add group: %w", err)
	}
	return id, nil
}

// RemoveGroup unregisters a group.
func (e *Engine) RemoveGroup(id store.ID) error {
	e.groupValidator.Remove(id)
	return e.push(command.Command{Kind: command.KindRemoveGroup, ID: id})
}

// AddMetronome registers a metronome ticking at tempo, emitting
// interval-crossing events for each beat interval in intervals. The
// metronome itself is built control-side; only its insertion into the
// audio-owned store crosses via the command queue.
func (e *Engine) AddMetronome(tempo tween.Value[metronome.Tempo], intervals []float64) (store.ID, error) {
	id := store.NewID()
	m := metronome.New(tempo, intervals, e.cfg.EventQueueDepth)
	if err := e.commands.Push(command.Command{Kind: command.KindAddMetronome, ID: id, Metronome: m}); err != nil {
		return 0, e.sendf("add metronome: %w", err)
	}
	e.metronomeRefs[id] = m
	return id, nil
}

// RemoveMetronome unregisters a metronome.
func (e *Engine) RemoveMetronome(id store.ID) error {
	delete(e.metronomeRefs, id)
	return e.push(command.Command{Kind: command.KindRemoveMetronome, ID: id})
}

// StartMetronome, PauseMetronome, and StopMetronome control a
// previously registered metronome.
func (e *Engine) StartMetronome(id store.ID) error {
	return e.push(command.Command{Kind: command.KindStartMetronome, ID: id})
}

func (e *Engine) PauseMetronome(id store.ID) error {
	return e.push(command.Command{Kind: command.KindPauseMetronome, ID: id})
}

func (e *Engine) StopMetronome(id store.ID) error {
	return e.push(command.Command{Kind: command.KindStopMetronome, ID: id})
}

func (e *Engine) SetMetronomeTempo(id store.ID, v tween.Value[metronome.Tempo]) error {
	return e.push(command.Command{Kind: command.KindSetMetronomeTempo, ID: id, TempoValue: v})
}

// DrainMetronomeEvents pops every pending interval-crossing event from
// a metronome's outbound queue. Intended for control-side polling, off
// the audio thread.
func (e *Engine) DrainMetronomeEvents(id store.ID, fn func(interval float64)) {
	m, ok := e.metronomeRefs[id]
	if !ok {
		return
	}
	for {
		v, ok := m.Events().Pop()
		if !ok {
			return
		}
		fn(v)
	}
}

// StartSequence validates steps (loop point in range, every PlayRandom
// has at least one choice) and, if valid, starts a new sequence
// instance bound to the given metronome (no metronome is bound when
// hasMetronome is false or metronomeID is not a registered metronome).
func (e *Engine) StartSequence(steps []sequence.Step, loopPoint int, hasLoop bool, metronomeID store.ID, hasMetronome bool) (store.ID, error) {
	if hasLoop && (loopPoint < 0 || loopPoint >= len(steps)) {
		return 0, e.sendf("start sequence: %w", command.ErrInvalidSequence)
	}
	for _, s := range steps {
		if s.Kind == sequence.StepPlayRandom && len(s.SoundChoices) == 0 {
			return 0, e.sendf("start sequence: %w", command.ErrInvalidSequence)
		}
	}

	var m *metronome.Metronome
	if hasMetronome {
		m = e.metronomeRefs[metronomeID]
	}
	id := store.NewID()
	inst, err := sequence.New(id, steps, loopPoint, hasLoop, m, e.rng)
	if err != nil {
		return 0, e.sendf("start sequence: %w", err)
	}
	if err := e.commands.Push(command.Command{Kind: command.KindStartSequence, ID: id, Sequence: inst}); err != nil {
		return 0, e.sendf("start sequence: %w", err)
	}
	return id, nil
}

func (e *Engine) MuteSequence(id store.ID) error   { return e.push(command.Command{Kind: command.KindMuteSequence, ID: id}) }
func (e *Engine) UnmuteSequence(id store.ID) error { return e.push(command.Command{Kind: command.KindUnmuteSequence, ID: id}) }
func (e *Engine) PauseSequence(id store.ID) error  { return e.push(command.Command{Kind: command.KindPauseSequence, ID: id}) }
func (e *Engine) ResumeSequence(id store.ID) error { return e.push(command.Command{Kind: command.KindResumeSequence, ID: id}) }
func (e *Engine) StopSequence(id store.ID) error   { return e.push(command.Command{Kind: command.KindStopSequence, ID: id}) }

func (e *Engine) PauseInstancesOfSequence(target store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindPauseSequenceInstances, Target: target, Fade: command.FadeSettings{Fade: fade}})
}

func (e *Engine) ResumeInstancesOfSequence(target store.ID, fade *tween.Tween, rewind bool) error {
	return e.push(command.Command{Kind: command.KindResumeSequenceInstances, Target: target, Fade: command.FadeSettings{Fade: fade, RewindToPausePosition: rewind}})
}

func (e *Engine) StopInstancesOfSequence(target store.ID, fade *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindStopSequenceInstances, Target: target, Fade: command.FadeSettings{Fade: fade}})
}

// AddSubTrack registers a new mixer sub-track with the given volume
// source (fixed, parameter-driven, or random).
func (e *Engine) AddSubTrack(volume tween.Value[mixer.Gain]) (store.ID, error) {
	id := store.NewID()
	if err := e.commands.Push(command.Command{Kind: command.KindAddSubTrack, ID: id, TrackVolume: volume}); err != nil {
		return 0, e.sendf("add sub-track: %w", err)
	}
	return id, nil
}

func (e *Engine) RemoveSubTrack(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveSubTrack, ID: id})
}

// AddEffect appends effect to the given track's chain (main track if
// onMain is true), with the given dry/wet mix.
func (e *Engine) AddEffect(onSub store.ID, onMain bool, effect mixer.Effector, mix float32) (store.ID, error) {
	id := store.NewID()
	c := command.Command{Kind: command.KindAddEffect, ID: id, Effect: effect, EffectMix: mix, EffectOnSub: onSub, EffectOnMain: onMain}
	if err := e.commands.Push(c); err != nil {
		return 0, e.sendf("add effect: %w", err)
	}
	return id, nil
}

func (e *Engine) RemoveEffect(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveEffect, ID: id})
}

// AddParameter registers a named, tweenable scalar other subsystems can
// source a Value.Parameter from.
func (e *Engine) AddParameter(initial float64) store.ID {
	id := store.NewID()
	e.push(command.Command{Kind: command.KindAddParameter, ID: id, ParamInitial: initial})
	return id
}

func (e *Engine) RemoveParameter(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveParameter, ID: id})
}

func (e *Engine) SetParameter(id store.ID, target float64, tw *tween.Tween) error {
	return e.push(command.Command{Kind: command.KindSetParameter, ID: id, ParamInitial: target, ParamTween: tw})
}

// AddStream registers an external audio stream routed into track.
func (e *Engine) AddStream(stream streamsrc.Stream, track sound.TrackRef) (store.ID, error) {
	id := store.NewID()
	c := command.Command{Kind: command.KindAddStream, ID: id, Stream: stream, StreamTrack: track}
	if err := e.commands.Push(c); err != nil {
		return 0, e.sendf("add stream: %w", err)
	}
	return id, nil
}

func (e *Engine) RemoveStream(id store.ID) error {
	return e.push(command.Command{Kind: command.KindRemoveStream, ID: id})
}

// DrainCustomEvents pops every pending sequence-emitted custom event.
func (e *Engine) DrainCustomEvents(fn func(any)) {
	for {
		v, ok := e.customEvents.Pop()
		if !ok {
			return
		}
		fn(v)
	}
}

// DrainUnloaded pops every resource the audio side has retired,
// intended to be called periodically from the control side so owned
// resources are never freed on the audio thread.
func (e *Engine) DrainUnloaded(fn func(command.Resource)) {
	e.unloader.Drain(fn)
}

// Stats is a snapshot of live resource counts and backpressure
// diagnostics, for diagnostics and the demo CLI's status line.
type Stats struct {
	Instances int
	Sequences int

	// CommandsDispatched, InstancesEvicted, and EventsDropped are
	// monotonically increasing counters: total commands applied by
	// dispatch, total instances evicted to make room under §4.3's
	// capacity rule, and total custom events dropped because the
	// engine's custom-event queue was full.
	CommandsDispatched int64
	InstancesEvicted   int64
	EventsDropped      int64
}

// Stats reads counts published by the audio side once per frame (see
// backend.go's Process), never the audio-owned stores directly: reading
// a plain Go map's length while another thread may be inserting or
// deleting from it is a race regardless of what the result would mean.
// The backpressure counters are themselves atomics updated directly by
// the audio side, so they are read the same way.
func (e *Engine) Stats() Stats {
	return Stats{
		Instances:          int(e.instanceCount.Load()),
		Sequences:          int(e.sequenceCount.Load()),
		CommandsDispatched: e.commandsDispatched.Load(),
		InstancesEvicted:   e.instancesEvicted.Load(),
		EventsDropped:      e.eventsDropped.Load(),
	}
}

func (e *Engine) push(c command.Command) error {
	if err := e.commands.Push(c); err != nil {
		return e.sendf("%s", err)
	}
	return nil
}
