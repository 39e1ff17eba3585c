package resonance

import (
	"github.com/resonantlabs/resonance/command"
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sequence"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

// Process renders exactly one output stereo frame, per spec.md §4.7's
// seven-step pipeline. This is the sole audio-callback entry point and
// it never blocks. It is not allocation-free: the per-call slices that
// collect sequence output and finished sequences and instances allocate
// whenever there is something to collect.
func (e *Engine) Process() frame.Frame {
	dt := e.dt()

	e.commands.Drain(e.cfg.NumCommands, e.dispatch)

	e.params.Update(dt)

	e.metronomes.Range(func(_ store.ID, m *metronome.Metronome) bool {
		m.Update(dt, e.params)
		return true
	})

	e.updateSequences(dt)

	e.playables.Tick(dt)
	e.instances.Process(dt, e.playables, e.mx, e.params)

	e.streams.Process(dt, e.mx)

	e.instanceCount.Store(int64(e.instances.Len()))
	e.sequenceCount.Store(int64(e.sequences.Len()))

	return e.mx.Process(dt, e.params)
}

// updateSequences advances every sequence instance and dispatches its
// emitted output commands immediately, so they are observed within the
// same frame's instance processing step, per spec.md §4.7 step 4.
func (e *Engine) updateSequences(dt float64) {
	var finished []store.ID
	var out []sequence.OutputCommand
	e.sequences.Range(func(id store.ID, seq *sequence.Instance) bool {
		out = out[:0]
		out = seq.Update(dt, out)
		for _, oc := range out {
			e.dispatchSequenceOutput(id, oc)
		}
		if seq.Finished() {
			finished = append(finished, id)
		}
		return true
	})
	for _, id := range finished {
		e.sequences.Remove(id)
	}
}

func (e *Engine) dispatchSequenceOutput(seqID store.ID, oc sequence.OutputCommand) {
	switch oc.Kind {
	case sequence.StepRunCommand:
		if cmd, ok := oc.Command.(command.Command); ok {
			e.dispatch(cmd)
		}
	case sequence.StepPlayRandom:
		settings, _ := oc.PlaySettings.(instance.Settings)
		e.playSound(oc.InstanceID, sound.OfSound(oc.ChosenSound), seqID, true, settings, nil)
	case sequence.StepEmitCustomEvent:
		if !e.customEvents.Push(oc.CustomEvent) {
			e.eventsDropped.Add(1)
		}
	}
}

// dispatch applies a single command to the relevant subsystem, per
// spec.md §4.7 step 1 and §7's "missing resources are silently
// ignored" propagation policy.
func (e *Engine) dispatch(c command.Command) {
	e.commandsDispatched.Add(1)
	switch c.Kind {
	case command.KindAddSound:
		e.playables.Sounds.Insert(c.ID, c.Sound)
	case command.KindRemoveSound:
		if s, ok := e.playables.Sounds.Get(c.ID); ok {
			e.playables.Sounds.Remove(c.ID)
			e.unloader.Push(command.Resource{Kind: command.ResourceSound, Sound: s})
		}
	case command.KindAddArrangement:
		e.playables.Arrangements.Insert(c.ID, c.Arrangement)
	case command.KindRemoveArrangement:
		if a, ok := e.playables.Arrangements.Get(c.ID); ok {
			e.playables.Arrangements.Remove(c.ID)
			e.unloader.Push(command.Resource{Kind: command.ResourceArrangement, Arrangement: a})
		}

	case command.KindPlay:
		e.playSound(c.Play.InstanceID, c.Play.Playable, c.Play.SequenceID, c.Play.HasSeq, c.Play.Settings, c.Play.Handle)

	case command.KindSetInstanceVolume:
		if inst, ok := e.instances.Get(c.ID); ok {
			inst.SetVolume(c.VolumeValue, e.rng)
		}
	case command.KindSetInstancePitch:
		if inst, ok := e.instances.Get(c.ID); ok {
			inst.SetPitch(c.PitchValue, e.rng)
		}
	case command.KindSetInstancePanning:
		if inst, ok := e.instances.Get(c.ID); ok {
			inst.SetPanning(c.PanningValue, e.rng)
		}

	case command.KindPauseInstance:
		e.instances.Pause(c.ID, c.Fade.Fade)
	case command.KindResumeInstance:
		e.instances.Resume(c.ID, c.Fade.Fade, c.Fade.RewindToPausePosition)
	case command.KindStopInstance:
		e.instances.Stop(c.ID, c.Fade.Fade)

	case command.KindPauseInstancesOf:
		e.instances.PauseOf(c.Play.Playable, c.Fade.Fade)
	case command.KindResumeInstancesOf:
		e.instances.ResumeOf(c.Play.Playable, c.Fade.Fade, c.Fade.RewindToPausePosition)
	case command.KindStopInstancesOf:
		e.instances.StopOf(c.Play.Playable, c.Fade.Fade)

	case command.KindPauseSequenceInstances:
		e.instances.PauseSequence(c.Target, c.Fade.Fade)
	case command.KindResumeSequenceInstances:
		e.instances.ResumeSequence(c.Target, c.Fade.Fade, c.Fade.RewindToPausePosition)
	case command.KindStopSequenceInstances:
		e.instances.StopSequence(c.Target, c.Fade.Fade)

	case command.KindPauseGroup:
		e.instances.PauseGroup(c.Target, c.Fade.Fade, e.groups, e.playables)
	case command.KindResumeGroup:
		e.instances.ResumeGroup(c.Target, c.Fade.Fade, c.Fade.RewindToPausePosition, e.groups, e.playables)
	case command.KindStopGroup:
		e.instances.StopGroup(c.Target, c.Fade.Fade, e.groups, e.playables)

	case command.KindAddMetronome:
		e.metronomes.Insert(c.ID, c.Metronome)
	case command.KindRemoveMetronome:
		// Stopping it first leaves any sequence still holding this
		// metronome with zero tempo and no interval crossings, so its
		// beat waits and WaitForInterval steps block from here on.
		if m, ok := e.metronomes.Get(c.ID); ok {
			m.Stop()
			e.metronomes.Remove(c.ID)
		}
	case command.KindSetMetronomeTempo:
		if m, ok := e.metronomes.Get(c.ID); ok {
			m.SetTempo(c.TempoValue)
		}
	case command.KindStartMetronome:
		if m, ok := e.metronomes.Get(c.ID); ok {
			m.Start()
		}
	case command.KindPauseMetronome:
		if m, ok := e.metronomes.Get(c.ID); ok {
			m.Pause()
		}
	case command.KindStopMetronome:
		if m, ok := e.metronomes.Get(c.ID); ok {
			m.Stop()
		}

	case command.KindStartSequence:
		e.sequences.Insert(c.ID, c.Sequence)
	case command.KindMuteSequence:
		if s, ok := e.sequences.Get(c.ID); ok {
			s.Mute()
		}
	case command.KindUnmuteSequence:
		if s, ok := e.sequences.Get(c.ID); ok {
			s.Unmute()
		}
	case command.KindPauseSequence:
		if s, ok := e.sequences.Get(c.ID); ok {
			s.Pause()
		}
	case command.KindResumeSequence:
		if s, ok := e.sequences.Get(c.ID); ok {
			s.Resume()
		}
	case command.KindStopSequence:
		if s, ok := e.sequences.Get(c.ID); ok {
			s.Stop()
		}

	case command.KindAddEffect:
		slot := mixer.NewEffectSlot(c.ID, c.Effect)
		slot.Mix = c.EffectMix
		if c.EffectOnMain {
			e.mx.Main.AddEffect(slot)
		} else if t, ok := e.mx.SubTrack(c.EffectOnSub); ok {
			t.AddEffect(slot)
		}

	case command.KindAddSubTrack:
		e.mx.AddTrack(mixer.NewTrack(c.ID, c.TrackVolume))
	case command.KindRemoveSubTrack:
		e.mx.RemoveTrack(c.ID)
	case command.KindRemoveEffect:
		e.mx.RemoveEffect(c.ID)

	case command.KindAddParameter:
		e.params.Add(tween.ParameterID(c.ID), c.ParamInitial)
	case command.KindRemoveParameter:
		e.params.Remove(tween.ParameterID(c.ID))
	case command.KindSetParameter:
		e.params.Set(tween.ParameterID(c.ID), c.ParamInitial, c.ParamTween)

	case command.KindAddGroup:
		e.groups.Add(c.ID, c.GroupParents)
	case command.KindRemoveGroup:
		e.groups.Remove(c.ID)

	case command.KindAddStream:
		e.streams.Add(c.ID, c.Stream, c.StreamTrack)
	case command.KindRemoveStream:
		e.streams.Remove(c.ID)
	}
}

func (e *Engine) playSound(id store.ID, playable sound.Playable, seqID store.ID, hasSeq bool, settings instance.Settings, handle *instance.Handle) {
	duration := e.playables.Duration(playable)
	if !settings.HasLoopStart {
		if ls, ok := e.playables.DefaultLoopStart(playable); ok {
			settings.LoopStart, settings.HasLoopStart = ls, true
		}
	}
	if settings.Track == (sound.TrackRef{}) {
		settings.Track = e.playables.DefaultTrack(playable)
	}
	settings.SequenceID, settings.HasSequenceID = seqID, hasSeq

	inst := instance.New(id, playable, duration, settings, e.rng)
	inst.AttachHandle(handle)
	if _, evicted := e.instances.Play(inst, e.playables); evicted {
		e.instancesEvicted.Add(1)
	}
}
