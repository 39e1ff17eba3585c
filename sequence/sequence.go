// Package sequence implements the step interpreter of spec.md §4.6,
// grounded verbatim on
// original_source/old/kira/src/sequence/instance.rs.
package sequence

import (
	"errors"

	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/store"
)

// ErrInvalid is returned when a sequence's steps reference a
// WaitForInterval or a beat-based Wait but the sequence has no bound
// metronome: such a sequence can never make progress past that step,
// per spec.md §9's open-question resolution (see DESIGN.md).
var ErrInvalid = errors.New("sequence: step requires a metronome but none is bound")

// State is the sequence instance's lifecycle state.
type State int

const (
	Playing State = iota
	Paused
	Finished
)

// Duration is a Wait step's length, expressed either in wall-clock
// seconds or in beats (converted via the bound metronome's tempo).
type Duration struct {
	Seconds float64
	Beats   float64
	IsBeats bool
}

// InSeconds converts the duration to seconds given the tempo in effect.
// A beats duration with tempo == 0 (no metronome, or a stopped one)
// never completes, per spec.md §4.6.
func (d Duration) InSeconds(tempo metronome.Tempo) float64 {
	if !d.IsBeats {
		return d.Seconds
	}
	if tempo == 0 {
		return 0 // treated as +Inf by the caller: dt/0 never reduces the timer below zero meaningfully, so callers must special-case 0.
	}
	return d.Beats / (float64(tempo) / 60.0)
}

// StepKind tags which variant a Step holds.
type StepKind int

const (
	StepWait StepKind = iota
	StepWaitForInterval
	StepRunCommand
	StepPlayRandom
	StepEmitCustomEvent
)

// Step is one instruction in a sequence's program.
type Step struct {
	Kind StepKind

	WaitDuration Duration
	Interval     float64

	// RunCommand: an opaque command to emit verbatim. The sequence
	// package cannot name the command package's Command type: command
	// imports sequence (a Command carries a *sequence.Instance), so the
	// reverse import would be a cycle. The engine type-asserts the value
	// back to a command.Command when it dispatches the step's output.
	Command any

	// PlayRandom.
	InstanceID   store.ID
	SoundChoices []store.ID
	PlaySettings any

	CustomEvent any
}

// OutputCommand is a decoded RunCommand/PlayRandom/EmitCustomEvent
// ready for the owning engine to dispatch.
type OutputCommand struct {
	Kind         StepKind
	Command      any
	InstanceID   store.ID
	ChosenSound  store.ID
	PlaySettings any
	CustomEvent  any
}

// Instance is a single running (or paused, or finished) occurrence of a
// sequence's step program.
type Instance struct {
	ID        store.ID
	steps     []Step
	loopPoint int
	hasLoop   bool
	metronome *metronome.Metronome

	state     State
	position  int
	waitTimer float64
	hasTimer  bool
	muted     bool

	rng interface{ Intn(int) int }
}

// New validates and constructs a sequence instance. It rejects (with
// ErrInvalid) a program that can never complete: a WaitForInterval or a
// beats-based Wait step with no bound metronome.
func New(id store.ID, steps []Step, loopPoint int, hasLoop bool, m *metronome.Metronome, rng interface{ Intn(int) int }) (*Instance, error) {
	if m == nil {
		for _, s := range steps {
			if s.Kind == StepWaitForInterval {
				return nil, ErrInvalid
			}
			if s.Kind == StepWait && s.WaitDuration.IsBeats {
				return nil, ErrInvalid
			}
		}
	}
	inst := &Instance{ID: id, steps: steps, loopPoint: loopPoint, hasLoop: hasLoop, metronome: m, rng: rng}
	inst.startStep(0)
	return inst, nil
}

func (s *Instance) startStep(index int) {
	if index < len(s.steps) {
		s.position = index
		if s.steps[index].Kind == StepWait {
			s.waitTimer = 1.0
			s.hasTimer = true
		} else {
			s.hasTimer = false
		}
		return
	}
	if s.hasLoop {
		s.reassignLoopedInstanceIDs()
		s.startStep(s.loopPoint)
		return
	}
	s.state = Finished
}

// reassignLoopedInstanceIDs mints fresh ids for every PlayRandom step's
// target instance, so each loop iteration produces distinct instances,
// per spec.md §4.6.
func (s *Instance) reassignLoopedInstanceIDs() {
	for i := range s.steps {
		if s.steps[i].Kind == StepPlayRandom {
			s.steps[i].InstanceID = store.NewID()
		}
	}
}

func (s *Instance) Mute()   { s.muted = true }
func (s *Instance) Unmute() { s.muted = false }
func (s *Instance) Pause()  { s.state = Paused }
func (s *Instance) Resume() { s.state = Playing }
func (s *Instance) Stop()   { s.state = Finished }

// State returns the current lifecycle state.
func (s *Instance) State() State { return s.state }

// Finished reports whether this instance has completed and should be
// removed from its owning collection.
func (s *Instance) Finished() bool { return s.state == Finished }

// Update drains steps in a loop (so zero-duration steps complete within
// the same frame) while Playing, appending any emitted output commands
// to out. The inner loop is bounded by len(steps) iterations per call
// so a pathological loop_point chain of all-zero-duration steps cannot
// hang the audio callback (spec.md §9 design note).
// Grounded on instance.rs's `loop { match state { ... } }`.
func (s *Instance) Update(dt float64, out []OutputCommand) []OutputCommand {
	bound := len(s.steps)
	for iter := 0; iter < bound; iter++ {
		if s.state != Playing {
			return out
		}
		if s.position >= len(s.steps) {
			return out
		}
		step := s.steps[s.position]
		switch step.Kind {
		case StepWait:
			tempo := metronome.Tempo(0)
			if s.metronome != nil {
				tempo = s.metronome.EffectiveTempo()
			}
			durSeconds := step.WaitDuration.InSeconds(tempo)
			if step.WaitDuration.IsBeats && durSeconds <= 0 {
				return out // beats-based wait with no ticking metronome: never completes
			}
			s.waitTimer -= dt / durSeconds
			if s.waitTimer <= 0 {
				s.startStep(s.position + 1)
				continue
			}
			return out

		case StepWaitForInterval:
			if s.metronome != nil && s.metronome.IntervalPassed(step.Interval) {
				s.startStep(s.position + 1)
				continue
			}
			return out

		case StepRunCommand:
			if !s.muted {
				out = append(out, OutputCommand{Kind: StepRunCommand, Command: step.Command})
			}
			s.startStep(s.position + 1)

		case StepPlayRandom:
			choice := step.SoundChoices[s.rng.Intn(len(step.SoundChoices))]
			if !s.muted {
				out = append(out, OutputCommand{
					Kind:         StepPlayRandom,
					InstanceID:   step.InstanceID,
					ChosenSound:  choice,
					PlaySettings: step.PlaySettings,
				})
			}
			s.startStep(s.position + 1)

		case StepEmitCustomEvent:
			if !s.muted {
				out = append(out, OutputCommand{Kind: StepEmitCustomEvent, CustomEvent: step.CustomEvent})
			}
			s.startStep(s.position + 1)
		}
	}
	return out
}
