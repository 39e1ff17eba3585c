package command

import (
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sequence"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/streamsrc"
	"github.com/resonantlabs/resonance/tween"
)

// Kind tags which variant a Command holds. Go has no sum-type syntax, so
// Command carries every variant's payload as an optional field behind a
// Kind tag, mirroring kira's Command enum family (ResourceCommand,
// InstanceCommand, MetronomeCommand, SequenceCommand, MixerCommand,
// ParameterCommand, GroupCommand) flattened into one dispatchable value.
type Kind int

const (
	KindAddSound Kind = iota
	KindRemoveSound
	KindAddArrangement
	KindRemoveArrangement

	KindPlay
	KindSetInstanceVolume
	KindSetInstancePitch
	KindSetInstancePanning
	KindPauseInstance
	KindResumeInstance
	KindStopInstance
	KindPauseInstancesOf
	KindResumeInstancesOf
	KindStopInstancesOf
	KindPauseSequenceInstances
	KindResumeSequenceInstances
	KindStopSequenceInstances
	KindPauseGroup
	KindResumeGroup
	KindStopGroup

	KindAddMetronome
	KindRemoveMetronome
	KindSetMetronomeTempo
	KindStartMetronome
	KindPauseMetronome
	KindStopMetronome

	KindStartSequence
	KindMuteSequence
	KindUnmuteSequence
	KindPauseSequence
	KindResumeSequence
	KindStopSequence

	KindAddSubTrack
	KindRemoveSubTrack
	KindAddEffect
	KindRemoveEffect

	KindAddParameter
	KindRemoveParameter
	KindSetParameter

	KindAddGroup
	KindRemoveGroup

	KindAddStream
	KindRemoveStream
)

// FadeSettings bundles the optional tween a pause/resume/stop carries,
// and (resume only) whether to rewind to the position captured at pause.
type FadeSettings struct {
	Fade                  *tween.Tween
	RewindToPausePosition bool
}

// PlayPayload is Play's argument set.
type PlayPayload struct {
	InstanceID store.ID
	Playable   sound.Playable
	SequenceID store.ID
	HasSeq     bool
	Settings   instance.Settings

	// Handle is minted control-side and handed to the audio side to
	// attach to the new Instance, so State() can read it back without
	// ever sharing a container between the two sides.
	Handle *instance.Handle
}

// Command is a single dispatchable unit crossing the control->audio
// boundary via Queue. Only the fields relevant to Kind are populated;
// the rest are zero.
type Command struct {
	Kind Kind

	ID     store.ID // the id a command targets (instance/track/param/sound/...)
	Target store.ID // group or sequence id for *Of/*Group variants

	Play PlayPayload
	Fade FadeSettings

	VolumeValue  tween.Value[instance.Volume]
	PitchValue   tween.Value[instance.Pitch]
	PanningValue tween.Value[instance.Panning]
	TempoValue   tween.Value[metronome.Tempo]

	SeekTo float64

	Sound       *sound.Sound
	Arrangement *sound.Arrangement

	// Metronome and Sequence carry an already-constructed value for the
	// audio side to insert into its resource stores. Construction itself
	// touches no audio-owned state, so it happens control-side; only the
	// insertion crosses the boundary, via the command queue.
	Metronome *metronome.Metronome
	Sequence  *sequence.Instance

	TrackVolume  tween.Value[mixer.Gain]
	Effect       mixer.Effector
	EffectMix    float32
	EffectOnSub  store.ID
	EffectOnMain bool

	ParamInitial float64
	ParamTween   *tween.Tween

	GroupParents []store.ID

	Stream      streamsrc.Stream
	StreamTrack sound.TrackRef
}
