// Package resonance is a realtime audio playback and mixing engine: it
// renders a continuous stereo stream by mixing concurrently playing
// instances of sounds and arrangements, routed through a mixer track
// graph with effects, modulated by parameters, sequenced by metronomes
// and step-based sequences, and addressed in bulk through groups.
//
// The engine is split across a control side (Engine's exported methods,
// called from application code) and an audio side (Engine.Process,
// called once per output frame from a realtime callback). The two
// communicate exclusively through the lock-free structures in the
// command package; no mutex is ever held across Process.
package resonance

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/resonantlabs/resonance/command"
	"github.com/resonantlabs/resonance/frame"
	"github.com/resonantlabs/resonance/group"
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/metronome"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sequence"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/streamsrc"
	"github.com/resonantlabs/resonance/tween"
)

// Config holds every construction-time capacity and the sample rate, per
// spec.md §5's allocation policy: every capacity is fixed up front.
type Config struct {
	SampleRate int

	NumSounds       int
	NumArrangements int
	NumInstances    int
	NumSequences    int
	NumSubTracks    int
	NumGroups       int
	NumMetronomes   int
	NumStreams      int
	NumParameters   int
	NumCommands     int
	NumUnloaded     int
	EventQueueDepth int

	Logger *log.Logger
}

// Option configures a Config. Mirrors the teacher's functional-options
// style for player construction.
type Option func(*Config)

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(hz int) Option { return func(c *Config) { c.SampleRate = hz } }

// WithCapacities sets every resource store's fixed capacity at once.
func WithCapacities(sounds, arrangements, instances, sequences, subTracks, groups, metronomes, streams, parameters int) Option {
	return func(c *Config) {
		c.NumSounds = sounds
		c.NumArrangements = arrangements
		c.NumInstances = instances
		c.NumSequences = sequences
		c.NumSubTracks = subTracks
		c.NumGroups = groups
		c.NumMetronomes = metronomes
		c.NumStreams = streams
		c.NumParameters = parameters
	}
}

// WithCommandCapacity sets the command queue and unloader queue depths.
func WithCommandCapacity(commands, unloaded int) Option {
	return func(c *Config) {
		c.NumCommands = commands
		c.NumUnloaded = unloaded
	}
}

// WithEventQueueDepth sets the depth of every metronome's outbound
// event queue and the engine's custom-event queue.
func WithEventQueueDepth(depth int) Option { return func(c *Config) { c.EventQueueDepth = depth } }

// WithLogger overrides the default control-side logger.
func WithLogger(l *log.Logger) Option { return func(c *Config) { c.Logger = l } }

func defaultConfig() Config {
	return Config{
		SampleRate:      48000,
		NumSounds:       256,
		NumArrangements: 64,
		NumInstances:    64,
		NumSequences:    32,
		NumSubTracks:    16,
		NumGroups:       32,
		NumMetronomes:   4,
		NumStreams:      8,
		NumParameters:   64,
		NumCommands:     256,
		NumUnloaded:     64,
		EventQueueDepth: 32,
		Logger:          log.Default(),
	}
}

// Engine is the realtime audio engine. Construct with New, drive the
// audio side with Process once per output frame, and call the exported
// control methods from any other thread.
type Engine struct {
	cfg Config
	log *log.Logger

	commands *command.Queue
	unloader *command.Unloader

	params    *tween.Parameters
	groups    *group.Set
	playables *sound.Playables

	// groupValidator mirrors the audio-side group DAG purely so AddGroup
	// can reject unknown parents and cycles synchronously on the control
	// side, per spec.md §7, without ever touching e.groups, which only
	// the audio thread may read or write.
	groupValidator *group.Set
	instances      *instance.Instances

	// handles is control-side-only: Play populates it, State reads it.
	// The audio side never sees this map, only the *instance.Handle
	// pointers it points at (handed down once, inside a Play command,
	// and written with a single atomic Store per frame).
	handles map[store.ID]*instance.Handle

	mx         *mixer.Mixer
	metronomes *store.Indexed[store.ID, *metronome.Metronome]
	sequences  *store.Indexed[store.ID, *sequence.Instance]
	streams    *streamsrc.Streams

	// metronomeRefs is control-side-only, mirroring the ids AddMetronome
	// has handed to the audio side, so DrainMetronomeEvents can reach a
	// metronome's outbound ring buffer (itself a lock-free SPSC queue)
	// without ever ranging over the audio-owned e.metronomes store.
	metronomeRefs map[store.ID]*metronome.Metronome

	customEvents *command.RingBuffer[any]

	// instanceCount and sequenceCount are published once per frame by
	// Process, so Stats can read them from the control side without ever
	// touching e.instances/e.sequences directly.
	instanceCount atomic.Int64
	sequenceCount atomic.Int64

	// commandsDispatched, instancesEvicted, and eventsDropped are the
	// backpressure diagnostics of SPEC_FULL.md's "command counting"
	// supplement, incremented on the audio side and read by Stats under
	// the same atomic discipline as instanceCount/sequenceCount.
	commandsDispatched atomic.Int64
	instancesEvicted   atomic.Int64
	eventsDropped      atomic.Int64

	// rng is the single audio-thread-owned pseudo-random source used to
	// resolve tween.Value.Random draws and PlayRandom sequence steps.
	// Per spec.md §9's design note, the audio thread never touches a
	// thread-local or globally-locked RNG; this xorshift state is
	// allocation-free and owned entirely by the callback thread.
	rng *frame.RNG
}

// New constructs an Engine from the given options, layered over
// sensible defaults.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:            cfg,
		log:            cfg.Logger,
		commands:       command.NewQueue(cfg.NumCommands),
		unloader:       command.NewUnloader(cfg.NumUnloaded),
		params:         tween.NewParameters(cfg.NumParameters),
		groups:         group.NewSet(cfg.NumGroups),
		groupValidator: group.NewSet(cfg.NumGroups),
		instances:      instance.NewCollection(cfg.NumInstances),
		handles:        make(map[store.ID]*instance.Handle, cfg.NumInstances),
		mx:             mixer.New(cfg.NumSubTracks),
		metronomes:     store.New[store.ID, *metronome.Metronome](cfg.NumMetronomes),
		metronomeRefs:  make(map[store.ID]*metronome.Metronome, cfg.NumMetronomes),
		sequences:      store.New[store.ID, *sequence.Instance](cfg.NumSequences),
		streams:        streamsrc.New(cfg.NumStreams),
		customEvents:   command.NewRingBuffer[any](cfg.EventQueueDepth),
		rng:            frame.NewRNG(uint64(time.Now().UnixNano())),
	}
	e.playables = &sound.Playables{
		Sounds:       store.New[store.ID, *sound.Sound](cfg.NumSounds),
		Arrangements: store.New[store.ID, *sound.Arrangement](cfg.NumArrangements),
	}
	e.log.Debug("engine constructed", "sample_rate", cfg.SampleRate, "instances", cfg.NumInstances)
	return e
}

func (e *Engine) dt() float64 {
	if e.cfg.SampleRate <= 0 {
		return 0
	}
	return 1.0 / float64(e.cfg.SampleRate)
}

// sendf wraps a Push error with context and logs it; the control-side
// API surfaces the error to its caller regardless.
func (e *Engine) sendf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	e.log.Warn("command rejected", "error", err)
	return err
}
