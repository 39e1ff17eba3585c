// Package metronome implements the tempo-driven tick and interval event
// emission of spec.md §4.5, grounded verbatim on
// original_source/old/kira/src/metronome/mod.rs.
package metronome

import (
	"sync/atomic"

	"github.com/resonantlabs/resonance/tween"
)

// Tempo is beats per minute.
type Tempo float64

// Metronome advances a beat clock and emits events when configured
// interval boundaries are crossed.
type Metronome struct {
	tempo   tween.CachedValue[Tempo]
	ticking bool
	time    float64
	prev    float64

	intervals []float64
	events    *RingBuffer
}

// RingBuffer is the metronome's bounded outbound event queue: interval
// values crossed this tick; when it is full, the new value is dropped. A thin typed
// alias over command's generic ring buffer would create an import
// cycle (command needs metronome.Tempo), so the metronome carries its
// own float64 ring buffer over sync/atomic head/tail indices, the same
// design as command.RingBuffer: Push runs on the audio thread (Update),
// Pop runs on the control thread (DrainMetronomeEvents), and neither may
// hold a lock across the audio callback.
type RingBuffer struct {
	buf  []float64
	cap  uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewRingBuffer constructs an event queue of the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{buf: make([]float64, capacity), cap: uint64(capacity)}
}

// Push enqueues an interval value, dropping it silently if the queue is
// full, per spec.md §4.5 ("overflow drops").
func (r *RingBuffer) Push(v float64) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail-head >= r.cap {
		return
	}
	r.buf[tail%r.cap] = v
	r.tail.Store(tail + 1)
}

// Pop dequeues the oldest event.
func (r *RingBuffer) Pop() (float64, bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head >= tail {
		return 0, false
	}
	v := r.buf[head%r.cap]
	r.head.Store(head + 1)
	return v, true
}

// New constructs a Metronome with the given tempo source and the set of
// beat intervals it should emit crossing-events for.
func New(tempo tween.Value[Tempo], intervals []float64, eventQueueCapacity int) *Metronome {
	return &Metronome{
		tempo:     tween.NewCachedValue(tempo, 120, nil),
		intervals: intervals,
		events:    NewRingBuffer(eventQueueCapacity),
	}
}

// EffectiveTempo is the tempo while ticking, or 0 while stopped/paused —
// used by sequences converting Wait(Beats(b)) into seconds.
func (m *Metronome) EffectiveTempo() Tempo {
	if m.ticking {
		return m.tempo.Value()
	}
	return 0
}

// SetTempo replaces the tempo source.
func (m *Metronome) SetTempo(v tween.Value[Tempo]) {
	m.tempo.Set(v, nil)
}

// Start begins ticking without resetting elapsed time.
func (m *Metronome) Start() { m.ticking = true }

// Pause stops ticking but preserves time/previous_time, so a later
// Start resumes from where it left off.
func (m *Metronome) Pause() { m.ticking = false }

// Stop halts ticking and resets the beat clock to zero.
func (m *Metronome) Stop() {
	m.ticking = false
	m.time = 0
	m.prev = 0
}

// Update advances the beat clock by dt seconds and emits any interval
// crossing events, per spec.md §4.5.
func (m *Metronome) Update(dt float64, params tween.Registry) {
	m.tempo.Update(params)
	if !m.ticking {
		return
	}
	m.prev = m.time
	m.time += (float64(m.tempo.Value()) / 60.0) * dt
	for _, interval := range m.intervals {
		if m.IntervalPassed(interval) {
			m.events.Push(interval)
		}
	}
}

// IntervalPassed reports whether a beat-interval boundary was crossed
// during the most recent Update, per spec.md §4.5's modulo-wrap rule.
func (m *Metronome) IntervalPassed(interval float64) bool {
	if !m.ticking {
		return false
	}
	if m.prev == 0.0 {
		return true
	}
	return mod(m.prev, interval) > mod(m.time, interval)
}

func mod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a - b*float64(int64(a/b))
	return r
}

// Events returns the outbound interval-crossing event queue for the
// control side to drain.
func (m *Metronome) Events() *RingBuffer { return m.events }
