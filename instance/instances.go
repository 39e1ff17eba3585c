package instance

import (
	"github.com/resonantlabs/resonance/group"
	"github.com/resonantlabs/resonance/mixer"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/store"
	"github.com/resonantlabs/resonance/tween"
)

// Instances is the bounded indexed instance collection of spec.md §4.3.
type Instances struct {
	byID *store.Indexed[store.ID, *Instance]
}

// NewCollection constructs an empty Instances collection with the given fixed
// capacity.
func NewCollection(capacity int) *Instances {
	return &Instances{byID: store.New[store.ID, *Instance](capacity)}
}

// Play inserts inst, rejecting the call if its playable is cooling
// down, and evicting the oldest instance if the collection is already
// at capacity, per spec.md §4.3. The second return reports whether an
// existing instance had to be evicted to make room, so callers can
// track it as a backpressure metric.
func (c *Instances) Play(inst *Instance, playables *sound.Playables) (played, evicted bool) {
	if playables.CoolingDown(inst.Playable) {
		return false, false
	}
	if c.byID.Full() {
		c.byID.EvictOldest()
		evicted = true
	}
	c.byID.Insert(inst.ID, inst)
	playables.StartCooldown(inst.Playable)
	return true, evicted
}

// Get returns the instance with the given id, if present.
func (c *Instances) Get(id store.ID) (*Instance, bool) { return c.byID.Get(id) }

// Len returns the number of live instances.
func (c *Instances) Len() int { return c.byID.Len() }

// Pause, Resume, and Stop apply to a single instance by id.
func (c *Instances) Pause(id store.ID, fade *tween.Tween) {
	if inst, ok := c.byID.Get(id); ok {
		inst.Pause(fade)
	}
}

func (c *Instances) Resume(id store.ID, fade *tween.Tween, rewind bool) {
	if inst, ok := c.byID.Get(id); ok {
		inst.Resume(fade, rewind)
	}
}

func (c *Instances) Stop(id store.ID, fade *tween.Tween) {
	if inst, ok := c.byID.Get(id); ok {
		inst.Stop(fade)
	}
}

// PauseOf, ResumeOf, and StopOf apply to every instance currently
// playing the given Playable, per kira's `*InstancesOf` command family.
func (c *Instances) PauseOf(p sound.Playable, fade *tween.Tween) {
	c.forEachOf(p, func(inst *Instance) { inst.Pause(fade) })
}

func (c *Instances) ResumeOf(p sound.Playable, fade *tween.Tween, rewind bool) {
	c.forEachOf(p, func(inst *Instance) { inst.Resume(fade, rewind) })
}

func (c *Instances) StopOf(p sound.Playable, fade *tween.Tween) {
	c.forEachOf(p, func(inst *Instance) { inst.Stop(fade) })
}

func (c *Instances) forEachOf(p sound.Playable, fn func(*Instance)) {
	c.byID.Range(func(_ store.ID, inst *Instance) bool {
		if inst.Playable == p {
			fn(inst)
		}
		return true
	})
}

// PauseGroup, ResumeGroup, and StopGroup apply to every instance whose
// playable's group tags have target as an ancestor under groups.
func (c *Instances) PauseGroup(target store.ID, fade *tween.Tween, groups *group.Set, playables *sound.Playables) {
	c.forEachInGroup(target, groups, playables, func(inst *Instance) { inst.Pause(fade) })
}

func (c *Instances) ResumeGroup(target store.ID, fade *tween.Tween, rewind bool, groups *group.Set, playables *sound.Playables) {
	c.forEachInGroup(target, groups, playables, func(inst *Instance) { inst.Resume(fade, rewind) })
}

func (c *Instances) StopGroup(target store.ID, fade *tween.Tween, groups *group.Set, playables *sound.Playables) {
	c.forEachInGroup(target, groups, playables, func(inst *Instance) { inst.Stop(fade) })
}

func (c *Instances) forEachInGroup(target store.ID, groups *group.Set, playables *sound.Playables, fn func(*Instance)) {
	c.byID.Range(func(_ store.ID, inst *Instance) bool {
		if groups.Matches(playables.Groups(inst.Playable), target) {
			fn(inst)
		}
		return true
	})
}

// PauseSequence, ResumeSequence, and StopSequence apply to every
// instance whose sequence_id equals target.
func (c *Instances) PauseSequence(target store.ID, fade *tween.Tween) {
	c.forEachInSequence(target, func(inst *Instance) { inst.Pause(fade) })
}

func (c *Instances) ResumeSequence(target store.ID, fade *tween.Tween, rewind bool) {
	c.forEachInSequence(target, func(inst *Instance) { inst.Resume(fade, rewind) })
}

func (c *Instances) StopSequence(target store.ID, fade *tween.Tween) {
	c.forEachInSequence(target, func(inst *Instance) { inst.Stop(fade) })
}

func (c *Instances) forEachInSequence(target store.ID, fn func(*Instance)) {
	c.byID.Range(func(_ store.ID, inst *Instance) bool {
		if id, ok := inst.SequenceID(); ok && id == target {
			fn(inst)
		}
		return true
	})
}

// Process advances every instance by dt, writes each one's sample into
// its target track, publishes its lifecycle state to its handle (if
// any), and removes instances that have become Stopped, per spec.md
// §4.3's "mark finished, update, then drain" order.
func (c *Instances) Process(dt float64, playables *sound.Playables, mx *mixer.Mixer, params tween.Registry) {
	var finished []store.ID
	c.byID.Range(func(id store.ID, inst *Instance) bool {
		if inst.State().Playing() {
			mx.AddInput(inst.Track, inst.Sample(playables))
		}
		duration := playables.Duration(inst.Playable)
		stopped := inst.Update(dt, params, duration)
		if inst.handle != nil {
			inst.handle.Store(inst.State())
		}
		if stopped {
			finished = append(finished, id)
		}
		return true
	})
	for _, id := range finished {
		c.byID.Remove(id)
	}
}
