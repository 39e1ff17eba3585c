package command

import "github.com/resonantlabs/resonance/sound"

// ResourceKind tags which variant a Resource holds.
type ResourceKind int

const (
	ResourceSound ResourceKind = iota
	ResourceArrangement
)

// Resource carries an owned resource removed from the audio side back
// to the control side for destruction off the audio thread, per
// spec.md §3's "Lifecycle" and §5's unloader channel.
type Resource struct {
	Kind        ResourceKind
	Sound       *sound.Sound
	Arrangement *sound.Arrangement
}
