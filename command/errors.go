package command

import "errors"

// Sentinel errors surfaced to the control-side caller, per spec.md §7.
var (
	// ErrQueueFull is returned when pushing a command onto a full Queue.
	ErrQueueFull = errors.New("command: queue is full")
	// ErrResourceNotFound names a command that references an id the
	// audio side no longer holds. No Engine method returns it: the audio
	// side silently ignores such commands and continues the frame.
	ErrResourceNotFound = errors.New("command: resource not found")
	// ErrInvalidSequence is returned by control-side sequence validation:
	// a loop_point beyond the step list, or a PlayRandom with no choices.
	ErrInvalidSequence = errors.New("command: invalid sequence")
	// ErrCapacityExceeded names a non-instance resource add that would
	// exceed its static store's capacity. No Engine method returns it:
	// AddGroup reports a full group set with group.ErrCapacityExceeded,
	// and the other adds are dropped on the audio side when their store
	// is full.
	ErrCapacityExceeded = errors.New("command: capacity exceeded")
	// ErrGroupCycle names a group add that would create a cycle. AddGroup
	// reports cycles with group.ErrGroupCycle, not with this value.
	ErrGroupCycle = errors.New("command: group cycle")
)
