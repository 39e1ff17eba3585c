package group

import "errors"

var (
	// ErrUnknownGroup is returned when a group references a parent that
	// has not been registered.
	ErrUnknownGroup = errors.New("group: unknown parent group")
	// ErrGroupCycle is returned when adding a group would create a cycle
	// in the parent DAG.
	ErrGroupCycle = errors.New("group: cycle in group ancestry")
	// ErrCapacityExceeded is returned when the group Set is full.
	ErrCapacityExceeded = errors.New("group: capacity exceeded")
)
