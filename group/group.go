// Package group implements the group DAG used to scope bulk pause/
// resume/stop commands across many sounds, arrangements, and instances
// at once, per spec.md §3 and grounded on
// original_source/kira/src/group/set.rs.
package group

import (
	"fmt"

	"github.com/resonantlabs/resonance/store"
)

// Group is a named node in the group DAG. A resource (Sound, Arrangement)
// can belong to zero or more groups; a group can itself belong to other
// groups (its parents), forming ancestry for bulk commands that target
// "everything under group G".
type Group struct {
	Parents []store.ID
}

// Set stores every registered group and answers ancestry queries.
type Set struct {
	groups *store.Indexed[store.ID, Group]
}

// NewSet constructs an empty group Set with the given fixed capacity.
func NewSet(capacity int) *Set {
	return &Set{groups: store.New[store.ID, Group](capacity)}
}

// Add registers a new group with the given parents. It fails with
// ErrUnknownGroup if any parent is not yet known, with ErrGroupCycle if
// adding this group would create a cycle (a parent that transitively
// has id as an ancestor), and with ErrCapacityExceeded if the Set is
// full.
func (s *Set) Add(id store.ID, parents []store.ID) error {
	for _, p := range parents {
		if !s.groups.Has(p) {
			return fmt.Errorf("group %d: unknown parent %d: %w", id, p, ErrUnknownGroup)
		}
		if s.HasAncestor(p, id) {
			return fmt.Errorf("group %d: parent %d would create a cycle: %w", id, p, ErrGroupCycle)
		}
	}
	if !s.groups.Insert(id, Group{Parents: parents}) {
		return fmt.Errorf("group %d: %w", id, ErrCapacityExceeded)
	}
	return nil
}

// Remove deletes a group. Resources already tagged with this id simply
// stop matching it; no cascading removal happens.
func (s *Set) Remove(id store.ID) {
	s.groups.Remove(id)
}

// HasAncestor reports whether ancestor is id itself or is reachable by
// following parent links from id. Used both for cycle rejection on Add
// and for membership tests when dispatching a group-scoped command.
func (s *Set) HasAncestor(id, ancestor store.ID) bool {
	if id == ancestor {
		return true
	}
	g, ok := s.groups.Get(id)
	if !ok {
		return false
	}
	for _, p := range g.Parents {
		if s.HasAncestor(p, ancestor) {
			return true
		}
	}
	return false
}

// Matches reports whether a resource tagged with the given group ids is
// in scope for a command targeting target (directly tagged, or tagged
// with a descendant-of-target group... more precisely: tagged with a
// group g such that target is an ancestor of g, i.e. g is under target).
func (s *Set) Matches(tags []store.ID, target store.ID) bool {
	for _, g := range tags {
		if s.HasAncestor(g, target) {
			return true
		}
	}
	return false
}
