package group

import (
	"errors"
	"testing"

	"github.com/resonantlabs/resonance/store"
)

func TestAddRejectsUnknownParent(t *testing.T) {
	s := NewSet(4)
	if err := s.Add(store.NewID(), []store.ID{store.NewID()}); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestAddRejectsCycle(t *testing.T) {
	s := NewSet(4)
	a, b := store.NewID(), store.NewID()
	if err := s.Add(a, nil); err != nil {
		t.Fatalf("unexpected error adding a: %v", err)
	}
	if err := s.Add(b, []store.ID{a}); err != nil {
		t.Fatalf("unexpected error adding b under a: %v", err)
	}
	// Re-adding a under b would close the cycle a -> b -> a.
	if err := s.Add(a, []store.ID{b}); !errors.Is(err, ErrGroupCycle) {
		t.Fatalf("expected ErrGroupCycle re-adding a under b, got %v", err)
	}
	if !s.HasAncestor(b, a) {
		t.Fatal("expected b to have a as ancestor")
	}
	if s.HasAncestor(a, b) {
		t.Fatal("a should not have b as ancestor")
	}
}

func TestHasAncestorIsReflexive(t *testing.T) {
	s := NewSet(4)
	a := store.NewID()
	s.Add(a, nil)
	if !s.HasAncestor(a, a) {
		t.Fatal("expected a group to be its own ancestor for matching purposes")
	}
}

func TestMatchesFindsTransitiveMembership(t *testing.T) {
	s := NewSet(4)
	top, mid, leaf := store.NewID(), store.NewID(), store.NewID()
	s.Add(top, nil)
	s.Add(mid, []store.ID{top})
	s.Add(leaf, []store.ID{mid})

	if !s.Matches([]store.ID{leaf}, top) {
		t.Fatal("expected resource tagged with leaf to match top via transitivity")
	}
	if s.Matches([]store.ID{top}, leaf) {
		t.Fatal("ancestry should not flow downward")
	}
}

func TestAddRespectsCapacity(t *testing.T) {
	s := NewSet(1)
	if err := s.Add(store.NewID(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(store.NewID(), nil); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}
