package command

import (
	"errors"
	"testing"
)

func TestRingBufferFIFOAndCapacity(t *testing.T) {
	r := NewRingBuffer[int](2)
	if !r.Push(1) || !r.Push(2) {
		t.Fatal("expected first two pushes to succeed")
	}
	if r.Push(3) {
		t.Fatal("expected push at capacity to fail")
	}
	v, ok := r.Pop()
	if !ok || v != 1 {
		t.Fatalf("expected FIFO pop of 1, got %d ok=%v", v, ok)
	}
	if !r.Push(3) {
		t.Fatal("expected room after a pop")
	}
}

func TestQueuePushReturnsErrQueueFullAtCapacity(t *testing.T) {
	q := NewQueue(1)
	if err := q.Push(Command{Kind: KindStartMetronome}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Push(Command{Kind: KindStopMetronome}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestQueueDrainRespectsMaxAndOrder(t *testing.T) {
	q := NewQueue(8)
	q.Push(Command{Kind: KindStartMetronome})
	q.Push(Command{Kind: KindPauseMetronome})
	q.Push(Command{Kind: KindStopMetronome})

	var seen []Kind
	q.Drain(2, func(c Command) { seen = append(seen, c.Kind) })
	if len(seen) != 2 || seen[0] != KindStartMetronome || seen[1] != KindPauseMetronome {
		t.Fatalf("unexpected drain order/count: %v", seen)
	}
}

func TestUnloaderDrainsEverything(t *testing.T) {
	u := NewUnloader(4)
	u.Push(Resource{Kind: ResourceSound})
	u.Push(Resource{Kind: ResourceArrangement})
	count := 0
	u.Drain(func(Resource) { count++ })
	if count != 2 {
		t.Fatalf("expected 2 resources drained, got %d", count)
	}
}
