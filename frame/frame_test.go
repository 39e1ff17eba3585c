package frame

import "testing"

func TestPannedHardLeft(t *testing.T) {
	f := Frame{Left: 1, Right: 1}.Panned(0)
	if f.Left != 1 || f.Right != 0 {
		t.Errorf("expected hard left (1, 0), got (%f, %f)", f.Left, f.Right)
	}
}

func TestPannedHardRight(t *testing.T) {
	f := Frame{Left: 1, Right: 1}.Panned(1)
	if f.Left != 0 || f.Right != 1 {
		t.Errorf("expected hard right (0, 1), got (%f, %f)", f.Left, f.Right)
	}
}

func TestPannedCenter(t *testing.T) {
	f := Frame{Left: 1, Right: 1}.Panned(0.5)
	if f.Left != 0.5 || f.Right != 0.5 {
		t.Errorf("expected center (0.5, 0.5), got (%f, %f)", f.Left, f.Right)
	}
}

func TestLerpBounds(t *testing.T) {
	if Lerp(0, 10, 0) != 0 {
		t.Error("lerp at t=0 should be start")
	}
	if Lerp(0, 10, 1) != 10 {
		t.Error("lerp at t=1 should be end")
	}
	if Lerp(0, 10, 0.5) != 5 {
		t.Error("lerp at t=0.5 should be midpoint")
	}
}

func TestRNGRangeBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		v := r.Range(2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("value %f out of range [2,5)", v)
		}
	}
}

func TestRNGZeroSeedIsRemapped(t *testing.T) {
	r := NewRNG(0)
	if r.Next() == 0 {
		t.Error("expected a nonzero draw from a remapped seed")
	}
}
