package instance

import "testing"

func TestHandleStartsPlayingAndTracksStore(t *testing.T) {
	h := NewHandle()
	if h.Load() != Playing {
		t.Fatal("expected new handle to read Playing")
	}
	h.Store(Stopped)
	if h.Load() != Stopped {
		t.Fatal("expected Load to observe the latest Store")
	}
}
