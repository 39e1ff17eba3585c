package audio

import "github.com/resonantlabs/resonance/frame"

// Engine is the subset of resonance.Engine's audio-callback surface this
// package depends on: render exactly one stereo frame per call.
type Engine interface {
	Process() frame.Frame
}

// EngineSource adapts a resonance.Engine to the SampleSource contract,
// rendering one stereo frame per output sample pair and writing it
// interleaved into the destination buffer, matching the teacher's
// eventWrapper.Process shape for voice engines.
type EngineSource struct {
	engine    Engine
	sampleTap func([]float32)
}

// NewEngineSource wraps engine for playback through a StreamReader/Player.
// tap, if non-nil, is invoked with each rendered buffer on the audio
// thread; keep it brief and non-blocking.
func NewEngineSource(engine Engine, tap func([]float32)) *EngineSource {
	return &EngineSource{engine: engine, sampleTap: tap}
}

func (s *EngineSource) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		f := s.engine.Process()
		dst[i], dst[i+1] = f.Left, f.Right
	}
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}
