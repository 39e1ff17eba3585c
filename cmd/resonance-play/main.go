// Command resonance-play is a minimal demo host for the resonance
// engine: it builds a short synthetic tone, plays it through the
// internal/audio device adapter, and logs engine activity until
// playback finishes.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/resonantlabs/resonance"
	"github.com/resonantlabs/resonance/frame"
	intaudio "github.com/resonantlabs/resonance/internal/audio"
	"github.com/resonantlabs/resonance/instance"
	"github.com/resonantlabs/resonance/sound"
	"github.com/resonantlabs/resonance/tween"
)

// settings is the optional YAML config file shape; flags override it.
type settings struct {
	SampleRate int     `yaml:"sample_rate"`
	ToneHz     float64 `yaml:"tone_hz"`
	Duration   float64 `yaml:"duration_seconds"`
	Volume     float64 `yaml:"volume"`
	Loop       bool    `yaml:"loop"`
}

func defaultSettings() settings {
	return settings{SampleRate: 48000, ToneHz: 440, Duration: 2, Volume: 0.5}
}

func loadSettings(path string) (settings, error) {
	cfg := defaultSettings()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	var (
		configPath = pflag.String("config", "", "path to a YAML settings file")
		sampleRate = pflag.Int("sample-rate", 0, "output sample rate (overrides config)")
		toneHz     = pflag.Float64("tone-hz", 0, "sine tone frequency in Hz (overrides config)")
		duration   = pflag.Float64("duration", 0, "tone duration in seconds (overrides config)")
		volume     = pflag.Float64("volume", -1, "playback volume, 0..1 (overrides config)")
		loop       = pflag.Bool("loop", false, "loop the tone; playback then lasts four times the duration")
		verbose    = pflag.Bool("verbose", false, "enable debug logging")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadSettings(*configPath)
	if err != nil {
		logger.Fatal("loading config", "error", err)
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}
	if *toneHz > 0 {
		cfg.ToneHz = *toneHz
	}
	if *duration > 0 {
		cfg.Duration = *duration
	}
	if *volume >= 0 {
		cfg.Volume = *volume
	}
	cfg.Loop = cfg.Loop || *loop

	engine := resonance.New(
		resonance.WithSampleRate(cfg.SampleRate),
		resonance.WithLogger(logger),
	)

	soundID, err := engine.AddSound(sineWave(cfg.SampleRate, cfg.ToneHz, cfg.Duration))
	if err != nil {
		logger.Fatal("registering tone", "error", err)
	}

	loopStart := 0.0
	hasLoopStart := cfg.Loop
	_, err = engine.Play(sound.OfSound(soundID), instance.Settings{
		Volume:       tween.Fixed[instance.Volume](instance.Volume(cfg.Volume)),
		Pitch:        tween.Fixed[instance.Pitch](1),
		Panning:      tween.Fixed[instance.Panning](0.5),
		LoopStart:    loopStart,
		HasLoopStart: hasLoopStart,
	})
	if err != nil {
		logger.Fatal("starting playback", "error", err)
	}

	source := intaudio.NewEngineSource(engine, nil)
	player, err := intaudio.NewPlayer(cfg.SampleRate, source)
	if err != nil {
		logger.Fatal("opening audio device", "error", err)
	}
	player.Play()
	logger.Info("playing", "tone_hz", cfg.ToneHz, "duration", cfg.Duration, "loop", cfg.Loop)

	wait := cfg.Duration
	if cfg.Loop {
		wait = cfg.Duration * 4
	}
	deadline := time.Duration(wait * float64(time.Second))
	time.Sleep(deadline)

	if err := player.Stop(); err != nil {
		logger.Error("stopping playback", "error", err)
	}
	stats := engine.Stats()
	fmt.Printf("finished; %d instances, %d sequences still resident\n", stats.Instances, stats.Sequences)
}

// sineWave renders a mono sine tone as a stand-in for a decoded sample,
// since decoding compressed audio is out of the engine's scope.
func sineWave(sampleRate int, hz, seconds float64) *sound.Sound {
	n := int(float64(sampleRate) * seconds)
	frames := make([]frame.Frame, n)
	for i := range frames {
		t := float64(i) / float64(sampleRate)
		v := float32(math.Sin(2 * math.Pi * hz * t))
		frames[i] = frame.FromMono(v)
	}
	return sound.NewSound(sampleRate, frames, sound.Settings{})
}
