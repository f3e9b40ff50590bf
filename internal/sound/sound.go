// Package sound plays short synthesized cues for game events.
package sound

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cues is notified about game events. Implementations must not block.
type Cues interface {
	Eat()
	GameOver()
}

// Silent is a Cues that does nothing.
type Silent struct{}

func (Silent) Eat()      {}
func (Silent) GameOver() {}

// Speaker plays cues through the system audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64 // master gain, 1 is unchanged
}

// New initializes the audio device. If that fails the error is logged and a
// Silent implementation is returned.
func New(enabled bool, logger *log.Logger) Cues {
	if !enabled {
		return Silent{}
	}
	if logger == nil {
		logger = log.Default()
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		logger.Warn("audio unavailable, sound disabled", "err", err)
		return Silent{}
	}

	s := &Speaker{mixer: &beep.Mixer{}, volume: 1}
	speaker.Play(s.mixer)
	return s
}

// Eat plays a short rising blip.
func (s *Speaker) Eat() {
	s.play(EatCue(sampleRate))
}

// GameOver plays a falling buzz.
func (s *Speaker) GameOver() {
	s.play(GameOverCue(sampleRate))
}

func (s *Speaker) play(cue beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Lock()
	s.mixer.Add(withVolume(cue, s.volume))
	speaker.Unlock()
}

// Close stops any playing cue.
func (s *Speaker) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// withVolume scales a stream by a linear gain.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: log2(gain)}
}
