package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSaw
)

// GainRamp selects how the amplitude moves from start to end.
type GainRamp int

const (
	RampExponential GainRamp = iota
	RampLinear
)

// Sweep is a tone whose frequency glides exponentially between two values
// while its gain ramps down.
type Sweep struct {
	Wave             Wave
	FromHz, ToHz     float64
	FromGain, ToGain float64
	Ramp             GainRamp
	Duration         time.Duration
}

// Cue lengths.
const (
	EatDuration      = 100 * time.Millisecond
	GameOverDuration = 500 * time.Millisecond
)

// EatCue is a 440 to 880 Hz sine over 100ms, fading from 0.1 to 0.01.
func EatCue(rate beep.SampleRate) beep.Streamer {
	return Sweep{
		Wave: WaveSine, FromHz: 440, ToHz: 880,
		FromGain: 0.1, ToGain: 0.01, Ramp: RampExponential,
		Duration: EatDuration,
	}.Streamer(rate)
}

// GameOverCue is a 150 to 40 Hz sawtooth over 500ms, fading linearly to silence.
func GameOverCue(rate beep.SampleRate) beep.Streamer {
	return Sweep{
		Wave: WaveSaw, FromHz: 150, ToHz: 40,
		FromGain: 0.1, ToGain: 0, Ramp: RampLinear,
		Duration: GameOverDuration,
	}.Streamer(rate)
}

// Streamer renders the sweep at rate.
func (s Sweep) Streamer(rate beep.SampleRate) beep.Streamer {
	total := rate.N(s.Duration)
	var phase float64
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			t := float64(pos) / float64(total)

			var v float64
			switch s.Wave {
			case WaveSaw:
				v = 2 * (phase - 0.5)
			default:
				v = math.Sin(2 * math.Pi * phase)
			}
			v *= s.gainAt(t)

			samples[i][0] = v
			samples[i][1] = v

			phase += expInterp(s.FromHz, s.ToHz, t) / float64(rate)
			phase -= math.Floor(phase)
			pos++
		}
		return len(samples), true
	})
}

func (s Sweep) gainAt(t float64) float64 {
	if s.Ramp == RampExponential && s.FromGain > 0 && s.ToGain > 0 {
		return expInterp(s.FromGain, s.ToGain, t)
	}
	return s.FromGain + (s.ToGain-s.FromGain)*t
}

// expInterp moves from a to b along an exponential curve, t in [0,1].
func expInterp(a, b, t float64) float64 {
	return a * math.Pow(b/a, t)
}

func log2(x float64) float64 {
	return math.Log2(x)
}
