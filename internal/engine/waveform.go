package engine

import (
	"math"
	"math/rand"
)

// Waveform selects the LFO shape.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveTriangle Waveform = "triangle"
	WaveSquare   Waveform = "square"
	WaveRandom   Waveform = "random"
)

// ParseWaveform maps a user-supplied name to a Waveform. Unknown names fall
// back to sine.
func ParseWaveform(name string) Waveform {
	switch Waveform(name) {
	case WaveSine, WaveTriangle, WaveSquare, WaveRandom:
		return Waveform(name)
	default:
		return WaveSine
	}
}

// LFO samples a low-frequency control waveform as a function of elapsed
// seconds. Output is always in [0, 1]; callers map it affinely into their
// parameter range. The random (sample-and-hold) shape carries its held value
// between calls and redraws only when the cycle index changes, so it must
// not be shared across invocations.
type LFO struct {
	kind Waveform
	rate float64
	rng  *rand.Rand

	held      float64
	heldCycle int
	primed    bool
}

// NewLFO builds an LFO oscillating at rateHz. rng is only consulted by the
// random shape.
func NewLFO(kind Waveform, rateHz float64, rng *rand.Rand) *LFO {
	return &LFO{kind: kind, rate: rateHz, rng: rng}
}

// Sample returns the waveform value at elapsed seconds since the LFO
// started, in [0, 1].
func (l *LFO) Sample(elapsed float64) float64 {
	switch l.kind {
	case WaveTriangle:
		phase := math.Mod(elapsed*l.rate, 1.0)
		if phase < 0.5 {
			return phase * 2.0
		}
		return 1.0 - (phase-0.5)*2.0
	case WaveSquare:
		phase := math.Mod(elapsed*l.rate, 1.0)
		if phase < 0.5 {
			return 1.0
		}
		return 0.0
	case WaveRandom:
		cycle := int(elapsed * l.rate)
		if !l.primed || cycle != l.heldCycle {
			l.held = l.rng.Float64()
			l.heldCycle = cycle
			l.primed = true
		}
		return l.held
	default: // sine, and the fallback for anything unrecognized
		return (math.Sin(2*math.Pi*l.rate*elapsed) + 1.0) / 2.0
	}
}

// MapRange maps a normalized sample into [min, max].
func MapRange(sample, min, max float64) float64 {
	return min + sample*(max-min)
}
