package sound

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// RhythmParams describes an evolving generative rhythm.
type RhythmParams struct {
	Style     string  `json:"style"`
	Duration  int     `json:"duration"`
	Tempo     int     `json:"tempo"`
	Intensity float64 `json:"intensity"`
}

// styleCoeffs are the per-style rhythm characteristics, each in [0, 1].
type styleCoeffs struct {
	pulseRate     float64 // how often gated hits actually sound
	variationRate float64 // how often the pattern evolves
	complexity    float64 // flip probability scale during evolution
	syncopation   float64 // off-beat accent probability scale
	swing         float64 // timing swing factor on odd steps
}

var rhythmStyles = map[string]styleCoeffs{
	"minimal": {pulseRate: 0.8, variationRate: 0.2, complexity: 0.3, syncopation: 0.2, swing: 0.1},
	"techno":  {pulseRate: 0.9, variationRate: 0.3, complexity: 0.5, syncopation: 0.4, swing: 0.2},
	"glitch":  {pulseRate: 0.7, variationRate: 0.8, complexity: 0.9, syncopation: 0.7, swing: 0.3},
	"jazz":    {pulseRate: 0.6, variationRate: 0.5, complexity: 0.7, syncopation: 0.8, swing: 0.7},
	"ambient": {pulseRate: 0.4, variationRate: 0.2, complexity: 0.2, syncopation: 0.1, swing: 0.05},
}

// scaled returns the coefficients scaled by intensity (70%..130% of base)
// and capped at 1.0.
func (c styleCoeffs) scaled(intensity float64) styleCoeffs {
	factor := 0.7 + intensity*0.6
	scale := func(v float64) float64 {
		v *= factor
		if v > 1.0 {
			return 1.0
		}
		return v
	}
	return styleCoeffs{
		pulseRate:     scale(c.pulseRate),
		variationRate: scale(c.variationRate),
		complexity:    scale(c.complexity),
		syncopation:   scale(c.syncopation),
		swing:         scale(c.swing),
	}
}

// drumKit is the mutable pattern state for a generative run: one fixed
// 16-step sequence per instrument class, mutated in place by evolve and
// discarded when the run ends.
type drumKit struct {
	kick  stepPattern
	snare stepPattern
	hihat stepPattern
}

// flip shares: the hihat pattern churns fastest, the snare slowest.
const (
	kickFlipShare  = 0.5
	snareFlipShare = 0.3
	hihatFlipShare = 0.7
)

// evolve flips each step of each instrument with a probability proportional
// to that instrument's share of the complexity coefficient.
func (k *drumKit) evolve(rng *rand.Rand, complexity float64) {
	flip := func(pattern *stepPattern, share float64) {
		for i := range pattern {
			if rng.Float64() < complexity*share {
				pattern[i] = 1 - pattern[i]
			}
		}
	}
	flip(&k.kick, kickFlipShare)
	flip(&k.snare, snareFlipShare)
	flip(&k.hihat, hihatFlipShare)
}

// seedKit returns the starting patterns for a style. Glitch starts from
// noise; everything else from a characteristic groove.
func seedKit(style string, rng *rand.Rand) drumKit {
	switch style {
	case "minimal":
		return drumKit{
			kick:  stepPattern{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
			snare: stepPattern{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
			hihat: stepPattern{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		}
	case "techno":
		return drumKit{
			kick:  stepPattern{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
			snare: stepPattern{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
			hihat: stepPattern{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		}
	case "glitch":
		roll := func() stepPattern {
			var s stepPattern
			for i := range s {
				s[i] = rng.Intn(2)
			}
			return s
		}
		return drumKit{kick: roll(), snare: roll(), hihat: roll()}
	case "jazz":
		return drumKit{
			kick:  stepPattern{1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0},
			snare: stepPattern{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
			hihat: stepPattern{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		}
	default: // ambient
		return drumKit{
			kick:  stepPattern{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
			snare: stepPattern{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			hihat: stepPattern{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		}
	}
}

// accentFreqs are the candidate frequencies for syncopated accent hits.
var accentFreqs = []float64{800, 1600, 2400}

// GenerativeRhythm plays an evolving rhythm: every 16 beats the patterns may
// mutate, every step gates its hits through the pulse rate, and odd steps
// are delayed by the swing factor. Each beat's voices are freed after the
// beat; the guard flushes anything left if the run is cut short.
func (p *Performer) GenerativeRhythm(ctx context.Context, params RhythmParams) (Result, error) {
	duration := clampInt(params.Duration, 5, 120)
	tempo := clampInt(params.Tempo, 60, 240)
	intensity := clampFloat(params.Intensity, 0.0, 1.0)

	styleName := params.Style
	base, ok := rhythmStyles[styleName]
	if !ok {
		styleName = "minimal"
		base = rhythmStyles[styleName]
	}
	coeffs := base.scaled(intensity)

	beatDur := 60.0 / float64(tempo)
	numBeats := clampInt(int(float64(duration)/beatDur), 4, 240)

	kit := seedKit(styleName, p.rng)
	alloc := engine.NewAllocator(p.clock)

	return p.run(func(g *engine.Guard) (string, error) {
		for beat := 0; beat < numBeats; beat++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			if beat%patternSteps == 0 && p.rng.Float64() < coeffs.variationRate {
				kit.evolve(p.rng, coeffs.complexity)
			}

			step := beat % patternSteps

			swing := 0.0
			if step%2 == 1 {
				// Swing lands only on the off-beats.
				swing = beatDur * coeffs.swing * 0.5
			}

			var hits []int32
			strike := func(band engine.Band, freq, amp float64) error {
				id := alloc.NextInBand(band)
				hits = append(hits, id)
				return g.Create(p.patch, id, osc.FP("freq", freq), osc.FP("amp", amp))
			}

			if kit.kick[step] == 1 && p.rng.Float64() < coeffs.pulseRate {
				if err := strike(engine.BandKick, 60, 0.5); err != nil {
					return "", err
				}
			}
			if kit.snare[step] == 1 && p.rng.Float64() < coeffs.pulseRate {
				if err := strike(engine.BandSnare, 300, 0.3); err != nil {
					return "", err
				}
			}
			if kit.hihat[step] == 1 && p.rng.Float64() < coeffs.pulseRate {
				if err := strike(engine.BandHihat, 1200, 0.2); err != nil {
					return "", err
				}
			}
			if p.rng.Float64() < coeffs.syncopation*0.2 {
				freq := accentFreqs[p.rng.Intn(len(accentFreqs))]
				if err := strike(engine.BandAccent, freq, 0.15); err != nil {
					return "", err
				}
			}

			if err := p.clock.Sleep(ctx, seconds(beatDur+swing)); err != nil {
				return "", err
			}
			for _, id := range hits {
				if err := g.Free(id); err != nil {
					return "", err
				}
			}
		}
		return fmt.Sprintf("created a generative %s rhythm at %d BPM for %d seconds with intensity %.2f",
			styleName, tempo, duration, intensity), nil
	})
}
