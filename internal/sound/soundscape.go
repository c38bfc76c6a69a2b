package sound

import (
	"context"
	"fmt"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// SoundscapeParams describes an ambient texture of overlapping sound events
// over a background drone.
type SoundscapeParams struct {
	Duration   int     `json:"duration"`
	Density    float64 `json:"density"`
	PitchRange string  `json:"pitch_range"`
	Mood       string  `json:"mood"`
}

// moodProfile maps an emotional quality to audible characteristics.
type moodProfile struct {
	baseFreqLo, baseFreqHi float64
	amplitude              float64
	harmonics              []float64
	eventDurLo, eventDurHi float64
}

var moods = map[string]moodProfile{
	"calm":       {100, 200, 0.3, []float64{1.0, 2.0, 3.0}, 2.0, 8.0},
	"dark":       {60, 150, 0.4, []float64{1.0, 1.5, 2.5, 3.5}, 3.0, 10.0},
	"bright":     {200, 400, 0.25, []float64{1.0, 2.0, 4.0, 8.0}, 1.0, 5.0},
	"mysterious": {80, 300, 0.35, []float64{1.0, 1.7, 2.3, 3.3}, 4.0, 12.0},
	"chaotic":    {100, 500, 0.5, []float64{1.0, 1.3, 2.1, 2.7, 3.4}, 0.5, 4.0},
}

var pitchRanges = map[string][2]float64{
	"low":    {50, 200},
	"medium": {200, 800},
	"high":   {800, 3200},
	"full":   {50, 3200},
}

// AmbientSoundscape holds a drone and scatters randomized sound events over
// it. Long events get a slow frequency wobble; events may outlive their slot
// and are flushed by the guard at the end.
func (p *Performer) AmbientSoundscape(ctx context.Context, params SoundscapeParams) (Result, error) {
	duration := clampInt(params.Duration, 10, 120)
	density := clampFloat(params.Density, 0.0, 1.0)

	moodName := params.Mood
	mood, ok := moods[moodName]
	if !ok {
		moodName = "calm"
		mood = moods[moodName]
	}
	freqRange, ok := pitchRanges[params.PitchRange]
	if !ok {
		freqRange = pitchRanges["medium"]
	}

	baseFreq := mood.baseFreqLo + p.rng.Float64()*(mood.baseFreqHi-mood.baseFreqLo)
	numEvents := clampInt(int(float64(duration)*density*0.5), 3, 20)

	alloc := engine.NewAllocator(p.clock)

	return p.run(func(g *engine.Guard) (string, error) {
		start := p.clock.Now()
		end := start.Add(time.Duration(duration) * time.Second)

		// Background drone, held for the whole run and freed by the guard.
		if err := g.Create(p.patch, alloc.Next(),
			osc.FP("freq", baseFreq), osc.FP("amp", mood.amplitude*0.5)); err != nil {
			return "", err
		}

		for i := 0; i < numEvents; i++ {
			// Events start somewhere within the first 80% of the run.
			eventStart := p.rng.Float64() * float64(duration) * 0.8
			wait := start.Add(seconds(eventStart)).Sub(p.clock.Now())
			if wait > 0 {
				if err := p.clock.Sleep(ctx, wait); err != nil {
					return "", err
				}
			}
			if !p.clock.Now().Before(end) {
				break
			}

			harmonic := mood.harmonics[p.rng.Intn(len(mood.harmonics))]
			eventFreq := clampFloat(baseFreq*harmonic, freqRange[0], freqRange[1])
			eventAmp := mood.amplitude * (0.5 + p.rng.Float64()*0.5)
			eventDur := mood.eventDurLo + p.rng.Float64()*(mood.eventDurHi-mood.eventDurLo)
			if remaining := end.Sub(p.clock.Now()).Seconds(); eventDur > remaining {
				eventDur = remaining
			}
			if eventDur <= 0 {
				continue
			}

			id := alloc.Next()
			if err := g.Create(p.patch, id,
				osc.FP("freq", eventFreq), osc.FP("amp", eventAmp)); err != nil {
				return "", err
			}

			if eventDur > 3.0 && p.rng.Float64() < 0.7 {
				// Slow random wobble for longer events.
				steps := int(eventDur / 0.5)
				for j := 0; j < steps; j++ {
					if !p.clock.Now().Before(end) {
						break
					}
					modFreq := eventFreq * (0.98 + p.rng.Float64()*0.04)
					if err := g.Set(id, "freq", float32(modFreq)); err != nil {
						return "", err
					}
					if err := p.clock.Sleep(ctx, 500*time.Millisecond); err != nil {
						return "", err
					}
				}
			} else {
				if err := p.clock.Sleep(ctx, seconds(eventDur)); err != nil {
					return "", err
				}
			}

			// Most events end here; some long ones ring on until the guard
			// flushes them.
			if eventDur < 5.0 || p.rng.Float64() < 0.7 {
				if err := g.Free(id); err != nil {
					return "", err
				}
			}
		}

		if remaining := end.Sub(p.clock.Now()); remaining > 0 {
			if err := p.clock.Sleep(ctx, remaining); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("created a %s ambient soundscape lasting %d seconds with %d sound events",
			moodName, duration, numEvents), nil
	})
}
