package sound

import (
	"context"
	"fmt"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// DrumParams selects a fixed drum pattern and how long to run it.
type DrumParams struct {
	Pattern string `json:"pattern"`
	Beats   int    `json:"beats"`
	Tempo   int    `json:"tempo"`
}

const patternSteps = 16

// stepPattern is one instrument's fixed 16-step hit sequence.
type stepPattern [patternSteps]int

// drumVoice fixes each instrument class's synth parameters and id band.
type drumVoice struct {
	band engine.Band
	freq float64
	amp  float64
}

var drumVoices = map[string]drumVoice{
	"kick":  {engine.BandKick, 60, 0.5},
	"snare": {engine.BandSnare, 300, 0.3},
	"hihat": {engine.BandHihat, 1200, 0.2},
}

// drumOrder fixes iteration order over the instrument classes.
var drumOrder = []string{"kick", "snare", "hihat"}

var drumPatterns = map[string]map[string]stepPattern{
	"four_on_floor": {
		"kick":  {1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		"snare": {0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		"hihat": {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	},
	"breakbeat": {
		"kick":  {1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		"snare": {0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0, 1},
		"hihat": {1, 1, 0, 1, 1, 0, 1, 1, 0, 1, 1, 0, 1, 0, 1, 0},
	},
	"shuffle": {
		"kick":  {1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		"snare": {0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		"hihat": {1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
	},
}

// PlayDrumPattern plays a predefined (or randomly generated) drum pattern,
// looping the 16 steps when beats exceeds the pattern length. Every beat's
// voices are created at the beat start and freed after the beat elapses.
func (p *Performer) PlayDrumPattern(ctx context.Context, params DrumParams) (Result, error) {
	patternName := params.Pattern
	pattern, ok := drumPatterns[patternName]
	if !ok && patternName != "random" {
		patternName = "four_on_floor"
		pattern = drumPatterns[patternName]
	}
	if patternName == "random" {
		pattern = p.randomDrumPattern()
	}

	beats := clampInt(params.Beats, 4, 32)
	tempo := clampInt(params.Tempo, 60, 240)
	beatDur := seconds(60.0 / float64(tempo))

	alloc := engine.NewAllocator(p.clock)
	var events []engine.Event
	for beat := 0; beat < beats; beat++ {
		step := beat % patternSteps

		var hits []int32
		for _, name := range drumOrder {
			if pattern[name][step] == 0 {
				continue
			}
			v := drumVoices[name]
			id := alloc.NextInBand(v.band)
			events = append(events,
				engine.Create(id, p.patch, 0, osc.FP("freq", v.freq), osc.FP("amp", v.amp)))
			hits = append(hits, id)
		}

		events = append(events, engine.Rest(beatDur))
		for _, id := range hits {
			events = append(events, engine.Free(id, 0))
		}
	}

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("played a %s drum pattern with %d beats at %d BPM",
			patternName, beats, tempo), nil
	})
}

// randomDrumPattern rolls fresh step patterns, guaranteeing at least one
// kick and one snare hit so the result is audibly a beat.
func (p *Performer) randomDrumPattern() map[string]stepPattern {
	roll := func() stepPattern {
		var s stepPattern
		for i := range s {
			s[i] = p.rng.Intn(2)
		}
		return s
	}
	kick, snare, hihat := roll(), roll(), roll()
	if sumSteps(kick) == 0 {
		kick[0] = 1
	}
	if sumSteps(snare) == 0 {
		snare[4] = 1
	}
	return map[string]stepPattern{"kick": kick, "snare": snare, "hihat": hihat}
}

func sumSteps(s stepPattern) int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}
