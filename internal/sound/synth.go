package sound

import (
	"context"
	"fmt"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// PlayExample plays the classic smoke test: one voice, ten random frequency
// jumps, free. Useful for verifying the scsynth connection end to end.
func (p *Performer) PlayExample(ctx context.Context) (Result, error) {
	alloc := engine.NewAllocator(p.clock)
	id := alloc.Next()

	events := []engine.Event{
		engine.Create(id, p.patch, time.Second, osc.FP("freq", 440), osc.FP("amp", 0.5)),
	}
	for i := 0; i < 10; i++ {
		freq := 300 + p.rng.Float64()*700
		events = append(events, engine.Set(id, "freq", freq, 500*time.Millisecond))
	}
	events = append(events, engine.Free(id, 0))

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return "sent example tones to the synthesis engine", nil
	})
}

// SynthParams describes a single held synth voice.
type SynthParams struct {
	Type     string  `json:"type"`
	Note     string  `json:"note"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`
	Effects  string  `json:"effects"`
}

// PlaySynth plays one voice shaped by the synth type, with optional effect
// parameters, holds it for the duration and frees it.
func (p *Performer) PlaySynth(ctx context.Context, params SynthParams) (Result, error) {
	freq := music.NoteToFreq(params.Note)
	volume := clampFloat(params.Volume, 0, 1)
	duration := clampFloat(params.Duration, 0.1, 30)

	voiceParams := []osc.Param{osc.FP("freq", freq), osc.FP("amp", volume)}
	voiceParams = append(voiceParams, parseEffects(params.Effects, synthEffects)...)

	// Shape the voice by type. The default synthdef approximates timbres
	// through its parameters; dedicated synthdefs would replace this.
	switch params.Type {
	case "saw":
		voiceParams = append(voiceParams, osc.FP("harmonics", 10))
	case "square":
		voiceParams = append(voiceParams, osc.FP("harmonics", 20))
	case "noise":
		freq = 100 + p.rng.Float64()*900
		voiceParams[0] = osc.FP("freq", freq)
	case "fm":
		voiceParams = append(voiceParams, osc.FP("mod_ratio", 2.0), osc.FP("mod_depth", 0.5))
	case "pad":
		voiceParams = append(voiceParams, osc.FP("attack", 0.5), osc.FP("release", 1.0))
	}

	alloc := engine.NewAllocator(p.clock)
	id := alloc.Next()
	events := []engine.Event{
		engine.Create(id, p.patch, seconds(duration), voiceParams...),
		engine.Free(id, 0),
	}

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("played %s synth at %.1fHz for %.1f seconds",
			synthTypeName(params.Type), freq, duration), nil
	})
}

func synthTypeName(t string) string {
	switch t {
	case "saw", "square", "noise", "fm", "pad":
		return t
	default:
		return "sine"
	}
}
