package sound

import (
	"context"
	"fmt"
	"math"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// LayeredParams describes a stack of detuned oscillator layers.
type LayeredParams struct {
	BaseNote string  `json:"base_note"`
	Layers   int     `json:"layers"`
	Detune   float64 `json:"detune"`
	Effects  string  `json:"effects"`
	Duration float64 `json:"duration"`
}

// LayeredSynth spreads detuned copies of one note across the stereo field,
// center layers loudest, and holds the stack for the duration. Effects are
// limited to reverb, delay and distortion. All layers live under one guard
// scope: a failure creating layer N still releases layers 0..N-1.
func (p *Performer) LayeredSynth(ctx context.Context, params LayeredParams) (Result, error) {
	layers := clampInt(params.Layers, 1, 5)
	detune := clampFloat(params.Detune, 0.0, 1.0)
	duration := clampFloat(params.Duration, 1.0, 30.0)
	baseFreq := music.NoteToFreq(params.BaseNote)
	effects := parseEffects(params.Effects, layeredEffects)

	alloc := engine.NewAllocator(p.clock)
	var events []engine.Event
	for i := 0; i < layers; i++ {
		detuneFactor := 1.0
		amp := 0.3
		pan := 0.0
		if layers > 1 {
			// Spread layers evenly across the detune range, lowest first.
			spread := 2.0 * detune / float64(layers-1)
			detuneFactor = 1.0 - detune + float64(i)*spread

			centerDistance := math.Abs(float64(i)-float64(layers-1)/2) / float64(layers-1)
			amp = 0.3 * (1.0 - centerDistance*0.5)

			pan = -0.8 + (float64(i)/float64(layers-1))*1.6
		}

		voiceParams := []osc.Param{
			osc.FP("freq", baseFreq*detuneFactor),
			osc.FP("amp", amp),
			osc.FP("pan", pan),
		}
		voiceParams = append(voiceParams, effects...)

		events = append(events, engine.Create(alloc.Next(), p.patch, 0, voiceParams...))
	}
	// Hold the stack; the guard's release frees all layers afterwards.
	events = append(events, engine.Rest(seconds(duration)))

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("created a %d-layer synth at %s (%.1fHz) for %.1f seconds",
			layers, params.BaseNote, baseFreq, duration), nil
	})
}
