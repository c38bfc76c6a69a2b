package sound

import (
	"context"
	"fmt"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// LFOParams describes a continuous modulation run on one held voice.
type LFOParams struct {
	Target   string  `json:"target"`
	Rate     float64 `json:"rate"`
	Depth    float64 `json:"depth"`
	Waveform string  `json:"waveform"`
	Duration float64 `json:"duration"`
}

// modTarget is a named modulation target: the synth parameter it drives and
// the excursion range derived from the depth coefficient. min <= max always
// holds; the base need not sit inside (amplitude's base equals its max).
type modTarget struct {
	param string
	base  float64
	min   float64
	max   float64
}

// modTargetFor maps a target name to its parameter range. Unrecognized
// targets fall back to frequency.
func modTargetFor(name string, depth float64) (modTarget, string) {
	switch name {
	case "amplitude":
		return modTarget{param: "amp", base: 0.5, min: 0.5 * (1.0 - depth), max: 0.5}, name
	case "filter":
		return modTarget{param: "cutoff", base: 1000.0, min: 100.0, max: 100.0 + depth*3900.0}, name
	case "pan":
		return modTarget{param: "pan", base: 0.0, min: -depth, max: depth}, name
	case "frequency":
		return frequencyTarget(depth), name
	default:
		return frequencyTarget(depth), "frequency"
	}
}

func frequencyTarget(depth float64) modTarget {
	return modTarget{
		param: "freq",
		base:  440.0,
		min:   440.0 * (1.0 - depth*0.5),
		max:   440.0 * (1.0 + depth*0.5),
	}
}

// LFOModulation holds one voice and sweeps one of its parameters with a
// low-frequency oscillator for the duration.
func (p *Performer) LFOModulation(ctx context.Context, params LFOParams) (Result, error) {
	rate := clampFloat(params.Rate, 0.01, 10.0)
	depth := clampFloat(params.Depth, 0.0, 1.0)
	duration := clampFloat(params.Duration, 1.0, 60.0)

	target, targetName := modTargetFor(params.Target, depth)
	kind := engine.ParseWaveform(params.Waveform)
	lfo := engine.NewLFO(kind, rate, p.rng)

	cycle := time.Duration(float64(time.Second) / rate)
	step := engine.StepInterval(cycle)

	alloc := engine.NewAllocator(p.clock)
	id := alloc.Next()

	return p.run(func(g *engine.Guard) (string, error) {
		if err := g.Create(p.patch, id,
			osc.FP(target.param, target.base), osc.FP("amp", 0.3)); err != nil {
			return "", err
		}

		err := p.sched.RunLoop(ctx, seconds(duration), step, func(elapsed time.Duration) error {
			value := engine.MapRange(lfo.Sample(elapsed.Seconds()), target.min, target.max)
			return g.Set(id, target.param, float32(value))
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("applied %s LFO modulation on %s at %.2fHz for %.1f seconds",
			kind, targetName, rate, duration), nil
	})
}
