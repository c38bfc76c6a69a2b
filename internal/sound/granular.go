package sound

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// GranularParams describes a granular texture: many short-lived grain
// voices scattered around a center pitch.
type GranularParams struct {
	SourceNote  string  `json:"source_note"`
	Density     float64 `json:"density"`
	GrainSize   float64 `json:"grain_size"`
	PitchSpread float64 `json:"pitch_spread"`
	Duration    float64 `json:"duration"`
}

// maxGrainsPerSecond caps grain emission at full density.
const maxGrainsPerSecond = 20.0

// GranularTexture emits grains at a density-derived rate. Each grain
// carries an expected expiry; expired grains are freed opportunistically at
// the start of the next tick rather than by a separate timer, which bounds
// the live set to grains created within one grain-duration window. The
// guard flushes whatever is still sounding when the run ends.
func (p *Performer) GranularTexture(ctx context.Context, params GranularParams) (Result, error) {
	density := clampFloat(params.Density, 0.1, 1.0)
	grainSize := clampFloat(params.GrainSize, 0.01, 0.5)
	pitchSpread := clampFloat(params.PitchSpread, 0.0, 1.0)
	duration := clampFloat(params.Duration, 1.0, 30.0)
	baseFreq := music.NoteToFreq(params.SourceNote)

	grainsPerSecond := density * maxGrainsPerSecond
	// Lower densities get slightly longer grains for continuity.
	grainDur := seconds(grainSize * (1.2 - density*0.2))
	interval := time.Duration(float64(time.Second) / grainsPerSecond)

	alloc := engine.NewAllocator(p.clock)
	expiries := make(map[int32]time.Time)

	return p.run(func(g *engine.Guard) (string, error) {
		err := p.sched.RunLoop(ctx, seconds(duration), interval, func(time.Duration) error {
			pitchVariation := 1.0 + (p.rng.Float64()*2-1)*pitchSpread
			grainFreq := baseFreq * pitchVariation

			// Grains far from the center pitch are attenuated.
			ampFactor := 1.0
			if pitchSpread > 0 {
				ampFactor = 1.0 - (math.Abs(pitchVariation-1.0)/pitchSpread)*0.5
			}

			id := alloc.Next()
			if err := g.Create(p.patch, id,
				osc.FP("freq", grainFreq),
				osc.FP("amp", 0.2*ampFactor),
				osc.FP("pan", -0.8+p.rng.Float64()*1.6),
			); err != nil {
				return err
			}
			expiries[id] = p.clock.Now().Add(grainDur)

			now := p.clock.Now()
			for gid, expiry := range expiries {
				if !expiry.After(now) {
					if err := g.Free(gid); err != nil {
						return err
					}
					delete(expiries, gid)
				}
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("created granular texture at %s with density %.2f for %.1f seconds",
			params.SourceNote, density, duration), nil
	})
}
