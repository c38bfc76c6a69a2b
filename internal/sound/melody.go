package sound

import (
	"context"
	"fmt"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// MelodyParams selects the scale and pace of a generated melody.
type MelodyParams struct {
	Scale string `json:"scale"`
	Tempo int    `json:"tempo"`
}

const melodyNoteCount = 16

// melodyDurations is the weighted discrete distribution note lengths are
// drawn from, in beats. Shorter notes are favored.
var melodyDurations = []struct {
	beats  float64
	weight float64
}{
	{0.25, 0.5},
	{0.5, 0.3},
	{1.0, 0.2},
}

// PlayMelody generates and plays a random melody in the given scale, then
// runs the scale itself once, legato.
func (p *Performer) PlayMelody(ctx context.Context, params MelodyParams) (Result, error) {
	intervals, scaleName := music.ScaleIntervals(params.Scale)
	tempo := clampInt(params.Tempo, 60, 240)
	beat := 60.0 / float64(tempo)

	rootNote := p.rng.Intn(12)
	octave := p.rng.Intn(3)
	alloc := engine.NewAllocator(p.clock)

	var events []engine.Event
	for i := 0; i < melodyNoteCount; i++ {
		degree := p.rng.Intn(len(intervals))
		note := rootNote + intervals[degree] + octave*12
		freq := music.SemitoneFreq(float64(note - 9))
		dur := seconds(p.pickDuration() * beat)

		id := alloc.Next()
		events = append(events,
			engine.Create(id, p.patch, dur, osc.FP("freq", freq), osc.FP("amp", 0.3)),
			engine.Free(id, 0),
		)
	}

	// Finish by running the scale, slightly shortened for a legato feel.
	for _, semitones := range intervals {
		freq := music.SemitoneFreq(float64(semitones))
		id := alloc.Next()
		events = append(events,
			engine.Create(id, p.patch, seconds(beat*0.9), osc.FP("freq", freq), osc.FP("amp", 0.3)),
			engine.Free(id, 0),
		)
	}

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("played a %s scale melody at %d BPM", scaleName, tempo), nil
	})
}

// pickDuration draws a note length in beats from the weighted distribution.
func (p *Performer) pickDuration() float64 {
	r := p.rng.Float64()
	var cumulative float64
	for _, d := range melodyDurations {
		cumulative += d.weight
		if r < cumulative {
			return d.beats
		}
	}
	return melodyDurations[len(melodyDurations)-1].beats
}
