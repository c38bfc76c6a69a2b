package sound

import (
	"context"
	"fmt"
	"strings"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// SequenceParams describes a literal note sequence. The pattern uses "-" to
// separate notes, "_" for shorter notes, "+" for longer notes and "." for
// rests, e.g. "C4-E4_-G4+-.".
type SequenceParams struct {
	Pattern string `json:"pattern"`
	Synth   string `json:"synth"`
	Tempo   int    `json:"tempo"`
	Repeats int    `json:"repeats"`
}

// sequenceNote is one parsed pattern element.
type sequenceNote struct {
	rest     bool
	freq     float64
	duration float64
}

// PlaySequence plays a pattern string, optionally repeated.
func (p *Performer) PlaySequence(ctx context.Context, params SequenceParams) (Result, error) {
	tempo := clampInt(params.Tempo, 60, 240)
	repeats := clampInt(params.Repeats, 1, 8)
	beat := 60.0 / float64(tempo)

	notes := parseSequence(params.Pattern, beat)

	alloc := engine.NewAllocator(p.clock)
	var events []engine.Event
	for r := 0; r < repeats; r++ {
		for _, n := range notes {
			if n.rest {
				events = append(events, engine.Rest(seconds(n.duration)))
				continue
			}
			id := alloc.Next()
			events = append(events,
				// Hold slightly short of the full value for legato separation.
				engine.Create(id, p.patch, seconds(n.duration*0.95),
					osc.FP("freq", n.freq), osc.FP("amp", 0.3)),
				engine.Free(id, 0),
			)
		}
	}

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("played sequence with %d notes at %d BPM, repeated %d times",
			len(notes), tempo, repeats), nil
	})
}

// parseSequence splits a pattern into notes and rests with duration
// modifiers applied. Patterns without "-" fall back to per-character notes.
func parseSequence(pattern string, beat float64) []sequenceNote {
	var tokens []string
	if strings.Contains(pattern, "-") {
		tokens = strings.Split(pattern, "-")
	} else {
		for _, c := range pattern {
			tokens = append(tokens, string(c))
		}
	}

	notes := make([]sequenceNote, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "." || tok == "" {
			notes = append(notes, sequenceNote{rest: true, duration: beat})
			continue
		}

		mod := 1.0
		name := tok
		switch {
		case strings.Contains(tok, "_"):
			count := strings.Count(tok, "_")
			mod = 1.0 / float64(count+1)
			name = strings.ReplaceAll(tok, "_", "")
		case strings.Contains(tok, "+"):
			count := strings.Count(tok, "+")
			mod = 1.0 + float64(count)*0.5
			name = strings.ReplaceAll(tok, "+", "")
		}

		notes = append(notes, sequenceNote{
			freq:     music.NoteToFreq(name),
			duration: beat * mod,
		})
	}
	return notes
}
