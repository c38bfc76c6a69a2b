package sound

import (
	"context"
	"fmt"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/music"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// ChordProgressionParams describes a "-"-delimited progression like
// "C-G-Am-F" and the voicing style to play it in.
type ChordProgressionParams struct {
	Progression      string  `json:"progression"`
	Style            string  `json:"style"`
	Tempo            int     `json:"tempo"`
	DurationPerChord float64 `json:"duration_per_chord"`
}

// ChordProgression plays each chord token in turn. Tokens with an
// unrecognized root render as silence for the chord's duration; that quirk
// is kept deliberately rather than guessing a default chord.
func (p *Performer) ChordProgression(ctx context.Context, params ChordProgressionParams) (Result, error) {
	tempo := clampInt(params.Tempo, 40, 180)
	perChord := clampFloat(params.DurationPerChord, 1.0, 8.0)
	chordDur := seconds((60.0 / float64(tempo)) * perChord)

	tokens := music.SplitProgression(params.Progression)
	style := params.Style
	switch style {
	case "pad", "staccato", "arpeggio", "power":
	default:
		style = "pad"
	}

	alloc := engine.NewAllocator(p.clock)
	var events []engine.Event
	for _, token := range tokens {
		chord, ok := music.ParseChord(token)
		if !ok {
			events = append(events, engine.Rest(chordDur))
			continue
		}
		events = append(events, p.voiceChord(alloc, chord, style, chordDur)...)
	}

	return p.run(func(g *engine.Guard) (string, error) {
		if err := p.sched.RunEvents(ctx, g, events); err != nil {
			return "", err
		}
		return fmt.Sprintf("played %d-chord progression in %s style at %d BPM",
			len(tokens), style, tempo), nil
	})
}

// voiceChord expands one chord into events for the chosen voicing style.
func (p *Performer) voiceChord(alloc *engine.Allocator, chord music.Chord, style string, chordDur time.Duration) []engine.Event {
	freqs := chord.Frequencies()

	switch style {
	case "staccato":
		// Together, short: hold a quarter of the duration, rest the remainder.
		ids := make([]int32, len(freqs))
		var events []engine.Event
		for i, freq := range freqs {
			ids[i] = alloc.Next()
			amp := 0.3
			if i == 0 || i == len(freqs)-1 {
				amp = 0.4
			}
			events = append(events, engine.Create(ids[i], p.patch, 0,
				osc.FP("freq", freq), osc.FP("amp", amp), osc.FP("pan", chordPan(i, len(freqs), 1.2))))
		}
		events = append(events, engine.Rest(chordDur/4))
		for _, id := range ids {
			events = append(events, engine.Free(id, 0))
		}
		return append(events, engine.Rest(chordDur*3/4))

	case "arpeggio":
		// Sequential: each note gets an even share, held 90% with a 10% gap.
		noteDur := chordDur / time.Duration(len(freqs))
		var events []engine.Event
		for _, freq := range freqs {
			id := alloc.Next()
			events = append(events,
				engine.Create(id, p.patch, noteDur*9/10, osc.FP("freq", freq), osc.FP("amp", 0.3)),
				engine.Free(id, noteDur/10),
			)
		}
		return events

	case "power":
		// Root and fifth only, louder.
		var events []engine.Event
		var ids []int32
		for i, interval := range []int{0, 7} {
			idx := chord.IntervalIndex(interval)
			if idx < 0 {
				continue
			}
			amp := 0.4
			if i == 0 {
				amp = 0.5
			}
			id := alloc.Next()
			ids = append(ids, id)
			events = append(events, engine.Create(id, p.patch, 0,
				osc.FP("freq", freqs[idx]), osc.FP("amp", amp)))
		}
		events = append(events, engine.Rest(chordDur))
		for _, id := range ids {
			events = append(events, engine.Free(id, 0))
		}
		return events

	default: // pad
		// Together, held for the full duration, inner voices softer.
		ids := make([]int32, len(freqs))
		var events []engine.Event
		for i, freq := range freqs {
			ids[i] = alloc.Next()
			amp := 0.2
			if i == 0 || i == len(freqs)-1 {
				amp = 0.3
			}
			events = append(events, engine.Create(ids[i], p.patch, 0,
				osc.FP("freq", freq), osc.FP("amp", amp), osc.FP("pan", chordPan(i, len(freqs), 1.6))))
		}
		events = append(events, engine.Rest(chordDur))
		for _, id := range ids {
			events = append(events, engine.Free(id, 0))
		}
		return events
	}
}

// chordPan spreads chord voices across a stereo width centered on zero.
func chordPan(i, n int, width float64) float64 {
	if n <= 1 {
		return 0
	}
	return (float64(i)/float64(n-1))*width - width/2
}
