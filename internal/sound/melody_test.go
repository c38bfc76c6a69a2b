package sound

import (
	"context"
	"strings"
	"testing"

	"github.com/sonicforge/scbridge-api/internal/osc"
)

func TestPlayMelody(t *testing.T) {
	tests := []struct {
		name      string
		params    MelodyParams
		wantScale string
		scaleLen  int
	}{
		{"major", MelodyParams{Scale: "major", Tempo: 120}, "major", 8},
		{"pentatonic", MelodyParams{Scale: "pentatonic", Tempo: 90}, "pentatonic", 6},
		{"unknown scale falls back", MelodyParams{Scale: "phrygian", Tempo: 120}, "major", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := osc.NewRecorder()
			p, _ := newTestPerformer(rec)

			res, err := p.PlayMelody(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("PlayMelody: %v", err)
			}
			assertBalanced(t, rec, res)

			// 16 melody notes plus one pass over the scale itself.
			want := melodyNoteCount + tt.scaleLen
			if res.VoicesCreated != want {
				t.Errorf("created %d voices, want %d", res.VoicesCreated, want)
			}
			if !strings.Contains(res.Summary, tt.wantScale) {
				t.Errorf("summary %q does not name the %s scale", res.Summary, tt.wantScale)
			}
		})
	}
}

func TestPlayMelodyClampsTempo(t *testing.T) {
	rec := osc.NewRecorder()
	p, clock := newTestPerformer(rec)

	_, err := p.PlayMelody(context.Background(), MelodyParams{Scale: "major", Tempo: 10000})
	if err != nil {
		t.Fatalf("PlayMelody: %v", err)
	}

	// At the 240 BPM ceiling a beat is 250ms; no note may hold longer than
	// one full beat.
	for _, d := range clock.sleeps {
		if d.Seconds() > 0.25+1e-9 {
			t.Errorf("note held %v, want <= 250ms at clamped tempo", d)
		}
	}
}

func TestPickDurationCoversDistribution(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	seen := make(map[float64]bool)
	for i := 0; i < 1000; i++ {
		d := p.pickDuration()
		seen[d] = true
		if d != 0.25 && d != 0.5 && d != 1.0 {
			t.Fatalf("pickDuration returned %v, not in the distribution", d)
		}
	}
	if len(seen) != 3 {
		t.Errorf("1000 draws hit %d of 3 durations", len(seen))
	}
}
