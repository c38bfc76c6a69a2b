package sound

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/sonicforge/scbridge-api/internal/osc"
)

func TestStyleCoeffsScaled(t *testing.T) {
	base := styleCoeffs{pulseRate: 0.8, variationRate: 0.2, complexity: 0.3, syncopation: 0.2, swing: 0.1}

	// Zero intensity scales everything to 70% of base.
	low := base.scaled(0)
	if math.Abs(low.pulseRate-0.56) > 1e-9 {
		t.Errorf("pulseRate at zero intensity = %v, want 0.56", low.pulseRate)
	}

	// Full intensity scales to 130%, capped at 1.
	high := styleCoeffs{pulseRate: 0.9, variationRate: 0.9, complexity: 0.9, syncopation: 0.9, swing: 0.9}.scaled(1)
	if high.pulseRate != 1.0 {
		t.Errorf("pulseRate at full intensity = %v, want capped at 1", high.pulseRate)
	}
}

func TestDrumKitEvolve(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	kit := seedKit("minimal", rng)
	before := kit

	// Zero complexity never flips a step, no matter how many rounds run.
	for i := 0; i < 64; i++ {
		kit.evolve(rng, 0)
	}
	if kit != before {
		t.Error("evolve with zero complexity mutated the kit")
	}

	// Full complexity flips with probability shares up to 0.7; over enough
	// rounds the kit must diverge from the seed.
	for i := 0; i < 10; i++ {
		kit.evolve(rng, 1)
	}
	if kit == before {
		t.Error("evolve with full complexity never mutated the kit")
	}
}

func TestGenerativeRhythm(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.GenerativeRhythm(context.Background(), RhythmParams{
		Style: "techno", Duration: 10, Tempo: 120, Intensity: 0.5,
	})
	if err != nil {
		t.Fatalf("GenerativeRhythm: %v", err)
	}
	assertBalanced(t, rec, res)

	if res.VoicesCreated == 0 {
		t.Error("a techno rhythm at half intensity struck nothing")
	}
	if !strings.Contains(res.Summary, "techno") {
		t.Errorf("summary %q does not name the style", res.Summary)
	}
}

func TestGenerativeRhythmZeroVariationRepeatsCycle(t *testing.T) {
	// A style with a zero variation rate must never evolve its patterns, so
	// every 16-beat cycle plays the same hits. Full pulse rate and no
	// syncopation remove the per-hit gating, leaving the seeded pattern as
	// the only source of commands.
	rhythmStyles["steady"] = styleCoeffs{pulseRate: 1, variationRate: 0, complexity: 0.5}
	defer delete(rhythmStyles, "steady")

	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.GenerativeRhythm(context.Background(), RhythmParams{
		Style: "steady", Duration: 32, Tempo: 120, Intensity: 1.0,
	})
	if err != nil {
		t.Fatalf("GenerativeRhythm: %v", err)
	}
	assertBalanced(t, rec, res)

	// 32 seconds at 120 BPM is 64 beats, four full 16-step cycles.
	cmds := rec.Commands()
	if len(cmds)%4 != 0 {
		t.Fatalf("got %d commands, want a multiple of 4 cycles", len(cmds))
	}
	cycle := len(cmds) / 4
	if cycle == 0 {
		t.Fatal("rhythm produced no commands")
	}
	for i := cycle; i < len(cmds); i++ {
		first, later := cmds[i%cycle], cmds[i]
		if first.Addr != later.Addr {
			t.Fatalf("command %d addr = %q, cycle 1 had %q", i, later.Addr, first.Addr)
		}
		if first.Addr != "/s_new" {
			continue
		}
		wantFreq, _ := first.ParamValue("freq")
		gotFreq, _ := later.ParamValue("freq")
		if gotFreq != wantFreq {
			t.Fatalf("command %d freq = %v, cycle 1 had %v", i, gotFreq, wantFreq)
		}
	}
}

func TestGenerativeRhythmDeterministicPerSeed(t *testing.T) {
	play := func() []osc.Command {
		rec := osc.NewRecorder()
		clock := newFakeClock()
		p := New(rec, WithClock(clock), WithRand(rand.New(rand.NewSource(99))))
		_, err := p.GenerativeRhythm(context.Background(), RhythmParams{
			Style: "glitch", Duration: 20, Tempo: 140, Intensity: 0.8,
		})
		if err != nil {
			t.Fatalf("GenerativeRhythm: %v", err)
		}
		return rec.Commands()
	}

	first := play()
	second := play()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Addr != b.Addr || a.VoiceID != b.VoiceID {
			t.Fatalf("command %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestGenerativeRhythmUnknownStyleFallsBack(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.GenerativeRhythm(context.Background(), RhythmParams{
		Style: "dubstep", Duration: 5, Tempo: 120, Intensity: 0.5,
	})
	if err != nil {
		t.Fatalf("GenerativeRhythm: %v", err)
	}
	if !strings.Contains(res.Summary, "minimal") {
		t.Errorf("summary %q, want minimal fallback", res.Summary)
	}
}

func TestGenerativeRhythmFreesEachBeat(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	_, err := p.GenerativeRhythm(context.Background(), RhythmParams{
		Style: "minimal", Duration: 5, Tempo: 120, Intensity: 0.5,
	})
	if err != nil {
		t.Fatalf("GenerativeRhythm: %v", err)
	}

	// Every hit is freed within its own beat: the live set never grows past
	// the four possible strikes of one step.
	live := 0
	for _, cmd := range rec.Commands() {
		switch cmd.Addr {
		case "/s_new":
			live++
		case "/n_free":
			live--
		}
		if live > 4 {
			t.Fatalf("live voices reached %d, want at most 4", live)
		}
	}
	if live != 0 {
		t.Errorf("%d voices left live at the end", live)
	}
}
