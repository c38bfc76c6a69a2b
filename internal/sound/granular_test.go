package sound

import (
	"context"
	"testing"

	"github.com/sonicforge/scbridge-api/internal/osc"
)

func TestGranularTexture(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.GranularTexture(context.Background(), GranularParams{
		SourceNote: "A4", Density: 0.5, GrainSize: 0.1, PitchSpread: 0.5, Duration: 1,
	})
	if err != nil {
		t.Fatalf("GranularTexture: %v", err)
	}
	assertBalanced(t, rec, res)

	// Density 0.5 of the 20/s ceiling emits 10 grains per second.
	if res.VoicesCreated != 10 {
		t.Errorf("created %d grains, want 10", res.VoicesCreated)
	}

	// Grains scatter around the source pitch within the spread.
	for _, cmd := range rec.Commands() {
		if cmd.Addr != "/s_new" {
			continue
		}
		freq, _ := cmd.ParamValue("freq")
		if freq < 440*0.5 || freq > 440*1.5 {
			t.Errorf("grain freq = %v, want within half an octave spread of 440", freq)
		}
		pan, _ := cmd.ParamValue("pan")
		if pan < -0.8 || pan > 0.8 {
			t.Errorf("grain pan = %v, want in [-0.8, 0.8]", pan)
		}
	}
}

func TestGranularTextureZeroSpread(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.GranularTexture(context.Background(), GranularParams{
		SourceNote: "C4", Density: 1.0, GrainSize: 0.05, PitchSpread: 0, Duration: 1,
	})
	if err != nil {
		t.Fatalf("GranularTexture: %v", err)
	}
	assertBalanced(t, rec, res)

	// Full density emits at the 20/s ceiling: one grain every 50ms.
	if res.VoicesCreated != 20 {
		t.Errorf("created %d grains, want 20", res.VoicesCreated)
	}

	// With no spread every grain sits exactly on the source pitch at full
	// amplitude; the attenuation term must not divide by the zero spread.
	for _, cmd := range rec.Commands() {
		if cmd.Addr != "/s_new" {
			continue
		}
		if amp, _ := cmd.ParamValue("amp"); amp != 0.2 {
			t.Errorf("grain amp = %v, want 0.2", amp)
		}
	}
}

func TestGranularTextureLowDensity(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	// Density 0.1 emits 2 grains per second: one every 500ms.
	res, err := p.GranularTexture(context.Background(), GranularParams{
		SourceNote: "A4", Density: 0.1, GrainSize: 0.1, PitchSpread: 0.2, Duration: 2,
	})
	if err != nil {
		t.Fatalf("GranularTexture: %v", err)
	}
	assertBalanced(t, rec, res)
	if res.VoicesCreated != 4 {
		t.Errorf("created %d grains, want 4", res.VoicesCreated)
	}
}

func TestGranularTextureExpiredGrainsFreedDuringRun(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	// 50ms grains at a 100ms emission interval: each grain expires before
	// the next tick, so frees interleave with creates rather than piling up
	// for the final flush.
	_, err := p.GranularTexture(context.Background(), GranularParams{
		SourceNote: "A4", Density: 0.5, GrainSize: 0.05, PitchSpread: 0.2, Duration: 1,
	})
	if err != nil {
		t.Fatalf("GranularTexture: %v", err)
	}

	cmds := rec.Commands()
	firstFree := -1
	lastCreate := -1
	for i, cmd := range cmds {
		switch cmd.Addr {
		case "/n_free":
			if firstFree == -1 {
				firstFree = i
			}
		case "/s_new":
			lastCreate = i
		}
	}
	if firstFree == -1 || firstFree > lastCreate {
		t.Errorf("no free interleaved with creates (first free at %d, last create at %d)", firstFree, lastCreate)
	}
}
