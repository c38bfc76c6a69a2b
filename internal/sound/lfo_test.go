package sound

import (
	"context"
	"testing"

	"github.com/sonicforge/scbridge-api/internal/osc"
)

func TestModTargetFor(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		depth     float64
		wantParam string
		wantMin   float64
		wantMax   float64
		wantName  string
	}{
		{"amplitude", "amplitude", 0.5, "amp", 0.25, 0.5, "amplitude"},
		{"filter", "filter", 1.0, "cutoff", 100, 4000, "filter"},
		{"pan", "pan", 0.8, "pan", -0.8, 0.8, "pan"},
		{"frequency", "frequency", 1.0, "freq", 220, 660, "frequency"},
		{"unknown falls back", "wobble", 1.0, "freq", 220, 660, "frequency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, name := modTargetFor(tt.target, tt.depth)
			if target.param != tt.wantParam {
				t.Errorf("param = %q, want %q", target.param, tt.wantParam)
			}
			if target.min != tt.wantMin || target.max != tt.wantMax {
				t.Errorf("range = [%v, %v], want [%v, %v]", target.min, target.max, tt.wantMin, tt.wantMax)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestLFOModulation(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.LFOModulation(context.Background(), LFOParams{
		Target: "frequency", Rate: 1.0, Depth: 0.5, Waveform: "sine", Duration: 1.0,
	})
	if err != nil {
		t.Fatalf("LFOModulation: %v", err)
	}
	assertBalanced(t, rec, res)
	if res.VoicesCreated != 1 {
		t.Fatalf("created %d voices, want 1", res.VoicesCreated)
	}

	cmds := rec.Commands()
	if cmds[0].Addr != "/s_new" {
		t.Fatalf("first command = %s, want /s_new", cmds[0].Addr)
	}
	if cmds[len(cmds)-1].Addr != "/n_free" {
		t.Fatalf("last command = %s, want /n_free", cmds[len(cmds)-1].Addr)
	}

	// A 1Hz cycle at the 20-steps-per-cycle resolution gives a 50ms step,
	// so a one second run produces 20 updates.
	sets := 0
	for _, cmd := range cmds[1 : len(cmds)-1] {
		if cmd.Addr != "/n_set" || cmd.Name != "freq" {
			t.Fatalf("middle command = %s %s, want /n_set freq", cmd.Addr, cmd.Name)
		}
		// Depth 0.5 keeps the sweep within ±25% of 440.
		if cmd.Value < 330 || cmd.Value > 550 {
			t.Errorf("swept value %v outside [330, 550]", cmd.Value)
		}
		sets++
	}
	if sets != 20 {
		t.Errorf("sent %d updates, want 20", sets)
	}
}

func TestLFOModulationClampsInputs(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	// Rate and duration both out of range; duration clamps to 1s and rate
	// to 10Hz, so the run still terminates quickly under the fake clock.
	res, err := p.LFOModulation(context.Background(), LFOParams{
		Target: "amplitude", Rate: 1000, Depth: 5, Waveform: "triangle", Duration: -3,
	})
	if err != nil {
		t.Fatalf("LFOModulation: %v", err)
	}
	assertBalanced(t, rec, res)

	for _, cmd := range rec.Commands() {
		if cmd.Addr != "/n_set" || cmd.Name != "amp" {
			continue
		}
		// Depth clamps to 1, so amp sweeps within [0, 0.5].
		if cmd.Value < 0 || cmd.Value > 0.5 {
			t.Errorf("amp = %v, want in [0, 0.5]", cmd.Value)
		}
	}
}
