package sound

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// fakeClock advances instantly on Sleep so invocations that span minutes of
// musical time run in microseconds.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1234567890)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// newTestPerformer wires a Performer to a recorder with a deterministic
// clock and random source.
func newTestPerformer(rec *osc.Recorder) (*Performer, *fakeClock) {
	clock := newFakeClock()
	p := New(rec,
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
	)
	return p, clock
}

// assertBalanced checks the core lifecycle guarantee: every created voice was
// freed exactly once, in both the result counters and the wire commands.
func assertBalanced(t *testing.T, rec *osc.Recorder, res Result) {
	t.Helper()
	if res.VoicesCreated != res.VoicesFreed {
		t.Errorf("created %d voices but freed %d", res.VoicesCreated, res.VoicesFreed)
	}
	created := rec.CreatedIDs()
	freed := rec.FreedIDs()
	freedSet := make(map[int32]int)
	for _, id := range freed {
		freedSet[id]++
	}
	for _, id := range created {
		if freedSet[id] != 1 {
			t.Errorf("voice %d freed %d times, want exactly once", id, freedSet[id])
		}
	}
}

func TestClampFloat(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clampFloat(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clampFloat(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{100, 60, 240, 100},
		{10, 60, 240, 60},
		{999, 60, 240, 240},
	}
	for _, tt := range tests {
		if got := clampInt(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestParseEffects(t *testing.T) {
	t.Run("valid object in stable order", func(t *testing.T) {
		params := parseEffects(`{"delay": 0.2, "reverb": 0.4}`, synthEffects)
		if len(params) != 2 {
			t.Fatalf("got %d params, want 2", len(params))
		}
		// Order follows the allowed list, not the JSON key order.
		if params[0].Name != "reverb" || params[0].Value != 0.4 {
			t.Errorf("params[0] = %+v, want reverb=0.4", params[0])
		}
		if params[1].Name != "delay" || params[1].Value != 0.2 {
			t.Errorf("params[1] = %+v, want delay=0.2", params[1])
		}
	})

	t.Run("values clamped", func(t *testing.T) {
		params := parseEffects(`{"distortion": 3.0, "filter": -1.0}`, synthEffects)
		if len(params) != 2 {
			t.Fatalf("got %d params, want 2", len(params))
		}
		if params[0].Value != 1.0 {
			t.Errorf("distortion = %v, want clamped to 1", params[0].Value)
		}
		if params[1].Value != 0.0 {
			t.Errorf("filter = %v, want clamped to 0", params[1].Value)
		}
	})

	t.Run("keys outside the allowed list dropped", func(t *testing.T) {
		params := parseEffects(`{"filter": 0.5, "reverb": 0.3}`, layeredEffects)
		if len(params) != 1 {
			t.Fatalf("got %d params, want 1", len(params))
		}
		if params[0].Name != "reverb" {
			t.Errorf("params[0] = %+v, want reverb only", params[0])
		}
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		if params := parseEffects(`{"flanger": 0.5}`, synthEffects); params != nil {
			t.Errorf("got %v, want nil", params)
		}
	})

	t.Run("malformed input yields nil", func(t *testing.T) {
		if params := parseEffects(`{reverb: yes}`, synthEffects); params != nil {
			t.Errorf("got %v, want nil", params)
		}
	})

	t.Run("empty string yields nil", func(t *testing.T) {
		if params := parseEffects("", synthEffects); params != nil {
			t.Errorf("got %v, want nil", params)
		}
	})
}

func TestRunCountsIncludeReleaseFlush(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)

	res, err := p.run(func(g *engine.Guard) (string, error) {
		if err := g.Create(p.patch, 1); err != nil {
			return "", err
		}
		if err := g.Create(p.patch, 2); err != nil {
			return "", err
		}
		// Only one voice freed explicitly; the flush covers the other.
		if err := g.Free(1); err != nil {
			return "", err
		}
		return "partial", nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.VoicesCreated != 2 || res.VoicesFreed != 2 {
		t.Errorf("counts = %d/%d, want 2/2", res.VoicesCreated, res.VoicesFreed)
	}
	assertBalanced(t, rec, res)
}

func TestRunCountsSurviveErrors(t *testing.T) {
	rec := osc.NewRecorder()
	p, _ := newTestPerformer(rec)
	boom := errors.New("boom")

	res, err := p.run(func(g *engine.Guard) (string, error) {
		if err := g.Create(p.patch, 1); err != nil {
			return "", err
		}
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("run = %v, want injected error", err)
	}
	if res.VoicesCreated != 1 || res.VoicesFreed != 1 {
		t.Errorf("counts after error = %d/%d, want 1/1", res.VoicesCreated, res.VoicesFreed)
	}
}

func TestSeconds(t *testing.T) {
	if got := seconds(1.5); got != 1500*time.Millisecond {
		t.Errorf("seconds(1.5) = %v, want 1.5s", got)
	}
	if got := seconds(0); got != 0 {
		t.Errorf("seconds(0) = %v, want 0", got)
	}
}
