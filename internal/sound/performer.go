// Package sound turns declarative musical parameters into timed command
// sequences against a synthesis sink. Each feature is one pure
// parameters-to-plan computation plus one scheduling invocation, and every
// invocation runs under a lifecycle guard: a voice created here never
// outlives the call that created it.
package sound

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/sonicforge/scbridge-api/internal/engine"
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// DefaultPatch is the synthdef instantiated when the caller names none.
const DefaultPatch = "default"

// Performer owns the pieces one invocation needs: the sink, a clock, the
// scheduler and a random source. Handlers construct one per process and
// invoke it from many requests; each invocation gets its own allocator and
// guard, so the only shared state is the sink, which is safe to share.
type Performer struct {
	sink  osc.Sink
	clock engine.Clock
	sched *engine.Scheduler
	patch string
	rng   *rand.Rand
}

// Option configures a Performer.
type Option func(*Performer)

// WithClock injects a clock, for tests.
func WithClock(c engine.Clock) Option {
	return func(p *Performer) { p.clock = c }
}

// WithRand injects a random source, for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(p *Performer) { p.rng = r }
}

// WithPatch overrides the default synthdef name.
func WithPatch(name string) Option {
	return func(p *Performer) { p.patch = name }
}

// New builds a Performer over the given sink.
func New(sink osc.Sink, opts ...Option) *Performer {
	p := &Performer{
		sink:  sink,
		clock: engine.SystemClock(),
		patch: DefaultPatch,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p.sched = engine.NewScheduler(p.clock)
	return p
}

// Result summarizes one invocation. VoicesCreated and VoicesFreed are equal
// whenever the invocation ran to the guard's release, which is every exit
// path including errors and cancellation.
type Result struct {
	Summary       string `json:"summary"`
	VoicesCreated int    `json:"voices_created"`
	VoicesFreed   int    `json:"voices_freed"`
}

// run executes one guarded invocation. The guard is released on every exit
// path, including panics, and the counters are captured after release so
// they include the flush.
func (p *Performer) run(fn func(g *engine.Guard) (string, error)) (res Result, err error) {
	g := engine.NewGuard(p.sink)
	defer func() {
		g.Release()
		res.VoicesCreated = g.Created()
		res.VoicesFreed = g.Freed()
	}()
	res.Summary, err = fn(g)
	return res, err
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Accepted effect keys per tool, in wire order so output is stable. The
// layered synth has no filter stage.
var (
	synthEffects   = []string{"reverb", "delay", "distortion", "filter"}
	layeredEffects = []string{"reverb", "delay", "distortion"}
)

// parseEffects decodes an effects JSON object like {"reverb": 0.4} into
// synth parameters, keeping only the allowed keys and clamping each value
// to [0, 1]. Malformed input yields nil: the effect is simply omitted and
// the invocation proceeds without it.
func parseEffects(effects string, allowed []string) []osc.Param {
	if effects == "" {
		return nil
	}
	var decoded map[string]float64
	if err := json.Unmarshal([]byte(effects), &decoded); err != nil {
		return nil
	}
	var params []osc.Param
	for _, name := range allowed {
		if v, ok := decoded[name]; ok {
			params = append(params, osc.FP(name, clampFloat(v, 0, 1)))
		}
	}
	return params
}

// seconds converts a float duration to a time.Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
