package engine

import (
	"context"
	"time"
)

const (
	// maxStepInterval bounds how often continuous-modulation loops send,
	// keeping CPU and network overhead in check.
	maxStepInterval = 50 * time.Millisecond
	// stepsPerCycle is the update resolution within one modulation cycle.
	stepsPerCycle = 20
)

// Scheduler drives event sequences and continuous loops against a clock.
// Execution is single-threaded and cooperative: one invocation owns the
// scheduler end-to-end and suspends only between actions. Cancellation is
// observed at every tick boundary.
type Scheduler struct {
	clock Clock
}

// NewScheduler builds a scheduler on the given clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Clock exposes the scheduler's clock for callers that need ad hoc waits.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// RunEvents walks a precomputed event list in order, emitting each command
// through the guard and suspending for the event's wait. Commands are never
// reordered or batched: scsynth's voice lifecycle depends on
// create-before-set-before-free ordering per id.
func (s *Scheduler) RunEvents(ctx context.Context, g *Guard, events []Event) error {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch ev.Kind {
		case EventCreate:
			err = g.Create(ev.Patch, ev.VoiceID, ev.Params...)
		case EventSet:
			err = g.Set(ev.VoiceID, ev.Name, ev.Value)
		case EventFree:
			err = g.Free(ev.VoiceID)
		case EventRest:
			// suspend only
		}
		if err != nil {
			return err
		}
		if ev.Wait > 0 {
			if err := s.clock.Sleep(ctx, ev.Wait); err != nil {
				return err
			}
		}
	}
	return nil
}

// TickFunc produces one tick of a continuous loop. elapsed is measured from
// the loop start by the scheduler's clock.
type TickFunc func(elapsed time.Duration) error

// RunLoop drives a continuous-modulation loop: tick, suspend for step,
// repeat until duration has elapsed. Elapsed time is recomputed from the
// clock on every tick rather than accumulated from intended sleeps, so
// drift from slow sends self-corrects against the deadline. A zero or
// negative duration yields zero ticks.
func (s *Scheduler) RunLoop(ctx context.Context, duration, step time.Duration, fn TickFunc) error {
	if step <= 0 {
		step = maxStepInterval
	}
	start := s.clock.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		elapsed := s.clock.Now().Sub(start)
		if elapsed >= duration {
			return nil
		}
		if err := fn(elapsed); err != nil {
			return err
		}
		if err := s.clock.Sleep(ctx, step); err != nil {
			return err
		}
	}
}

// StepInterval picks the suspension between ticks for a modulation cycle of
// the given length: cycle/20, capped at 50ms. Degenerate cycles fall back to
// the cap.
func StepInterval(cycle time.Duration) time.Duration {
	if cycle <= 0 {
		return maxStepInterval
	}
	step := cycle / stepsPerCycle
	if step <= 0 || step > maxStepInterval {
		return maxStepInterval
	}
	return step
}
