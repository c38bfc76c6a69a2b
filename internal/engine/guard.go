package engine

import (
	"github.com/sonicforge/scbridge-api/internal/osc"
)

// Guard tracks the voices one invocation has created and guarantees their
// release. Every send goes through the guard: ids are recorded before the
// create command leaves, and forgotten once freed. Release flushes whatever
// is still live, so callers defer it and no voice outlives its invocation
// regardless of how the invocation ends.
//
// A Guard belongs to a single invocation and is not safe for concurrent use.
type Guard struct {
	sink    osc.Sink
	live    map[int32]struct{}
	order   []int32
	created int
	freed   int
}

// NewGuard wraps a sink in a fresh, empty guard.
func NewGuard(sink osc.Sink) *Guard {
	return &Guard{
		sink: sink,
		live: make(map[int32]struct{}),
	}
}

// Create records the id as live, then sends /s_new. Recording first means a
// failed send still gets a compensating free on Release; scsynth treats a
// free for an unknown node as a no-op.
func (g *Guard) Create(patch string, voiceID int32, params ...osc.Param) error {
	g.live[voiceID] = struct{}{}
	g.order = append(g.order, voiceID)
	g.created++
	return g.sink.CreateVoice(patch, voiceID, params...)
}

// Set forwards a parameter update for a voice this guard owns.
func (g *Guard) Set(voiceID int32, name string, value float32) error {
	return g.sink.SetParam(voiceID, name, value)
}

// Free sends /n_free and forgets the id. The id is forgotten even when the
// send fails: the command channel is fire-and-forget and retrying a free is
// no better than the first attempt.
func (g *Guard) Free(voiceID int32) error {
	err := g.sink.FreeVoice(voiceID)
	if _, ok := g.live[voiceID]; ok {
		delete(g.live, voiceID)
		g.freed++
	}
	return err
}

// Release frees every id still live, in creation order. Send errors are
// swallowed: release runs on error paths where the transport may already be
// gone, and best-effort is all a datagram channel offers.
func (g *Guard) Release() {
	for _, id := range g.order {
		if _, ok := g.live[id]; !ok {
			continue
		}
		_ = g.sink.FreeVoice(id)
		delete(g.live, id)
		g.freed++
	}
}

// LiveCount reports how many created voices have not been freed yet.
func (g *Guard) LiveCount() int {
	return len(g.live)
}

// Created reports the total number of voices created through this guard.
func (g *Guard) Created() int {
	return g.created
}

// Freed reports the total number of voices freed through this guard.
func (g *Guard) Freed() int {
	return g.freed
}
