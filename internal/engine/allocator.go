package engine

// Band is a reserved offset range within the voice-id space dedicated to one
// instrument class, so simultaneous hits never collide within an invocation.
type Band int

const (
	BandMelodic Band = iota
	BandKick
	BandSnare
	BandHihat
	BandAccent
)

var bandOffsets = map[Band]int32{
	BandMelodic: 0,
	BandKick:    0,
	BandSnare:   1000,
	BandHihat:   2000,
	BandAccent:  3000,
}

const (
	allocIDRange = 10000
	allocIDFloor = 1000
)

// Allocator mints voice ids for one invocation. The base is sampled from the
// clock at 10ms granularity and folded into [1000, 11000), so sequential
// invocations drift across the id space instead of restarting at a fixed
// value. Two invocations that sample the clock within the same 10ms window
// can collide; that is a known, accepted race against a shared scsynth.
//
// An Allocator is owned by a single invocation and is not safe for
// concurrent use.
type Allocator struct {
	base     int32
	counters map[Band]int32
}

// NewAllocator seeds an allocator from the injected clock.
func NewAllocator(clock Clock) *Allocator {
	base := int32(clock.Now().UnixMilli()/10%allocIDRange) + allocIDFloor
	return &Allocator{
		base:     base,
		counters: make(map[Band]int32),
	}
}

// Next mints the next id in the melodic band.
func (a *Allocator) Next() int32 {
	return a.NextInBand(BandMelodic)
}

// NextInBand mints the next id in the given band. Ids within a band are
// sequential from the seeded base plus the band offset.
func (a *Allocator) NextInBand(b Band) int32 {
	n := a.counters[b]
	a.counters[b] = n + 1
	return a.base + bandOffsets[b] + n
}

// Base exposes the seeded base id, for logging.
func (a *Allocator) Base() int32 {
	return a.base
}
