package music

import "strings"

// chordIntervals maps a quality suffix to semitone offsets from the root.
var chordIntervals = map[string][]int{
	// Major triad
	"":    {0, 4, 7},
	"M":   {0, 4, 7},
	"maj": {0, 4, 7},

	// Minor triad
	"m":   {0, 3, 7},
	"min": {0, 3, 7},

	// Sevenths
	"7":    {0, 4, 7, 10},
	"M7":   {0, 4, 7, 11},
	"maj7": {0, 4, 7, 11},
	"m7":   {0, 3, 7, 10},
	"min7": {0, 3, 7, 10},
	"dim":  {0, 3, 6},
	"dim7": {0, 3, 6, 9},
	"aug":  {0, 4, 8},

	// Suspended
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},

	// Added tones
	"add9":  {0, 4, 7, 14},
	"add11": {0, 4, 7, 17},

	// Power chord
	"5": {0, 7},
}

// Chord is a parsed chord symbol: a root pitch class plus an interval set.
// It is derived per token and never stored.
type Chord struct {
	Root      string
	RootPitch int
	Quality   string
	Intervals []int
}

// ParseChord parses a token like "C", "Am" or "Bb7". Two-character flat and
// sharp roots are matched before single letters. An unrecognized quality
// falls back to the major triad; an unrecognized root returns ok=false and
// the callers render silence for the token's duration rather than guessing.
func ParseChord(token string) (Chord, bool) {
	if token == "" {
		return Chord{}, false
	}
	var root, quality string
	if len(token) >= 2 {
		if _, ok := pitchClasses[token[:2]]; ok {
			root = token[:2]
			quality = token[2:]
		}
	}
	if root == "" {
		root = token[:1]
		quality = token[1:]
	}
	pc, ok := pitchClasses[root]
	if !ok {
		return Chord{}, false
	}
	intervals, ok := chordIntervals[quality]
	if !ok {
		intervals = chordIntervals[""]
	}
	return Chord{
		Root:      root,
		RootPitch: pc,
		Quality:   quality,
		Intervals: intervals,
	}, true
}

// Frequencies voices the chord around the fourth octave: each interval is
// placed relative to A4 from the root pitch class.
func (c Chord) Frequencies() []float64 {
	freqs := make([]float64, 0, len(c.Intervals))
	for _, interval := range c.Intervals {
		freqs = append(freqs, SemitoneFreq(float64(c.RootPitch+interval-9)))
	}
	return freqs
}

// IntervalIndex returns the position of an interval within the chord, or -1.
func (c Chord) IntervalIndex(interval int) int {
	for i, v := range c.Intervals {
		if v == interval {
			return i
		}
	}
	return -1
}

// SplitProgression splits a "-"-delimited progression string into tokens.
func SplitProgression(progression string) []string {
	return strings.Split(progression, "-")
}
