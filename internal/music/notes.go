// Package music holds the pure theory tables and conversions: note names,
// scales, chord symbols, frequencies. Nothing in here touches the network
// or the clock.
package music

import (
	"math"
	"strconv"
)

// ReferenceFreq is A4 in equal temperament.
const ReferenceFreq = 440.0

// semitonesFromA4 maps note names to their distance from A within an octave.
var semitonesFromA4 = map[string]int{
	"C": -9, "C#": -8, "Db": -8, "D": -7, "D#": -6, "Eb": -6,
	"E": -5, "F": -4, "F#": -3, "Gb": -3, "G": -2, "G#": -1, "Ab": -1,
	"A": 0, "A#": 1, "Bb": 1, "B": 2,
}

// pitchClasses maps note names to semitones above C.
var pitchClasses = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// SemitoneFreq converts a distance in semitones from A4 to a frequency.
func SemitoneFreq(semitones float64) float64 {
	return ReferenceFreq * math.Pow(2, semitones/12.0)
}

// NoteToFreq converts a note name like "C4", "A#3" or "Bb5" to a frequency.
// A bare number is taken as a frequency in Hz. Anything unparseable falls
// back to A4; the callers favor degraded output over failure.
func NoteToFreq(note string) float64 {
	if f, err := strconv.ParseFloat(note, 64); err == nil && f > 0 {
		return f
	}
	if len(note) < 2 {
		return ReferenceFreq
	}
	name := note[:len(note)-1]
	octave, err := strconv.Atoi(note[len(note)-1:])
	if err != nil {
		return ReferenceFreq
	}
	offset, ok := semitonesFromA4[name]
	if !ok {
		return ReferenceFreq
	}
	return SemitoneFreq(float64(offset + (octave-4)*12))
}

// PitchClass returns the semitone offset from C for a note name like "C",
// "F#" or "Bb".
func PitchClass(name string) (int, bool) {
	pc, ok := pitchClasses[name]
	return pc, ok
}

// scales are semitone offsets from the scale root.
var scales = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11, 12},
	"minor":      {0, 2, 3, 5, 7, 8, 10, 12},
	"pentatonic": {0, 2, 4, 7, 9, 12},
	"blues":      {0, 3, 5, 6, 7, 10, 12},
}

// ScaleIntervals returns the interval table for a scale, defaulting to major
// for unrecognized names. The second return is the name actually used.
func ScaleIntervals(name string) ([]int, string) {
	if intervals, ok := scales[name]; ok {
		return intervals, name
	}
	return scales["major"], "major"
}
