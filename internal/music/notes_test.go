package music

import (
	"math"
	"testing"
)

func TestNoteToFreq(t *testing.T) {
	tests := []struct {
		note string
		want float64
	}{
		{"A4", 440.0},
		{"A5", 880.0},
		{"A3", 220.0},
		{"C4", 261.6255653005986},
		{"A#4", 466.1637615180899},
		{"Bb4", 466.1637615180899}, // enharmonic with A#4
		{"E2", 82.4068892282175},
		{"440", 440.0},   // bare numbers are Hz
		{"123.5", 123.5},
		{"H4", 440.0},    // unknown name falls back to A4
		{"", 440.0},
		{"C", 440.0},     // no octave digit
		{"Cx", 440.0},    // non-numeric octave
	}

	for _, tt := range tests {
		if got := NoteToFreq(tt.note); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("NoteToFreq(%q) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestSemitoneFreq(t *testing.T) {
	tests := []struct {
		semitones float64
		want      float64
	}{
		{0, 440},
		{12, 880},
		{-12, 220},
		{-9, 261.6255653005986}, // C4
	}

	for _, tt := range tests {
		if got := SemitoneFreq(tt.semitones); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("SemitoneFreq(%v) = %v, want %v", tt.semitones, got, tt.want)
		}
	}
}

func TestPitchClass(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"C", 0, true},
		{"F#", 6, true},
		{"Gb", 6, true},
		{"B", 11, true},
		{"X", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := PitchClass(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PitchClass(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScaleIntervals(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantLen  int
	}{
		{"major", "major", 8},
		{"minor", "minor", 8},
		{"pentatonic", "pentatonic", 6},
		{"blues", "blues", 7},
		{"dorian", "major", 8}, // unknown scales fall back to major
		{"", "major", 8},
	}

	for _, tt := range tests {
		intervals, name := ScaleIntervals(tt.in)
		if name != tt.wantName {
			t.Errorf("ScaleIntervals(%q) used %q, want %q", tt.in, name, tt.wantName)
		}
		if len(intervals) != tt.wantLen {
			t.Errorf("ScaleIntervals(%q) has %d intervals, want %d", tt.in, len(intervals), tt.wantLen)
		}
		if intervals[0] != 0 {
			t.Errorf("ScaleIntervals(%q) does not start at the root", tt.in)
		}
	}
}
