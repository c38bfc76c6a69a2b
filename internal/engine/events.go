package engine

import (
	"time"

	"github.com/sonicforge/scbridge-api/internal/osc"
)

// EventKind tags the action an Event performs.
type EventKind int

const (
	// EventCreate sends /s_new for a new voice.
	EventCreate EventKind = iota
	// EventSet sends /n_set updating one parameter.
	EventSet
	// EventFree sends /n_free releasing a voice.
	EventFree
	// EventRest emits nothing and only suspends.
	EventRest
)

// Event is one scheduled action. Wait is how long the scheduler suspends
// after emitting it, before moving to the next event.
type Event struct {
	Kind    EventKind
	VoiceID int32
	Patch   string
	Params  []osc.Param
	Name    string
	Value   float32
	Wait    time.Duration
}

// Create builds a voice-creation event.
func Create(voiceID int32, patch string, wait time.Duration, params ...osc.Param) Event {
	return Event{Kind: EventCreate, VoiceID: voiceID, Patch: patch, Params: params, Wait: wait}
}

// Set builds a parameter-update event.
func Set(voiceID int32, name string, value float64, wait time.Duration) Event {
	return Event{Kind: EventSet, VoiceID: voiceID, Name: name, Value: float32(value), Wait: wait}
}

// Free builds a voice-release event.
func Free(voiceID int32, wait time.Duration) Event {
	return Event{Kind: EventFree, VoiceID: voiceID, Wait: wait}
}

// Rest builds a silent suspension.
func Rest(wait time.Duration) Event {
	return Event{Kind: EventRest, Wait: wait}
}
