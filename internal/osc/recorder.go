package osc

import (
	"errors"
	"sync"
)

// Command is one recorded scsynth command.
type Command struct {
	Addr    string
	Patch   string
	VoiceID int32
	Name    string
	Value   float32
	Params  []Param
}

// ErrSinkFault is returned by a Recorder once its fault injection point is
// reached.
var ErrSinkFault = errors.New("osc: injected sink fault")

// Recorder is an in-memory Sink. It backs tests and dry runs where no
// scsynth is listening. FailAfter > 0 makes the n-th send (1-based, counted
// across all command kinds) and every later one fail, so cleanup paths can
// be exercised.
type Recorder struct {
	mu        sync.Mutex
	commands  []Command
	sends     int
	FailAfter int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends++
	if r.FailAfter > 0 && r.sends >= r.FailAfter {
		return ErrSinkFault
	}
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *Recorder) CreateVoice(patch string, voiceID int32, params ...Param) error {
	return r.record(Command{Addr: addrNewSynth, Patch: patch, VoiceID: voiceID, Params: params})
}

func (r *Recorder) SetParam(voiceID int32, name string, value float32) error {
	return r.record(Command{Addr: addrSetParam, VoiceID: voiceID, Name: name, Value: value})
}

func (r *Recorder) FreeVoice(voiceID int32) error {
	return r.record(Command{Addr: addrFreeSynth, VoiceID: voiceID})
}

// Commands returns a copy of everything recorded so far, in send order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// CreatedIDs returns voice ids from /s_new commands, in send order.
func (r *Recorder) CreatedIDs() []int32 {
	return r.idsFor(addrNewSynth)
}

// FreedIDs returns voice ids from /n_free commands, in send order.
func (r *Recorder) FreedIDs() []int32 {
	return r.idsFor(addrFreeSynth)
}

func (r *Recorder) idsFor(addr string) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int32
	for _, cmd := range r.commands {
		if cmd.Addr == addr {
			ids = append(ids, cmd.VoiceID)
		}
	}
	return ids
}

// ParamValue returns the value a /s_new command carried for a named
// parameter, or false when the command has no such parameter.
func (cmd Command) ParamValue(name string) (float32, bool) {
	for _, p := range cmd.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}
