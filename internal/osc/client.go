package osc

import (
	"fmt"

	goosc "github.com/hypebeast/go-osc/osc"
)

// scsynth node commands. Trailing arguments on /s_new are name/value pairs.
const (
	addrNewSynth  = "/s_new"
	addrSetParam  = "/n_set"
	addrFreeSynth = "/n_free"
)

// Param is a single named synth parameter carried on a create or set command.
type Param struct {
	Name  string
	Value float32
}

// FP is shorthand for building a Param inline.
func FP(name string, value float64) Param {
	return Param{Name: name, Value: float32(value)}
}

// Sink is the command channel the schedulers emit through. Sends are
// fire-and-forget: scsynth never acknowledges, and delivery is best-effort
// over UDP.
type Sink interface {
	CreateVoice(patch string, voiceID int32, params ...Param) error
	SetParam(voiceID int32, name string, value float32) error
	FreeVoice(voiceID int32) error
}

// Client sends scsynth node commands to a fixed host/port over UDP.
// It is safe to share process-wide: each command is a single independent
// datagram and the engine serializes on its side.
type Client struct {
	client *goosc.Client
	addr   string
}

// NewClient returns a Client targeting the given scsynth address.
func NewClient(host string, port int) *Client {
	return &Client{
		client: goosc.NewClient(host, port),
		addr:   fmt.Sprintf("%s:%d", host, port),
	}
}

// Addr returns the target address, for logging.
func (c *Client) Addr() string {
	return c.addr
}

// CreateVoice sends /s_new with addAction 0 (head) in the default group.
func (c *Client) CreateVoice(patch string, voiceID int32, params ...Param) error {
	msg := goosc.NewMessage(addrNewSynth)
	msg.Append(patch)
	msg.Append(voiceID)
	msg.Append(int32(0)) // add action: add to head
	msg.Append(int32(0)) // target group
	for _, p := range params {
		msg.Append(p.Name)
		msg.Append(p.Value)
	}
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("send %s for voice %d: %w", addrNewSynth, voiceID, err)
	}
	return nil
}

// SetParam sends /n_set updating one parameter on a live voice.
func (c *Client) SetParam(voiceID int32, name string, value float32) error {
	msg := goosc.NewMessage(addrSetParam)
	msg.Append(voiceID)
	msg.Append(name)
	msg.Append(value)
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("send %s for voice %d: %w", addrSetParam, voiceID, err)
	}
	return nil
}

// FreeVoice sends /n_free releasing a voice.
func (c *Client) FreeVoice(voiceID int32) error {
	msg := goosc.NewMessage(addrFreeSynth)
	msg.Append(voiceID)
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("send %s for voice %d: %w", addrFreeSynth, voiceID, err)
	}
	return nil
}
