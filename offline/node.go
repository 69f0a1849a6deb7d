package offline

import (
	"errors"
	"sync"

	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// ErrUnregisteredSource reports a proxy missing from its context's store.
// It indicates a construction bug, not a misuse of the API.
var ErrUnregisteredSource = errors.New("offline: source node is not registered with its context")

// AudioNode is the application-facing surface shared by every node proxy.
type AudioNode interface {
	// Context returns the context that created the node.
	Context() *Context

	NumberOfInputs() int
	NumberOfOutputs() int

	ChannelCount() int
	SetChannelCount(count int)
	ChannelCountMode() native.ChannelCountMode
	SetChannelCountMode(mode native.ChannelCountMode)
	ChannelInterpretation() native.ChannelInterpretation
	SetChannelInterpretation(interpretation native.ChannelInterpretation)

	// Connect connects output 0 of the node to input 0 of destination and
	// returns destination.
	Connect(destination AudioNode) (AudioNode, error)
	// ConnectPorts connects the given output of the node to the given input
	// of destination and returns destination.
	ConnectPorts(destination AudioNode, output, input int) (AudioNode, error)
	// Disconnect removes every connection from the node to destination.
	Disconnect(destination AudioNode) error
	// DisconnectAll removes every outgoing connection of the node.
	DisconnectAll() error

	proxy() *node
}

type channelConfig struct {
	count  int
	mode   native.ChannelCountMode
	interp native.ChannelInterpretation
}

// node is the proxy state common to all node kinds. Channel settings are
// plain fields; the native engine validates them when the node is rendered.
type node struct {
	ctx *Context

	inputs, outputs int

	mu       sync.Mutex
	channels channelConfig
}

func newNode(ctx *Context, inputs, outputs int, channels channelConfig) node {
	return node{ctx: ctx, inputs: inputs, outputs: outputs, channels: channels}
}

func defaultChannels() channelConfig {
	return channelConfig{count: 2, mode: native.Max, interp: native.Speakers}
}

func (n *node) proxy() *node { return n }

func (n *node) Context() *Context    { return n.ctx }
func (n *node) NumberOfInputs() int  { return n.inputs }
func (n *node) NumberOfOutputs() int { return n.outputs }

func (n *node) ChannelCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.channels.count
}

func (n *node) SetChannelCount(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.channels.count = count
}

func (n *node) ChannelCountMode() native.ChannelCountMode {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.channels.mode
}

func (n *node) SetChannelCountMode(mode native.ChannelCountMode) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.channels.mode = mode
}

func (n *node) ChannelInterpretation() native.ChannelInterpretation {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.channels.interp
}

func (n *node) SetChannelInterpretation(interpretation native.ChannelInterpretation) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.channels.interp = interpretation
}

func (n *node) channelConfig() channelConfig {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.channels
}

func (n *node) Connect(destination AudioNode) (AudioNode, error) {
	return n.ConnectPorts(destination, 0, 0)
}

// ConnectPorts fails with InvalidAccessError when destination does not
// belong to the node's context and with IndexSizeError when a port is out of
// range. Connecting the same ports twice has no further effect.
func (n *node) ConnectPorts(destination AudioNode, output, input int) (AudioNode, error) {
	if destination == nil {
		return nil, exception.InvalidAccess("destination is nil")
	}

	to, ok := n.ctx.store.lookup(destination.proxy())
	if !ok {
		return nil, exception.InvalidAccess("destination belongs to another context")
	}

	from, ok := n.ctx.store.lookup(n)
	if !ok {
		return nil, ErrUnregisteredSource
	}

	if output < 0 || output >= n.outputs {
		return nil, exception.IndexSize("output %d outside [0, %d)", output, n.outputs)
	}

	if input < 0 || input >= destination.NumberOfInputs() {
		return nil, exception.IndexSize("input %d outside [0, %d)", input, destination.NumberOfInputs())
	}

	return to.wire(from, output, input), nil
}

func (n *node) Disconnect(destination AudioNode) error {
	if destination == nil {
		return exception.InvalidAccess("destination is nil")
	}

	to, ok := n.ctx.store.lookup(destination.proxy())
	if !ok {
		return exception.InvalidAccess("destination belongs to another context")
	}

	from, ok := n.ctx.store.lookup(n)
	if !ok {
		return ErrUnregisteredSource
	}

	to.unwire(from)

	return nil
}

func (n *node) DisconnectAll() error {
	from, ok := n.ctx.store.lookup(n)
	if !ok {
		return ErrUnregisteredSource
	}

	for _, to := range n.ctx.store.snapshot() {
		to.unwire(from)
	}

	return nil
}
