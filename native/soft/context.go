package soft

import (
	"context"
	"errors"
	"sync"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// ErrNodeClosed is returned when a node is used after its context rendered.
var ErrNodeClosed = errors.New("soft: context already rendered")

type config struct {
	iir         bool
	maxChannels int
}

// Option configures a Context.
type Option func(*config)

// WithoutIIRFilter creates contexts that do not implement
// native.IIRFilterCreator.
func WithoutIIRFilter() Option {
	return func(cfg *config) { cfg.iir = false }
}

// WithMaxChannels limits the channel count of created contexts, the way
// engines with a smaller maxChannelCount do.
func WithMaxChannels(n int) Option {
	return func(cfg *config) { cfg.maxChannels = n }
}

func defaultConfig() config {
	return config{iir: true, maxChannels: buffer.MaxChannels}
}

// Context is a software offline audio context.
type Context struct {
	mu sync.Mutex

	numberOfChannels int
	length           int
	sampleRate       float64

	nodes       []*node
	destination *destinationNode
	rendered    bool
}

// iirContext adds the IIR capability to Context.
type iirContext struct {
	*Context
}

// New returns a native offline context rendering numberOfChannels channels
// of length frames at sampleRate.
func New(numberOfChannels, length int, sampleRate float64, opts ...Option) (native.Context, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	err := buffer.Validate(numberOfChannels, length, sampleRate)
	if err != nil {
		return nil, err
	}

	if numberOfChannels > cfg.maxChannels {
		return nil, exception.NotSupported("number of channels %d exceeds %d", numberOfChannels, cfg.maxChannels)
	}

	c := &Context{
		numberOfChannels: numberOfChannels,
		length:           length,
		sampleRate:       sampleRate,
	}

	d := &destinationNode{}
	d.attach(c.newNode(d, 1, 0))
	d.channelCount = numberOfChannels
	d.mode = native.Explicit
	c.destination = d

	if cfg.iir {
		return &iirContext{Context: c}, nil
	}

	return c, nil
}

// Factory returns a native.Factory creating soft contexts with opts.
func Factory(opts ...Option) native.Factory {
	return func(numberOfChannels, length int, sampleRate float64) (native.Context, error) {
		return New(numberOfChannels, length, sampleRate, opts...)
	}
}

// SampleRate returns the sample rate in Hz.
func (c *Context) SampleRate() float64 { return c.sampleRate }

// Length returns the render length in frames.
func (c *Context) Length() int { return c.length }

// NumberOfChannels returns the destination channel count.
func (c *Context) NumberOfChannels() int { return c.numberOfChannels }

// Destination returns the destination node.
func (c *Context) Destination() native.DestinationNode { return c.destination }

// CreateGain creates a gain node with gain 1.
func (c *Context) CreateGain() (native.GainNode, error) {
	g := &gainNode{gain: newParam(1)}

	err := c.register(g, 1, 1)
	if err != nil {
		return nil, err
	}

	return g, nil
}

// CreateBiquadFilter creates a lowpass biquad filter with default parameters.
func (c *Context) CreateBiquadFilter() (native.BiquadFilterNode, error) {
	b := newBiquadNode(c.sampleRate)

	err := c.register(b, 1, 1)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// CreateBufferSource creates a buffer source without a buffer.
func (c *Context) CreateBufferSource() (native.BufferSourceNode, error) {
	s := &bufferSourceNode{
		playbackRate: newParam(1),
		detune:       newParam(0),
		startFrame:   -1,
		stopFrame:    -1,
	}

	err := c.register(s, 0, 1)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// CreateIIRFilter creates an IIR filter node.
func (c *iirContext) CreateIIRFilter(feedforward, feedback []float64) (native.IIRFilterNode, error) {
	f, err := newIIRNode(feedforward, feedback, c.sampleRate)
	if err != nil {
		return nil, err
	}

	err = c.register(f, 1, 1)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// CreateBuffer creates a zero-filled AudioBuffer.
func (c *Context) CreateBuffer(numberOfChannels, length int, sampleRate float64) (*buffer.AudioBuffer, error) {
	return buffer.New(numberOfChannels, length, sampleRate)
}

// StartRendering processes the graph and returns the destination output. A
// context renders once; later calls fail with InvalidStateError.
func (c *Context) StartRendering(ctx context.Context) (*buffer.AudioBuffer, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rendered {
		return nil, exception.InvalidState("offline context already rendered")
	}

	c.rendered = true

	out := c.render()

	channels := make([][]float32, len(out))
	for ch, data := range out {
		channels[ch] = make([]float32, len(data))
		for i, v := range data {
			channels[ch][i] = float32(v)
		}
	}

	return buffer.FromChannels(c.sampleRate, channels...)
}

// register attaches a processor to the context.
func (c *Context) register(p processor, inputs, outputs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rendered {
		return ErrNodeClosed
	}

	p.attach(c.newNode(p, inputs, outputs))

	return nil
}

// newNode must be called with c.mu held or before c is shared.
func (c *Context) newNode(p processor, inputs, outputs int) *node {
	n := &node{
		ctx:          c,
		id:           len(c.nodes),
		proc:         p,
		inputs:       inputs,
		outputs:      outputs,
		channelCount: 2,
		mode:         native.Max,
		interp:       native.Speakers,
	}
	c.nodes = append(c.nodes, n)

	return n
}
