package native

import (
	"context"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
)

// ChannelCountMode determines how a node computes the channel count of its
// mixed input.
type ChannelCountMode string

// Channel count modes.
const (
	Max        ChannelCountMode = "max"
	ClampedMax ChannelCountMode = "clamped-max"
	Explicit   ChannelCountMode = "explicit"
)

// ChannelInterpretation determines how channels are up- or down-mixed.
type ChannelInterpretation string

// Channel interpretations.
const (
	Speakers ChannelInterpretation = "speakers"
	Discrete ChannelInterpretation = "discrete"
)

// PlayToEnd is the Start duration that plays a buffer source until its
// buffer ends or it is stopped.
var PlayToEnd = math.Inf(1)

// Node is a node owned by a native context.
type Node interface {
	// Connect routes output of this node into input of destination.
	Connect(destination Node, output, input int) error
	// Disconnect removes every connection from this node to destination.
	Disconnect(destination Node) error

	NumberOfInputs() int
	NumberOfOutputs() int

	ChannelCount() int
	SetChannelCount(n int) error
	ChannelCountMode() ChannelCountMode
	SetChannelCountMode(m ChannelCountMode) error
	ChannelInterpretation() ChannelInterpretation
	SetChannelInterpretation(i ChannelInterpretation) error
}

// Param is a native AudioParam. Only its intrinsic value is used.
type Param interface {
	Value() float64
	SetValue(v float64)
}

// DestinationNode is the final node of a context's graph.
type DestinationNode interface {
	Node
	MaxChannelCount() int
}

// GainNode scales its input.
type GainNode interface {
	Node
	Gain() Param
}

// BiquadFilterNode is a second-order filter.
type BiquadFilterNode interface {
	Node
	Type() design.Type
	SetType(t design.Type) error
	Frequency() Param
	Detune() Param
	Q() Param
	Gain() Param
	GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error
}

// BufferSourceNode plays an AudioBuffer.
type BufferSourceNode interface {
	Node
	SetBuffer(b *buffer.AudioBuffer) error
	PlaybackRate() Param
	Detune() Param
	SetLoop(loop bool)
	SetLoopStart(seconds float64)
	SetLoopEnd(seconds float64)
	// Start schedules playback. A duration of PlayToEnd plays until the
	// buffer ends.
	Start(when, offset, duration float64) error
	Stop(when float64) error
}

// IIRFilterNode is a general IIR filter.
type IIRFilterNode interface {
	Node
	GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error
}

// Context is a native offline audio context.
type Context interface {
	SampleRate() float64
	Length() int
	NumberOfChannels() int
	Destination() DestinationNode

	CreateGain() (GainNode, error)
	CreateBiquadFilter() (BiquadFilterNode, error)
	CreateBufferSource() (BufferSourceNode, error)
	CreateBuffer(numberOfChannels, length int, sampleRate float64) (*buffer.AudioBuffer, error)

	// StartRendering renders the graph and returns the destination output.
	StartRendering(ctx context.Context) (*buffer.AudioBuffer, error)
}

// IIRFilterCreator is implemented by contexts able to create IIR filters.
type IIRFilterCreator interface {
	CreateIIRFilter(feedforward, feedback []float64) (IIRFilterNode, error)
}

// Factory constructs a new native offline context.
type Factory func(numberOfChannels, length int, sampleRate float64) (Context, error)

// IIRFilterSupport returns the IIR capability of c, if any.
func IIRFilterSupport(c Context) (IIRFilterCreator, bool) {
	creator, ok := c.(IIRFilterCreator)
	return creator, ok
}
