package offline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/iir"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// IIRFilterNode is a general infinite impulse response filter. It renders
// natively when the engine can create IIR filters and is emulated otherwise.
type IIRFilterNode struct {
	node
	faker *iirFaker
}

type iirFaker struct {
	fakeNode
	proxy *IIRFilterNode

	coefficients iir.Coefficients
	filter       *iir.Filter
	nyquist      float64
	factory      native.Factory

	// guarded by fakeNode.mu
	natives []native.IIRFilterNode
}

// CreateIIRFilter creates an IIRFilterNode from copies of the coefficients.
// It fails with NotSupportedError when either slice is empty or longer than
// iir.MaxCoefficients and with InvalidStateError when either leading
// coefficient is zero.
func (c *Context) CreateIIRFilter(feedforward, feedback []float64) (*IIRFilterNode, error) {
	coefficients, err := iir.NewCoefficients(feedforward, feedback)
	if err != nil {
		return nil, err
	}

	filter, err := iir.NewFilter(coefficients)
	if err != nil {
		return nil, err
	}

	f := &IIRFilterNode{node: newNode(c, 1, 1, defaultChannels())}
	f.faker = &iirFaker{
		proxy:        f,
		coefficients: coefficients,
		filter:       filter,
		nyquist:      c.sampleRate / 2,
		factory:      c.factory,
	}
	f.faker.init("iir", f, c.log, f.faker.materialize)
	c.store.add(&f.node, f.faker)

	return f, nil
}

// Feedforward returns a copy of the feedforward coefficients.
func (f *IIRFilterNode) Feedforward() []float64 {
	return append([]float64(nil), f.faker.coefficients.Feedforward...)
}

// Feedback returns a copy of the feedback coefficients.
func (f *IIRFilterNode) Feedback() []float64 {
	return append([]float64(nil), f.faker.coefficients.Feedback...)
}

// GetFrequencyResponse computes the magnitude and phase response at each
// frequency, forwarding to the native filter once one has been rendered. It
// fails with NotSupportedError when an output slice is empty and with
// InvalidAccessError when the three slices differ in length.
func (f *IIRFilterNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	f.faker.mu.Lock()

	var rendered native.IIRFilterNode
	if len(f.faker.natives) > 0 {
		rendered = f.faker.natives[0]
	}
	f.faker.mu.Unlock()

	if rendered != nil {
		return rendered.GetFrequencyResponse(frequencyHz, magResponse, phaseResponse)
	}

	return f.faker.coefficients.Response(frequencyHz, f.faker.nyquist, magResponse, phaseResponse)
}

func (f *iirFaker) materialize(ctx context.Context, nc native.Context, publish func(native.Node)) (native.Node, error) {
	creator, ok := native.IIRFilterSupport(nc)
	if !ok {
		f.log.Debug("emulating iir filter", zap.String("native", fmt.Sprintf("%p", nc)))
		return f.emulate(ctx, nc)
	}

	n, err := creator.CreateIIRFilter(f.coefficients.Feedforward, f.coefficients.Feedback)
	if err != nil {
		return nil, err
	}

	err = applyChannels(n, f.proxy.channelConfig())
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.natives = append(f.natives, n)
	f.mu.Unlock()

	publish(n)

	err = f.renderInputs(ctx, nc, n)
	if err != nil {
		return nil, err
	}

	return n, nil
}

// emulate renders the filter's inputs on a nested native context shaped
// like nc, applies the difference equation to the result and returns a
// buffer source on nc playing the filtered buffer from time 0.
func (f *iirFaker) emulate(ctx context.Context, nc native.Context) (native.Node, error) {
	if onPath(ctx, &f.fakeNode) {
		return nil, exception.InvalidState("emulated iir filter depends on its own output")
	}

	nested, err := f.factory(nc.NumberOfChannels(), nc.Length(), nc.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("offline: create nested context: %w", err)
	}

	err = f.renderInputs(withPath(ctx, &f.fakeNode), nested, nested.Destination())
	if err != nil {
		return nil, err
	}

	rendered, err := nested.StartRendering(ctx)
	if err != nil {
		return nil, fmt.Errorf("offline: render nested context: %w", err)
	}

	f.log.Debug("rendered nested context",
		zap.Int("channels", rendered.NumberOfChannels()),
		zap.Int("length", rendered.Length()))

	channels := make([][]float32, rendered.NumberOfChannels())
	for ch := range channels {
		channels[ch], _ = rendered.GetChannelData(ch)
	}

	filtered, err := buffer.FromChannels(rendered.SampleRate(), f.filter.Apply(channels)...)
	if err != nil {
		return nil, err
	}

	src, err := nc.CreateBufferSource()
	if err != nil {
		return nil, err
	}

	err = src.SetBuffer(filtered)
	if err != nil {
		return nil, err
	}

	err = src.Start(0, 0, native.PlayToEnd)
	if err != nil {
		return nil, err
	}

	return src, nil
}
