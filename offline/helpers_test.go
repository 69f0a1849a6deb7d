package offline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-webaudio/internal/testutil"
	"github.com/cwbudde/algo-webaudio/native"
	"github.com/cwbudde/algo-webaudio/native/soft"
)

const testRate = 44100

// counter counts native factory calls made through its factory.
type counter struct {
	contexts atomic.Int64
	gains    atomic.Int64
	sources  atomic.Int64
	biquads  atomic.Int64
}

type countingContext struct {
	native.Context
	k *counter
}

func (c *countingContext) CreateGain() (native.GainNode, error) {
	c.k.gains.Add(1)
	return c.Context.CreateGain()
}

func (c *countingContext) CreateBufferSource() (native.BufferSourceNode, error) {
	c.k.sources.Add(1)
	return c.Context.CreateBufferSource()
}

func (c *countingContext) CreateBiquadFilter() (native.BiquadFilterNode, error) {
	c.k.biquads.Add(1)
	return c.Context.CreateBiquadFilter()
}

// factory returns soft contexts without the IIR capability, wrapped to
// count node creation.
func (k *counter) factory() native.Factory {
	return func(numberOfChannels, length int, sampleRate float64) (native.Context, error) {
		k.contexts.Add(1)

		nc, err := soft.New(numberOfChannels, length, sampleRate)
		if err != nil {
			return nil, err
		}

		return &countingContext{Context: nc, k: k}, nil
	}
}

func failingFactory(err error) native.Factory {
	return func(int, int, float64) (native.Context, error) {
		return nil, err
	}
}

var errInjected = errors.New("injected native failure")

func newContext(t *testing.T, channels, length int, opts ...Option) *Context {
	t.Helper()

	c, err := New(channels, length, testRate, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c
}

func playing(t *testing.T, c *Context, samples ...[]float32) *BufferSourceNode {
	t.Helper()

	src := c.CreateBufferSource()
	if err := src.SetBuffer(testutil.Buffer(t, c.SampleRate(), samples...)); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	if err := src.Start(0, 0, PlayToEnd); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	return src
}

func connect(t *testing.T, from, to AudioNode) {
	t.Helper()

	if _, err := from.Connect(to); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
}

func renderChannel(t *testing.T, c *Context, ch int) []float32 {
	t.Helper()

	out, err := c.StartRendering(context.Background())
	if err != nil {
		t.Fatalf("StartRendering() error = %v", err)
	}

	return testutil.Channel(t, out, ch)
}

func withoutNativeIIR() Option {
	return WithNativeFactory(soft.Factory(soft.WithoutIIRFilter()))
}
