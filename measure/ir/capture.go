package ir

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/offline"
)

// Errors returned by capture and response analysis.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidFrequency  = errors.New("ir: frequency outside [0, nyquist]")
	ErrNoOutput          = errors.New("ir: build returned no output node")
)

// BuildFunc builds the measured subgraph on c, fed by in, and returns the
// node whose output is captured.
type BuildFunc func(c *offline.Context, in offline.AudioNode) (offline.AudioNode, error)

// Capture renders length samples of the response of the subgraph built by
// build to a unit impulse at time zero. The context is mono; opts configure
// it the way they configure offline.New.
func Capture(ctx context.Context, sampleRate float64, length int, build BuildFunc, opts ...offline.Option) ([]float64, error) {
	c, err := offline.New(1, length, sampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("ir: %w", err)
	}

	impulse, err := buffer.New(1, 1, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("ir: %w", err)
	}

	_, _ = impulse.CopyToChannel([]float32{1}, 0, 0)

	src := c.CreateBufferSource()

	err = src.SetBuffer(impulse)
	if err != nil {
		return nil, err
	}

	err = src.Start(0, 0, offline.PlayToEnd)
	if err != nil {
		return nil, err
	}

	out, err := build(c, src)
	if err != nil {
		return nil, err
	}

	if out == nil {
		return nil, ErrNoOutput
	}

	_, err = out.Connect(c.Destination())
	if err != nil {
		return nil, err
	}

	rendered, err := c.StartRendering(ctx)
	if err != nil {
		return nil, err
	}

	data, err := rendered.GetChannelData(0)
	if err != nil {
		return nil, err
	}

	h := make([]float64, len(data))
	for i, v := range data {
		h[i] = float64(v)
	}

	return h, nil
}
