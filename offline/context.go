package offline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/formats"
	"github.com/cwbudde/algo-webaudio/native"
)

// Context is an offline audio context. It renders its graph once, on a
// native context created by its native.Factory.
type Context struct {
	log     *zap.Logger
	factory native.Factory
	formats *formats.Registry

	numberOfChannels int
	length           int
	sampleRate       float64

	store       *store
	destination *DestinationNode

	mu          sync.Mutex
	started     bool
	currentTime float64
}

// New creates a Context rendering numberOfChannels channels of length
// frames at sampleRate. It fails with NotSupportedError for a channel count
// outside [1, buffer.MaxChannels], a non-positive length or a sample rate
// outside [buffer.MinSampleRate, buffer.MaxSampleRate].
func New(numberOfChannels, length int, sampleRate float64, opts ...Option) (*Context, error) {
	err := buffer.Validate(numberOfChannels, length, sampleRate)
	if err != nil {
		return nil, err
	}

	cfg := applyOptions(opts)

	c := &Context{
		log:              cfg.logger,
		factory:          cfg.factory,
		formats:          cfg.formats,
		numberOfChannels: numberOfChannels,
		length:           length,
		sampleRate:       sampleRate,
		store:            newStore(),
	}
	c.destination = c.newDestination()

	return c, nil
}

func (c *Context) Destination() *DestinationNode { return c.destination }
func (c *Context) Length() int                   { return c.length }
func (c *Context) SampleRate() float64           { return c.sampleRate }
func (c *Context) NumberOfChannels() int         { return c.numberOfChannels }

// CurrentTime is 0 until rendering completes and the rendered duration
// afterwards.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.currentTime
}

// CreateBuffer creates a zero-filled AudioBuffer.
func (c *Context) CreateBuffer(numberOfChannels, length int, sampleRate float64) (*buffer.AudioBuffer, error) {
	return buffer.New(numberOfChannels, length, sampleRate)
}

// DecodeAudioData decodes an encoded audio stream of the named format
// ("wav", "mp3", "ogg", "aiff") into an AudioBuffer.
func (c *Context) DecodeAudioData(ctx context.Context, r io.Reader, format string) (*buffer.AudioBuffer, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	return c.formats.Decode(r, format)
}

// StartRendering renders the graph and returns the destination's input. A
// Context renders once; a second call fails with InvalidStateError. Errors
// raised by the native engine are returned wrapped but untranslated.
func (c *Context) StartRendering(ctx context.Context) (*buffer.AudioBuffer, error) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil, exception.InvalidState("rendering already started")
	}

	c.started = true
	c.mu.Unlock()

	start := time.Now()
	c.log.Debug("rendering started",
		zap.Int("channels", c.numberOfChannels),
		zap.Int("length", c.length),
		zap.Float64("sampleRate", c.sampleRate))

	nc, err := c.factory(c.numberOfChannels, c.length, c.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("offline: create native context: %w", err)
	}

	_, err = c.destination.faker.render(ctx, nc)
	if err != nil {
		return nil, err
	}

	out, err := nc.StartRendering(ctx)
	if err != nil {
		return nil, fmt.Errorf("offline: native rendering: %w", err)
	}

	c.mu.Lock()
	c.currentTime = float64(c.length) / c.sampleRate
	c.mu.Unlock()

	c.log.Debug("rendering finished", zap.Duration("elapsed", time.Since(start)))

	return out, nil
}
