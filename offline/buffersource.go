package offline

import (
	"context"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// PlayToEnd is the Start duration that plays until the buffer ends.
var PlayToEnd = native.PlayToEnd

// BufferSourceNode plays an AudioBuffer once it has been started.
type BufferSourceNode struct {
	node
	faker *bufferSourceFaker
}

type schedule struct {
	started  bool
	when     float64
	offset   float64
	duration float64

	stopped  bool
	stopWhen float64
}

type bufferSourceFaker struct {
	fakeNode
	proxy *BufferSourceNode

	playbackRate *Param
	detune       *Param

	// guarded by fakeNode.mu
	buf       *buffer.AudioBuffer
	loop      bool
	loopStart float64
	loopEnd   float64
	schedule  schedule
}

// CreateBufferSource creates a BufferSourceNode without a buffer.
func (c *Context) CreateBufferSource() *BufferSourceNode {
	s := &BufferSourceNode{node: newNode(c, 0, 1, defaultChannels())}
	s.faker = &bufferSourceFaker{
		proxy:        s,
		playbackRate: newParam(1, mostNegative, mostPositive),
		detune:       newParam(0, mostNegative, mostPositive),
	}
	s.faker.init("buffer-source", s, c.log, s.faker.materialize)
	c.store.add(&s.node, s.faker)

	return s
}

func (s *BufferSourceNode) Buffer() *buffer.AudioBuffer {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	return s.faker.buf
}

// SetBuffer sets the buffer to play. A buffer can be assigned once; setting
// a second non-nil buffer fails with InvalidStateError.
func (s *BufferSourceNode) SetBuffer(b *buffer.AudioBuffer) error {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	if s.faker.buf != nil && b != nil {
		return exception.InvalidState("buffer already set")
	}

	s.faker.buf = b

	return nil
}

func (s *BufferSourceNode) PlaybackRate() *Param { return s.faker.playbackRate }
func (s *BufferSourceNode) Detune() *Param       { return s.faker.detune }

func (s *BufferSourceNode) Loop() bool {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	return s.faker.loop
}

func (s *BufferSourceNode) SetLoop(loop bool) {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	s.faker.loop = loop
}

func (s *BufferSourceNode) LoopStart() float64 {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	return s.faker.loopStart
}

func (s *BufferSourceNode) SetLoopStart(seconds float64) {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	s.faker.loopStart = seconds
}

func (s *BufferSourceNode) LoopEnd() float64 {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	return s.faker.loopEnd
}

func (s *BufferSourceNode) SetLoopEnd(seconds float64) {
	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	s.faker.loopEnd = seconds
}

// Start schedules playback at when, beginning offset seconds into the
// buffer, for duration seconds or PlayToEnd. Negative arguments fail with
// RangeError and a second call with InvalidStateError.
func (s *BufferSourceNode) Start(when, offset, duration float64) error {
	if when < 0 || offset < 0 || duration < 0 || math.IsNaN(when+offset+duration) {
		return exception.Range("start arguments must be non-negative")
	}

	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	if s.faker.schedule.started {
		return exception.InvalidState("buffer source already started")
	}

	s.faker.schedule.started = true
	s.faker.schedule.when = when
	s.faker.schedule.offset = offset
	s.faker.schedule.duration = duration

	return nil
}

// Stop schedules the end of playback. It fails with InvalidStateError before
// Start and with RangeError for a negative time.
func (s *BufferSourceNode) Stop(when float64) error {
	if when < 0 || math.IsNaN(when) {
		return exception.Range("stop time must be non-negative")
	}

	s.faker.mu.Lock()
	defer s.faker.mu.Unlock()

	if !s.faker.schedule.started {
		return exception.InvalidState("buffer source not started")
	}

	s.faker.schedule.stopped = true
	s.faker.schedule.stopWhen = when

	return nil
}

func (f *bufferSourceFaker) materialize(_ context.Context, nc native.Context, publish func(native.Node)) (native.Node, error) {
	n, err := nc.CreateBufferSource()
	if err != nil {
		return nil, err
	}

	err = applyChannels(n, f.proxy.channelConfig())
	if err != nil {
		return nil, err
	}

	f.playbackRate.bind(n.PlaybackRate())
	f.detune.bind(n.Detune())

	f.mu.Lock()
	buf, sched := f.buf, f.schedule
	n.SetLoop(f.loop)
	n.SetLoopStart(f.loopStart)
	n.SetLoopEnd(f.loopEnd)
	f.mu.Unlock()

	if buf != nil {
		err = n.SetBuffer(buf)
		if err != nil {
			return nil, err
		}
	}

	if sched.started {
		err = n.Start(sched.when, sched.offset, sched.duration)
		if err != nil {
			return nil, err
		}
	}

	if sched.stopped {
		err = n.Stop(sched.stopWhen)
		if err != nil {
			return nil, err
		}
	}

	publish(n)

	return n, nil
}
