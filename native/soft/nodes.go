package soft

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/dsp/filter/iir"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

type destinationNode struct {
	node
}

func (d *destinationNode) MaxChannelCount() int {
	return d.ctx.numberOfChannels
}

// SetChannelCount rejects changes: an offline destination has a fixed
// channel count.
func (d *destinationNode) SetChannelCount(count int) error {
	if count != d.ctx.numberOfChannels {
		return exception.InvalidState("offline destination channel count is fixed at %d", d.ctx.numberOfChannels)
	}

	return nil
}

func (d *destinationNode) process(_ *Context, in [][]float64) [][]float64 {
	return in
}

type gainNode struct {
	node
	gain *param
}

func (g *gainNode) Gain() native.Param { return g.gain }

func (g *gainNode) process(_ *Context, in [][]float64) [][]float64 {
	gain := g.gain.Value()

	out := make([][]float64, len(in))
	for ch, src := range in {
		out[ch] = make([]float64, len(src))
		vecmath.ScaleBlock(out[ch], src, gain)
	}

	return out
}

type biquadNode struct {
	node

	sampleRate float64
	typ        design.Type
	frequency  *param
	detune     *param
	q          *param
	gain       *param
}

func newBiquadNode(sampleRate float64) *biquadNode {
	p := design.DefaultParams()

	return &biquadNode{
		sampleRate: sampleRate,
		typ:        design.Lowpass,
		frequency:  newParam(p.Frequency),
		detune:     newParam(p.Detune),
		q:          newParam(p.Q),
		gain:       newParam(p.Gain),
	}
}

func (b *biquadNode) Type() design.Type {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	return b.typ
}

func (b *biquadNode) SetType(t design.Type) error {
	_, err := design.ParseType(string(t))
	if err != nil {
		return exception.NotSupported("%v", err)
	}

	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	b.typ = t

	return nil
}

func (b *biquadNode) Frequency() native.Param { return b.frequency }
func (b *biquadNode) Detune() native.Param    { return b.detune }
func (b *biquadNode) Q() native.Param         { return b.q }
func (b *biquadNode) Gain() native.Param      { return b.gain }

func (b *biquadNode) coefficients(t design.Type) biquad.Coefficients {
	return design.Compute(t, design.Params{
		Frequency: b.frequency.Value(),
		Detune:    b.detune.Value(),
		Q:         b.q.Value(),
		Gain:      b.gain.Value(),
	}, b.sampleRate)
}

func (b *biquadNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	if len(magResponse) != len(frequencyHz) || len(phaseResponse) != len(frequencyHz) {
		return exception.InvalidAccess("response arrays have lengths %d and %d, want %d",
			len(magResponse), len(phaseResponse), len(frequencyHz))
	}

	c := b.coefficients(b.Type())
	c.FrequencyResponse(frequencyHz, b.sampleRate, magResponse, phaseResponse)

	return nil
}

// process runs with ctx.mu held, so the type is read directly.
func (b *biquadNode) process(_ *Context, in [][]float64) [][]float64 {
	c := b.coefficients(b.typ)

	out := make([][]float64, len(in))
	for ch, src := range in {
		out[ch] = append([]float64(nil), src...)
		biquad.NewSection(c).ProcessBlock(out[ch])
	}

	return out
}

type iirNode struct {
	node

	coefficients iir.Coefficients
	filter       *iir.Filter
	nyquist      float64
}

func newIIRNode(feedforward, feedback []float64, sampleRate float64) (*iirNode, error) {
	c, err := iir.NewCoefficients(feedforward, feedback)
	if err != nil {
		return nil, err
	}

	f, err := iir.NewFilter(c)
	if err != nil {
		return nil, err
	}

	return &iirNode{coefficients: c, filter: f, nyquist: sampleRate / 2}, nil
}

func (f *iirNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	return f.coefficients.Response(frequencyHz, f.nyquist, magResponse, phaseResponse)
}

func (f *iirNode) process(_ *Context, in [][]float64) [][]float64 {
	out := make([][]float64, len(in))

	var st iir.State

	for ch, src := range in {
		st.Reset()

		out[ch] = make([]float64, len(src))
		for i, x := range src {
			out[ch][i] = f.filter.ProcessSample(&st, x)
		}
	}

	return out
}

type bufferSourceNode struct {
	node

	buf          *buffer.AudioBuffer
	playbackRate *param
	detune       *param
	loop         bool
	loopStart    float64
	loopEnd      float64

	startFrame int
	stopFrame  int
	offset     float64
	duration   float64
}

func (s *bufferSourceNode) SetBuffer(b *buffer.AudioBuffer) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.buf != nil && b != nil {
		return exception.InvalidState("buffer already set")
	}

	s.buf = b

	return nil
}

func (s *bufferSourceNode) PlaybackRate() native.Param { return s.playbackRate }
func (s *bufferSourceNode) Detune() native.Param       { return s.detune }

func (s *bufferSourceNode) SetLoop(loop bool) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.loop = loop
}

func (s *bufferSourceNode) SetLoopStart(seconds float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.loopStart = seconds
}

func (s *bufferSourceNode) SetLoopEnd(seconds float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.loopEnd = seconds
}

func (s *bufferSourceNode) Start(when, offset, duration float64) error {
	if when < 0 || offset < 0 || duration < 0 || math.IsNaN(when+offset+duration) {
		return exception.Range("start arguments must be non-negative")
	}

	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.startFrame >= 0 {
		return exception.InvalidState("buffer source already started")
	}

	s.startFrame = s.ctx.frameAt(when)
	s.offset = offset
	s.duration = duration

	return nil
}

func (s *bufferSourceNode) Stop(when float64) error {
	if when < 0 || math.IsNaN(when) {
		return exception.Range("stop time must be non-negative")
	}

	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.startFrame < 0 {
		return exception.InvalidState("buffer source not started")
	}

	s.stopFrame = s.ctx.frameAt(when)

	return nil
}

func (s *bufferSourceNode) process(c *Context, _ [][]float64) [][]float64 {
	if s.buf == nil || s.startFrame < 0 {
		return silence(1, c.length)
	}

	out := silence(s.buf.NumberOfChannels(), c.length)

	data := make([][]float32, s.buf.NumberOfChannels())
	for ch := range data {
		data[ch], _ = s.buf.GetChannelData(ch)
	}

	bufRate := s.buf.SampleRate()
	bufLen := float64(s.buf.Length())
	step := s.playbackRate.Value() * math.Pow(2, s.detune.Value()/1200) * bufRate / c.sampleRate

	loopStart, loopEnd := 0.0, bufLen
	if s.loop && s.loopStart >= 0 && s.loopEnd > s.loopStart && s.loopEnd*bufRate <= bufLen {
		loopStart, loopEnd = s.loopStart*bufRate, s.loopEnd*bufRate
	}

	end := c.length
	if s.stopFrame >= 0 {
		end = min(end, s.stopFrame)
	}

	// frames is compared as a float so that long durations cannot overflow.
	if frames := math.Ceil(s.duration * c.sampleRate); frames < float64(end-s.startFrame) {
		end = s.startFrame + int(frames)
	}

	pos := s.offset * bufRate

	for i := s.startFrame; i < end; i++ {
		if s.loop && pos >= loopEnd {
			pos = loopStart + math.Mod(pos-loopStart, loopEnd-loopStart)
		}

		if pos < 0 || pos >= bufLen {
			break
		}

		i0 := int(pos)
		frac := pos - float64(i0)

		for ch, samples := range data {
			a := float64(samples[i0])
			if frac == 0 {
				out[ch][i] = a
				continue
			}

			var b float64

			switch {
			case i0+1 < len(samples) && (!s.loop || float64(i0+1) < loopEnd):
				b = float64(samples[i0+1])
			case s.loop:
				b = float64(samples[int(loopStart)])
			}

			out[ch][i] = a + (b-a)*frac
		}

		pos += step
	}

	return out
}

// frameAt returns the first frame at or after seconds, tolerating rounding
// error in times computed as frame/sampleRate. Times past the end of the
// render map to length.
func (c *Context) frameAt(seconds float64) int {
	f := math.Ceil(seconds*c.sampleRate - 1e-6)

	switch {
	case f <= 0:
		return 0
	case f >= float64(c.length):
		return c.length
	}

	return int(f)
}
