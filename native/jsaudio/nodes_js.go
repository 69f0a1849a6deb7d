//go:build js && wasm

package jsaudio

import (
	"math"
	"syscall/js"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

type node struct {
	ctx *Context
	v   js.Value
}

func (n *node) jsValue() js.Value { return n.v }

func (n *node) Connect(destination native.Node, output, input int) (err error) {
	d, ok := destination.(interface{ owner() *Context })
	if !ok || d.owner() != n.ctx {
		return exception.InvalidAccess("destination belongs to another context")
	}

	defer catch(&err)

	n.v.Call("connect", destination.(interface{ jsValue() js.Value }).jsValue(), output, input)

	return nil
}

func (n *node) Disconnect(destination native.Node) (err error) {
	d, ok := destination.(interface{ jsValue() js.Value })
	if !ok {
		return exception.InvalidAccess("destination belongs to another context")
	}

	defer catch(&err)

	n.v.Call("disconnect", d.jsValue())

	return nil
}

func (n *node) owner() *Context { return n.ctx }

func (n *node) NumberOfInputs() int  { return n.v.Get("numberOfInputs").Int() }
func (n *node) NumberOfOutputs() int { return n.v.Get("numberOfOutputs").Int() }
func (n *node) ChannelCount() int    { return n.v.Get("channelCount").Int() }

func (n *node) SetChannelCount(count int) error {
	return n.set("channelCount", count)
}

func (n *node) ChannelCountMode() native.ChannelCountMode {
	return native.ChannelCountMode(n.v.Get("channelCountMode").String())
}

func (n *node) SetChannelCountMode(m native.ChannelCountMode) error {
	return n.set("channelCountMode", string(m))
}

func (n *node) ChannelInterpretation() native.ChannelInterpretation {
	return native.ChannelInterpretation(n.v.Get("channelInterpretation").String())
}

func (n *node) SetChannelInterpretation(i native.ChannelInterpretation) error {
	return n.set("channelInterpretation", string(i))
}

func (n *node) set(property string, value any) (err error) {
	defer catch(&err)

	n.v.Set(property, value)

	return nil
}

type param struct {
	v js.Value
}

func (p param) Value() float64     { return p.v.Get("value").Float() }
func (p param) SetValue(v float64) { p.v.Set("value", v) }

type destinationNode struct {
	node
}

func (d *destinationNode) MaxChannelCount() int {
	return d.v.Get("maxChannelCount").Int()
}

type gainNode struct {
	node
}

func (g *gainNode) Gain() native.Param { return param{g.v.Get("gain")} }

type biquadNode struct {
	node
}

func (b *biquadNode) Type() design.Type {
	return design.Type(b.v.Get("type").String())
}

func (b *biquadNode) SetType(t design.Type) error {
	if _, err := design.ParseType(string(t)); err != nil {
		return exception.NotSupported("%v", err)
	}

	return b.set("type", string(t))
}

func (b *biquadNode) Frequency() native.Param { return param{b.v.Get("frequency")} }
func (b *biquadNode) Detune() native.Param    { return param{b.v.Get("detune")} }
func (b *biquadNode) Q() native.Param         { return param{b.v.Get("Q")} }
func (b *biquadNode) Gain() native.Param      { return param{b.v.Get("gain")} }

func (b *biquadNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	return frequencyResponse(b.v, frequencyHz, magResponse, phaseResponse)
}

type iirNode struct {
	node
}

func (f *iirNode) GetFrequencyResponse(frequencyHz, magResponse, phaseResponse []float32) error {
	return frequencyResponse(f.v, frequencyHz, magResponse, phaseResponse)
}

func frequencyResponse(v js.Value, frequencyHz, magResponse, phaseResponse []float32) (err error) {
	defer catch(&err)

	f32 := js.Global().Get("Float32Array")
	freqs := f32.New(len(frequencyHz))
	mag := f32.New(len(magResponse))
	phase := f32.New(len(phaseResponse))

	for i, x := range frequencyHz {
		freqs.SetIndex(i, x)
	}

	v.Call("getFrequencyResponse", freqs, mag, phase)

	for i := range magResponse {
		magResponse[i] = float32(mag.Index(i).Float())
	}

	for i := range phaseResponse {
		phaseResponse[i] = float32(phase.Index(i).Float())
	}

	return nil
}

type bufferSourceNode struct {
	node
}

func (s *bufferSourceNode) SetBuffer(b *buffer.AudioBuffer) (err error) {
	defer catch(&err)

	if b == nil {
		s.v.Set("buffer", js.Null())
		return nil
	}

	s.v.Set("buffer", s.ctx.fromBuffer(b))

	return nil
}

func (s *bufferSourceNode) PlaybackRate() native.Param { return param{s.v.Get("playbackRate")} }
func (s *bufferSourceNode) Detune() native.Param       { return param{s.v.Get("detune")} }

func (s *bufferSourceNode) SetLoop(loop bool)            { s.v.Set("loop", loop) }
func (s *bufferSourceNode) SetLoopStart(seconds float64) { s.v.Set("loopStart", seconds) }
func (s *bufferSourceNode) SetLoopEnd(seconds float64)   { s.v.Set("loopEnd", seconds) }

func (s *bufferSourceNode) Start(when, offset, duration float64) (err error) {
	defer catch(&err)

	if math.IsInf(duration, 1) {
		s.v.Call("start", when, offset)
		return nil
	}

	s.v.Call("start", when, offset, duration)

	return nil
}

func (s *bufferSourceNode) Stop(when float64) (err error) {
	defer catch(&err)

	s.v.Call("stop", when)

	return nil
}
