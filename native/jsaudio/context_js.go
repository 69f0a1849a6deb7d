//go:build js && wasm

package jsaudio

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/exception"
	"github.com/cwbudde/algo-webaudio/native"
)

// ErrUnsupported is returned when the browser has no OfflineAudioContext.
var ErrUnsupported = errors.New("jsaudio: OfflineAudioContext is not supported in this browser")

// Context wraps a browser OfflineAudioContext.
type Context struct {
	v js.Value

	numberOfChannels int
	length           int
	sampleRate       float64

	destination *destinationNode
}

type iirContext struct {
	*Context
}

// New creates a browser OfflineAudioContext.
func New(numberOfChannels, length int, sampleRate float64) (c native.Context, err error) {
	ctor := js.Global().Get("OfflineAudioContext")
	if ctor.IsUndefined() {
		ctor = js.Global().Get("webkitOfflineAudioContext")
	}

	if ctor.IsUndefined() {
		return nil, ErrUnsupported
	}

	defer catch(&err)

	v := ctor.New(numberOfChannels, length, sampleRate)

	ctx := &Context{
		v:                v,
		numberOfChannels: numberOfChannels,
		length:           length,
		sampleRate:       v.Get("sampleRate").Float(),
	}
	ctx.destination = &destinationNode{node: ctx.wrap(v.Get("destination"))}

	if v.Get("createIIRFilter").Type() == js.TypeFunction {
		return &iirContext{Context: ctx}, nil
	}

	return ctx, nil
}

// Factory is a native.Factory creating browser contexts.
func Factory(numberOfChannels, length int, sampleRate float64) (native.Context, error) {
	return New(numberOfChannels, length, sampleRate)
}

func (c *Context) SampleRate() float64                 { return c.sampleRate }
func (c *Context) Length() int                         { return c.length }
func (c *Context) NumberOfChannels() int               { return c.numberOfChannels }
func (c *Context) Destination() native.DestinationNode { return c.destination }

func (c *Context) CreateGain() (g native.GainNode, err error) {
	defer catch(&err)

	return &gainNode{node: c.wrap(c.v.Call("createGain"))}, nil
}

func (c *Context) CreateBiquadFilter() (b native.BiquadFilterNode, err error) {
	defer catch(&err)

	return &biquadNode{node: c.wrap(c.v.Call("createBiquadFilter"))}, nil
}

func (c *Context) CreateBufferSource() (s native.BufferSourceNode, err error) {
	defer catch(&err)

	return &bufferSourceNode{node: c.wrap(c.v.Call("createBufferSource"))}, nil
}

func (c *iirContext) CreateIIRFilter(feedforward, feedback []float64) (f native.IIRFilterNode, err error) {
	defer catch(&err)

	v := c.v.Call("createIIRFilter", floats(feedforward), floats(feedback))

	return &iirNode{node: c.wrap(v)}, nil
}

func (c *Context) CreateBuffer(numberOfChannels, length int, sampleRate float64) (*buffer.AudioBuffer, error) {
	return buffer.New(numberOfChannels, length, sampleRate)
}

// StartRendering renders the graph. Promise-returning engines are awaited
// through then; older engines report through oncomplete.
func (c *Context) StartRendering(ctx context.Context) (*buffer.AudioBuffer, error) {
	type result struct {
		v   js.Value
		err error
	}

	done := make(chan result, 2)

	oncomplete := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- result{v: args[0].Get("renderedBuffer")}
		return nil
	})
	defer oncomplete.Release()

	resolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- result{v: args[0]}
		return nil
	})
	defer resolve.Release()

	reject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- result{err: fromJS(args[0])}
		return nil
	})
	defer reject.Release()

	c.v.Set("oncomplete", oncomplete)

	err := func() (err error) {
		defer catch(&err)

		p := c.v.Call("startRendering")
		if p.Type() == js.TypeObject && p.Get("then").Type() == js.TypeFunction {
			p.Call("then", resolve, reject)
		}

		return nil
	}()
	if err != nil {
		return nil, err
	}

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}

		return toBuffer(r.v)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Context) wrap(v js.Value) node {
	return node{ctx: c, v: v}
}

// catch converts a JavaScript exception thrown by a js.Value call into an
// exception.Error stored in err.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}

	if jsErr, ok := r.(js.Error); ok {
		*err = fromJS(jsErr.Value)
		return
	}

	panic(r)
}

func fromJS(v js.Value) error {
	if v.Type() != js.TypeObject {
		return fmt.Errorf("jsaudio: %s", v.String())
	}

	e := &exception.Error{
		Name:    v.Get("name").String(),
		Message: v.Get("message").String(),
	}
	if code := v.Get("code"); code.Type() == js.TypeNumber {
		e.Code = code.Int()
	}

	return e
}

func floats(values []float64) js.Value {
	arr := js.Global().Get("Float64Array").New(len(values))
	for i, x := range values {
		arr.SetIndex(i, x)
	}

	return arr
}

func toBuffer(v js.Value) (*buffer.AudioBuffer, error) {
	channels := make([][]float32, v.Get("numberOfChannels").Int())
	for ch := range channels {
		data := v.Call("getChannelData", ch)

		channels[ch] = make([]float32, data.Length())
		for i := range channels[ch] {
			channels[ch][i] = float32(data.Index(i).Float())
		}
	}

	return buffer.FromChannels(v.Get("sampleRate").Float(), channels...)
}

func (c *Context) fromBuffer(b *buffer.AudioBuffer) js.Value {
	v := c.v.Call("createBuffer", b.NumberOfChannels(), b.Length(), b.SampleRate())
	for ch := range b.NumberOfChannels() {
		src, _ := b.GetChannelData(ch)
		data := v.Call("getChannelData", ch)

		for i, x := range src {
			data.SetIndex(i, x)
		}
	}

	return v
}
