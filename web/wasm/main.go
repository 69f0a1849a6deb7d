//go:build js && wasm

// Command wasm exposes offline patch rendering to JavaScript as the global
// AlgoWebAudio object. Graphs render on the browser's OfflineAudioContext;
// IIR filters are emulated where the browser lacks createIIRFilter.
package main

import (
	"context"
	"errors"
	"io"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-webaudio/measure/ir"
	"github.com/cwbudde/algo-webaudio/native/jsaudio"
	"github.com/cwbudde/algo-webaudio/offline"
	"github.com/cwbudde/algo-webaudio/patch"
)

var (
	funcs  []js.Func
	logger = zap.NewNop()
)

var errNoFiles = errors.New("file references are not available in the browser")

func main() {
	api := js.Global().Get("Object").New()

	api.Set("setVerbose", export(func(args []js.Value) any {
		if len(args) > 0 && args[0].Bool() {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err.Error()
			}

			logger = l
		} else {
			logger = zap.NewNop()
		}

		return js.Null()
	}))

	// render(patchJSON, channels, length, sampleRate) -> Promise<Float32Array[]>
	api.Set("render", export(func(args []js.Value) any {
		return promise(func() (any, error) {
			if len(args) < 4 {
				return nil, errors.New("render: want patch, channels, length, sampleRate")
			}

			return render(args[0].String(), args[1].Int(), args[2].Int(), args[3].Float())
		})
	}))

	// responseCurve(feedforward, feedback, sampleRate, freqs) -> Float32Array of dB
	api.Set("responseCurve", export(func(args []js.Value) any {
		if len(args) < 4 {
			return js.Global().Get("Float32Array").New(0)
		}

		db, err := responseCurve(floats(args[0]), floats(args[1]), args[2].Float(), floats(args[3]))
		if err != nil {
			return err.Error()
		}

		arr := js.Global().Get("Float32Array").New(len(db))
		for i := range db {
			arr.SetIndex(i, db[i])
		}

		return arr
	}))

	js.Global().Set("AlgoWebAudio", api)

	select {}
}

func render(raw string, channels, length int, sampleRate float64) (any, error) {
	p, err := patch.ParseString(raw)
	if err != nil {
		return nil, err
	}

	c, err := offline.New(channels, length, sampleRate,
		offline.WithLogger(logger),
		offline.WithNativeFactory(jsaudio.Factory))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	_, err = p.Build(ctx, c, patch.WithOpener(func(string) (io.ReadCloser, error) {
		return nil, errNoFiles
	}))
	if err != nil {
		return nil, err
	}

	out, err := c.StartRendering(ctx)
	if err != nil {
		return nil, err
	}

	result := js.Global().Get("Array").New(out.NumberOfChannels())

	for ch := range out.NumberOfChannels() {
		data, _ := out.GetChannelData(ch)

		arr := js.Global().Get("Float32Array").New(len(data))
		for i, v := range data {
			arr.SetIndex(i, v)
		}

		result.SetIndex(ch, arr)
	}

	return result, nil
}

func responseCurve(feedforward, feedback []float64, sampleRate float64, freqs []float64) ([]float64, error) {
	c, err := offline.New(1, 1, sampleRate)
	if err != nil {
		return nil, err
	}

	f, err := c.CreateIIRFilter(feedforward, feedback)
	if err != nil {
		return nil, err
	}

	hz := make([]float32, len(freqs))
	for i, v := range freqs {
		hz[i] = float32(v)
	}

	mag32 := make([]float32, len(freqs))
	phase := make([]float32, len(freqs))

	err = f.GetFrequencyResponse(hz, mag32, phase)
	if err != nil {
		return nil, err
	}

	mag := make([]float64, len(mag32))
	for i, v := range mag32 {
		mag[i] = float64(v)
	}

	return ir.Decibels(mag), nil
}

// promise runs fn off the event loop; rendering waits on browser callbacks.
func promise(fn func() (any, error)) js.Value {
	var executor js.Func

	executor = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]

		go func() {
			defer executor.Release()

			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}

			resolve.Invoke(v)
		}()

		return nil
	})

	return js.Global().Get("Promise").New(executor)
}

func floats(v js.Value) []float64 {
	out := make([]float64, v.Length())
	for i := range out {
		out[i] = v.Index(i).Float()
	}

	return out
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)

	return f
}
