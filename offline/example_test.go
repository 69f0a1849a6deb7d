package offline_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/native/soft"
	"github.com/cwbudde/algo-webaudio/offline"
)

func ExampleContext_StartRendering() {
	// An engine without IIR filters: the filter below is emulated.
	c, err := offline.New(1, 4, 8000, offline.WithNativeFactory(soft.Factory(soft.WithoutIIRFilter())))
	if err != nil {
		panic(err)
	}

	impulse, _ := buffer.FromChannels(8000, []float32{1, 0, 0, 0})

	src := c.CreateBufferSource()
	_ = src.SetBuffer(impulse)
	_ = src.Start(0, 0, offline.PlayToEnd)

	lp, err := c.CreateIIRFilter([]float64{0.5}, []float64{1, -0.5})
	if err != nil {
		panic(err)
	}

	_, _ = src.Connect(lp)
	_, _ = lp.Connect(c.Destination())

	out, err := c.StartRendering(context.Background())
	if err != nil {
		panic(err)
	}

	data, _ := out.GetChannelData(0)
	fmt.Println(data)
	// Output: [0.5 0.25 0.125 0.0625]
}

func ExampleIIRFilterNode_GetFrequencyResponse() {
	c, _ := offline.New(1, 128, 8000)
	f, _ := c.CreateIIRFilter([]float64{1}, []float64{1})

	mag := make([]float32, 3)
	phase := make([]float32, 3)
	_ = f.GetFrequencyResponse([]float32{0, 1000, 4000}, mag, phase)

	fmt.Println(mag, phase)
	// Output: [1 1 1] [0 0 0]
}
