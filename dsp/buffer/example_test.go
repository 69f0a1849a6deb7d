package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

func ExampleAudioBuffer() {
	b, err := buffer.New(2, 4, 48000)
	if err != nil {
		panic(err)
	}

	_, _ = b.CopyToChannel([]float32{1, 2, 3}, 1, 1)
	right, _ := b.GetChannelData(1)

	fmt.Println(b.NumberOfChannels(), b.Length(), b.SampleRate())
	fmt.Println(right)

	// Output:
	// 2 4 48000
	// [0 1 2 3]
}
