package wav

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// Encode writes b as integer PCM WAV with bitDepth bits per sample (16, 24
// or 32). Samples are clipped to [-1, 1].
func Encode(w io.WriteSeeker, b *buffer.AudioBuffer, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	channels := b.NumberOfChannels()
	frames := b.Length()
	full := float64(int64(1)<<(bitDepth-1) - 1)

	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(b.SampleRate()),
		},
		Data:           make([]int, channels*frames),
		SourceBitDepth: bitDepth,
	}

	for ch := range channels {
		data, _ := b.GetChannelData(ch)
		for i, v := range data {
			x := math.Max(-1, math.Min(1, float64(v)))
			ib.Data[i*channels+ch] = int(math.Round(x * full))
		}
	}

	enc := gowav.NewEncoder(w, int(b.SampleRate()), bitDepth, channels, 1)

	err := enc.Write(ib)
	if err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}

	return nil
}
