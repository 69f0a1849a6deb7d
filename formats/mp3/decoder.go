package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// ErrEmpty is returned for a stream without samples.
var ErrEmpty = errors.New("mp3: no samples")

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels       = 2
	bytesPerSample = 2
)

// Decoder decodes MPEG-1/2 Layer III streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*buffer.AudioBuffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return fromPCM16(float64(dec.SampleRate()), pcm)
}

func fromPCM16(sampleRate float64, pcm []byte) (*buffer.AudioBuffer, error) {
	samples := len(pcm) / bytesPerSample
	if samples < channels {
		return nil, ErrEmpty
	}

	interleaved := make([]float32, samples)
	for i := range interleaved {
		v := int16(binary.LittleEndian.Uint16(pcm[bytesPerSample*i:]))
		interleaved[i] = float32(v) / 32768
	}

	return buffer.FromInterleaved(sampleRate, channels, interleaved)
}
