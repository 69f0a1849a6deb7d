package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// ErrEmpty is returned for a stream without samples.
var ErrEmpty = errors.New("vorbis: no samples")

type oggReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

// Decoder decodes Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*buffer.AudioBuffer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	return readAll(dec)
}

// readAll drains dec. Read returns the number of interleaved samples
// written into p.
func readAll(dec oggReader) (*buffer.AudioBuffer, error) {
	channels := dec.Channels()
	chunk := make([]float32, 4096*channels)

	var interleaved []float32

	for {
		n, err := dec.Read(chunk)
		interleaved = append(interleaved, chunk[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("vorbis: %w", err)
		}

		if n == 0 {
			break
		}
	}

	if len(interleaved) < channels {
		return nil, ErrEmpty
	}

	return buffer.FromInterleaved(float64(dec.SampleRate()), channels, interleaved)
}
