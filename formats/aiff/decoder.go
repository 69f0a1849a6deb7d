package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

var (
	ErrNotAiffFile         = errors.New("aiff: not an AIFF file")
	ErrUnsupportedBitDepth = errors.New("aiff: unsupported bit depth")
	ErrEmpty               = errors.New("aiff: no samples")
)

// Decoder decodes 16, 24 and 32 bit integer AIFF files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*buffer.AudioBuffer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("aiff: read: %w", err)
		}

		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	if ib.Format == nil || len(ib.Data) < ib.Format.NumChannels {
		return nil, ErrEmpty
	}

	scale := float32(int64(1) << (bitDepth - 1))

	interleaved := make([]float32, len(ib.Data))
	for i, v := range ib.Data {
		interleaved[i] = float32(v) / scale
	}

	return buffer.FromInterleaved(float64(ib.Format.SampleRate), ib.Format.NumChannels, interleaved)
}
