package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// Decoder decodes 16, 24 and 32 bit integer PCM WAV files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*buffer.AudioBuffer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("wav: read: %w", err)
		}

		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	err := dec.FwdToPCM()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	bitDepth := int(dec.SampleBitDepth())
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	bytesPerSample := (bitDepth-1)/8 + 1
	samples := int(dec.PCMLen()) / bytesPerSample

	if samples < format.NumChannels {
		return nil, ErrEmpty
	}

	ib := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, samples),
		SourceBitDepth: bitDepth,
	}

	n, err := dec.PCMBuffer(ib)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	scale := float32(int64(1) << (bitDepth - 1))

	interleaved := make([]float32, n)
	for i, v := range ib.Data[:n] {
		interleaved[i] = float32(v) / scale
	}

	return buffer.FromInterleaved(float64(format.SampleRate), format.NumChannels, interleaved)
}
