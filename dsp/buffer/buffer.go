package buffer

import (
	"github.com/cwbudde/algo-webaudio/exception"
)

// Limits a user agent must support for AudioBuffer construction.
const (
	MaxChannels   = 32
	MinSampleRate = 3000
	MaxSampleRate = 768000
)

// AudioBuffer is an in-memory multichannel block of float32 PCM samples at a
// fixed sample rate. Every channel has the same length.
type AudioBuffer struct {
	sampleRate float64
	channels   [][]float32
}

// New returns a zero-filled AudioBuffer. It fails with NotSupportedError for
// a channel count outside [1, MaxChannels], a zero length, or a sample rate
// outside [MinSampleRate, MaxSampleRate].
func New(numberOfChannels, length int, sampleRate float64) (*AudioBuffer, error) {
	err := Validate(numberOfChannels, length, sampleRate)
	if err != nil {
		return nil, err
	}

	channels := make([][]float32, numberOfChannels)
	for ch := range channels {
		channels[ch] = make([]float32, length)
	}

	return &AudioBuffer{sampleRate: sampleRate, channels: channels}, nil
}

// FromChannels wraps existing channel slices without copying. Mutations to
// the slices are visible through the AudioBuffer and vice versa.
func FromChannels(sampleRate float64, channels ...[]float32) (*AudioBuffer, error) {
	length := 0
	if len(channels) > 0 {
		length = len(channels[0])
	}

	err := Validate(len(channels), length, sampleRate)
	if err != nil {
		return nil, err
	}

	for ch, data := range channels {
		if len(data) != length {
			return nil, exception.NotSupported("channel %d has %d samples, want %d", ch, len(data), length)
		}
	}

	return &AudioBuffer{sampleRate: sampleRate, channels: channels}, nil
}

// FromInterleaved de-interleaves frames of numberOfChannels samples into a
// new AudioBuffer. A trailing partial frame is dropped.
func FromInterleaved(sampleRate float64, numberOfChannels int, samples []float32) (*AudioBuffer, error) {
	if numberOfChannels < 1 {
		return nil, exception.NotSupported("number of channels %d outside [1, %d]", numberOfChannels, MaxChannels)
	}

	b, err := New(numberOfChannels, len(samples)/numberOfChannels, sampleRate)
	if err != nil {
		return nil, err
	}

	for i := range b.Length() {
		frame := samples[i*numberOfChannels : (i+1)*numberOfChannels]
		for ch, v := range frame {
			b.channels[ch][i] = v
		}
	}

	return b, nil
}

// Validate checks AudioBuffer construction arguments.
func Validate(numberOfChannels, length int, sampleRate float64) error {
	if numberOfChannels < 1 || numberOfChannels > MaxChannels {
		return exception.NotSupported("number of channels %d outside [1, %d]", numberOfChannels, MaxChannels)
	}

	if length < 1 {
		return exception.NotSupported("length %d must be positive", length)
	}

	if !(sampleRate >= MinSampleRate && sampleRate <= MaxSampleRate) {
		return exception.NotSupported("sample rate %v outside [%d, %d]", sampleRate, MinSampleRate, MaxSampleRate)
	}

	return nil
}

// NumberOfChannels returns the channel count.
func (b *AudioBuffer) NumberOfChannels() int {
	return len(b.channels)
}

// Length returns the number of sample frames per channel.
func (b *AudioBuffer) Length() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// SampleRate returns the sample rate in Hz.
func (b *AudioBuffer) SampleRate() float64 {
	return b.sampleRate
}

// Duration returns the buffer duration in seconds.
func (b *AudioBuffer) Duration() float64 {
	return float64(b.Length()) / b.sampleRate
}

// GetChannelData returns the samples of one channel. The slice aliases the
// buffer storage.
func (b *AudioBuffer) GetChannelData(channel int) ([]float32, error) {
	if channel < 0 || channel >= len(b.channels) {
		return nil, exception.IndexSize("channel %d outside [0, %d)", channel, len(b.channels))
	}
	return b.channels[channel], nil
}

// CopyFromChannel copies samples of channel, starting at startInChannel,
// into dst. It returns the number of copied samples.
func (b *AudioBuffer) CopyFromChannel(dst []float32, channel, startInChannel int) (int, error) {
	data, err := b.GetChannelData(channel)
	if err != nil {
		return 0, err
	}

	if startInChannel < 0 || startInChannel > len(data) {
		return 0, exception.IndexSize("start %d outside [0, %d]", startInChannel, len(data))
	}

	return copy(dst, data[startInChannel:]), nil
}

// CopyToChannel copies src into channel starting at startInChannel. Samples
// that do not fit are dropped. It returns the number of copied samples.
func (b *AudioBuffer) CopyToChannel(src []float32, channel, startInChannel int) (int, error) {
	data, err := b.GetChannelData(channel)
	if err != nil {
		return 0, err
	}

	if startInChannel < 0 || startInChannel > len(data) {
		return 0, exception.IndexSize("start %d outside [0, %d]", startInChannel, len(data))
	}

	return copy(data[startInChannel:], src), nil
}

// Copy returns a deep copy of the buffer.
func (b *AudioBuffer) Copy() *AudioBuffer {
	channels := make([][]float32, len(b.channels))
	for ch, data := range b.channels {
		channels[ch] = make([]float32, len(data))
		copy(channels[ch], data)
	}
	return &AudioBuffer{sampleRate: b.sampleRate, channels: channels}
}
