package testutil

import (
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// Buffer wraps channels in an AudioBuffer, failing t on invalid input.
func Buffer(t testing.TB, sampleRate float64, channels ...[]float32) *buffer.AudioBuffer {
	t.Helper()

	b, err := buffer.FromChannels(sampleRate, channels...)
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}

	return b
}

// Channel returns channel ch of b, failing t when it does not exist.
func Channel(t testing.TB, b *buffer.AudioBuffer, ch int) []float32 {
	t.Helper()

	data, err := b.GetChannelData(ch)
	if err != nil {
		t.Fatalf("GetChannelData(%d) error = %v", ch, err)
	}

	return data
}
