package vorbis

import (
	"errors"
	"io"
	"testing"
)

// fakeReader serves interleaved stereo samples in chunks of at most 4.
type fakeReader struct {
	data []float32
	err  error
}

func (f *fakeReader) SampleRate() int { return 48000 }
func (f *fakeReader) Channels() int   { return 2 }

func (f *fakeReader) Read(p []float32) (int, error) {
	if len(f.data) == 0 {
		if f.err != nil {
			return 0, f.err
		}

		return 0, io.EOF
	}

	n := copy(p[:min(len(p), 4)], f.data)
	f.data = f.data[n:]

	return n, nil
}

func TestReadAll(t *testing.T) {
	b, err := readAll(&fakeReader{data: []float32{1, -1, 2, -2, 3, -3}})
	if err != nil {
		t.Fatalf("readAll() error = %v", err)
	}

	if b.SampleRate() != 48000 || b.NumberOfChannels() != 2 || b.Length() != 3 {
		t.Fatalf("shape = %v Hz %dx%d", b.SampleRate(), b.NumberOfChannels(), b.Length())
	}

	left, _ := b.GetChannelData(0)
	if left[2] != 3 {
		t.Fatalf("left = %v, want [1 2 3]", left)
	}
}

func TestReadAllEmpty(t *testing.T) {
	_, err := readAll(&fakeReader{})
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("readAll() error = %v, want ErrEmpty", err)
	}
}

func TestReadAllPropagatesErrors(t *testing.T) {
	broken := errors.New("corrupt page")

	_, err := readAll(&fakeReader{data: []float32{1, 1}, err: broken})
	if !errors.Is(err, broken) {
		t.Fatalf("readAll() error = %v, want %v", err, broken)
	}
}
