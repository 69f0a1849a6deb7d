package aiff

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVEfmt not an aiff stream")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Fatalf("Decode() error = %v, want ErrNotAiffFile", err)
	}
}
