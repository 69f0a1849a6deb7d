package formats

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/formats/aiff"
	"github.com/cwbudde/algo-webaudio/formats/mp3"
	"github.com/cwbudde/algo-webaudio/formats/vorbis"
	"github.com/cwbudde/algo-webaudio/formats/wav"
)

// ErrUnknownFormat is returned by Registry.Decode for an unregistered format.
var ErrUnknownFormat = errors.New("formats: unknown format")

// Decoder decodes a complete encoded stream into an AudioBuffer.
type Decoder interface {
	Decode(r io.Reader) (*buffer.AudioBuffer, error)
}

// Registry holds decoders by format name (e.g. "wav", "mp3", "ogg").
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// NewDefaultRegistry returns a Registry with the wav, mp3, ogg and aiff
// decoders.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})

	return r
}

func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.codecs[format]

	return d, ok
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		out = append(out, name)
	}

	return out
}

// Decode decodes r with the decoder registered for format.
func (r *Registry) Decode(rd io.Reader, format string) (*buffer.AudioBuffer, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	b, err := d.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("formats: decode %s: %w", format, err)
	}

	return b, nil
}
