package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("wav: not a WAV file")
	ErrUnsupportedBitDepth = errors.New("wav: unsupported bit depth")
	ErrEmpty               = errors.New("wav: no samples")
)
