package ir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/meko-christian/algo-approx"
)

// minFFTSize bounds the bin spacing for short responses.
const minFFTSize = 1024

// Response returns the magnitude and phase (radians) of the impulse
// response h at each frequency in freqs. The spectrum is taken from an FFT
// of h zero-padded to a power of two and linearly interpolated between bins.
func Response(h []float64, sampleRate float64, freqs []float64) (mag, phase []float64, err error) {
	if len(h) == 0 {
		return nil, nil, ErrEmptyIR
	}

	if sampleRate <= 0 {
		return nil, nil, ErrInvalidSampleRate
	}

	nyquist := sampleRate / 2
	for _, f := range freqs {
		if f < 0 || f > nyquist || math.IsNaN(f) {
			return nil, nil, fmt.Errorf("%w: %g", ErrInvalidFrequency, f)
		}
	}

	spectrum, err := fft(h)
	if err != nil {
		return nil, nil, err
	}

	n := len(spectrum)
	binHz := sampleRate / float64(n)

	re := make([]float64, len(freqs))
	im := make([]float64, len(freqs))

	for i, f := range freqs {
		pos := f / binHz
		k := int(pos)

		if k >= n/2 {
			re[i], im[i] = real(spectrum[n/2]), imag(spectrum[n/2])
			continue
		}

		frac := pos - float64(k)
		v := spectrum[k] + complex(frac, 0)*(spectrum[k+1]-spectrum[k])
		re[i], im[i] = real(v), imag(v)
	}

	mag = make([]float64, len(freqs))
	vecmath.Magnitude(mag, re, im)

	phase = make([]float64, len(freqs))
	for i := range phase {
		phase[i] = math.Atan2(im[i], re[i])
	}

	return mag, phase, nil
}

// Decibels converts linear magnitudes to dB. Zero magnitudes map to -Inf.
func Decibels(mag []float64) []float64 {
	out := make([]float64, len(mag))

	for i, m := range mag {
		if m <= 0 {
			out[i] = math.Inf(-1)
			continue
		}

		out[i] = 20 * approx.FastLog(m) / math.Ln10
	}

	return out
}

func fft(h []float64) ([]complex128, error) {
	size := nextPowerOf2(max(2*len(h), minFFTSize))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("ir: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, size)
	for i, v := range h {
		padded[i] = complex(v, 0)
	}

	spectrum := make([]complex128, size)

	err = plan.Forward(spectrum, padded)
	if err != nil {
		return nil, err
	}

	return spectrum, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
