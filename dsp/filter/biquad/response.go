package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) at the given
// frequency (Hz) and sample rate (Hz).
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w

	return num / den
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// FrequencyResponse writes |H| and arg(H) for every frequency into mag and
// phase. Frequencies outside [0, sampleRate/2] yield NaN, as BiquadFilterNode
// does. The three slices must have the same length.
func (c *Coefficients) FrequencyResponse(freqHz []float32, sampleRate float64, mag, phase []float32) {
	nyquist := sampleRate / 2

	for i, f := range freqHz {
		if f < 0 || float64(f) > nyquist {
			mag[i] = float32(math.NaN())
			phase[i] = float32(math.NaN())

			continue
		}

		h := c.Response(float64(f), sampleRate)
		mag[i] = float32(cmplx.Abs(h))
		phase[i] = float32(cmplx.Phase(h))
	}
}
