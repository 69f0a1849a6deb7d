package iir

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-webaudio/exception"
)

// EvaluatePolynomial evaluates sum_k coeffs[k]*z^k with Horner's method.
func EvaluatePolynomial(coeffs []float64, z complex128) complex128 {
	if len(coeffs) == 0 {
		return 0
	}

	result := complex(coeffs[len(coeffs)-1], 0)
	for k := len(coeffs) - 2; k >= 0; k-- {
		result = result*z + complex(coeffs[k], 0)
	}

	return result
}

// TransferAt returns H(z) = B(z)/A(z) at the normalized frequency
// freqHz/nyquist, where z = e^(-j*pi*freqHz/nyquist) stands for z^-1.
func (c Coefficients) TransferAt(freqHz, nyquist float64) complex128 {
	omega := -math.Pi * freqHz / nyquist
	z := complex(math.Cos(omega), math.Sin(omega))

	return EvaluatePolynomial(c.Feedforward, z) / EvaluatePolynomial(c.Feedback, z)
}

// Response fills magResponse and phaseResponse with the magnitude and phase
// of the transfer function at each frequency in frequencyHz.
//
// It fails with NotSupportedError when either output is empty and with
// InvalidAccessError when the three slices differ in length.
func (c Coefficients) Response(frequencyHz []float32, nyquist float64, magResponse, phaseResponse []float32) error {
	if len(magResponse) == 0 || len(phaseResponse) == 0 {
		return exception.NotSupported("response arrays must not be empty")
	}

	if len(magResponse) != len(frequencyHz) || len(phaseResponse) != len(frequencyHz) {
		return exception.InvalidAccess("response arrays have lengths %d and %d, want %d",
			len(magResponse), len(phaseResponse), len(frequencyHz))
	}

	for i, f := range frequencyHz {
		h := c.TransferAt(float64(f), nyquist)
		magResponse[i] = float32(cmplx.Abs(h))
		phaseResponse[i] = float32(math.Atan2(imag(h), real(h)))
	}

	return nil
}
