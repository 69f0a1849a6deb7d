package iir

import (
	"github.com/cwbudde/algo-webaudio/exception"
)

// MaxCoefficients is the maximum length of either coefficient array.
const MaxCoefficients = 20

// Coefficients holds the feedforward and feedback arrays of an IIR filter.
type Coefficients struct {
	Feedforward []float64
	Feedback    []float64
}

// Validate checks coefficient arrays: lengths must be in [1, MaxCoefficients]
// (NotSupportedError) and the leading coefficients must be non-zero
// (InvalidStateError).
func Validate(feedforward, feedback []float64) error {
	if len(feedforward) == 0 || len(feedforward) > MaxCoefficients {
		return exception.NotSupported("feedforward length %d outside [1, %d]", len(feedforward), MaxCoefficients)
	}

	if len(feedback) == 0 || len(feedback) > MaxCoefficients {
		return exception.NotSupported("feedback length %d outside [1, %d]", len(feedback), MaxCoefficients)
	}

	if feedforward[0] == 0 {
		return exception.InvalidState("first feedforward coefficient is zero")
	}

	if feedback[0] == 0 {
		return exception.InvalidState("first feedback coefficient is zero")
	}

	return nil
}

// NewCoefficients validates and copies the given arrays. The caller keeps
// ownership of its slices; later normalization never touches them.
func NewCoefficients(feedforward, feedback []float64) (Coefficients, error) {
	err := Validate(feedforward, feedback)
	if err != nil {
		return Coefficients{}, err
	}

	return Coefficients{
		Feedforward: append([]float64(nil), feedforward...),
		Feedback:    append([]float64(nil), feedback...),
	}, nil
}

// Normalized returns a copy scaled so that Feedback[0] == 1.
func (c Coefficients) Normalized() Coefficients {
	b := append([]float64(nil), c.Feedforward...)
	a := append([]float64(nil), c.Feedback...)

	if len(a) == 0 || a[0] == 1 {
		return Coefficients{Feedforward: b, Feedback: a}
	}

	a0 := a[0]
	for i := range b {
		b[i] /= a0
	}

	for i := 1; i < len(a); i++ {
		a[i] /= a0
	}

	a[0] = 1

	return Coefficients{Feedforward: b, Feedback: a}
}
