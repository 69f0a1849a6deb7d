package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
)

// Type is a BiquadFilterNode filter type.
type Type string

// Filter types supported by BiquadFilterNode.
const (
	Lowpass   Type = "lowpass"
	Highpass  Type = "highpass"
	Bandpass  Type = "bandpass"
	Lowshelf  Type = "lowshelf"
	Highshelf Type = "highshelf"
	Peaking   Type = "peaking"
	Notch     Type = "notch"
	Allpass   Type = "allpass"
)

// Types lists every filter type in declaration order.
var Types = []Type{Lowpass, Highpass, Bandpass, Lowshelf, Highshelf, Peaking, Notch, Allpass}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("design: unknown biquad type %q", s)
}

// Params are the BiquadFilterNode parameter values a design is computed from.
type Params struct {
	Frequency float64 // Hz
	Detune    float64 // cents
	Q         float64
	Gain      float64 // dB
}

// DefaultParams returns the BiquadFilterNode defaults.
func DefaultParams() Params {
	return Params{Frequency: 350, Q: 1}
}

// Compute returns the normalized coefficients of filter type t, following
// the formulas of the Web Audio API (Audio EQ Cookbook with the Q of the
// lowpass and highpass types interpreted in dB).
func Compute(t Type, p Params, sampleRate float64) biquad.Coefficients {
	nyquist := sampleRate / 2
	f0 := p.Frequency * math.Pow(2, p.Detune/1200)
	f0 = math.Max(0, math.Min(f0, nyquist))
	normalized := f0 / nyquist

	a := math.Pow(10, p.Gain/40)

	switch t {
	case Lowpass:
		return lowpass(normalized, p.Q)
	case Highpass:
		return highpass(normalized, p.Q)
	case Bandpass:
		return bandpass(normalized, p.Q)
	case Lowshelf:
		return lowshelf(normalized, a)
	case Highshelf:
		return highshelf(normalized, a)
	case Peaking:
		return peaking(normalized, p.Q, a)
	case Notch:
		return notch(normalized, p.Q)
	case Allpass:
		return allpass(normalized, p.Q)
	}

	return passthrough(1)
}

func passthrough(gain float64) biquad.Coefficients {
	return biquad.Coefficients{B0: gain}
}

func lowpass(normalized, q float64) biquad.Coefficients {
	if normalized >= 1 {
		return passthrough(1)
	}

	if normalized <= 0 {
		return passthrough(0)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, q/20))

	return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func highpass(normalized, q float64) biquad.Coefficients {
	if normalized >= 1 {
		return passthrough(0)
	}

	if normalized <= 0 {
		return passthrough(1)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, q/20))

	return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func bandpass(normalized, q float64) biquad.Coefficients {
	if normalized <= 0 || normalized >= 1 {
		return passthrough(0)
	}

	if q <= 0 {
		return passthrough(1)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
}

func notch(normalized, q float64) biquad.Coefficients {
	if normalized <= 0 || normalized >= 1 {
		return passthrough(1)
	}

	if q <= 0 {
		return passthrough(0)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

func allpass(normalized, q float64) biquad.Coefficients {
	if normalized <= 0 || normalized >= 1 {
		return passthrough(1)
	}

	if q <= 0 {
		return passthrough(-1)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize(1-alpha, -2*cw, 1+alpha, 1+alpha, -2*cw, 1-alpha)
}

func peaking(normalized, q, a float64) biquad.Coefficients {
	if normalized <= 0 || normalized >= 1 {
		return passthrough(1)
	}

	if q <= 0 {
		return passthrough(a * a)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
}

// Shelves use a fixed slope S = 1.
func lowshelf(normalized, a float64) biquad.Coefficients {
	if normalized >= 1 {
		return passthrough(a * a)
	}

	if normalized <= 0 {
		return passthrough(1)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	k := math.Sqrt2 * math.Sin(w0) * math.Sqrt(a) // 2*alphaS*sqrt(A) with S = 1

	return normalize(
		a*((a+1)-(a-1)*cw+k),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-k),
		(a+1)+(a-1)*cw+k,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-k,
	)
}

func highshelf(normalized, a float64) biquad.Coefficients {
	if normalized >= 1 {
		return passthrough(1)
	}

	if normalized <= 0 {
		return passthrough(a * a)
	}

	w0 := math.Pi * normalized
	cw := math.Cos(w0)
	k := math.Sqrt2 * math.Sin(w0) * math.Sqrt(a)

	return normalize(
		a*((a+1)+(a-1)*cw+k),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-k),
		(a+1)-(a-1)*cw+k,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-k,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
