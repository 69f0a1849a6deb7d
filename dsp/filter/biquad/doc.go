// Package biquad provides the second-order IIR section used to run a
// BiquadFilterNode.
//
// A [Section] implements Direct Form II Transposed processing for one set
// of [Coefficients]. Coefficient design for the Web Audio filter types
// lives in dsp/filter/design.
package biquad
