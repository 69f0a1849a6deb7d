// Package design computes biquad coefficients for the eight BiquadFilterNode
// filter types from frequency, detune, Q and gain, using the formulas the
// Web Audio API specifies. The results run on dsp/filter/biquad sections.
package design
