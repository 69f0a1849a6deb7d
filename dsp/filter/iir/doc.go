// Package iir implements a general infinite-impulse-response filter defined
// by feedforward (b) and feedback (a) coefficients.
//
// The output follows the direct-form difference equation
//
//	a[0]*y[n] = sum_k b[k]*x[n-k] - sum_{k>=1} a[k]*y[n-k]
//
// with the input and output histories held in fixed-size circular delay
// lines. [Response] evaluates the transfer function on the unit circle
// without running the filter.
package iir
