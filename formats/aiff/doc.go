// Package aiff decodes AIFF files into AudioBuffers using
// github.com/go-audio/aiff.
package aiff
