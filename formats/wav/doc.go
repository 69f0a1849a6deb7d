// Package wav decodes PCM WAV files into AudioBuffers and encodes rendered
// AudioBuffers as PCM WAV, using github.com/go-audio/wav.
package wav
