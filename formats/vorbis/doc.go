// Package vorbis decodes Ogg Vorbis streams into AudioBuffers using
// github.com/jfreymuth/oggvorbis.
package vorbis
