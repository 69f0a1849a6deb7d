// Package mp3 decodes MP3 streams into stereo AudioBuffers using
// github.com/hajimehoshi/go-mp3.
package mp3
