// Package buffer provides AudioBuffer, the plain in-memory multichannel
// sample block exchanged between offline contexts: it is the result of an
// offline render, the payload of a buffer source, and the intermediate value
// of a nested render.
package buffer
