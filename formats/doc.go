// Package formats decodes encoded audio into AudioBuffers, the
// decodeAudioData step of an offline render. Decoders are looked up by
// format name in a Registry.
package formats
