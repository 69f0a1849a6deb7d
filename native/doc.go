// Package native defines the boundary between the offline rendering shim
// and an audio engine's own implementation: the offline context, the node
// kinds the shim materializes, and the optional capabilities some engines
// lack.
//
// Implementations live in sub-packages: native/soft is a pure-Go engine and
// native/jsaudio binds the browser's OfflineAudioContext under js/wasm.
package native
