// Package jsaudio binds the browser's OfflineAudioContext as a native
// engine when compiled for js/wasm. Other builds see an empty package.
//
// Browsers that lack createIIRFilter yield contexts without the
// native.IIRFilterCreator capability, and engines whose startRendering
// does not return a Promise are driven through the oncomplete event.
package jsaudio
