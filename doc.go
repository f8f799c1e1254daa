// Package mixer implements a wait-free, real-time PCM mixing engine.
//
// A single control thread issues play/stop/seek/gain mutations against a
// fixed pool of layers; a single audio thread pulls contiguous blocks of
// output frames by calling Mixer.Mix, typically from an audio device
// callback. The two sides coordinate only through atomic loads, stores,
// and compare-and-swaps on a handful of per-layer fields. Mix never
// locks or blocks. In the default (SIMD-staged) configuration it
// allocates only when a call needs a larger accumulator than any earlier
// call did; it does not preallocate that accumulator. With WithoutSIMD it
// mixes straight into the caller's buffer and never allocates.
//
// The package assumes PCM samples are already decoded to interleaved
// 32-bit float at whatever rate the host device consumes; it does not
// decode audio files, enumerate or drive audio devices, or perform any
// sample-rate conversion. Those are the caller's concern.
package mixer
