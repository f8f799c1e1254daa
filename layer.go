package mixer

import (
	"math"
	"sync/atomic"
)

// packedGain holds a (left, right) float32 gain pair in a single
// atomic.Uint64, so the audio thread always observes a matching pair
// instead of a torn combination of an old left with a new right.
type packedGain struct {
	bits atomic.Uint64
}

func packGains(left, right float32) uint64 {
	return uint64(math.Float32bits(left)) | uint64(math.Float32bits(right))<<32
}

func (g *packedGain) Store(left, right float32) {
	g.bits.Store(packGains(left, right))
}

func (g *packedGain) Load() (left, right float32) {
	v := g.bits.Load()
	left = math.Float32frombits(uint32(v))
	right = math.Float32frombits(uint32(v >> 32))
	return left, right
}

// layer is one slot in the mixer's fixed pool. Fields are split into two
// groups by ownership:
//
//   - Control-owned, published once: id, sample, start, end, fmax.
//     These are set by the control thread before the slot's flag is
//     released into a playing state, and never mutated again while the
//     slot is live; the release-store to flag and the audio thread's
//     matching acquire-load of flag form the only happens-before edge
//     these fields need.
//   - fade: set by the control thread at claim time alongside the fields
//     above, then read and written only by the audio thread while the
//     slot is live, so it needs no atomic either.
//   - Shared, mutated after publish by both threads: flag, cursor, gain.
//     These are the only fields that need to be atomic.
type layer struct {
	id     uint32
	sample *Sample
	start  int32
	end    int32
	fade   int32
	fmax   int32

	flag   atomic.Uint32 // holds a uint8 flag value (FlagFree..FlagLoop)
	cursor atomic.Int32
	gain   packedGain
}

func (l *layer) loadFlag() uint8 {
	return uint8(l.flag.Load())
}

func (l *layer) storeFlag(f uint8) {
	l.flag.Store(uint32(f))
}

func (l *layer) casFlag(old, new uint8) bool {
	return l.flag.CompareAndSwap(uint32(old), uint32(new))
}
