package mixer

import "fmt"

// options collects the resolved build-time configuration surface: layer
// count, clipping, SIMD staging, and the zero-initialized allocator.
type options struct {
	layerCount uint32
	clip       bool
	simd       bool
	allocator  func(n int) []float32
}

// Option configures a Mixer at construction time.
type Option func(*options)

// WithLayerCount overrides the default 256-layer pool. n must be a power
// of two.
func WithLayerCount(n uint32) Option {
	return func(o *options) {
		o.layerCount = n
	}
}

// WithoutClip disables the final [-1, +1] saturation step in Mix.
func WithoutClip() Option {
	return func(o *options) {
		o.clip = false
	}
}

// WithoutSIMD selects the non-SIMD output pipeline: the accumulator is
// the caller's output buffer directly, asize == N, and the carry buffer
// is never used.
func WithoutSIMD() Option {
	return func(o *options) {
		o.simd = false
	}
}

// WithLayerAllocator overrides how the mixer grows its reusable
// accumulator when a Mix call needs more capacity than it already has.
// The default draws a fresh make([]float32, n); this only replaces that
// growth strategy, not the reuse itself. Mix keeps and resizes a single
// scratch buffer across calls regardless of which allocator is in use.
func WithLayerAllocator(alloc func(n int) []float32) Option {
	return func(o *options) {
		o.allocator = alloc
	}
}

func defaultOptions() options {
	return options{
		layerCount: 1 << DefaultLayerBits,
		clip:       true,
		simd:       true,
		allocator:  func(n int) []float32 { return make([]float32, n) },
	}
}

func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

func log2Uint32(n uint32) uint32 {
	var bits uint32
	for n > 1 {
		n >>= 1
		bits++
	}
	return bits
}

func (o *options) validate() error {
	if !isPowerOfTwo(o.layerCount) {
		return fmt.Errorf("%w: got %d", ErrInvalidLayerCount, o.layerCount)
	}
	return nil
}
