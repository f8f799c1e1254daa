package mixer

import "fmt"

// frameAlign rounds n up to the next multiple of 4, the stride every
// kernel advances the cursor by.
func frameAlign(n int) int {
	return (n + 3) &^ 3
}

// Sample is an immutable block of interleaved PCM frames. Once
// constructed it is never mutated; callers must keep a Sample alive for
// as long as any Layer references it.
type Sample struct {
	channels int
	length   int // frame count, rounded up to a multiple of 4
	data     []float32
}

// NewSample copies n frames of interleaved float audio (channels 1 or 2)
// into a new Sample. The stored length is rounded up to a multiple of 4;
// padding frames are silence. data must hold at least channels*n floats.
func NewSample(channels int, data []float32, n int) (*Sample, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}
	if data == nil {
		return nil, ErrNilData
	}
	if len(data) < channels*n {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrShortData, channels*n, len(data))
	}

	aligned := frameAlign(n)
	buf := make([]float32, channels*aligned)
	copy(buf, data[:channels*n])

	return &Sample{channels: channels, length: aligned, data: buf}, nil
}

// Channels returns 1 (mono) or 2 (stereo).
func (s *Sample) Channels() int { return s.channels }

// Length returns the frame count, rounded up to a multiple of 4.
func (s *Sample) Length() int { return s.length }

// frame returns the (possibly duplicated) left/right values for frame
// index idx, wrapping idx into [0, length) first. A single-sample
// "looping" read: it is what keeps an out-of-bounds window (end >
// length) from reading past the buffer, and is a no-op whenever end <=
// length.
func (s *Sample) frame(idx int32) (l, r float32) {
	n := int32(s.length)
	idx = idx % n
	if idx < 0 {
		idx += n
	}
	if s.channels == 1 {
		v := s.data[idx]
		return v, v
	}
	base := idx * 2
	return s.data[base], s.data[base+1]
}
