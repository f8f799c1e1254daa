package mixer

import (
	"math"
	"sync/atomic"

	"nitromix/internal/debug"
)

// Mixer is a fixed-size, wait-free pool of layers. The zero value is not
// usable; construct with NewMixer.
type Mixer struct {
	layers    []layer
	mask      uint32
	layerBits uint32

	volume atomic.Uint64 // packed single float32, see storeFloat32/loadFloat32

	nextID      uint32 // control-thread owned
	defaultFade int32  // control-thread owned

	opts options
	log  *debug.Logger

	// carry holds up to 3 queued stereo frames for the SIMD accumulator
	// variant; unused (count always 0) when opts.simd is false.
	carry      [3 * 2]float32
	carryCount int

	// scratch is the reusable accumulator backing store for the SIMD
	// variant. It is resized via opts.allocator only when a call needs
	// more capacity than it already has; a steady-state stream of Mix
	// calls (asize not growing) never allocates.
	scratch []float32
}

// NewMixer allocates a mixer with the given initial volume and default
// fade length (frames, truncated to a multiple of 4 and floored at 0).
// logger may be nil; a nil logger makes every LogX call a no-op.
func NewMixer(volume float32, fade int32, logger *debug.Logger, opts ...Option) (*Mixer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	if fade < 0 {
		fade = 0
	}
	fade &^= 3

	m := &Mixer{
		layers:      make([]layer, o.layerCount),
		mask:        o.layerCount - 1,
		layerBits:   log2Uint32(o.layerCount),
		nextID:      1,
		defaultFade: fade,
		opts:        o,
		log:         logger,
	}
	m.storeVolume(volume)

	m.log.LogSystemf(debug.LogLevelInfo, "mixer created: layers=%d volume=%.3f fade=%d", o.layerCount, volume, fade)

	return m, nil
}

func storeFloat32(a *atomic.Uint64, v float32) {
	a.Store(uint64(math.Float32bits(v)))
}

func loadFloat32(a *atomic.Uint64) float32 {
	return math.Float32frombits(uint32(a.Load()))
}

func (m *Mixer) storeVolume(v float32) { storeFloat32(&m.volume, v) }
func (m *Mixer) loadVolume() float32   { return loadFloat32(&m.volume) }

// acquireAccumulator returns the scratch accumulator resized to exactly
// 2*frames floats, growing the backing store through opts.allocator only
// when its existing capacity is too small. Callers must zero the
// returned slice themselves; reused capacity carries whatever a previous
// call left in it.
func (m *Mixer) acquireAccumulator(frames int) []float32 {
	needed := 2 * frames
	if cap(m.scratch) < needed {
		m.scratch = m.opts.allocator(needed)
	}
	return m.scratch[:needed]
}

// Play claims a free layer and starts it with the mixer's default fade,
// the sample's full length as its window, returning a handle (0 if the
// pool is exhausted or the arguments are invalid).
func (m *Mixer) Play(sample *Sample, flag uint8, gain, pan float32) uint32 {
	return m.PlayAdvanced(sample, flag, gain, pan, 0, int32(sample.Length()), m.defaultFade)
}

// PlayAdvanced claims a free layer with an explicit play window and fade
// length. Returns 0 if flag is not one of STOP/HALT/PLAY/LOOP, if the
// window is shorter than 4 frames, or if every layer is currently live.
func (m *Mixer) PlayAdvanced(sample *Sample, flag uint8, gain, pan float32, start, end, fade int32) uint32 {
	if !validPlayFlag(flag) {
		m.log.LogControlf(debug.LogLevelWarning, "play_advanced rejected: invalid flag %d", flag)
		return 0
	}
	if end-start < 4 || end < 4 {
		m.log.LogControlf(debug.LogLevelWarning, "play_advanced rejected: bad window [%d,%d)", start, end)
		return 0
	}

	n := uint32(len(m.layers))
	for i := uint32(0); i < n; i++ {
		idx := (m.nextID + i) & m.mask
		l := &m.layers[idx]
		if l.loadFlag() != FlagFree {
			continue
		}

		id := encodeHandle(m.nextID, idx, m.layerBits, m.mask)
		m.nextID++

		l.id = id
		l.sample = sample
		l.start = start &^ 3
		l.end = end &^ 3
		if fade < 0 {
			fade = 0
		}
		l.fmax = fade &^ 3

		startFade := l.fmax
		if flag == FlagStop || flag == FlagHalt {
			startFade = 0
		}

		gl, gr := gainLaw(gain, pan)
		l.gain.Store(gl, gr)
		l.cursor.Store(l.start)
		l.fade = startFade

		l.storeFlag(flag)

		m.log.LogPoolf(debug.LogLevelDebug, "layer %d claimed: id=%d flag=%d window=[%d,%d)", idx, id, flag, l.start, l.end)
		return id
	}

	m.log.LogPoolf(debug.LogLevelWarning, "play_advanced rejected: pool exhausted (%d layers)", n)
	return 0
}

// lookup validates a handle and returns the addressed layer, or nil if
// the handle is stale: wrong generation, or the slot has since been
// reclaimed to FREE (whether or not its id field still happens to match,
// a FREE slot is never a valid target for a control-thread mutation).
func (m *Mixer) lookup(handle uint32) *layer {
	if handle == 0 {
		return nil
	}
	idx := slotIndex(handle, m.mask)
	l := &m.layers[idx]
	if l.id != handle {
		return nil
	}
	if l.loadFlag() == FlagFree {
		return nil
	}
	return l
}

// SetGain updates a live layer's (gain, pan). Returns false if the
// handle is stale or the layer is already fading out toward reclamation
// (flag == STOP); a gain change at that point would never be audible.
func (m *Mixer) SetGain(handle uint32, gain, pan float32) bool {
	l := m.lookup(handle)
	if l == nil {
		return false
	}
	if l.loadFlag() <= FlagStop {
		return false
	}
	gl, gr := gainLaw(gain, pan)
	l.gain.Store(gl, gr)
	return true
}

// SetCursor seeks a live layer, clamping into [start, end] and
// truncating to a multiple of 4.
func (m *Mixer) SetCursor(handle uint32, cursor int32) bool {
	l := m.lookup(handle)
	if l == nil {
		return false
	}
	cursor &^= 3
	if cursor < l.start {
		cursor = l.start
	} else if cursor > l.end {
		cursor = l.end
	}
	l.cursor.Store(cursor)
	return true
}

// SetState transitions a live layer to newflag. Idempotent when newflag
// already equals the current flag. Fails if the handle is stale or the
// slot was concurrently reclaimed by the audio thread.
func (m *Mixer) SetState(handle uint32, newflag uint8) bool {
	if !validPlayFlag(newflag) {
		return false
	}
	l := m.lookup(handle)
	if l == nil {
		return false
	}
	current := l.loadFlag()
	if current == newflag {
		return true
	}
	if !l.casFlag(current, newflag) {
		m.log.LogControlf(debug.LogLevelDebug, "set_state(%d, %d) failed: stale or reclaimed", handle, newflag)
		return false
	}
	return true
}

// SetVolume sets the mixer-wide gain multiplier.
func (m *Mixer) SetVolume(v float32) {
	m.storeVolume(v)
}

// SetDefaultFade sets the fade length (frames) used by Play. Floored at
// 0 and truncated to a multiple of 4.
func (m *Mixer) SetDefaultFade(fade int32) {
	if fade < 0 {
		fade = 0
	}
	m.defaultFade = fade &^ 3
}

// StopAll schedules a fade-out and eventual reclamation for every
// currently live layer.
func (m *Mixer) StopAll() {
	for i := range m.layers {
		l := &m.layers[i]
		for {
			cur := l.loadFlag()
			if cur <= FlagStop {
				break
			}
			if l.casFlag(cur, FlagStop) {
				break
			}
		}
	}
	m.log.LogControl(debug.LogLevelInfo, "stop_all issued", nil)
}

// HaltAll pauses every layer currently in PLAY or LOOP.
func (m *Mixer) HaltAll() {
	for i := range m.layers {
		l := &m.layers[i]
		for {
			cur := l.loadFlag()
			if cur != FlagPlay && cur != FlagLoop {
				break
			}
			if l.casFlag(cur, FlagHalt) {
				break
			}
		}
	}
}

// ResumeAll resumes every layer currently in HALT back to PLAY. Layers
// in LOOP or STOP are unaffected.
func (m *Mixer) ResumeAll() {
	for i := range m.layers {
		l := &m.layers[i]
		l.casFlag(FlagHalt, FlagPlay)
	}
}
