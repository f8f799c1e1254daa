package mixer

// Mix fills exactly n frames of interleaved stereo float into out
// (which must have room for 2*n floats) and returns n. It is the only
// method safe to call from the audio thread; every other Mixer method
// is control-thread only.
func (m *Mixer) Mix(out []float32, n int) int {
	requested := n
	outOff := 0

	if m.opts.simd {
		if m.carryCount > 0 {
			k := m.carryCount
			if k > n {
				k = n
			}
			copy(out[:2*k], m.carry[:2*k])
			if k < m.carryCount {
				copy(m.carry[:2*(m.carryCount-k)], m.carry[2*k:2*m.carryCount])
			}
			m.carryCount -= k
			outOff += 2 * k
			n -= k
			if n == 0 {
				return requested
			}
		}
	}

	asize := n
	if m.opts.simd {
		asize = (n + 3) &^ 3
	}

	var acc []float32
	if m.opts.simd {
		acc = m.acquireAccumulator(asize)
	} else {
		acc = out[outOff : outOff+2*n]
	}
	for i := range acc {
		acc[i] = 0
	}

	volume := m.loadVolume()

	for i := range m.layers {
		m.mixLayer(&m.layers[i], volume, acc, int32(asize))
	}

	if m.opts.clip {
		for i := range acc {
			if acc[i] > 1 {
				acc[i] = 1
			} else if acc[i] < -1 {
				acc[i] = -1
			}
		}
	}

	if m.opts.simd {
		copy(out[outOff:outOff+2*n], acc[:2*n])
		leftover := asize - n
		if leftover > 0 {
			copy(m.carry[:2*leftover], acc[2*n:2*asize])
		}
		m.carryCount = leftover
	}

	return requested
}

// mixLayer is atmxMixLayer: the per-layer contribution for a single Mix
// call, dispatching to the fade-out or play kernel and handling the
// reclamation/cursor-publish bookkeeping that follows.
func (m *Mixer) mixLayer(l *layer, volume float32, acc []float32, frames int32) {
	flag := l.loadFlag()
	if flag == FlagFree {
		return
	}

	cursor := l.cursor.Load()
	gl, gr := l.gain.Load()
	gl *= volume
	gr *= volume

	switch flag {
	case FlagStop, FlagHalt:
		fade := l.fade
		published := cursor
		if fade > 0 && cursor < l.end {
			newCursor, newFade := fadeKernel(l.sample, cursor, l.end, fade, l.fmax, gl, gr, acc, frames)
			published = l.publishCursor(cursor, newCursor)
			l.fade = newFade
			fade = newFade
		}
		if flag == FlagStop && (fade == 0 || published == l.end) {
			l.storeFlag(FlagFree)
		}

	case FlagPlay, FlagLoop:
		newCursor, newFade := playKernel(l.sample, flag == FlagLoop, cursor, l.start, l.end, l.fade, l.fmax, gl, gr, acc, frames)
		published := l.publishCursor(cursor, newCursor)
		l.fade = newFade
		if flag == FlagPlay && published == l.end {
			l.casFlag(FlagPlay, FlagFree)
		}
	}
}

// publishCursor CASes the kernel's advanced cursor back against the
// value it started from; if the control thread moved the cursor during
// mixing, that seek wins and the kernel's advancement is discarded. It
// returns whichever value ends up published, for the caller's
// end-of-window checks.
func (l *layer) publishCursor(original, advanced int32) int32 {
	if l.cursor.CompareAndSwap(original, advanced) {
		return advanced
	}
	return l.cursor.Load()
}
