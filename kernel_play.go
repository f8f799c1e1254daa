package mixer

// playKernel advances a layer that is in PLAY or LOOP, accumulating into
// acc (stereo, at least 2*frames floats). gl/gr are the effective per-channel
// gains (layer gain already scaled by global volume). It returns the
// advanced cursor and the advanced fade; neither is published back to the
// layer here, that is the caller's job (mirroring §4.6's "publish after
// the loop" contract).
func playKernel(s *Sample, loop bool, cursor, start, end, fade, fmax int32, gl, gr float32, acc []float32, frames int32) (newCursor, newFade int32) {
	for i := int32(0); i < frames; i++ {
		if cursor == end {
			if !loop {
				break
			}
			cursor = start
		}

		if cursor >= 0 {
			l, r := s.frame(cursor)
			el, er := gl, gr
			if fade < fmax {
				scale := float32(fade) / float32(fmax)
				el *= scale
				er *= scale
			}
			acc[2*i] += l * el
			acc[2*i+1] += r * er

			if fade < fmax {
				fade++
				if fade > fmax {
					fade = fmax
				}
			}
		}

		cursor++
	}
	return cursor, fade
}
