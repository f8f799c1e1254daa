package mixer

// fadeKernel advances a layer that is in STOP or HALT, accumulating into
// acc. It implements §4.6's two sub-cases: a normal linear fade-out when
// there is room for one before end, or playing to end at full gain when
// there isn't. Returns the advanced cursor and fade.
func fadeKernel(s *Sample, cursor, end, fade, fmax int32, gl, gr float32, acc []float32, frames int32) (newCursor, newFade int32) {
	for i := int32(0); i < frames; i++ {
		if fade <= 0 || cursor == end {
			break
		}

		normalFade := fade < end-cursor

		if cursor >= 0 {
			l, r := s.frame(cursor)
			el, er := gl, gr
			if normalFade {
				scale := float32(fade) / float32(fmax)
				el *= scale
				er *= scale
			}
			acc[2*i] += l * el
			acc[2*i+1] += r * er
		}

		if normalFade {
			fade--
		}
		cursor++
	}
	return cursor, fade
}
