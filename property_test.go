package mixer

import (
	"testing"

	"pgregory.net/rapid"
)

// TestCursorAndFadeStayInBoundsAcrossMixCalls exercises the core
// invariant: whatever sequence of control-thread operations precedes a
// Mix call, every live layer's cursor stays within [start, end] and its
// fade stays within [0, fmax] afterward.
func TestCursorAndFadeStayInBoundsAcrossMixCalls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, err := NewMixer(1, 8, nil, WithoutSIMD())
		if err != nil {
			t.Fatal(err)
		}

		n := rapid.IntRange(4, 64).Draw(t, "sampleLen")
		data := make([]float32, n)
		for i := range data {
			data[i] = rapid.Float32Range(-1, 1).Draw(t, "sampleData")
		}
		s, err := NewSample(1, data, n)
		if err != nil {
			t.Fatal(err)
		}

		flags := []uint8{FlagStop, FlagHalt, FlagPlay, FlagLoop}
		flag := flags[rapid.IntRange(0, 3).Draw(t, "flag")]

		h := m.Play(s, flag, 1, 0)
		if h == 0 {
			return
		}

		steps := rapid.IntRange(0, 6).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				m.SetCursor(h, int32(rapid.IntRange(-100, 200).Draw(t, "cursor")))
			case 1:
				m.SetState(h, flags[rapid.IntRange(0, 3).Draw(t, "newFlag")])
			case 2:
				m.SetGain(h, rapid.Float32Range(-2, 2).Draw(t, "gain"), rapid.Float32Range(-1, 1).Draw(t, "pan"))
			case 3:
				frames := rapid.IntRange(1, 32).Draw(t, "frames")
				out := make([]float32, 2*frames)
				m.Mix(out, frames)
			}
		}

		l := &m.layers[slotIndex(h, m.mask)]
		if l.loadFlag() == FlagFree {
			return
		}

		cursor := l.cursor.Load()
		if cursor < l.start || cursor > l.end {
			t.Fatalf("cursor %d out of bounds [%d,%d]", cursor, l.start, l.end)
		}
		if l.fade < 0 || l.fade > l.fmax {
			t.Fatalf("fade %d out of bounds [0,%d]", l.fade, l.fmax)
		}
	})
}

// TestLiveHandleIndexesMatchingLayer checks the handle-encoding invariant:
// for every handle returned by play, handle&mask addresses a layer whose
// id equals that handle, and 0 is never returned for a successful claim.
func TestLiveHandleIndexesMatchingLayer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, err := NewMixer(1, 0, nil, WithLayerCount(16))
		if err != nil {
			t.Fatal(err)
		}
		s, err := NewSample(1, []float32{0, 0, 0, 0}, 4)
		if err != nil {
			t.Fatal(err)
		}

		plays := rapid.IntRange(1, 16).Draw(t, "plays")
		for i := 0; i < plays; i++ {
			h := m.Play(s, FlagLoop, 1, 0)
			if h == 0 {
				continue
			}
			idx := slotIndex(h, m.mask)
			if m.layers[idx].id != h {
				t.Fatalf("handle %d does not address a matching layer (got id %d)", h, m.layers[idx].id)
			}
		}
	})
}
