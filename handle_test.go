package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeHandleNeverZero(t *testing.T) {
	const layerBits = 8
	const mask = 1<<layerBits - 1

	for gen := uint32(0); gen < 4; gen++ {
		for idx := uint32(0); idx < mask+1; idx++ {
			h := encodeHandle(gen, idx, layerBits, mask)
			assert.NotZero(t, h)
			assert.Equal(t, idx, slotIndex(h, mask))
		}
	}
}

func TestValidPlayFlag(t *testing.T) {
	assert.True(t, validPlayFlag(FlagStop))
	assert.True(t, validPlayFlag(FlagHalt))
	assert.True(t, validPlayFlag(FlagPlay))
	assert.True(t, validPlayFlag(FlagLoop))
	assert.False(t, validPlayFlag(FlagFree))
	assert.False(t, validPlayFlag(99))
}
