package light

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNibbleLayout(t *testing.T) {
	a := NewNibbleArray()
	require.Len(t, a, NibbleArraySize)

	a.Set(1, 0, 0, 7)
	assert.Equal(t, byte(0x70), a[0])
	a.Set(0, 0, 0, 3)
	assert.Equal(t, byte(0x73), a[0])

	a.Set(0, 0, 1, 15)
	assert.Equal(t, byte(0x0f), a[8], "z steps 16 voxels")
	a.Set(0, 1, 0, 9)
	assert.Equal(t, byte(0x09), a[128], "y steps 256 voxels")
	a.Set(15, 15, 15, 4)
	assert.Equal(t, byte(0x40), a[NibbleArraySize-1])

	assert.Equal(t, uint8(7), a.Get(1, 0, 0))
	assert.Equal(t, uint8(3), a.Get(0, 0, 0))
	assert.Equal(t, uint8(9), a.Get(0, 1, 0))

	a.Set(1, 0, 0, 0x1f)
	assert.Equal(t, uint8(0xf), a.Get(1, 0, 0), "levels are masked to four bits")
	assert.Equal(t, uint8(3), a.Get(0, 0, 0), "neighbour nibble untouched")
}

func TestPackNibblesRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	levels := make([]uint8, SectionVolume)
	for i := range levels {
		levels[i] = uint8(r.Intn(16))
	}
	packed := PackNibbles(levels)
	require.Len(t, packed, NibbleArraySize)
	assert.Empty(t, cmp.Diff(levels, packed.Unpack()))
}

func TestPackNibblesOmitsDarkSections(t *testing.T) {
	assert.Nil(t, PackNibbles(make([]uint8, SectionVolume)))

	levels := make([]uint8, SectionVolume)
	levels[SectionVolume-1] = 1
	packed := PackNibbles(levels)
	require.NotNil(t, packed)
	assert.Equal(t, uint8(1), packed.Get(15, 15, 15))
}

func TestUnpackRejectsShortArrays(t *testing.T) {
	out := NibbleArray{0xff}.Unpack()
	assert.Len(t, out, SectionVolume)
	assert.Equal(t, uint8(0), out[0])
}
