package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(w *testWorld, hasSky bool) *Engine {
	return NewEngine(NewModelCache(w, NewClassifier(), RegionWindow(0, 0), nil), hasSky)
}

func TestLightChunkAddsPhantomSectionForOpenSky(t *testing.T) {
	w := newTestWorld()
	w.set(0, 0, 0, stone)
	out, err := newTestEngine(w, true).LightChunk(0, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, out.X)
	require.Len(t, out.Sections, 2)

	phantom := out.Sections[0]
	assert.True(t, phantom.Phantom)
	assert.Equal(t, -1, phantom.Y)
	assert.Nil(t, phantom.BlockLight)
	require.NotNil(t, phantom.SkyLight)
	assert.Equal(t, uint8(15), phantom.SkyLight.Get(8, 15, 8))
	assert.Equal(t, uint8(14), phantom.SkyLight.Get(0, 15, 0))

	s := out.Sections[1]
	assert.False(t, s.Phantom)
	assert.Equal(t, 0, s.Y)
	assert.Nil(t, s.BlockLight, "no emitters")
	assert.Equal(t, uint8(0), s.SkyLight.Get(0, 0, 0))
	assert.Equal(t, uint8(15), s.SkyLight.Get(1, 0, 0))
}

func TestLightChunkSkipsPhantomUnderSealedFloor(t *testing.T) {
	w := newTestWorld()
	w.fill(-16, 0, -16, 31, 0, 31, stone)
	w.set(4, 5, 4, block("sea_lantern"))
	out, err := newTestEngine(w, true).LightChunk(0, 0)
	require.NoError(t, err)

	require.Len(t, out.Sections, 1)
	s := out.Sections[0]
	assert.False(t, s.Phantom)
	assert.Equal(t, uint8(0), s.SkyLight.Get(3, 0, 3))
	assert.Equal(t, uint8(15), s.SkyLight.Get(3, 1, 3))
	require.NotNil(t, s.BlockLight)
	assert.Equal(t, uint8(15), s.BlockLight.Get(4, 5, 4))
	assert.Equal(t, uint8(12), s.BlockLight.Get(4, 2, 4))
	assert.Equal(t, uint8(0), s.BlockLight.Get(4, 0, 4), "stone floor")
}

func TestLightChunkWithoutSky(t *testing.T) {
	w := newTestWorld()
	w.set(0, 0, 0, stone)
	w.set(0, 20, 0, block("glowstone"))
	out, err := newTestEngine(w, false).LightChunk(0, 0)
	require.NoError(t, err)

	require.Len(t, out.Sections, 2)
	for _, s := range out.Sections {
		assert.False(t, s.Phantom)
		assert.Nil(t, s.SkyLight)
	}
	assert.Equal(t, uint8(10), out.Sections[0].BlockLight.Get(0, 15, 0))
	assert.Equal(t, uint8(0), out.Sections[0].BlockLight.Get(0, 0, 0), "stone")
	assert.Equal(t, uint8(14), out.Sections[1].BlockLight.Get(1, 4, 0))
}

func TestLightChunkRejectsEmptyChunks(t *testing.T) {
	w := newTestWorld()
	w.set(0, 0, 0, air)
	e := newTestEngine(w, true)

	_, err := e.LightChunk(0, 0)
	assert.ErrorIs(t, err, ErrEmptyChunk)
	_, err = e.LightChunk(5, 5)
	assert.ErrorIs(t, err, ErrEmptyChunk, "missing chunk")
}

func TestEngineReusesVolumeAcrossChunks(t *testing.T) {
	w := newTestWorld()
	w.set(0, 0, 0, stone)
	w.set(16, 100, 0, stone)
	e := newTestEngine(w, true)

	_, err := e.LightChunk(1, 0)
	require.NoError(t, err)
	out, err := e.LightChunk(0, 0)
	require.NoError(t, err)

	fresh, err := newTestEngine(w, true).LightChunk(0, 0)
	require.NoError(t, err)
	assert.Equal(t, fresh, out)
}
