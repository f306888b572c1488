package light

import "errors"

// ErrEmptyChunk is returned for chunks without a single non-air block.
var ErrEmptyChunk = errors.New("light: chunk has no blocks")

// Engine lights chunks one at a time from the models in its cache. It reuses
// one volume between chunks and is not safe for concurrent use.
type Engine struct {
	cache  *ModelCache
	hasSky bool
	vol    Volume
}

// NewEngine returns an engine for a dimension with or without sky light.
func NewEngine(cache *ModelCache, hasSky bool) *Engine {
	return &Engine{cache: cache, hasSky: hasSky}
}

// LightChunk recomputes the light of chunk cx, cz.
func (e *Engine) LightChunk(cx, cz int) (ChunkLight, error) {
	if !e.cache.Ensure(cx, cz).HasBlocks() {
		return ChunkLight{}, ErrEmptyChunk
	}
	e.vol.fill(e.cache, cx, cz)
	e.vol.Diffuse(e.hasSky)
	return ChunkLight{X: cx, Z: cz, Sections: e.vol.Pack()}, nil
}
