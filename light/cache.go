package light

import (
	"io"
	"log"
	"sort"
)

// ModelGrid holds the classified models of one chunk. Sections without
// blocks have no storage and read as air. A grid is never modified after the
// cache stores it.
type ModelGrid struct {
	X, Z int

	sectionYs  []int
	minSection int
	sections   [][]Model
}

// emptyGrid stands in for chunks that are missing or could not be read.
func emptyGrid(cx, cz int) *ModelGrid {
	return &ModelGrid{X: cx, Z: cz}
}

// SectionYs lists every section of the chunk in ascending order.
func (g *ModelGrid) SectionYs() []int {
	return g.sectionYs
}

// HasBlocks reports whether any section holds something other than air.
func (g *ModelGrid) HasBlocks() bool {
	for _, s := range g.sections {
		if s != nil {
			return true
		}
	}
	return false
}

func (g *ModelGrid) section(sy int) []Model {
	i := sy - g.minSection
	if i < 0 || i >= len(g.sections) {
		return nil
	}
	return g.sections[i]
}

// at returns the model at chunk-local x and z and absolute y.
func (g *ModelGrid) at(x, y, z int) Model {
	s := g.section(y >> 4)
	if s == nil {
		return Air
	}
	return s[voxelIndex(x, y&15, z)]
}

// Window bounds the chunks a cache will hold, inclusive on both ends.
type Window struct {
	MinX, MinZ, MaxX, MaxZ int
}

// RegionWindow covers the 32x32 chunks of region rx, rz plus a one chunk halo.
func RegionWindow(rx, rz int) Window {
	return Window{MinX: rx*32 - 1, MinZ: rz*32 - 1, MaxX: rx*32 + 32, MaxZ: rz*32 + 32}
}

func (w Window) Contains(cx, cz int) bool {
	return cx >= w.MinX && cx <= w.MaxX && cz >= w.MinZ && cz <= w.MaxZ
}

// ModelCache memoises model grids for the chunks of one region job. It is
// not safe for concurrent use; each worker owns its own.
type ModelCache struct {
	src    ChunkSource
	cls    *Classifier
	window Window
	logger *log.Logger

	grids    map[ChunkPos]*ModelGrid
	degraded int
}

func NewModelCache(src ChunkSource, cls *Classifier, window Window, logger *log.Logger) *ModelCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ModelCache{
		src:    src,
		cls:    cls,
		window: window,
		logger: logger,
		grids:  make(map[ChunkPos]*ModelGrid),
	}
}

// Get returns the grid of a chunk if it was already built.
func (c *ModelCache) Get(cx, cz int) (*ModelGrid, bool) {
	g, ok := c.grids[ChunkPos{cx, cz}]
	return g, ok
}

// Ensure returns the grid of a chunk, loading and classifying it on first
// access. A chunk that is missing or unreadable yields an all-air grid.
// Chunks outside the window are built but not kept.
func (c *ModelCache) Ensure(cx, cz int) *ModelGrid {
	pos := ChunkPos{cx, cz}
	if g, ok := c.grids[pos]; ok {
		return g
	}
	g := c.load(cx, cz)
	if c.window.Contains(cx, cz) {
		c.grids[pos] = g
	}
	return g
}

func (c *ModelCache) load(cx, cz int) *ModelGrid {
	chunk, err := c.src.ChunkAt(cx, cz)
	if err != nil {
		c.degraded++
		c.logger.Printf("chunk %d,%d unreadable, lighting it as air: %v", cx, cz, err)
		return emptyGrid(cx, cz)
	}
	if chunk == nil {
		return emptyGrid(cx, cz)
	}
	for i := range chunk.Sections {
		s := &chunk.Sections[i]
		if s.Indices != nil && len(s.Indices) != SectionVolume {
			c.degraded++
			c.logger.Printf("chunk %d,%d unreadable, lighting it as air: section %d has %d block indices",
				cx, cz, s.Y, len(s.Indices))
			return emptyGrid(cx, cz)
		}
	}
	return c.classify(cx, cz, chunk)
}

// classify builds the grid of chunk cx, cz. The position always comes from
// the caller, whatever the chunk itself claims.
func (c *ModelCache) classify(cx, cz int, chunk *BlockChunk) *ModelGrid {
	g := emptyGrid(cx, cz)
	if len(chunk.Sections) == 0 {
		return g
	}
	for _, s := range chunk.Sections {
		g.sectionYs = append(g.sectionYs, s.Y)
	}
	sort.Ints(g.sectionYs)
	g.sectionYs = dedupe(g.sectionYs)
	g.minSection = g.sectionYs[0]
	g.sections = make([][]Model, g.sectionYs[len(g.sectionYs)-1]-g.minSection+1)

	for i := range chunk.Sections {
		s := &chunk.Sections[i]
		if s.Empty() {
			continue
		}
		palette := make([]Model, len(s.Palette))
		for j, b := range s.Palette {
			palette[j] = c.cls.Classify(b)
		}
		models := make([]Model, SectionVolume)
		if s.Indices == nil {
			for j := range models {
				models[j] = palette[0]
			}
		} else {
			for j, idx := range s.Indices {
				if int(idx) < len(palette) {
					models[j] = palette[idx]
				} else {
					models[j] = SolidModel
				}
			}
		}
		g.sections[s.Y-g.minSection] = models
	}
	return g
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Release drops every grid in a chunk row below belowZ. Chunks are lit in
// ascending z order; lighting row z reads rows z-1 to z+1 only.
func (c *ModelCache) Release(belowZ int) {
	for pos := range c.grids {
		if pos.Z < belowZ {
			delete(c.grids, pos)
		}
	}
}

// Len returns the number of cached grids.
func (c *ModelCache) Len() int {
	return len(c.grids)
}

// Degraded returns how many chunks could not be read and were lit as air.
func (c *ModelCache) Degraded() int {
	return c.degraded
}
