package light

// SectionVolume is the number of voxels in a 16x16x16 section.
const SectionVolume = 16 * 16 * 16

// BlockSection is one 16x16x16 section of a block-converted chunk. Indices
// point into Palette in y<<8|z<<4|x order and may be nil when the palette
// holds a single state.
type BlockSection struct {
	Y       int
	Palette []BlockState
	Indices []uint16
}

// At returns the state at voxel index i.
func (s *BlockSection) At(i int) BlockState {
	if len(s.Palette) == 0 {
		return BlockState{Name: namespace + "air"}
	}
	if s.Indices == nil {
		return s.Palette[0]
	}
	return s.Palette[s.Indices[i]]
}

// Empty reports whether the section holds nothing but air.
func (s *BlockSection) Empty() bool {
	for _, b := range s.Palette {
		if !b.IsAir() {
			return false
		}
	}
	return true
}

// BlockChunk is a read-only chunk column as produced by the block conversion
// stage. Sections holds every section the chunk lists, light-only ones
// included, in no particular order.
type BlockChunk struct {
	X, Z     int
	Sections []BlockSection
}

// BlockAt returns the block at chunk-local x and z and absolute y. Positions
// outside every section are air.
func (c *BlockChunk) BlockAt(x, y, z int) BlockState {
	sy := y >> 4
	for i := range c.Sections {
		if c.Sections[i].Y == sy {
			return c.Sections[i].At(voxelIndex(x, y&15, z))
		}
	}
	return BlockState{Name: namespace + "air"}
}

// ChunkSource gives read access to the block-converted chunks around the
// chunk being lit. ChunkAt returns nil, nil for a chunk that does not exist.
// Sections with Indices must carry exactly SectionVolume of them; chunks that
// break this are lit as air.
type ChunkSource interface {
	ChunkAt(cx, cz int) (*BlockChunk, error)
}

// ChunkPos is a chunk coordinate.
type ChunkPos struct {
	X, Z int
}

func voxelIndex(x, y, z int) int {
	return y<<8 | z<<4 | x
}
