package light

// SectionLight is the finished light of one section. A nil array means the
// section is completely dark for that kind of light.
type SectionLight struct {
	Y          int
	SkyLight   NibbleArray
	BlockLight NibbleArray
	// Phantom marks a section the chunk did not have, added only to carry
	// sky light below its lowest section.
	Phantom bool
}

// ChunkLight is the packed result for one chunk, sections in ascending Y.
type ChunkLight struct {
	X, Z     int
	Sections []SectionLight
}

// sectionLevels copies one section of the target chunk out of a level grid.
func (v *Volume) sectionLevels(levels []uint8, sy int) []uint8 {
	out := make([]uint8, SectionVolume)
	baseY := sy*16 - v.OriginY
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			row := v.local(Halo, baseY+y, Halo+z)
			copy(out[voxelIndex(0, y, z):voxelIndex(0, y, z)+16], levels[row:row+16])
		}
	}
	return out
}

// Pack writes the diffused levels of the target chunk into nibble arrays, one
// entry per section the chunk lists. When sky light reaches the section right
// below the lowest one, a phantom section is added to hold it.
func (v *Volume) Pack() []SectionLight {
	ys := v.target.SectionYs()
	if len(ys) == 0 {
		return nil
	}
	out := make([]SectionLight, 0, len(ys)+1)
	if v.HasSky() {
		below := ys[0] - 1
		if sky := PackNibbles(v.sectionLevels(v.sky, below)); sky != nil {
			out = append(out, SectionLight{Y: below, SkyLight: sky, Phantom: true})
		}
	}
	for _, sy := range ys {
		s := SectionLight{Y: sy, BlockLight: PackNibbles(v.sectionLevels(v.block, sy))}
		if v.HasSky() {
			s.SkyLight = PackNibbles(v.sectionLevels(v.sky, sy))
		}
		out = append(out, s)
	}
	return out
}
