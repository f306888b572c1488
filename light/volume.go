package light

// Halo is how far past the target chunk the volume reaches horizontally.
// Light spreads at most 14 blocks before it fades out, so sources further
// away cannot reach the target.
const Halo = 14

// VolumeWidth is the horizontal size of a volume along x and z.
const VolumeWidth = 16 + 2*Halo

// Volume is the padded light field around one chunk: models for every voxel
// and, once diffused, the sky and block light levels. Voxels are stored in
// y, z, x order. Vertically it covers every section of the 3x3 chunk
// neighbourhood plus one section below and one above.
type Volume struct {
	OriginX, OriginY, OriginZ int
	Height                    int

	target *ModelGrid
	models []Model
	sky    []uint8
	block  []uint8

	buckets [MaxLight + 1][]int32
}

// NewVolume gathers the models around chunk cx, cz from the cache.
func NewVolume(cache *ModelCache, cx, cz int) *Volume {
	v := &Volume{}
	v.fill(cache, cx, cz)
	return v
}

func (v *Volume) fill(cache *ModelCache, cx, cz int) {
	var grids [9]*ModelGrid
	lo, hi, found := 0, 0, false
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			g := cache.Ensure(cx+dx, cz+dz)
			grids[(dz+1)*3+dx+1] = g
			for _, sy := range g.SectionYs() {
				if !found || sy < lo {
					lo = sy
				}
				if !found || sy > hi {
					hi = sy
				}
				found = true
			}
		}
	}
	v.target = grids[4]
	v.OriginX = cx*16 - Halo
	v.OriginZ = cz*16 - Halo
	v.OriginY = (lo - 1) * 16
	v.Height = (hi - lo + 3) * 16

	n := VolumeWidth * VolumeWidth * v.Height
	v.models = resize(v.models, n)
	for i := range v.models {
		v.models[i] = Air
	}
	v.sky = v.sky[:0]
	v.block = v.block[:0]

	for _, g := range grids {
		v.copyGrid(g)
	}
}

func resize(models []Model, n int) []Model {
	if cap(models) >= n {
		return models[:n]
	}
	return make([]Model, n)
}

func resizeLevels(levels []uint8, n int) []uint8 {
	if cap(levels) >= n {
		levels = levels[:n]
		for i := range levels {
			levels[i] = 0
		}
		return levels
	}
	return make([]uint8, n)
}

// copyGrid copies the part of a neighbour chunk that falls inside the volume.
func (v *Volume) copyGrid(g *ModelGrid) {
	baseX := g.X*16 - v.OriginX
	baseZ := g.Z*16 - v.OriginZ
	for _, sy := range g.SectionYs() {
		s := g.section(sy)
		if s == nil {
			continue
		}
		baseY := sy*16 - v.OriginY
		for y := 0; y < 16; y++ {
			for z := 0; z < 16; z++ {
				vz := baseZ + z
				if vz < 0 || vz >= VolumeWidth {
					continue
				}
				for x := 0; x < 16; x++ {
					vx := baseX + x
					if vx < 0 || vx >= VolumeWidth {
						continue
					}
					v.models[v.local(vx, baseY+y, vz)] = s[voxelIndex(x, y, z)]
				}
			}
		}
	}
}

func (v *Volume) local(x, y, z int) int {
	return (y*VolumeWidth+z)*VolumeWidth + x
}

// index converts an absolute block position into a volume index.
func (v *Volume) index(x, y, z int) (int, bool) {
	x -= v.OriginX
	y -= v.OriginY
	z -= v.OriginZ
	if x < 0 || x >= VolumeWidth || z < 0 || z >= VolumeWidth || y < 0 || y >= v.Height {
		return 0, false
	}
	return v.local(x, y, z), true
}

// ModelAt returns the model at an absolute position, air outside the volume.
func (v *Volume) ModelAt(x, y, z int) Model {
	if i, ok := v.index(x, y, z); ok {
		return v.models[i]
	}
	return Air
}

// SkyAt returns the sky light at an absolute position. It is 0 outside the
// volume and in dimensions without sky.
func (v *Volume) SkyAt(x, y, z int) uint8 {
	if i, ok := v.index(x, y, z); ok && len(v.sky) > 0 {
		return v.sky[i]
	}
	return 0
}

// BlockAt returns the block light at an absolute position.
func (v *Volume) BlockAt(x, y, z int) uint8 {
	if i, ok := v.index(x, y, z); ok && len(v.block) > 0 {
		return v.block[i]
	}
	return 0
}

// HasSky reports whether the last diffusion computed sky light.
func (v *Volume) HasSky() bool {
	return len(v.sky) > 0
}
