package light

var faceStride = [6]int{
	Down:  -VolumeWidth * VolumeWidth,
	Up:    VolumeWidth * VolumeWidth,
	North: -VolumeWidth,
	South: VolumeWidth,
	West:  -1,
	East:  1,
}

// Diffuse computes block light and, when hasSky is set, sky light over the
// whole volume. The result depends only on the models, so running it twice
// on the same volume gives identical levels.
func (v *Volume) Diffuse(hasSky bool) {
	n := len(v.models)
	v.block = resizeLevels(v.block, n)
	for i, m := range v.models {
		if e := m.Emission(); e > 0 {
			v.block[i] = e
		}
	}
	v.propagate(v.block)

	if !hasSky {
		v.sky = v.sky[:0]
		return
	}
	v.sky = resizeLevels(v.sky, n)
	v.seedSky()
	v.propagate(v.sky)
}

// seedSky fills the open column under the top plane with full sky light. The
// column ends at the first voxel that would dim it or whose face towards the
// voxel above is closed.
func (v *Volume) seedSky() {
	top := v.Height - 1
	for z := 0; z < VolumeWidth; z++ {
		for x := 0; x < VolumeWidth; x++ {
			i := v.local(x, top, z)
			v.sky[i] = MaxLight
			for y := top - 1; y >= 0; y-- {
				below := i + faceStride[Down]
				m := v.models[below]
				if !m.passesSky() || !canEnter(m, Up, v.models[i]) {
					break
				}
				v.sky[below] = MaxLight
				i = below
			}
		}
	}
}

// canEnter reports whether light held by src may step into dst, where src
// sits across face f of dst. A solid voxel only holds light it emits itself,
// and that light leaves through all of its faces.
func canEnter(dst Model, f Face, src Model) bool {
	if dst.FullyAttenuating() {
		return false
	}
	srcMask := src.Mask()
	if src.Transparency() == Solid {
		srcMask = 0
	}
	return facePassable(dst.Mask(), f, srcMask)
}

// propagate spreads the seeded levels through the volume, one level at a
// time from brightest to dimmest. Voxels are visited in y, z, x order within
// a level, which keeps the traversal reproducible; the levels themselves do
// not depend on the order.
func (v *Volume) propagate(levels []uint8) {
	for l := range v.buckets {
		v.buckets[l] = v.buckets[l][:0]
	}
	for i, l := range levels {
		if l > 1 {
			v.buckets[l] = append(v.buckets[l], int32(i))
		}
	}

	const plane = VolumeWidth * VolumeWidth
	for level := uint8(MaxLight); level > 1; level-- {
		next := level - 1
		for _, i32 := range v.buckets[level] {
			i := int(i32)
			if levels[i] != level {
				continue
			}
			x := i % VolumeWidth
			z := (i / VolumeWidth) % VolumeWidth
			y := i / plane
			src := v.models[i]
			for _, f := range faces {
				switch f {
				case Down:
					if y == 0 {
						continue
					}
				case Up:
					if y == v.Height-1 {
						continue
					}
				case North:
					if z == 0 {
						continue
					}
				case South:
					if z == VolumeWidth-1 {
						continue
					}
				case West:
					if x == 0 {
						continue
					}
				case East:
					if x == VolumeWidth-1 {
						continue
					}
				}
				n := i + faceStride[f]
				if levels[n] >= next {
					continue
				}
				if !canEnter(v.models[n], f.Opposite(), src) {
					continue
				}
				levels[n] = next
				v.buckets[next] = append(v.buckets[next], int32(n))
			}
		}
		v.buckets[level] = v.buckets[level][:0]
	}
}
