package light

// NibbleArraySize is the byte length of one section's light array.
const NibbleArraySize = SectionVolume / 2

// NibbleArray stores one 4-bit light level per voxel of a section, two
// voxels per byte. Voxel y<<8|z<<4|x lives in byte index/2, in the low
// nibble for even indices and the high nibble for odd ones.
type NibbleArray []byte

func NewNibbleArray() NibbleArray {
	return make(NibbleArray, NibbleArraySize)
}

func (a NibbleArray) Get(x, y, z int) uint8 {
	return a.at(voxelIndex(x, y, z))
}

func (a NibbleArray) Set(x, y, z int, level uint8) {
	a.set(voxelIndex(x, y, z), level)
}

func (a NibbleArray) at(i int) uint8 {
	b := a[i>>1]
	if i&1 == 1 {
		return b >> 4
	}
	return b & 0x0f
}

func (a NibbleArray) set(i int, level uint8) {
	level &= 0x0f
	if i&1 == 1 {
		a[i>>1] = a[i>>1]&0x0f | level<<4
	} else {
		a[i>>1] = a[i>>1]&0xf0 | level
	}
}

// Unpack expands the array into one level per voxel.
func (a NibbleArray) Unpack() []uint8 {
	out := make([]uint8, SectionVolume)
	if len(a) != NibbleArraySize {
		return out
	}
	for i := range out {
		out[i] = a.at(i)
	}
	return out
}

// PackNibbles packs one level per voxel into a nibble array. It returns nil
// when every level is zero.
func PackNibbles(levels []uint8) NibbleArray {
	var a NibbleArray
	for i, l := range levels {
		if l == 0 {
			continue
		}
		if a == nil {
			a = NewNibbleArray()
		}
		a.set(i, l)
	}
	return a
}
