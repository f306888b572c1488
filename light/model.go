package light

// Transparency is the coarse light class of a block.
type Transparency uint8

const (
	Clear Transparency = iota
	Translucent
	Solid
)

func (t Transparency) String() string {
	switch t {
	case Clear:
		return "clear"
	case Translucent:
		return "translucent"
	case Solid:
		return "solid"
	}
	return "unknown"
}

const (
	maskBits          = 0x00ffffff
	emissionShift     = 24
	transparencyShift = 28
	openUpwardBit     = 1 << 30
	opaqueBit         = 1 << 31
)

// MaxLight is the brightest value a voxel can hold.
const MaxLight = 15

// Model describes how light interacts with a single block state. It packs the
// occlusion mask, emission, transparency class and two attenuation flags into
// one uint32; use the accessors rather than the raw value.
//
// The zero Model is air.
type Model uint32

// Air is the model of every empty voxel and of every voxel we have no data for.
const Air Model = 0

// SolidModel is a full opaque cube that emits nothing.
var SolidModel = NewModel(Solid, FullMask)

// NewModel returns a non-emitting model. Solid models are always fully
// attenuating; translucent ones attenuate by one step until told otherwise.
func NewModel(t Transparency, mask OcclusionMask) Model {
	m := Model(uint32(mask)&maskBits) | Model(uint32(t)<<transparencyShift)
	if t == Solid {
		m |= opaqueBit
	}
	return m
}

func (m Model) Transparency() Transparency {
	return Transparency((uint32(m) >> transparencyShift) & 0x3)
}

func (m Model) Emission() uint8 {
	return uint8((uint32(m) >> emissionShift) & 0xf)
}

func (m Model) WithEmission(level int) Model {
	if level < 0 {
		level = 0
	} else if level > MaxLight {
		level = MaxLight
	}
	return Model(uint32(m)&^(0xf<<emissionShift)) | Model(uint32(level)<<emissionShift)
}

func (m Model) Mask() OcclusionMask {
	return OcclusionMask(uint32(m) & maskBits)
}

func (m Model) WithMask(mask OcclusionMask) Model {
	return Model(uint32(m)&^maskBits) | Model(uint32(mask)&maskBits)
}

// OpenUpward reports whether a translucent model lets the straight sky column
// continue through it without losing a level.
func (m Model) OpenUpward() bool {
	return uint32(m)&openUpwardBit != 0
}

func (m Model) WithOpenUpward(open bool) Model {
	if open {
		return (m | openUpwardBit) &^ opaqueBit
	}
	return m &^ openUpwardBit
}

// FullyAttenuating reports whether propagated light can never enter the voxel.
func (m Model) FullyAttenuating() bool {
	return uint32(m)&opaqueBit != 0
}

func (m Model) WithFullAttenuation() Model {
	return (m | opaqueBit) &^ openUpwardBit
}

// Attenuation is the number of levels light loses on top of the per-step
// decrement: 0 for clear and open translucent voxels, 1 for the translucent
// default and 15 for everything light cannot enter.
func (m Model) Attenuation() uint8 {
	switch {
	case m.FullyAttenuating():
		return MaxLight
	case m.Transparency() == Clear, m.OpenUpward():
		return 0
	default:
		return 1
	}
}

// passesSky reports whether a sky column that reached the voxel above keeps
// its full strength in this voxel.
func (m Model) passesSky() bool {
	switch m.Transparency() {
	case Clear:
		return true
	case Translucent:
		return m.OpenUpward()
	}
	return false
}
