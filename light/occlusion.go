package light

// Face is one of the six faces of a voxel.
type Face uint8

const (
	Down Face = iota
	Up
	North
	South
	West
	East
)

var faces = [6]Face{Down, Up, North, South, West, East}

var faceNames = [6]string{"down", "up", "north", "south", "west", "east"}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return "invalid"
}

func (f Face) Opposite() Face {
	return f ^ 1
}

// Offset returns the unit step towards the neighbour across the face.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case Down:
		return 0, -1, 0
	case Up:
		return 0, 1, 0
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case West:
		return -1, 0, 0
	default:
		return 1, 0, 0
	}
}

func parseFace(s string) (Face, bool) {
	for i, name := range faceNames {
		if name == s {
			return Face(i), true
		}
	}
	return 0, false
}

// OcclusionMask holds four quadrant bits per face, 24 bits in total. Face f
// owns bits 4f..4f+3.
//
// Quadrants are addressed in world axes, not in the face's own frame: (x, z)
// for down/up, (x, y) for north/south and (z, y) for west/east, quadrant
// index a + 2b with a and b selecting the low (0) or high (1) half. Quadrant q
// of a face and quadrant q of the touching face of the neighbour therefore
// cover the same area and can be compared bit for bit.
type OcclusionMask uint32

const (
	faceBits = 0xf
	// FullMask blocks every quadrant of every face.
	FullMask OcclusionMask = 0xffffff
)

func (m OcclusionMask) Face(f Face) uint8 {
	return uint8(m>>(4*uint(f))) & faceBits
}

func (m OcclusionMask) WithFace(f Face, quadrants uint8) OcclusionMask {
	shift := 4 * uint(f)
	return m&^(faceBits<<shift) | OcclusionMask(quadrants&faceBits)<<shift
}

// Blocks reports whether the mask alone closes the whole face.
func (m OcclusionMask) Blocks(f Face) bool {
	return m.Face(f) == faceBits
}

// facePassable reports whether light can cross between a voxel with mask a and
// its neighbour across face f (seen from a) with mask b. The face is closed
// when the quadrants blocked on either side together cover it.
func facePassable(a OcclusionMask, f Face, b OcclusionMask) bool {
	return a.Face(f)|b.Face(f.Opposite()) != faceBits
}
