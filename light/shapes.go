package light

// Shape is a coarse description of a partial block: which of the eight
// octants (2x2x2 sub cells) are filled, plus faces that are closed by a thin
// plate no octant covers (piston heads, snow carpets).
type Shape struct {
	octants uint8
	plates  uint8
}

func octant(x, y, z int) uint8 {
	return 1 << uint(x|y<<1|z<<2)
}

// shapeOf builds a shape from octant coordinates given as {x, y, z} triples.
func shapeOf(cells ...[3]int) Shape {
	var s Shape
	for _, c := range cells {
		s.octants |= octant(c[0], c[1], c[2])
	}
	return s
}

func (s Shape) filled(x, y, z int) bool {
	return s.octants&octant(x, y, z) != 0
}

func (s Shape) withPlate(f Face) Shape {
	s.plates |= 1 << uint(f)
	return s
}

func (s Shape) union(o Shape) Shape {
	return Shape{octants: s.octants | o.octants, plates: s.plates | o.plates}
}

// touching maps quadrant (a, b) of face f to the octant that lies against it.
func touching(f Face, a, b int) (x, y, z int) {
	switch f {
	case Down:
		return a, 0, b
	case Up:
		return a, 1, b
	case North:
		return a, b, 0
	case South:
		return a, b, 1
	case West:
		return 0, b, a
	default:
		return 1, b, a
	}
}

// Mask derives the occlusion mask: a quadrant is blocked when the octant
// behind it is filled or a plate closes the face.
func (s Shape) Mask() OcclusionMask {
	var m OcclusionMask
	for _, f := range faces {
		var quads uint8
		if s.plates&(1<<uint(f)) != 0 {
			quads = faceBits
		} else {
			for q := 0; q < 4; q++ {
				if s.filled(touching(f, q&1, q>>1)) {
					quads |= 1 << uint(q)
				}
			}
		}
		m = m.WithFace(f, quads)
	}
	return m
}

func (s Shape) mapCells(move func(x, y, z int) (int, int, int), faceMap func(Face) Face) Shape {
	var out Shape
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				if s.filled(x, y, z) {
					out.octants |= octant(move(x, y, z))
				}
			}
		}
	}
	for _, f := range faces {
		if s.plates&(1<<uint(f)) != 0 {
			out.plates |= 1 << uint(faceMap(f))
		}
	}
	return out
}

var clockwise = [6]Face{Down, Up, East, West, North, South}

// rotateY turns the shape a quarter clockwise seen from above (north to east).
func (s Shape) rotateY() Shape {
	return s.mapCells(func(x, y, z int) (int, int, int) {
		return 1 - z, y, x
	}, func(f Face) Face { return clockwise[f] })
}

// flipY mirrors the shape top to bottom.
func (s Shape) flipY() Shape {
	return s.mapCells(func(x, y, z int) (int, int, int) {
		return x, 1 - y, z
	}, func(f Face) Face {
		switch f {
		case Up:
			return Down
		case Down:
			return Up
		}
		return f
	})
}

var tiltedUp = [6]Face{North, South, Up, Down, West, East}

// tiltUp rotates about the x axis so that what faced north faces up.
func (s Shape) tiltUp() Shape {
	return s.mapCells(func(x, y, z int) (int, int, int) {
		return x, 1 - z, y
	}, func(f Face) Face { return tiltedUp[f] })
}

// facingFromNorth orients a shape that was modelled facing north.
func (s Shape) facingFromNorth(f Face) Shape {
	switch f {
	case North:
		return s
	case East:
		return s.rotateY()
	case South:
		return s.rotateY().rotateY()
	case West:
		return s.rotateY().rotateY().rotateY()
	case Up:
		return s.tiltUp()
	default:
		return s.tiltUp().flipY()
	}
}

var (
	lowerHalf = shapeOf([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 0, 1}, [3]int{1, 0, 1})
	upperHalf = lowerHalf.flipY()
	southHalf = shapeOf([3]int{0, 0, 1}, [3]int{1, 0, 1}, [3]int{0, 1, 1}, [3]int{1, 1, 1})
	floorOnly = Shape{}.withPlate(Down)
)

// Stair shapes as the block state names them.
const (
	stairStraight   = "straight"
	stairInnerLeft  = "inner_left"
	stairInnerRight = "inner_right"
	stairOuterLeft  = "outer_left"
	stairOuterRight = "outer_right"
)

var stairShapes = []string{stairStraight, stairInnerLeft, stairInnerRight, stairOuterLeft, stairOuterRight}

// northStair returns a bottom-half stair facing north. The raised step sits on
// the north side; left and right are seen by someone looking north.
func northStair(shape string) Shape {
	nw, ne := [3]int{0, 1, 0}, [3]int{1, 1, 0}
	sw, se := [3]int{0, 1, 1}, [3]int{1, 1, 1}
	switch shape {
	case stairInnerLeft:
		return lowerHalf.union(shapeOf(nw, ne, sw))
	case stairInnerRight:
		return lowerHalf.union(shapeOf(nw, ne, se))
	case stairOuterLeft:
		return lowerHalf.union(shapeOf(nw))
	case stairOuterRight:
		return lowerHalf.union(shapeOf(ne))
	default:
		return lowerHalf.union(shapeOf(nw, ne))
	}
}

type stairKey struct {
	facing Face
	top    bool
	shape  string
}

// shapeTables holds every orientation of every partial block family. It is
// built once per classifier and never modified.
type shapeTables struct {
	stairs      map[stairKey]OcclusionMask
	pistonBase  [6]OcclusionMask
	pistonHead  [6]OcclusionMask
	bottomSlab  OcclusionMask
	topSlab     OcclusionMask
	floorPlate  OcclusionMask
	lowerBlock  OcclusionMask
	snowByLayer [9]OcclusionMask
}

func buildShapeTables() *shapeTables {
	t := &shapeTables{stairs: make(map[stairKey]OcclusionMask, 40)}
	for _, facing := range []Face{North, South, West, East} {
		for _, name := range stairShapes {
			bottom := northStair(name).facingFromNorth(facing)
			t.stairs[stairKey{facing, false, name}] = bottom.Mask()
			t.stairs[stairKey{facing, true, name}] = bottom.flipY().Mask()
		}
	}
	for _, f := range faces {
		// Extended base: the back three quarters stay, the front is open.
		t.pistonBase[f] = southHalf.facingFromNorth(f).Mask()
		// Head: a plate on the front face, the arm is too thin to count.
		t.pistonHead[f] = Shape{}.withPlate(North).facingFromNorth(f).Mask()
	}
	t.bottomSlab = lowerHalf.Mask()
	t.topSlab = upperHalf.Mask()
	t.floorPlate = floorOnly.Mask()
	t.lowerBlock = lowerHalf.Mask()
	for layers := 1; layers < 8; layers++ {
		if layers < 4 {
			t.snowByLayer[layers] = floorOnly.Mask()
		} else {
			t.snowByLayer[layers] = lowerHalf.Mask()
		}
	}
	t.snowByLayer[8] = FullMask
	return t
}

func (t *shapeTables) stair(facing Face, top bool, shape string) OcclusionMask {
	if m, ok := t.stairs[stairKey{facing, top, shape}]; ok {
		return m
	}
	return t.stairs[stairKey{facing, top, stairStraight}]
}
