package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabAndStairMasks(t *testing.T) {
	tables := buildShapeTables()
	tests := []struct {
		name string
		got  OcclusionMask
		want OcclusionMask
	}{
		{"bottom slab", tables.bottomSlab, 0x33330F},
		{"top slab", tables.topSlab, 0xCCCCF0},
		{"bottom straight stair north", tables.stair(North, false, stairStraight), 0x773F3F},
		{"top straight stair north", tables.stair(North, true, stairStraight), 0xDDCFF3},
		{"bottom straight stair east", tables.stair(East, false, stairStraight), 0xF3BBAF},
		{"floor plate", tables.floorPlate, 0x00000F},
		{"piston head up", tables.pistonHead[Up], 0x0000F0},
		{"piston head north", tables.pistonHead[North], 0x000F00},
		{"piston head east", tables.pistonHead[East], 0xF00000},
		{"extended piston up", tables.pistonBase[Up], 0x33330F},
		{"extended piston down", tables.pistonBase[Down], 0xCCCCF0},
		{"full snow", tables.snowByLayer[8], FullMask},
		{"thin snow", tables.snowByLayer[2], 0x00000F},
		{"deep snow", tables.snowByLayer[5], 0x33330F},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, "%s: got %#06x", tt.name, uint32(tt.got))
	}
}

func TestUnknownStairShapeFallsBackToStraight(t *testing.T) {
	tables := buildShapeTables()
	assert.Equal(t, tables.stair(West, true, stairStraight), tables.stair(West, true, "sideways"))
}

func TestRotationsCompose(t *testing.T) {
	for _, name := range stairShapes {
		s := northStair(name)
		assert.Equal(t, s, s.rotateY().rotateY().rotateY().rotateY(), name)
		assert.Equal(t, s, s.flipY().flipY(), name)
		assert.Equal(t, s.Mask(), s.facingFromNorth(North).Mask(), name)
	}
	plate := Shape{}.withPlate(North)
	assert.Equal(t, Shape{}.withPlate(Up), plate.facingFromNorth(Up))
	assert.Equal(t, Shape{}.withPlate(Down), plate.facingFromNorth(Down))
	assert.Equal(t, Shape{}.withPlate(West), plate.facingFromNorth(West))
}

// referenceStair places the step octants from the facing and left vectors of
// the stair, independently of the rotation helpers.
func referenceStair(facing Face, top bool, shape string) OcclusionMask {
	fx, _, fz := facing.Offset()
	lx, lz := fz, -fx
	corner := func(left, forward int) [3]int {
		y := 1
		if top {
			y = 0
		}
		return [3]int{(1 + left*lx + forward*fx) / 2, y, (1 + left*lz + forward*fz) / 2}
	}
	var cells [][3]int
	switch shape {
	case stairOuterLeft:
		cells = [][3]int{corner(1, 1)}
	case stairOuterRight:
		cells = [][3]int{corner(-1, 1)}
	case stairInnerLeft:
		cells = [][3]int{corner(1, 1), corner(-1, 1), corner(1, -1)}
	case stairInnerRight:
		cells = [][3]int{corner(1, 1), corner(-1, 1), corner(-1, -1)}
	default:
		cells = [][3]int{corner(1, 1), corner(-1, 1)}
	}
	half := lowerHalf
	if top {
		half = upperHalf
	}
	return half.union(shapeOf(cells...)).Mask()
}

func TestEveryStairMatchesReference(t *testing.T) {
	tables := buildShapeTables()
	require.Len(t, tables.stairs, 40)
	for key, got := range tables.stairs {
		want := referenceStair(key.facing, key.top, key.shape)
		assert.Equal(t, want, got, "%v top=%v %s", key.facing, key.top, key.shape)
	}
}

func TestStairVariantsCollapseToTwelvePerHalf(t *testing.T) {
	tables := buildShapeTables()
	distinct := map[bool]map[OcclusionMask]bool{false: {}, true: {}}
	for key, m := range tables.stairs {
		distinct[key.top][m] = true
	}
	assert.Len(t, distinct[false], 12)
	assert.Len(t, distinct[true], 12)

	// The same corner seen from two facings.
	assert.Equal(t, tables.stair(North, false, stairOuterLeft), tables.stair(West, false, stairOuterRight))
	assert.Equal(t, tables.stair(North, true, stairInnerLeft), tables.stair(West, true, stairInnerRight))
}

func TestStairMaskIsFlipOfBottom(t *testing.T) {
	tables := buildShapeTables()
	for _, facing := range []Face{North, South, West, East} {
		for _, name := range stairShapes {
			bottom := tables.stair(facing, false, name)
			top := tables.stair(facing, true, name)
			assert.Equal(t, bottom.Face(Down), top.Face(Up), "%v %s", facing, name)
			assert.Equal(t, bottom.Face(Up), top.Face(Down), "%v %s", facing, name)
			assert.True(t, bottom.Blocks(Down))
			assert.False(t, bottom.Blocks(Up))
		}
	}
}

func TestFacePassable(t *testing.T) {
	tables := buildShapeTables()
	bottom, top := tables.bottomSlab, tables.topSlab

	assert.True(t, facePassable(0, North, 0))
	assert.False(t, facePassable(FullMask, North, 0))
	assert.False(t, facePassable(0, North, FullMask))
	// Bottom slab beside a top slab: together they close the shared face.
	assert.False(t, facePassable(bottom, East, top))
	// Two bottom slabs leave the upper half of the shared face open.
	assert.True(t, facePassable(bottom, East, bottom))
	// Light from above a bottom slab reaches its open top.
	assert.True(t, facePassable(bottom, Up, 0))
	assert.False(t, facePassable(bottom, Down, 0))
}
