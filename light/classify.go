package light

import "strings"

// BlockState is a block identity plus its string state properties, as stored
// in an Anvil section palette.
type BlockState struct {
	Name       string
	Properties map[string]string
}

const namespace = "minecraft:"

// ID returns the block name without the default namespace.
func (b BlockState) ID() string {
	return strings.TrimPrefix(b.Name, namespace)
}

// IsAir reports whether the state is one of the air blocks.
func (b BlockState) IsAir() bool {
	switch b.ID() {
	case "air", "cave_air", "void_air":
		return true
	}
	return false
}

// nameSet matches block ids by exact name, suffix or prefix.
type nameSet struct {
	exact    map[string]struct{}
	suffixes []string
	prefixes []string
}

func newNameSet(exact, suffixes, prefixes []string) nameSet {
	s := nameSet{exact: make(map[string]struct{}, len(exact)), suffixes: suffixes, prefixes: prefixes}
	for _, name := range exact {
		s.exact[name] = struct{}{}
	}
	return s
}

func (s nameSet) contains(id string) bool {
	if _, ok := s.exact[id]; ok {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(id, suffix) {
			return true
		}
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// Classifier maps block states to lighting models. All of its tables are
// built by NewClassifier and read-only afterwards, so one Classifier may be
// shared by any number of goroutines.
type Classifier struct {
	shapes *shapeTables

	lowerBlocks nameSet
	floorBlocks nameSet

	fullAttenuation nameSet
	noAttenuation   nameSet
	oneStep         nameSet
}

func NewClassifier() *Classifier {
	return &Classifier{
		shapes: buildShapeTables(),

		lowerBlocks: newNameSet([]string{
			"farmland", "dirt_path", "grass_path", "stonecutter", "enchanting_table", "end_portal_frame",
			"campfire", "soul_campfire",
		}, nil, nil),
		floorBlocks: newNameSet([]string{
			"lectern", "daylight_detector",
		}, nil, nil),

		fullAttenuation: newNameSet([]string{
			"tinted_glass", "soul_sand", "mud",
		}, nil, nil),
		noAttenuation: newNameSet([]string{
			"glass", "glass_pane", "iron_bars", "chain", "barrier", "structure_void", "light",
			"ladder", "vine", "lever", "redstone_wire", "repeater", "comparator", "tripwire", "tripwire_hook",
			"rail", "torch", "lantern", "soul_lantern", "end_rod", "lightning_rod", "flower_pot",
			"fire", "soul_fire", "nether_portal", "end_portal", "end_gateway", "beacon", "conduit",
			"sea_pickle", "sugar_cane", "bamboo", "bamboo_sapling", "cactus", "grass", "short_grass",
			"fern", "tall_grass", "large_fern", "dandelion", "poppy", "blue_orchid", "allium",
			"azure_bluet", "oxeye_daisy", "cornflower", "lily_of_the_valley", "wither_rose",
			"sunflower", "lilac", "peony", "torchflower", "pitcher_plant", "pink_petals",
			"wheat", "carrots", "potatoes", "beetroots", "melon_stem", "pumpkin_stem",
			"attached_melon_stem", "attached_pumpkin_stem", "nether_wart", "cocoa",
			"lily_pad", "cave_vines", "cave_vines_plant", "glow_lichen", "sculk_vein", "spore_blossom",
			"hanging_roots", "azalea", "flowering_azalea", "big_dripleaf", "big_dripleaf_stem",
			"small_dripleaf", "pointed_dripstone", "frogspawn", "brewing_stand", "cauldron",
			"water_cauldron", "lava_cauldron", "powder_snow_cauldron", "hopper", "grindstone", "bell",
			"anvil", "chipped_anvil", "damaged_anvil", "dragon_egg", "turtle_egg", "sniffer_egg",
			"cake", "candle_cake", "chest", "trapped_chest", "ender_chest", "decorated_pot", "amethyst_cluster",
			"candle", "sculk_sensor", "calibrated_sculk_sensor", "sculk_shrieker",
		}, []string{
			"_glass", "_pane", "_fence", "_fence_gate", "_wall", "_door", "_trapdoor", "_sign",
			"_banner", "_button", "_pressure_plate", "_carpet", "_sapling", "_tulip", "_torch", "_rail",
			"_bed", "_head", "_skull", "_candle", "_candle_cake", "_mushroom", "_bush", "_roots",
			"_fungus", "_sprouts", "_vines", "_vines_plant", "_amethyst_bud", "_propagule",
		}, []string{
			"potted_",
		}),
		oneStep: newNameSet([]string{
			"water", "lava", "bubble_column", "ice", "frosted_ice", "cobweb", "shulker_box",
			"slime_block", "honey_block", "scaffolding", "seagrass", "tall_seagrass", "kelp",
			"kelp_plant", "powder_snow", "spawner", "trial_spawner", "moving_piston",
		}, []string{
			"_leaves", "_shulker_box", "_coral", "_coral_fan", "_coral_wall_fan",
		}, nil),
	}
}

// Classify returns the lighting model of a block state. It never fails: any
// block it does not recognise is treated as a full opaque cube, which can
// only make the result darker, never leak light.
func (c *Classifier) Classify(b BlockState) Model {
	if b.IsAir() {
		return Air
	}
	id := b.ID()
	props := b.Properties
	m := c.shape(id, props)
	m = m.WithEmission(emission(id, props))
	if isTrue(props, "waterlogged") && m.Transparency() != Solid && m.OpenUpward() {
		m = m.WithOpenUpward(false)
	}
	return m
}

func (c *Classifier) shape(id string, props map[string]string) Model {
	partial := func(mask OcclusionMask) Model {
		return NewModel(Translucent, mask).WithOpenUpward(true)
	}
	switch {
	case strings.HasSuffix(id, "_stairs"):
		facing, ok := parseFace(props["facing"])
		if !ok || facing == Up || facing == Down {
			facing = North
		}
		return partial(c.shapes.stair(facing, props["half"] == "top", props["shape"]))

	case strings.HasSuffix(id, "_slab"):
		switch props["type"] {
		case "top":
			return partial(c.shapes.topSlab)
		case "double":
			return SolidModel
		default:
			return partial(c.shapes.bottomSlab)
		}

	case id == "piston" || id == "sticky_piston":
		if !isTrue(props, "extended") {
			return SolidModel
		}
		facing, ok := parseFace(props["facing"])
		if !ok {
			facing = North
		}
		return partial(c.shapes.pistonBase[facing])

	case id == "piston_head":
		facing, ok := parseFace(props["facing"])
		if !ok {
			facing = North
		}
		return partial(c.shapes.pistonHead[facing])

	case id == "snow":
		layers := intProp(props, "layers", 1)
		if layers >= 8 {
			return SolidModel
		}
		if layers < 1 {
			layers = 1
		}
		return partial(c.shapes.snowByLayer[layers])

	case c.lowerBlocks.contains(id):
		return partial(c.shapes.lowerBlock)

	case c.floorBlocks.contains(id):
		return partial(c.shapes.floorPlate)

	case c.fullAttenuation.contains(id):
		return NewModel(Translucent, 0).WithFullAttenuation()

	case c.noAttenuation.contains(id):
		return NewModel(Translucent, 0).WithOpenUpward(true)

	case c.oneStep.contains(id):
		return NewModel(Translucent, 0)
	}
	return SolidModel
}
