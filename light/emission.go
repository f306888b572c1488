package light

import (
	"strconv"
	"strings"
)

// constantEmission lists blocks whose light level never depends on state.
var constantEmission = map[string]int{
	"lava":                    15,
	"fire":                    15,
	"glowstone":               15,
	"sea_lantern":             15,
	"jack_o_lantern":          15,
	"beacon":                  15,
	"shroomlight":             15,
	"ochre_froglight":         15,
	"verdant_froglight":       15,
	"pearlescent_froglight":   15,
	"conduit":                 15,
	"end_gateway":             15,
	"end_portal":              15,
	"lantern":                 15,
	"torch":                   14,
	"wall_torch":              14,
	"end_rod":                 14,
	"nether_portal":           11,
	"soul_fire":               10,
	"soul_torch":              10,
	"soul_wall_torch":         10,
	"soul_lantern":            10,
	"crying_obsidian":         10,
	"glow_lichen":             7,
	"enchanting_table":        7,
	"ender_chest":             7,
	"sculk_catalyst":          6,
	"amethyst_cluster":        5,
	"large_amethyst_bud":      4,
	"magma_block":             3,
	"medium_amethyst_bud":     2,
	"small_amethyst_bud":      1,
	"brewing_stand":           1,
	"brown_mushroom":          1,
	"dragon_egg":              1,
	"end_portal_frame":        1,
	"sculk_sensor":            1,
	"calibrated_sculk_sensor": 1,
}

// litEmission lists blocks that only shine with lit=true.
var litEmission = map[string]int{
	"furnace":                     13,
	"smoker":                      13,
	"blast_furnace":               13,
	"campfire":                    15,
	"soul_campfire":               10,
	"redstone_torch":              7,
	"redstone_wall_torch":         7,
	"redstone_ore":                9,
	"deepslate_redstone_ore":      9,
	"redstone_lamp":               15,
	"candle_cake":                 3,
	"copper_bulb":                 15,
	"waxed_copper_bulb":           15,
	"exposed_copper_bulb":         12,
	"waxed_exposed_copper_bulb":   12,
	"weathered_copper_bulb":       8,
	"waxed_weathered_copper_bulb": 8,
	"oxidized_copper_bulb":        4,
	"waxed_oxidized_copper_bulb":  4,
}

// respawnAnchorLevels is the emission per charge count.
var respawnAnchorLevels = [5]int{0, 3, 7, 11, 15}

// emission returns the light a block state gives off.
func emission(name string, props map[string]string) int {
	if level, ok := constantEmission[name]; ok {
		return level
	}
	if level, ok := litEmission[name]; ok {
		if isTrue(props, "lit") {
			return level
		}
		return 0
	}
	switch {
	case name == "light":
		return clampLevel(intProp(props, "level", MaxLight))
	case name == "candle" || strings.HasSuffix(name, "_candle"):
		if !isTrue(props, "lit") {
			return 0
		}
		return 3 * intProp(props, "candles", 1)
	case strings.HasSuffix(name, "_candle_cake"):
		if isTrue(props, "lit") {
			return 3
		}
	case name == "sea_pickle":
		if !isTrue(props, "waterlogged") {
			return 0
		}
		return 3 * (intProp(props, "pickles", 1) + 1)
	case name == "respawn_anchor":
		charges := intProp(props, "charges", 0)
		if charges < 0 || charges >= len(respawnAnchorLevels) {
			return 0
		}
		return respawnAnchorLevels[charges]
	case name == "cave_vines" || name == "cave_vines_plant":
		if isTrue(props, "berries") {
			return 14
		}
	}
	return 0
}

func isTrue(props map[string]string, key string) bool {
	return props[key] == "true"
}

func intProp(props map[string]string, key string, fallback int) int {
	v, ok := props[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLight {
		return MaxLight
	}
	return level
}
