package light

import (
	"sort"
	"strings"
)

// testWorld is an in-memory ChunkSource. Every block not set is air; a chunk
// exists once any of its sections has been touched.
type testWorld struct {
	sections map[ChunkPos]map[int]*[SectionVolume]BlockState
	calls    int
}

func newTestWorld() *testWorld {
	return &testWorld{sections: make(map[ChunkPos]map[int]*[SectionVolume]BlockState)}
}

func block(name string, props ...string) BlockState {
	b := BlockState{Name: "minecraft:" + name}
	if len(props) > 0 {
		b.Properties = make(map[string]string)
		for i := 0; i+1 < len(props); i += 2 {
			b.Properties[props[i]] = props[i+1]
		}
	}
	return b
}

var (
	stone = block("stone")
	air   = block("air")
)

// section returns the section holding y in chunk cx, cz, creating it filled
// with air.
func (w *testWorld) section(cx, cz, sy int) *[SectionVolume]BlockState {
	pos := ChunkPos{cx, cz}
	if w.sections[pos] == nil {
		w.sections[pos] = make(map[int]*[SectionVolume]BlockState)
	}
	s := w.sections[pos][sy]
	if s == nil {
		s = new([SectionVolume]BlockState)
		for i := range s {
			s[i] = air
		}
		w.sections[pos][sy] = s
	}
	return s
}

func (w *testWorld) set(x, y, z int, b BlockState) {
	s := w.section(x>>4, z>>4, y>>4)
	s[voxelIndex(x&15, y&15, z&15)] = b
}

func (w *testWorld) fill(x0, y0, z0, x1, y1, z1 int, b BlockState) {
	for y := y0; y <= y1; y++ {
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				w.set(x, y, z, b)
			}
		}
	}
}

func stateKey(b BlockState) string {
	keys := make([]string, 0, len(b.Properties))
	for k, v := range b.Properties {
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return b.Name + "[" + strings.Join(keys, ",") + "]"
}

func (w *testWorld) ChunkAt(cx, cz int) (*BlockChunk, error) {
	w.calls++
	secs, ok := w.sections[ChunkPos{cx, cz}]
	if !ok {
		return nil, nil
	}
	c := &BlockChunk{X: cx, Z: cz}
	for sy, blocks := range secs {
		s := BlockSection{Y: sy, Indices: make([]uint16, SectionVolume)}
		seen := make(map[string]uint16)
		for i, b := range blocks {
			k := stateKey(b)
			idx, ok := seen[k]
			if !ok {
				idx = uint16(len(s.Palette))
				seen[k] = idx
				s.Palette = append(s.Palette, b)
			}
			s.Indices[i] = idx
		}
		if len(s.Palette) == 1 {
			s.Indices = nil
		}
		c.Sections = append(c.Sections, s)
	}
	return c, nil
}

func lightAround(w *testWorld, cx, cz int, hasSky bool) *Volume {
	cache := NewModelCache(w, NewClassifier(), Window{MinX: cx - 1, MinZ: cz - 1, MaxX: cx + 1, MaxZ: cz + 1}, nil)
	v := NewVolume(cache, cx, cz)
	v.Diffuse(hasSky)
	return v
}
