package anvil

import (
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/Tnze/go-mc/level"
	"github.com/Tnze/go-mc/nbt"
	"github.com/Tnze/go-mc/save"

	"github.com/astei/anvil2light/light"
)

var ErrInvalidBlockStates = errors.New("anvil: block state data does not match palette")

// chunkRoot covers both section layouts: 1.18+ chunks keep their sections
// at the root, older chunks nest them under Level.
type chunkRoot struct {
	XPos     int32          `nbt:"xPos"`
	ZPos     int32          `nbt:"zPos"`
	Sections []save.Section `nbt:"sections"`
	Level    legacyLevel    `nbt:"Level"`
}

type legacyLevel struct {
	XPos     int32           `nbt:"xPos"`
	ZPos     int32           `nbt:"zPos"`
	Sections []legacySection `nbt:"Sections"`
}

type legacySection struct {
	Y           int8
	Palette     []save.BlockState
	BlockStates []uint64
}

// DecodeChunk reads an uncompressed chunk NBT payload and returns its block
// sections. Sections that only carry light are kept with an empty palette.
func DecodeChunk(r io.Reader) (*light.BlockChunk, error) {
	var root chunkRoot
	if _, err := nbt.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("anvil: decoding chunk: %w", err)
	}

	if root.Sections == nil && root.Level.Sections != nil {
		chunk := &light.BlockChunk{X: int(root.Level.XPos), Z: int(root.Level.ZPos)}
		for _, s := range root.Level.Sections {
			section, err := decodeSection(int(s.Y), s.Palette, s.BlockStates)
			if err != nil {
				return nil, err
			}
			chunk.Sections = append(chunk.Sections, section)
		}
		return chunk, nil
	}

	chunk := &light.BlockChunk{X: int(root.XPos), Z: int(root.ZPos)}
	for i := range root.Sections {
		s := &root.Sections[i]
		section, err := decodeSection(int(s.Y), s.BlockStates.Palette, s.BlockStates.Data)
		if err != nil {
			return nil, err
		}
		chunk.Sections = append(chunk.Sections, section)
	}
	return chunk, nil
}

func decodeSection(y int, palette []save.BlockState, data []uint64) (light.BlockSection, error) {
	section := light.BlockSection{Y: y}
	if len(palette) == 0 {
		return section, nil
	}
	section.Palette = make([]light.BlockState, len(palette))
	for i, state := range palette {
		section.Palette[i].Name = state.Name
		if state.Properties.Data != nil {
			props := make(map[string]string)
			if err := state.Properties.Unmarshal(&props); err != nil {
				return section, fmt.Errorf("anvil: properties of %s in section %d: %w", state.Name, y, err)
			}
			section.Palette[i].Properties = props
		}
	}
	if len(palette) == 1 {
		return section, nil
	}

	indices, err := unpackIndices(len(palette), data)
	if err != nil {
		return section, fmt.Errorf("%w (section %d)", err, y)
	}
	section.Indices = indices
	return section, nil
}

// unpackIndices expands the packed palette indices of one section. Since
// 1.16 values never straddle two longs; before that they were packed tight.
func unpackIndices(paletteLen int, data []uint64) ([]uint16, error) {
	width := bits.Len(uint(paletteLen - 1))
	if width < 4 {
		width = 4
	}
	perLong := 64 / width
	padded := (light.SectionVolume + perLong - 1) / perLong
	tight := light.SectionVolume * width / 64

	indices := make([]uint16, light.SectionVolume)
	switch len(data) {
	case padded:
		storage := level.NewBitStorage(width, light.SectionVolume, data)
		for i := range indices {
			indices[i] = uint16(storage.Get(i))
		}
	case tight:
		mask := uint64(1)<<uint(width) - 1
		for i := range indices {
			bit := i * width
			word, shift := bit/64, uint(bit%64)
			v := data[word] >> shift
			if shift+uint(width) > 64 {
				v |= data[word+1] << (64 - shift)
			}
			indices[i] = uint16(v & mask)
		}
	default:
		return nil, ErrInvalidBlockStates
	}
	return indices, nil
}
