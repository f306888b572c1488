package anvil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/Tnze/go-mc/save/region"
	"github.com/klauspost/compress/zlib"
	"github.com/willf/bitset"

	"github.com/astei/anvil2light/light"
)

// Tag is one undecoded NBT compound: every entry keeps its type and
// payload, so fields the editor does not know survive a rewrite untouched.
type Tag = map[string]nbt.RawMessage

// Editor rewrites the light arrays of chunks inside one region file. Every
// other part of a chunk is written back exactly as it was read.
type Editor struct {
	reg *region.Region
}

// OpenEditor opens an existing region file for editing in place.
func OpenEditor(path string) (*Editor, error) {
	reg, err := region.Open(path)
	if err != nil {
		return nil, err
	}
	return &Editor{reg: reg}, nil
}

func (e *Editor) Close() error {
	return e.reg.Close()
}

// Present returns the chunk slots of the region that hold a chunk. Slot x, z
// is bit z*32+x.
func (e *Editor) Present() *bitset.BitSet {
	present := bitset.New(maxOffsets)
	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			if e.reg.ExistSector(x, z) {
				present.Set(uint(z*32 + x))
			}
		}
	}
	return present
}

// chunkDoc is a chunk split into the pieces PatchLight rewrites.
type chunkDoc struct {
	root Tag
	// level is the nested Level compound of pre-1.18 chunks, nil otherwise.
	level    Tag
	sections []Tag
}

func (d *chunkDoc) container() (Tag, string) {
	if d.level != nil {
		return d.level, "Sections"
	}
	return d.root, "sections"
}

func (e *Editor) load(x, z int) (*chunkDoc, error) {
	if !e.reg.ExistSector(x, z) {
		return nil, ErrNoChunk
	}
	data, err := e.reg.ReadSector(x, z)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrInvalidChunkLength
	}
	r, err := decompress(Compression(data[0]), bytes.NewReader(data[1:]))
	if err != nil {
		return nil, err
	}

	doc := &chunkDoc{}
	if _, err = nbt.NewDecoder(r).Decode(&doc.root); err != nil {
		return nil, fmt.Errorf("anvil: decoding chunk: %w", err)
	}
	if raw, ok := doc.root["Level"]; ok {
		if err = raw.Unmarshal(&doc.level); err != nil {
			return nil, fmt.Errorf("anvil: decoding Level: %w", err)
		}
	}
	container, key := doc.container()
	if raw, ok := container[key]; ok {
		if err = raw.Unmarshal(&doc.sections); err != nil {
			return nil, fmt.Errorf("anvil: decoding %s: %w", key, err)
		}
	}
	return doc, nil
}

// ReadSections returns the raw section compounds of the chunk in slot x, z.
func (e *Editor) ReadSections(x, z int) ([]Tag, error) {
	doc, err := e.load(x, z)
	if err != nil {
		return nil, err
	}
	return doc.sections, nil
}

// PatchLight replaces the SkyLight and BlockLight arrays of the chunk in slot
// x, z. A nil array removes the entry, sections the chunk lacks are added and
// the chunk is marked as lit.
func (e *Editor) PatchLight(x, z int, sections []light.SectionLight) error {
	doc, err := e.load(x, z)
	if err != nil {
		return err
	}

	byY := make(map[int8]Tag, len(doc.sections))
	for _, s := range doc.sections {
		if y, ok := sectionY(s); ok {
			byY[y] = s
		}
	}
	for _, l := range sections {
		y := int8(l.Y)
		s, ok := byY[y]
		if !ok {
			s = Tag{"Y": byteTag(y)}
			byY[y] = s
			doc.sections = append(doc.sections, s)
		}
		setArray(s, "SkyLight", l.SkyLight)
		setArray(s, "BlockLight", l.BlockLight)
	}
	sort.SliceStable(doc.sections, func(i, j int) bool {
		a, _ := sectionY(doc.sections[i])
		b, _ := sectionY(doc.sections[j])
		return a < b
	})

	container, key := doc.container()
	if container[key], err = rawTag(doc.sections); err != nil {
		return err
	}
	container["isLightOn"] = byteTag(1)
	if doc.level != nil {
		if doc.root["Level"], err = rawTag(doc.level); err != nil {
			return err
		}
	}
	return e.write(x, z, doc.root)
}

func (e *Editor) write(x, z int, root Tag) error {
	var buf bytes.Buffer
	buf.WriteByte(byte(CompressionZlib))
	zw := zlib.NewWriter(&buf)
	if err := nbt.NewEncoder(zw).Encode(root, ""); err != nil {
		return fmt.Errorf("anvil: encoding chunk: %w", err)
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return e.reg.WriteSector(x, z, buf.Bytes())
}

func sectionY(s Tag) (int8, bool) {
	raw, ok := s["Y"]
	if !ok {
		return 0, false
	}
	var y int8
	if err := raw.Unmarshal(&y); err != nil {
		return 0, false
	}
	return y, true
}

func setArray(s Tag, key string, a light.NibbleArray) {
	if a == nil {
		delete(s, key)
		return
	}
	s[key] = byteArrayTag(a)
}

func byteTag(v int8) nbt.RawMessage {
	return nbt.RawMessage{Type: nbt.TagByte, Data: []byte{byte(v)}}
}

func byteArrayTag(b []byte) nbt.RawMessage {
	data := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(data, uint32(len(b)))
	copy(data[4:], b)
	return nbt.RawMessage{Type: nbt.TagByteArray, Data: data}
}

// rawTag encodes v and keeps the result as an undecoded tag.
func rawTag(v interface{}) (nbt.RawMessage, error) {
	var buf bytes.Buffer
	var raw nbt.RawMessage
	if err := nbt.NewEncoder(&buf).Encode(v, ""); err != nil {
		return raw, fmt.Errorf("anvil: encoding tag: %w", err)
	}
	if _, err := nbt.NewDecoder(&buf).Decode(&raw); err != nil {
		return raw, fmt.Errorf("anvil: re-reading tag: %w", err)
	}
	return raw, nil
}
