package anvil

import (
	"bytes"
	"io"
	"testing"

	"github.com/Tnze/go-mc/level"
	"github.com/Tnze/go-mc/nbt"
	"github.com/Tnze/go-mc/save/region"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

type testChunk struct {
	x, z        int
	compression Compression
	root        interface{}
}

// encodeChunk produces a region sector payload: scheme byte plus compressed NBT.
func encodeChunk(t *testing.T, c Compression, root interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(byte(c))
	var w io.WriteCloser
	switch c {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZlib:
		w = zlib.NewWriter(&buf)
	default:
		w = nopCloser{&buf}
	}
	require.NoError(t, nbt.NewEncoder(w).Encode(root, ""))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeRegion(t *testing.T, path string, chunks ...testChunk) {
	t.Helper()
	reg, err := region.Create(path)
	require.NoError(t, err)
	for _, c := range chunks {
		require.NoError(t, reg.WriteSector(c.x, c.z, encodeChunk(t, c.compression, c.root)))
	}
	require.NoError(t, reg.Close())
}

func packIndices(bits int, values func(i int) int) []uint64 {
	storage := level.NewBitStorage(bits, 4096, nil)
	for i := 0; i < 4096; i++ {
		storage.Set(i, values(i))
	}
	return storage.Raw()
}

// packTight packs values the pre-1.16 way, letting them straddle longs.
func packTight(bits int, values func(i int) int) []uint64 {
	data := make([]uint64, 4096*bits/64)
	for i := 0; i < 4096; i++ {
		v := uint64(values(i))
		for b := 0; b < bits; b++ {
			if v&(1<<uint(b)) != 0 {
				pos := i*bits + b
				data[pos/64] |= 1 << uint(pos%64)
			}
		}
	}
	return data
}

func state(name string, props map[string]string) map[string]interface{} {
	s := map[string]interface{}{"Name": name}
	if props != nil {
		s["Properties"] = props
	}
	return s
}

// stoneFloor is a section whose bottom layer is stone and the rest air.
func stoneFloor(y int8) map[string]interface{} {
	return map[string]interface{}{
		"Y": y,
		"block_states": map[string]interface{}{
			"palette": []map[string]interface{}{state("minecraft:air", nil), state("minecraft:stone", nil)},
			"data": packIndices(4, func(i int) int {
				if i < 256 {
					return 1
				}
				return 0
			}),
		},
		"biomes": map[string]interface{}{
			"palette": []string{"minecraft:plains"},
		},
	}
}

func airSection(y int8) map[string]interface{} {
	return map[string]interface{}{
		"Y": y,
		"block_states": map[string]interface{}{
			"palette": []map[string]interface{}{state("minecraft:air", nil)},
		},
	}
}

func modernChunk(cx, cz int, sections ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"DataVersion":   int32(3465),
		"xPos":          int32(cx),
		"yPos":          int32(-4),
		"zPos":          int32(cz),
		"Status":        "minecraft:full",
		"InhabitedTime": int64(42),
		"sections":      sections,
	}
}
