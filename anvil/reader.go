package anvil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	maxOffsets = 1024
	sectorSize = 4096
)

var (
	ErrNoChunk            = errors.New("anvil: chunk not found")
	ErrInvalidChunkLength = errors.New("anvil: invalid chunk length")
	ErrInvalidCompression = errors.New("anvil: invalid compression format")
	ErrExternalChunk      = errors.New("anvil: chunk stored outside the region file")
)

// Compression is the scheme byte that precedes every chunk payload.
type Compression byte

const (
	CompressionGzip Compression = 1
	CompressionZlib Compression = 2
	CompressionNone Compression = 3

	// compressionExternal is set on chunks too large for the region file.
	compressionExternal Compression = 128
)

// decompress wraps a chunk payload according to its scheme byte.
func decompress(c Compression, r io.Reader) (io.Reader, error) {
	if c&compressionExternal != 0 {
		return nil, ErrExternalChunk
	}
	switch c {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZlib:
		return zlib.NewReader(r)
	case CompressionNone:
		return r, nil
	default:
		return nil, ErrInvalidCompression
	}
}

// Struct Reader allows you to read an Anvil region file and extract its chunks. The reader is not safe for
// concurrent access; every worker opens its own.
type Reader struct {
	source      io.ReadSeeker
	sectorTable []uint32
	Name        string
}

// NewReader creates a Reader. The ownership of the source is transferred to this reader.
func NewReader(source io.ReadSeeker) (reader *Reader, err error) {
	reader = &Reader{
		source:      source,
		sectorTable: make([]uint32, maxOffsets),
	}

	if file, ok := source.(*os.File); ok {
		reader.Name = file.Name()
	}
	err = reader.readSectorTable()
	return
}

// Open opens the region file at path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return reader, nil
}

func (reader *Reader) readSectorTable() (err error) {
	_, err = reader.source.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}

	rawSectorData := make([]byte, sectorSize)
	_, err = io.ReadFull(reader.source, rawSectorData)
	if err != nil {
		return err
	}

	return binary.Read(bytes.NewReader(rawSectorData), binary.BigEndian, reader.sectorTable)
}

// ReadChunk reads the chunk at the specified X and Z coordinates. Note that these coordinates are relative to the
// region file and are not chunk coordinates. If successful, the returned reader yields the uncompressed NBT payload.
func (reader *Reader) ReadChunk(x, z int) (chunk io.Reader, err error) {
	offset := reader.sectorTable[x+z*32]

	sectorNumber := offset >> 8
	occupiedSectors := offset & 0xff
	if sectorNumber == 0 {
		err = ErrNoChunk
		return
	}

	if _, err = reader.source.Seek(int64(sectorNumber)*sectorSize, io.SeekStart); err != nil {
		return
	}

	// The last sector of a file may be cut short; the length header decides.
	sectorData := make([]byte, int(occupiedSectors)*sectorSize)
	n, err := io.ReadFull(reader.source, sectorData)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	sectorData = sectorData[:n]

	sectorReader := bytes.NewReader(sectorData)
	var sectorHeader struct {
		Length      int32
		Compression Compression
	}
	if err = binary.Read(sectorReader, binary.BigEndian, &sectorHeader); err != nil {
		return
	}

	// Length counts the compression byte as well.
	if sectorHeader.Length < 1 || sectorHeader.Length > int32(len(sectorData)-4) {
		return nil, ErrInvalidChunkLength
	}

	return decompress(sectorHeader.Compression, io.LimitReader(sectorReader, int64(sectorHeader.Length-1)))
}

func (reader *Reader) ChunkExists(x, z int) bool {
	return reader.sectorTable[x+z*32] != 0
}

func (reader *Reader) Close() error {
	if closer, ok := reader.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
