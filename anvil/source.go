package anvil

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/save/region"
	"github.com/hashicorp/go-multierror"

	"github.com/astei/anvil2light/light"
)

// RegionPath returns the path of region rx, rz inside dir.
func RegionPath(dir string, rx, rz int) string {
	return filepath.Join(dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
}

type openRegion struct {
	reader *Reader
	err    error
}

// DirSource serves chunks out of a directory of region files. Region files
// are opened on first use and stay open until Close. A DirSource belongs to a
// single worker.
type DirSource struct {
	dir     string
	logger  *log.Logger
	regions map[[2]int]openRegion
}

func NewDirSource(dir string, logger *log.Logger) *DirSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &DirSource{dir: dir, logger: logger, regions: make(map[[2]int]openRegion)}
}

func (s *DirSource) region(rx, rz int) (*Reader, error) {
	key := [2]int{rx, rz}
	if r, ok := s.regions[key]; ok {
		return r.reader, r.err
	}
	reader, err := Open(RegionPath(s.dir, rx, rz))
	switch {
	case errors.Is(err, os.ErrNotExist):
		reader, err = nil, nil
	case err != nil:
		s.logger.Printf("region %d,%d unreadable: %v", rx, rz, err)
		err = fmt.Errorf("anvil: region %d,%d: %w", rx, rz, err)
	}
	s.regions[key] = openRegion{reader: reader, err: err}
	return reader, err
}

// ChunkAt implements light.ChunkSource. Chunks in missing region files or
// missing from their region file are reported as nil without an error.
func (s *DirSource) ChunkAt(cx, cz int) (*light.BlockChunk, error) {
	rx, rz := region.At(cx, cz)
	reader, err := s.region(rx, rz)
	if err != nil || reader == nil {
		return nil, err
	}
	x, z := region.In(cx, cz)
	if !reader.ChunkExists(x, z) {
		return nil, nil
	}
	payload, err := reader.ReadChunk(x, z)
	if err != nil {
		return nil, fmt.Errorf("anvil: chunk %d,%d: %w", cx, cz, err)
	}
	chunk, err := DecodeChunk(payload)
	if err != nil {
		return nil, fmt.Errorf("anvil: chunk %d,%d: %w", cx, cz, err)
	}
	// The region table decides where a chunk lives.
	chunk.X, chunk.Z = cx, cz
	return chunk, nil
}

// Close closes every region file the source opened.
func (s *DirSource) Close() error {
	var errs *multierror.Error
	for key, r := range s.regions {
		if r.reader != nil {
			if err := r.reader.Close(); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		delete(s.regions, key)
	}
	return errs.ErrorOrNil()
}
