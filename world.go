package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/astei/anvil2light/anvil"
	"github.com/astei/anvil2light/light"
)

var (
	ErrSameDirectory = errors.New("anvil2light: output directory must differ from input")
	ErrAborted       = errors.New("anvil2light: relighting aborted")
)

var regionFilePattern = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

type RegionCoord struct {
	X int
	Z int
}

func (r RegionCoord) String() string {
	return fmt.Sprintf("%d,%d", r.X, r.Z)
}

// parseRegionName extracts the region coordinates from a file name like
// r.-1.3.mca.
func parseRegionName(name string) (coord RegionCoord, ok bool) {
	m := regionFilePattern.FindStringSubmatch(name)
	if m == nil {
		return
	}
	var err error
	if coord.X, err = strconv.Atoi(m[1]); err != nil {
		return
	}
	if coord.Z, err = strconv.Atoi(m[2]); err != nil {
		return
	}
	return coord, true
}

// discoverRegions lists the region files of dir, sorted by z then x.
func discoverRegions(dir string) ([]RegionCoord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var regions []RegionCoord
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if coord, ok := parseRegionName(e.Name()); ok {
			regions = append(regions, coord)
		}
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Z != regions[j].Z {
			return regions[i].Z < regions[j].Z
		}
		return regions[i].X < regions[j].X
	})
	return regions, nil
}

// ProgressFunc is told after every chunk of a region. Returning false stops
// the worker that called it.
type ProgressFunc func(region RegionCoord, done, total int) bool

type settings struct {
	InputDir  string
	OutputDir string
	Workers   int
	HasSky    bool

	Logger     *log.Logger
	Progress   ProgressFunc
	Classifier *light.Classifier
}

func (s *settings) validate() error {
	if s.InputDir == "" || s.OutputDir == "" {
		return errors.New("anvil2light: input and output directories are required")
	}
	in, err := filepath.Abs(s.InputDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(s.OutputDir)
	if err != nil {
		return err
	}
	if in == out {
		return ErrSameDirectory
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.Logger == nil {
		s.Logger = log.New(io.Discard, "", 0)
	}
	if s.Classifier == nil {
		s.Classifier = light.NewClassifier()
	}
	return nil
}

type regionStats struct {
	Lit      int
	Skipped  int
	Degraded int
}

// relightWorld relights every region file of the input directory into the
// output directory. Failed regions do not stop the others; their errors are
// returned together.
func relightWorld(ctx context.Context, s settings) error {
	if err := s.validate(); err != nil {
		return err
	}
	regions, err := discoverRegions(s.InputDir)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(s.OutputDir, 0755); err != nil {
		return err
	}
	s.Logger.Printf("discovered %s region files in %s", humanize.Comma(int64(len(regions))), s.InputDir)

	jobs := make(chan RegionCoord)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    *multierror.Error
		total   regionStats
		aborted bool
	)
	wg.Add(s.Workers)
	for i := 0; i < s.Workers; i++ {
		go func() {
			defer wg.Done()
			stopped := false
			for coord := range jobs {
				if stopped {
					continue
				}
				stats, err := relightRegion(s, coord)
				mu.Lock()
				total.Lit += stats.Lit
				total.Skipped += stats.Skipped
				total.Degraded += stats.Degraded
				switch {
				case errors.Is(err, ErrAborted):
					stopped, aborted = true, true
				case err != nil:
					s.Logger.Printf("region %s failed: %v", coord, err)
					errs = multierror.Append(errs, err)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, coord := range regions {
		select {
		case jobs <- coord:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	s.Logger.Printf("lit %s chunks, skipped %s empty chunks, %s neighbour chunks unreadable",
		humanize.Comma(int64(total.Lit)), humanize.Comma(int64(total.Skipped)), humanize.Comma(int64(total.Degraded)))
	if aborted || ctx.Err() != nil {
		errs = multierror.Append(errs, ErrAborted)
	}
	return errs.ErrorOrNil()
}

// relightRegion copies one region file to the output directory and rewrites
// the light of every chunk in the copy. Neighbour chunks are read from the
// input directory.
func relightRegion(s settings, coord RegionCoord) (stats regionStats, err error) {
	outPath := anvil.RegionPath(s.OutputDir, coord.X, coord.Z)
	if err = copyFile(anvil.RegionPath(s.InputDir, coord.X, coord.Z), outPath); err != nil {
		return stats, fmt.Errorf("region %s: %w", coord, err)
	}

	editor, err := anvil.OpenEditor(outPath)
	if err != nil {
		return stats, fmt.Errorf("region %s: %w", coord, err)
	}
	defer func() {
		if cerr := editor.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("region %s: %w", coord, cerr)
		}
	}()

	source := anvil.NewDirSource(s.InputDir, s.Logger)
	defer source.Close()
	cache := light.NewModelCache(source, s.Classifier, light.RegionWindow(coord.X, coord.Z), s.Logger)
	engine := light.NewEngine(cache, s.HasSky)

	present := editor.Present()
	total := int(present.Count())
	done, row := 0, -1
	for i, ok := present.NextSet(0); ok; i, ok = present.NextSet(i + 1) {
		x, z := int(i%32), int(i/32)
		cx, cz := coord.X*32+x, coord.Z*32+z
		if z != row {
			cache.Release(cz - 1)
			row = z
		}

		result, lerr := engine.LightChunk(cx, cz)
		switch {
		case errors.Is(lerr, light.ErrEmptyChunk):
			stats.Skipped++
		case lerr != nil:
			return stats, fmt.Errorf("region %s: chunk %d,%d: %w", coord, cx, cz, lerr)
		default:
			if err = editor.PatchLight(x, z, result.Sections); err != nil {
				return stats, fmt.Errorf("region %s: writing chunk %d,%d: %w", coord, cx, cz, err)
			}
			stats.Lit++
		}

		done++
		if s.Progress != nil && !s.Progress(coord, done, total) {
			stats.Degraded = cache.Degraded()
			return stats, ErrAborted
		}
	}

	stats.Degraded = cache.Degraded()
	s.Logger.Printf("region %s done: %s lit, %s skipped, %s degraded",
		coord, humanize.Comma(int64(stats.Lit)), humanize.Comma(int64(stats.Skipped)), humanize.Comma(int64(stats.Degraded)))
	return stats, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
