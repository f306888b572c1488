package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/astei/anvil2light/light"
)

// progressEvery is how many chunks pass between progress lines.
const progressEvery = 64

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("Error loading .env file:", err)
	}

	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "anvil2light",
		Usage:     "recomputes sky and block light of Anvil region files",
		ArgsUsage: "REGION_DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "directory the relit region files are written to",
				EnvVars:  []string{"ANVIL2LIGHT_OUT"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of regions relit in parallel",
				EnvVars: []string{"ANVIL2LIGHT_WORKERS"},
				Value:   runtime.NumCPU(),
			},
			&cli.StringFlag{
				Name:    "dimension",
				Usage:   "overworld, nether or end",
				EnvVars: []string{"ANVIL2LIGHT_DIMENSION"},
				Value:   "overworld",
			},
			&cli.BoolFlag{
				Name:    "no-sky",
				Usage:   "do not compute sky light",
				EnvVars: []string{"ANVIL2LIGHT_NO_SKY"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "also write the log to this file, rotated at 10 MB",
				EnvVars: []string{"ANVIL2LIGHT_LOG_FILE"},
			},
		},
		Action: relight,
	}
}

func relight(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("need exactly one region directory to work with", 2)
	}
	hasSky, err := dimensionHasSky(c.String("dimension"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	if c.Bool("no-sky") {
		hasSky = false
	}

	sink := setupLogging(c.String("log-file"))
	defer sink.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	s := settings{
		InputDir:   c.Args().First(),
		OutputDir:  c.String("out"),
		Workers:    c.Int("workers"),
		HasSky:     hasSky,
		Logger:     logger,
		Progress:   logProgress(ctx, logger),
		Classifier: light.NewClassifier(),
	}

	start := time.Now()
	err = relightWorld(ctx, s)
	logger.Printf("finished in %s", time.Since(start).Round(time.Millisecond))
	return err
}

func dimensionHasSky(dimension string) (bool, error) {
	switch dimension {
	case "overworld", "minecraft:overworld":
		return true, nil
	case "nether", "the_nether", "minecraft:the_nether", "end", "the_end", "minecraft:the_end":
		return false, nil
	default:
		return false, fmt.Errorf("unknown dimension %q", dimension)
	}
}

// logProgress reports every progressEvery chunks and stops the workers once
// ctx is cancelled.
func logProgress(ctx context.Context, logger *log.Logger) ProgressFunc {
	return func(region RegionCoord, done, total int) bool {
		if done%progressEvery == 0 || done == total {
			logger.Printf("region %s: %s/%s chunks", region, humanize.Comma(int64(done)), humanize.Comma(int64(total)))
		}
		return ctx.Err() == nil
	}
}
