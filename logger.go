package main

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogging points the standard logger at stderr and, when path is set,
// at a rotating log file as well. The returned closer flushes the file.
func setupLogging(path string) io.Closer {
	log.SetFlags(log.LstdFlags)
	if path == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}
	sink := &lumberjack.Logger{
		Filename: path,
		MaxSize:  10,
		Compress: true,
	}
	log.SetOutput(io.MultiWriter(sink, os.Stderr))
	return sink
}
