// Package logging builds the zerolog logger shared by the binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures New.
type Config struct {
	Service string
	Version string

	// Level is a zerolog level name. Unknown values fall back to info.
	Level string

	// File, when set, adds a size-rotated file sink next to stdout.
	File string

	// Pretty switches stdout to the human-readable console writer.
	Pretty bool

	// Output replaces stdout, for tests.
	Output io.Writer
}

// Rotation limits for the file sink.
const (
	maxSizeMB  = 50
	maxBackups = 7
	maxAgeDays = 14
)

// New returns a logger writing JSON lines tagged with service and version,
// plus a closer for the file sink. The closer is never nil.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
		closer = rotator
	}

	logger := zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Str("version", cfg.Version).
		Logger()
	return logger, closer
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
