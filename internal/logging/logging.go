// Package logging builds the process logger. The terminal viewer owns
// stdout, so logs go to a rotating file.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log destination and format.
type Options struct {
	// File is rotated by size. Empty or "-" writes to Output instead.
	File string
	// Level is any logrus level name.
	Level string
	// Format is "text" or "json".
	Format string
	// Output is used when File is empty. Nil discards.
	Output io.Writer

	MaxSizeMB  int
	MaxBackups int
}

// New returns a configured logger and a closer for its file.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	l := logrus.New()
	l.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "" && opts.File != "-":
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    max(opts.MaxSizeMB, 10),
			MaxBackups: max(opts.MaxBackups, 3),
			Compress:   true,
		}
		l.SetOutput(rotator)
		closer = rotator
	case opts.Output != nil:
		l.SetOutput(opts.Output)
	default:
		l.SetOutput(io.Discard)
	}
	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
