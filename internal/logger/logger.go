package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string
	File   string
	Prefix string
	Output io.Writer
}

// New builds a logger that writes to stderr and, when File is set, to a
// rotating log file as well. The returned closer releases the file.
func New(cfg Config) (*log.Logger, io.Closer, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	writer := output
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		fileWriter := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(output, fileWriter)
		closer = fileWriter
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          cfg.Prefix,
	})
	return logger, closer, nil
}

func ParseLevel(value string) (log.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(value))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
