// internal/logging/logger.go

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// New returns a logger writing to stderr. format is "console" or "json".
func New(level, format string) *log.Logger {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter is New with an explicit output
func NewWithWriter(level, format string, out io.Writer) *log.Logger {
	logger := &log.Logger{
		Level:      parseLevel(level),
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	if strings.EqualFold(format, "json") {
		logger.Writer = &log.IOWriter{Writer: out}
	} else {
		logger.Writer = &log.ConsoleWriter{
			Writer:         out,
			ColorOutput:    false,
			QuoteString:    true,
			EndWithMessage: false,
		}
	}

	return logger
}

// Nop discards everything
func Nop() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
