// Package logging builds the zap loggers used across the module.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// shortTimeEncoder encodes time in HH:MM:SS format for console output
func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// New creates a logger writing to stderr.
func New(format, level string) (*zap.Logger, error) {
	return NewWithOutput(format, level, zapcore.Lock(os.Stderr))
}

// NewWithOutput creates a logger writing to output.
// format is "json" or "console", level any zap level name.
func NewWithOutput(format, level string, output zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	econf := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	var enc zapcore.Encoder
	switch format {
	case FormatJSON, "":
		enc = zapcore.NewJSONEncoder(econf)
	case FormatConsole:
		econf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		econf.EncodeTime = shortTimeEncoder
		enc = zapcore.NewConsoleEncoder(econf)
	default:
		return nil, fmt.Errorf("log format %q: want %q or %q", format, FormatJSON, FormatConsole)
	}

	return zap.New(zapcore.NewCore(enc, output, lvl)), nil
}
