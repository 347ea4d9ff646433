// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

var defaultLogger = newLogger(DefaultConfig())

// Config holds the logger configuration
type Config struct {
	Level      charmlog.Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      charmlog.WarnLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// Init replaces the default logger using cfg. A nil cfg restores the defaults.
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	defaultLogger = newLogger(cfg)
}

func newLogger(cfg *Config) *charmlog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level,
		Prefix:          "nrr",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a level.
func ParseLevel(s string) (charmlog.Level, error) {
	return charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

// SetOutput redirects the default logger, e.g. away from a full-screen UI.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func With(args ...any) *charmlog.Logger {
	return defaultLogger.With(args...)
}
