// Package logging builds the slog loggers used by transformctl.
package logging

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
)

const (
	EnvLogLevel     = "TRANSFORM_LOG_LEVEL"
	EnvLogTimestamp = "TRANSFORM_LOG_TIMESTAMP"
	EnvLogNoColor   = "TRANSFORM_LOG_NOCOLOR"
)

// LevelOff is above every level slog emits.
const LevelOff = slog.Level(16)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config selects the handler options.
type Config struct {
	Level     slog.Level
	Timestamp bool
	NoColor   bool
}

// DefaultConfig returns the configuration for profile.
func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: slog.LevelDebug, NoColor: true}
	default:
		return Config{Level: slog.LevelInfo, Timestamp: true}
	}
}

// ApplyEnv overrides cfg from the TRANSFORM_LOG_* variables read through
// getenv. Unparseable values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}

	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}

	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// New returns a tint logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &tint.Options{
		Level:      cfg.Level,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
	}

	if !cfg.Timestamp {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}

			return a
		}
	}

	return slog.New(tint.NewHandler(w, opts))
}

// ParseLevel accepts the slog level names plus "off".
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return slog.LevelInfo, false
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "off", "none", "disabled":
		return LevelOff, true
	default:
		return slog.LevelInfo, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}

	return v, true
}
