package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings are the engine knobs read from the environment.
type Settings struct {
	Iterations int    `env:"BUCKETPLAN_ITERATIONS" envDefault:"500"`
	Horizon    int    `env:"BUCKETPLAN_HORIZON" envDefault:"30"`
	Seed       int64  `env:"BUCKETPLAN_SEED" envDefault:"0"`
	LogLevel   string `env:"BUCKETPLAN_LOG_LEVEL" envDefault:"info"`
	OutputDir  string `env:"BUCKETPLAN_OUTPUT_DIR" envDefault:"."`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.Iterations <= 0 {
		return Settings{}, fmt.Errorf("BUCKETPLAN_ITERATIONS must be positive, got %d", s.Iterations)
	}
	if s.Horizon <= 0 {
		return Settings{}, fmt.Errorf("BUCKETPLAN_HORIZON must be positive, got %d", s.Horizon)
	}
	return s, nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
