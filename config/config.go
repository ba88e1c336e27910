// Package config reads the command line tool settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type Config struct {
	DB        string `env:"TREACHERY_DB" envDefault:"treachery.db"`
	Scenario  string `env:"TREACHERY_SCENARIO"`
	Seed      uint64 `env:"TREACHERY_SEED"`
	LogLevel  string `env:"TREACHERY_LOG_LEVEL" envDefault:"info"`
	Pretty    bool   `env:"TREACHERY_PRETTY"`
	ReportCSV string `env:"TREACHERY_REPORT_CSV"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse env: TREACHERY_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
