package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv()
	require.NoError(t, err)
	require.Equal(t, "treachery.db", cfg.DB)
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
	require.Zero(t, cfg.Seed)
	require.False(t, cfg.Pretty)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TREACHERY_DB", "/tmp/games.db")
	t.Setenv("TREACHERY_SCENARIO", "scenarios/plain_win.yaml")
	t.Setenv("TREACHERY_SEED", "42")
	t.Setenv("TREACHERY_LOG_LEVEL", "debug")
	t.Setenv("TREACHERY_PRETTY", "true")
	t.Setenv("TREACHERY_REPORT_CSV", "out")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	require.Equal(t, Config{
		DB:        "/tmp/games.db",
		Scenario:  "scenarios/plain_win.yaml",
		Seed:      42,
		LogLevel:  "debug",
		Pretty:    true,
		ReportCSV: "out",
	}, cfg)
	require.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("TREACHERY_SEED", "not-a-number")
	_, err := ParseEnv()
	require.ErrorContains(t, err, "parse env:")

	t.Setenv("TREACHERY_SEED", "1")
	t.Setenv("TREACHERY_LOG_LEVEL", "loud")
	_, err = ParseEnv()
	require.ErrorContains(t, err, "TREACHERY_LOG_LEVEL")
}
