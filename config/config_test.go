package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		require.Equal(t, ":8080", cfg.Addr)
		require.Equal(t, 32*time.Millisecond, cfg.UpdateRate)
		require.Zero(t, cfg.Seed)
		require.Equal(t, "info", cfg.LogLevel)
		require.False(t, cfg.Dev)
		require.Zero(t, cfg.Bots)
		require.Equal(t, 250*time.Millisecond, cfg.BotThink)
		require.Equal(t, 10.0, cfg.InputRate)
		require.Equal(t, 5, cfg.InputBurst)
		require.Empty(t, cfg.MetricsDir)
		require.Empty(t, cfg.VisualHook)
		require.False(t, cfg.Experiment)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CONQUEST_ADDR", ":9000")
		t.Setenv("CONQUEST_UPDATE_RATE", "16ms")
		t.Setenv("CONQUEST_SEED", "42")
		t.Setenv("CONQUEST_BOTS", "3")
		t.Setenv("CONQUEST_DEV", "true")
		t.Setenv("CONQUEST_METRICS_DIR", "/tmp/metrics")

		cfg, err := Load()

		require.NoError(t, err)
		require.Equal(t, ":9000", cfg.Addr)
		require.Equal(t, 16*time.Millisecond, cfg.UpdateRate)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, 3, cfg.Bots)
		require.True(t, cfg.Dev)
		require.Equal(t, "/tmp/metrics", cfg.MetricsDir)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("CONQUEST_UPDATE_RATE", "soon")

		_, err := Load()

		require.ErrorContains(t, err, "parse env:")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("CONQUEST_UPDATE_RATE", "0s")
		t.Setenv("CONQUEST_BOTS", "7")

		_, err := Load()

		require.ErrorContains(t, err, "update rate")
		require.ErrorContains(t, err, "bots")
	})

	t.Run("experiment needs a metrics dir", func(t *testing.T) {
		t.Setenv("CONQUEST_EXPERIMENT", "true")

		_, err := Load()
		require.ErrorContains(t, err, "metrics dir")

		t.Setenv("CONQUEST_METRICS_DIR", t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.Experiment)
	})
}
