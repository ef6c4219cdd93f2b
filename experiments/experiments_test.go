package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunExperiment(t *testing.T) {
	t.Run("runs every config and stores the runs", func(t *testing.T) {
		configs := []RunConfig{
			{ID: 1, Bots: 3, Think: time.Millisecond, UpdateRate: 2 * time.Millisecond, Duration: 100 * time.Millisecond, Seed: 1},
			{ID: 2, Bots: 6, Think: time.Millisecond, UpdateRate: 2 * time.Millisecond, Duration: 100 * time.Millisecond, Seed: 2},
		}
		dir := t.TempDir()

		records, err := runExperiment(context.Background(), "test", dir, configs)

		require.NoError(t, err)
		require.Len(t, records, 2)
		for i, r := range records {
			require.Equal(t, configs[i].ID, r.ID)
			require.Positive(t, r.Session.Ticks)
			require.Positive(t, r.Session.Commands, "Bots should have played")
			require.NotEmpty(t, r.Session.Transitions)
		}
		_, err = os.Stat(filepath.Join(dir, "test", "runs.csv"))
		require.NoError(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := runExperiment(context.Background(), "test", t.TempDir(), []RunConfig{{ID: 1, Bots: 3}})

		require.Error(t, err)
	})

	t.Run("cancelled experiment stops", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runExperiment(ctx, "test", t.TempDir(), []RunConfig{{ID: 1, Bots: 3, Duration: time.Second}})

		require.ErrorIs(t, err, context.Canceled)
	})
}
