package experiments

import (
	"context"
	"fmt"
	"time"

	"conquest/gamemaster"
	"conquest/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RunConfig is one session of a contention experiment: bots hammering the game
// lock against the update tick.
type RunConfig struct {
	ID         int
	Bots       int
	Think      time.Duration
	UpdateRate time.Duration
	Duration   time.Duration
	Seed       uint64
}

var contentionConfigs = []RunConfig{
	{ID: 1, Bots: 3, Think: 10 * time.Millisecond, UpdateRate: 32 * time.Millisecond, Duration: 5 * time.Second},
	{ID: 2, Bots: 6, Think: 10 * time.Millisecond, UpdateRate: 32 * time.Millisecond, Duration: 5 * time.Second},
	{ID: 3, Bots: 6, Think: time.Millisecond, UpdateRate: 32 * time.Millisecond, Duration: 5 * time.Second},
	{ID: 4, Bots: 6, Think: time.Millisecond, UpdateRate: 8 * time.Millisecond, Duration: 5 * time.Second},
}

// RunContentionExperiment runs the standard contention sessions and stores them
// under dir/contention.
func RunContentionExperiment(ctx context.Context, dir string) ([]metrics.RunRecord, error) {
	return runExperiment(ctx, "contention", dir, contentionConfigs)
}

func runExperiment(ctx context.Context, name, dir string, configs []RunConfig) ([]metrics.RunRecord, error) {
	log.Info().Msgf("starting %s experiment...", name)

	records := make([]metrics.RunRecord, 0, len(configs))
	for i, config := range configs {
		log.Info().Msgf("starting run %d of %d with %+v...", i+1, len(configs), config)

		session, err := runSession(ctx, config)
		if err != nil {
			return records, err
		}
		records = append(records, metrics.RunRecord{
			ID:         config.ID,
			Bots:       config.Bots,
			Think:      config.Think,
			UpdateRate: config.UpdateRate,
			Session:    session,
		})

		log.Info().Msgf("completed run %d of %d: %d ticks, %d commands, %s lock wait",
			i+1, len(configs), session.Ticks, session.Commands, session.LockWait)
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteRuns(records); err != nil {
		return records, fmt.Errorf("failed to write runs: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored runs")
	return records, nil
}

// runSession plays one session for the configured duration.
func runSession(ctx context.Context, config RunConfig) (metrics.SessionMetric, error) {
	if config.Duration <= 0 {
		return metrics.SessionMetric{}, fmt.Errorf("run %d: duration must be positive", config.ID)
	}
	collector := metrics.NewCollector()
	gm := gamemaster.NewGameMaster(
		gamemaster.WithSeed(config.Seed),
		gamemaster.WithBots(config.Bots, config.Think),
		gamemaster.WithUpdateRate(config.UpdateRate),
		gamemaster.WithMetrics(collector),
		gamemaster.WithLogger(log.Logger.Level(zerolog.WarnLevel)),
	)

	runCtx, cancel := context.WithTimeout(ctx, config.Duration)
	defer cancel()
	gm.Run(runCtx)

	if err := ctx.Err(); err != nil {
		return metrics.SessionMetric{}, err
	}
	return collector.Complete(), nil
}
