package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"conquest/communication/server"
	"conquest/config"
	"conquest/engine"
	"conquest/experiments"
	"conquest/gamemaster"
	"conquest/logger"
	"conquest/metrics"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Experiment {
		if _, err := experiments.RunContentionExperiment(ctx, cfg.MetricsDir); err != nil {
			log.Error().Err(err).Msg("experiment failed")
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	collector := metrics.NewDummyCollector()
	if cfg.MetricsDir != "" {
		collector = metrics.NewCollector()
	}

	gm := gamemaster.NewGameMaster(
		gamemaster.WithSeed(cfg.Seed),
		gamemaster.WithUpdateRate(cfg.UpdateRate),
		gamemaster.WithBots(cfg.Bots, cfg.BotThink),
		gamemaster.WithMetrics(collector),
		gamemaster.WithLogger(logger.Component("game")),
	)

	srv := server.NewServerCommunicator(gm.Dispatcher,
		server.WithInputRate(cfg.InputRate, cfg.InputBurst),
		server.WithLogger(logger.Component("server")),
	)
	gm.AddSink(srv)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if cfg.VisualHook != "" {
		hook := engine.NewHookSink(cfg.VisualHook, logger.Component("hook"))
		gm.AddSink(hook)
		wg.Add(1)
		go func() {
			defer wg.Done()
			hook.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		gm.Run(ctx)
	}()

	err := srv.Start(ctx, cfg.Addr)
	cancel()
	wg.Wait()

	if cfg.MetricsDir != "" {
		if werr := gm.WriteMetrics(cfg.MetricsDir); werr != nil {
			log.Error().Err(werr).Msg("cannot write metrics")
		}
	}
	return err
}
