package gamemaster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"conquest/engine"
	"conquest/game"
	"conquest/input"
	"conquest/locks"
	"conquest/meta"
	"conquest/metrics"
	"conquest/player"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// GameMaster owns one game session: the board, the machine, the lock that guards
// it, the dispatcher that feeds it input and the engine that ticks it. Nothing
// here is global; several sessions can run side by side.
type GameMaster struct {
	ID         string
	Board      *game.Map
	Machine    *game.Machine
	Locks      *locks.Registry
	Dispatcher *input.Dispatcher
	Engine     *engine.Engine
	Metrics    metrics.Collector

	logger     zerolog.Logger
	seed       uint64
	updateRate time.Duration
	numBots    int
	botThink   time.Duration
	bots       []*player.Player
}

type Option func(gm *GameMaster)

// WithSeed fixes the random source of the game. 0 seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(gm *GameMaster) {
		gm.seed = seed
	}
}

func WithUpdateRate(rate time.Duration) Option {
	return func(gm *GameMaster) {
		gm.updateRate = rate
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(gm *GameMaster) {
		gm.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(gm *GameMaster) {
		if collector != nil {
			gm.Metrics = collector
		}
	}
}

// WithBots seats n computer players. The first of them hosts: it picks the
// player count, at least MIN_PLAYERS, and humans take the remaining colours.
func WithBots(n int, think time.Duration) Option {
	return func(gm *GameMaster) {
		gm.numBots = n
		gm.botThink = think
	}
}

// NewGameMaster initializes a new session on the classic board.
func NewGameMaster(options ...Option) *GameMaster {
	gm := &GameMaster{
		ID:         uuid.NewString(),
		Board:      game.NewClassicMap(),
		Metrics:    metrics.NewDummyCollector(),
		logger:     log.Logger,
		updateRate: meta.UPDATE_RATE,
	}
	for _, option := range options {
		option(gm)
	}
	gm.logger = gm.logger.With().Str("session", gm.ID).Logger()

	seed := gm.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	gm.Locks = locks.NewRegistry(locks.WithLogger(gm.logger))
	gm.Machine = game.NewMachine(gm.Board,
		game.WithRand(rng),
		game.WithLogger(gm.logger),
		game.WithMetrics(gm.Metrics),
	)
	gm.Dispatcher = input.NewDispatcher(gm.Locks, gm.Machine,
		input.WithLogger(gm.logger),
		input.WithMetrics(gm.Metrics),
	)
	gm.Engine = engine.LocalEngine(gm.Machine, gm.Locks,
		engine.WithUpdateRate(gm.updateRate),
		engine.WithLogger(gm.logger),
		engine.WithMetrics(gm.Metrics),
	)
	gm.seatBots(rng)

	gm.logger.Info().Uint64("seed", seed).Int("bots", gm.numBots).Msg("session created")
	return gm
}

// AddSink registers a receiver for every frame of the session.
func (gm *GameMaster) AddSink(sink engine.FrameSink) {
	gm.Engine.AddSink(sink)
}

// Bots returns the computer players of the session.
func (gm *GameMaster) Bots() []*player.Player {
	return gm.bots
}

// Reset starts a new game in the same session. It waits for any command or tick
// in progress.
func (gm *GameMaster) Reset() {
	owner := locks.OwnerID(meta.ResetOwnerID)
	gm.Locks.Acquire(locks.GameState, owner)
	defer gm.Locks.Release(locks.GameState, owner)
	gm.Machine.Reset()
}

// Run ticks the game and runs the bots until ctx is cancelled.
func (gm *GameMaster) Run(ctx context.Context) {
	gm.Metrics.Start()

	var wg sync.WaitGroup
	for _, bot := range gm.bots {
		wg.Add(1)
		go func(c player.Controller) {
			defer wg.Done()
			c.Run(ctx)
		}(bot)
	}

	gm.Engine.Run(ctx)
	wg.Wait()
	gm.logger.Info().Msg("session stopped")
}

// WriteMetrics dumps the session metrics as CSV under dir/<session id>.
func (gm *GameMaster) WriteMetrics(dir string) error {
	w, err := metrics.NewWriter(dir, gm.ID)
	if err != nil {
		return err
	}
	session := gm.Metrics.Complete()
	if err := w.WriteSession(session); err != nil {
		return fmt.Errorf("write session metrics: %w", err)
	}
	if err := w.WriteTransitions(session.Transitions); err != nil {
		return fmt.Errorf("write transitions: %w", err)
	}
	gm.logger.Info().Str("dir", w.Dir()).Msg("metrics written")
	return nil
}
