package engine

import (
	"context"
	"sync"
	"time"

	"conquest/game"
	"conquest/locks"
	"conquest/meta"
	"conquest/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine drives the game at a fixed rate. Each step holds the game lock as the
// update owner, so a step never interleaves with input.
type Engine struct {
	game       Game
	locks      *locks.Registry
	updateRate time.Duration
	logger     zerolog.Logger
	metrics    metrics.Collector

	mu    sync.Mutex
	sinks []FrameSink

	frames  int
	elapsed time.Duration
	fps     float64
}

type Option func(e *Engine)

func WithUpdateRate(rate time.Duration) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.updateRate = rate
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

func WithSinks(sinks ...FrameSink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

func LocalEngine(g Game, registry *locks.Registry, options ...Option) *Engine {
	e := &Engine{
		game:       g,
		locks:      registry,
		updateRate: meta.UPDATE_RATE,
		logger:     log.Logger,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// AddSink registers a sink for every later frame.
func (e *Engine) AddSink(sink FrameSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sink)
}

// Run ticks the game until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.updateRate)
	defer ticker.Stop()

	e.logger.Info().Msgf("engine running every %s", e.updateRate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("engine stopped")
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			e.Step(delta)
		}
	}
}

// Step advances the game by delta and publishes the resulting frame.
func (e *Engine) Step(delta time.Duration) game.View {
	frame := e.update(delta)
	e.metrics.AddTick()

	e.mu.Lock()
	e.countFrame(delta)
	sinks := make([]FrameSink, len(e.sinks))
	copy(sinks, e.sinks)
	e.mu.Unlock()

	for _, sink := range sinks {
		sink.Publish(frame)
	}
	return frame
}

// update runs the game update and builds the frame while holding the game lock.
func (e *Engine) update(delta time.Duration) game.View {
	owner := locks.OwnerID(meta.UpdateOwnerID)

	start := time.Now()
	e.locks.Acquire(locks.GameState, owner)
	defer e.locks.Release(locks.GameState, owner)
	e.metrics.AddLockWait(time.Since(start))

	e.game.Update(delta)
	return e.game.View()
}

// countFrame refreshes the frame rate once per second of game time.
func (e *Engine) countFrame(delta time.Duration) {
	e.frames++
	e.elapsed += delta
	if e.elapsed < time.Second {
		return
	}
	e.fps = float64(e.frames) / e.elapsed.Seconds()
	e.logger.Debug().Msgf("%.1f fps", e.fps)
	e.frames = 0
	e.elapsed = 0
}

// FPS returns the frame rate measured over the last full second.
func (e *Engine) FPS() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fps
}
