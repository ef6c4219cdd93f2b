package input

import (
	"time"

	"conquest/locks"
	"conquest/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Handler applies a command to the game. It reports whether the command changed
// anything; commands that match no transition are ignored.
type Handler interface {
	Handle(cmd Command) bool
}

type Dispatcher struct {
	locks   *locks.Registry
	handler Handler
	metrics metrics.Collector
	logger  zerolog.Logger
}

type Option func(d *Dispatcher)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(d *Dispatcher) {
		if collector != nil {
			d.metrics = collector
		}
	}
}

func NewDispatcher(registry *locks.Registry, handler Handler, options ...Option) *Dispatcher {
	d := &Dispatcher{
		locks:   registry,
		handler: handler,
		metrics: metrics.NewDummyCollector(),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Message decodes a wire message from src and dispatches it. Messages that cannot
// be decoded are dropped.
func (d *Dispatcher) Message(message string, src Source) {
	cmd, err := Decode(message)
	if err != nil {
		d.metrics.AddDecodeFailure()
		d.logger.Debug().Err(err).Int("source", int(src)).Msg("dropping undecodable message")
		return
	}
	d.Dispatch(cmd, src)
}

// Dispatch applies cmd while holding the game-state lock as src's owner id.
func (d *Dispatcher) Dispatch(cmd Command, src Source) {
	if !src.Valid() {
		d.logger.Warn().Int("source", int(src)).Stringer("command", cmd).Msg("dropping command from invalid source")
		return
	}
	owner := src.Owner()

	start := time.Now()
	d.locks.Acquire(locks.GameState, owner)
	defer d.locks.Release(locks.GameState, owner)
	d.metrics.AddLockWait(time.Since(start))

	handled := d.handler.Handle(cmd)
	d.metrics.AddCommand(handled)
	if !handled {
		d.logger.Debug().Int("source", int(src)).Stringer("command", cmd).Msg("ignored input")
	}
}
