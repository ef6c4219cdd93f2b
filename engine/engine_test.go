package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"conquest/game"
	"conquest/locks"
	"conquest/meta"
	"conquest/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// mockGame records every update and the lock owner seen while updating.
type mockGame struct {
	registry *locks.Registry

	mu     sync.Mutex
	deltas []time.Duration
	owners []locks.OwnerID
	mode   string
	panics bool
}

func (g *mockGame) Update(delta time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.panics {
		panic("update failed")
	}
	g.deltas = append(g.deltas, delta)
	g.owners = append(g.owners, g.registry.Peek(locks.GameState))
}

func (g *mockGame) View() game.View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return game.View{Mode: g.mode, Turn: len(g.deltas)}
}

func (g *mockGame) updates() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.deltas)
}

func newTestEngine(options ...Option) (*Engine, *mockGame, *locks.Registry) {
	registry := locks.NewRegistry(locks.WithLogger(zerolog.Nop()))
	g := &mockGame{registry: registry, mode: "Setup"}
	options = append([]Option{WithLogger(zerolog.Nop())}, options...)
	return LocalEngine(g, registry, options...), g, registry
}

func TestEngineStep(t *testing.T) {
	t.Run("update holds the lock as the update owner", func(t *testing.T) {
		e, g, registry := newTestEngine()

		e.Step(32 * time.Millisecond)

		require.Equal(t, []locks.OwnerID{meta.UpdateOwnerID}, g.owners)
		require.Equal(t, []time.Duration{32 * time.Millisecond}, g.deltas)
		require.Equal(t, locks.Free, registry.Peek(locks.GameState), "Lock should be released after the step")
	})

	t.Run("a panicking update releases the lock", func(t *testing.T) {
		e, g, registry := newTestEngine()
		g.panics = true

		require.Panics(t, func() { e.Step(time.Millisecond) })

		require.Equal(t, locks.Free, registry.Peek(locks.GameState), "Input must not wait on a failed tick")
	})

	t.Run("frames reach every sink", func(t *testing.T) {
		var got []game.View
		sink := FrameSinkFunc(func(frame game.View) { got = append(got, frame) })
		e, _, _ := newTestEngine(WithSinks(sink))
		var late []game.View
		e.AddSink(FrameSinkFunc(func(frame game.View) { late = append(late, frame) }))

		frame := e.Step(time.Millisecond)
		e.Step(time.Millisecond)

		require.Len(t, got, 2)
		require.Equal(t, frame, got[0])
		require.Equal(t, 2, got[1].Turn)
		require.Len(t, late, 2)
	})

	t.Run("sinks run outside the lock", func(t *testing.T) {
		var registry *locks.Registry
		var owner locks.OwnerID
		sink := FrameSinkFunc(func(frame game.View) { owner = registry.Peek(locks.GameState) })
		e, _, r := newTestEngine(WithSinks(sink))
		registry = r

		e.Step(time.Millisecond)

		require.Equal(t, locks.Free, owner)
	})

	t.Run("step waits for input holding the lock", func(t *testing.T) {
		e, g, registry := newTestEngine()
		inputOwner := locks.OwnerID(meta.LocalSource + meta.InputIDOffset)
		registry.Acquire(locks.GameState, inputOwner)

		done := make(chan struct{})
		go func() {
			e.Step(time.Millisecond)
			close(done)
		}()

		require.Never(t, func() bool { return g.updates() > 0 }, 50*time.Millisecond, 5*time.Millisecond,
			"Update should not run while input holds the lock")
		registry.Release(locks.GameState, inputOwner)
		require.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)
		require.Equal(t, 1, g.updates())
	})

	t.Run("ticks are counted", func(t *testing.T) {
		collector := metrics.NewCollector()
		e, _, _ := newTestEngine(WithMetrics(collector))

		for i := 0; i < 5; i++ {
			e.Step(time.Millisecond)
		}

		require.Equal(t, 5, collector.Complete().Ticks)
	})

	t.Run("fps is measured per second of updates", func(t *testing.T) {
		e, _, _ := newTestEngine()
		require.Zero(t, e.FPS())

		for i := 0; i < 40; i++ {
			e.Step(25 * time.Millisecond)
		}

		require.InDelta(t, 40.0, e.FPS(), 0.01)
	})
}

func TestEngineRun(t *testing.T) {
	t.Run("ticks until cancelled", func(t *testing.T) {
		e, g, registry := newTestEngine(WithUpdateRate(time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())

		stopped := make(chan struct{})
		go func() {
			e.Run(ctx)
			close(stopped)
		}()

		require.Eventually(t, func() bool { return g.updates() >= 3 }, time.Second, time.Millisecond)
		cancel()
		require.Eventually(t, func() bool {
			select {
			case <-stopped:
				return true
			default:
				return false
			}
		}, time.Second, time.Millisecond)
		require.Equal(t, locks.Free, registry.Peek(locks.GameState))
		g.mu.Lock()
		for _, d := range g.deltas {
			require.Positive(t, d, "Deltas should be measured wall-clock time")
		}
		g.mu.Unlock()
	})
}

func TestHookSink(t *testing.T) {
	t.Run("only changed frames are pushed", func(t *testing.T) {
		var mu sync.Mutex
		var received []game.View
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var frame game.View
			if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			mu.Lock()
			received = append(received, frame)
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		hook := NewHookSink(server.URL, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go hook.Run(ctx)

		hook.Publish(game.View{Mode: "Setup", Turn: 0})
		hook.Publish(game.View{Mode: "Setup", Turn: 0})
		hook.Publish(game.View{Mode: "Setup", Turn: 1})

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) == 2
		}, time.Second, 5*time.Millisecond)
		require.Never(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) > 2
		}, 50*time.Millisecond, 5*time.Millisecond)
		mu.Lock()
		require.Equal(t, 1, received[1].Turn)
		mu.Unlock()
	})

	t.Run("failing hook does not stop pushing", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			mu.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		hook := NewHookSink(server.URL, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go hook.Run(ctx)

		hook.Publish(game.View{Turn: 1})
		hook.Publish(game.View{Turn: 2})

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return calls == 2
		}, time.Second, 5*time.Millisecond)
	})
}
