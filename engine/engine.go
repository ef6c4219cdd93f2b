package engine

import (
	"time"

	"conquest/game"
)

// Game is the state the engine advances on every tick.
type Game interface {
	Update(delta time.Duration)
	View() game.View
}

// FrameSink receives every frame after the game lock is released.
type FrameSink interface {
	Publish(frame game.View)
}

// FrameSinkFunc adapts a function to a FrameSink.
type FrameSinkFunc func(frame game.View)

func (f FrameSinkFunc) Publish(frame game.View) {
	f(frame)
}
