package communication

import (
	"sync"

	"conquest/game"
	"conquest/input"
)

// Messenger accepts wire-format messages from a source.
type Messenger interface {
	Message(message string, src input.Source)
}

// Local is an in-process Communicator. Register it as a frame sink of the engine
// to keep its view current.
type Local struct {
	messenger Messenger
	source    input.Source

	mu   sync.RWMutex
	view *game.View
}

func NewLocal(messenger Messenger, source input.Source) *Local {
	return &Local{
		messenger: messenger,
		source:    source,
	}
}

func (l *Local) Publish(frame game.View) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = &frame
}

func (l *Local) GetView() (game.View, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.view == nil {
		return game.View{}, false
	}
	return *l.view, true
}

// SendMessage hands message to the dispatcher on the caller's goroutine; it
// returns once the game has applied or ignored it.
func (l *Local) SendMessage(message string) error {
	l.messenger.Message(message, l.source)
	return nil
}
