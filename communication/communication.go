package communication

import "conquest/game"

// Communicator abstracts how a player sees the game and sends input to it.
type Communicator interface {
	// GetView returns the latest frame, and false if none has arrived yet.
	GetView() (game.View, bool)
	// SendMessage sends a wire-format input message.
	SendMessage(message string) error
}
