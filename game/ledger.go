package game

import (
	"errors"
	"fmt"

	"conquest/utils"
)

// ErrInvalidState is returned when the turn cursor cannot be defined for the
// current number of armies.
var ErrInvalidState = errors.New("invalid turn state")

// TurnLedger holds the armies in turn order and the index of the army whose turn it is.
type TurnLedger struct {
	armies []*Army
	cursor int
}

func NewTurnLedger() *TurnLedger {
	return &TurnLedger{}
}

func (l *TurnLedger) Add(a *Army) {
	l.armies = append(l.armies, a)
}

func (l *TurnLedger) Len() int {
	return len(l.armies)
}

// Armies returns a copy of the armies in turn order.
func (l *TurnLedger) Armies() []*Army {
	armies := make([]*Army, len(l.armies))
	copy(armies, l.armies)
	return armies
}

func (l *TurnLedger) Cursor() int {
	return l.cursor
}

// Current returns the army whose turn it is, or nil if there are no armies.
func (l *TurnLedger) Current() *Army {
	if l.cursor < 0 || l.cursor >= len(l.armies) {
		return nil
	}
	return l.armies[l.cursor]
}

// Advance passes the turn to the next army, wrapping around.
func (l *TurnLedger) Advance() error {
	if len(l.armies) == 0 {
		return fmt.Errorf("advance with no armies: %w", ErrInvalidState)
	}
	l.cursor = (l.cursor + 1) % len(l.armies)
	return nil
}

// Rotate shifts the armies so the one at offset goes first. The cursor keeps
// pointing at the same army.
func (l *TurnLedger) Rotate(offset int) error {
	n := len(l.armies)
	if offset < 0 || offset >= n {
		return fmt.Errorf("rotate by %d with %d armies: %w", offset, n, ErrInvalidState)
	}
	utils.Rotate(l.armies, offset)
	l.cursor = (l.cursor - offset + n) % n
	return nil
}

// Seat moves the cursor to index.
func (l *TurnLedger) Seat(index int) error {
	if index < 0 || index >= len(l.armies) {
		return fmt.Errorf("seat %d with %d armies: %w", index, len(l.armies), ErrInvalidState)
	}
	l.cursor = index
	return nil
}

// Clear drops every army.
func (l *TurnLedger) Clear() {
	l.armies = nil
	l.cursor = 0
}
