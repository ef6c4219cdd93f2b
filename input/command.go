// Package input turns clicks from any source into typed commands and hands them to
// the game while holding the game-state lock.
package input

import (
	"fmt"

	"conquest/locks"
	"conquest/meta"
)

// Command is one of WidgetClick, TerritoryClick or Deselect.
type Command interface {
	fmt.Stringer
	command()
}

// WidgetClick presses the on-screen button with the given id.
type WidgetClick struct {
	ID int
}

// TerritoryClick selects the country with the given id.
type TerritoryClick struct {
	CountryID int
}

// Deselect is a click that hit neither a widget nor a territory.
type Deselect struct{}

func (WidgetClick) command()    {}
func (TerritoryClick) command() {}
func (Deselect) command()       {}

func (c WidgetClick) String() string    { return fmt.Sprintf("widget(%d)", c.ID) }
func (c TerritoryClick) String() string { return fmt.Sprintf("territory(%d)", c.CountryID) }
func (Deselect) String() string         { return "deselect" }

// Source identifies where a command came from: the local UI, a remote connection
// or an AI player.
type Source int

// Owner is the lock owner used while commands from this source are applied.
func (s Source) Owner() locks.OwnerID {
	return locks.OwnerID(int(s) + meta.InputIDOffset)
}

func (s Source) Valid() bool {
	return s >= 0
}
