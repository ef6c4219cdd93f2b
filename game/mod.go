package game

import "fmt"

// Mode is the top level phase of the game.
type Mode int

const (
	Setup Mode = iota
	Play
)

func (m Mode) String() string {
	switch m {
	case Setup:
		return "Setup"
	case Play:
		return "Play"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// SetupPhase is the part of setup in progress. SetupDone is used once the game has
// left setup.
type SetupPhase int

const (
	SetupDone SetupPhase = iota
	AwaitingPlayerCount
	AwaitingColors
	RollForOrder
	ClaimTerritories
	DeployInitialReinforcements
)

func (p SetupPhase) String() string {
	switch p {
	case SetupDone:
		return "SetupDone"
	case AwaitingPlayerCount:
		return "AwaitingPlayerCount"
	case AwaitingColors:
		return "AwaitingColors"
	case RollForOrder:
		return "RollForOrder"
	case ClaimTerritories:
		return "ClaimTerritories"
	case DeployInitialReinforcements:
		return "DeployInitialReinforcements"
	default:
		return fmt.Sprintf("SetupPhase(%d)", int(p))
	}
}

// PlayPhase is the part of a turn in progress. PlayIdle is used during setup.
type PlayPhase int

const (
	PlayIdle PlayPhase = iota
	DeployTurnReinforcements
	AwaitingAction
	AttackSelected
)

func (p PlayPhase) String() string {
	switch p {
	case PlayIdle:
		return "PlayIdle"
	case DeployTurnReinforcements:
		return "DeployTurnReinforcements"
	case AwaitingAction:
		return "AwaitingAction"
	case AttackSelected:
		return "AttackSelected"
	default:
		return fmt.Sprintf("PlayPhase(%d)", int(p))
	}
}

// Phase is the full two level phase.
type Phase struct {
	Mode  Mode
	Setup SetupPhase
	Play  PlayPhase
}

func (p Phase) String() string {
	if p.Mode == Setup {
		return p.Mode.String() + "/" + p.Setup.String()
	}
	return p.Mode.String() + "/" + p.Play.String()
}
