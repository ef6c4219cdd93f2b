// meta/meta.go
package meta

import "time"

// UPDATE_RATE is the period of the update tick (roughly 30 updates per second).
const UPDATE_RATE = 32 * time.Millisecond

// UpdateOwnerID is the lock owner used by the update tick.
const UpdateOwnerID = 1

// ResetOwnerID is the lock owner used when a session starts a new game. Like
// UpdateOwnerID it lies below InputIDOffset, so no input source can hold it.
const ResetOwnerID = 2

// InputIDOffset is added to an input source to obtain its lock owner, so that no
// source can collide with UpdateOwnerID.
const InputIDOffset = 0x100

// LocalSource is the input source of the local UI.
const LocalSource = 0

// RemoteSourceBase is the first input source handed to remote connections.
const RemoteSourceBase = 1

// BotSourceBase is the first input source of in-process computer players. Remote
// sources are handed out below it, so the two never share a lock owner.
const BotSourceBase = 0x10000

// MIN_PLAYERS and MAX_PLAYERS bound the player count chosen at setup.
const MIN_PLAYERS = 3
const MAX_PLAYERS = 6

// STARTING_TROOPS_BASE gives each army (STARTING_TROOPS_BASE - players) * STARTING_TROOPS_FACTOR troops.
const STARTING_TROOPS_BASE = 10
const STARTING_TROOPS_FACTOR = 5

// SETUP_DEPLOY_QUOTA is the number of troops deployed per setup turn.
const SETUP_DEPLOY_QUOTA = 3

// MIN_REINFORCEMENTS is the floor of per-turn reinforcements before continent bonuses.
const MIN_REINFORCEMENTS = 3

// Dice arbitration timing.
const (
	DICE_SWITCH_INTERVAL = 83 * time.Millisecond // about 12 samples per second
	DICE_DISPLAY_PAUSE   = 1000 * time.Millisecond
	DICE_TIMER_MIN       = 1500 * time.Millisecond
	DICE_TIMER_SPREAD    = 2000 * time.Millisecond
)
