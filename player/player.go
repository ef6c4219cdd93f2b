package player

import (
	"context"
	"time"

	"conquest/communication"
	"conquest/game"
	"conquest/input"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Controller runs a player until ctx is cancelled.
type Controller interface {
	Run(ctx context.Context)
}

// Player is a computer player. It plays the army of its colour, choosing at random
// among the moves the current phase allows. A host player also picks the number of
// players.
type Player struct {
	Color        game.Color
	Communicator communication.Communicator
	LocalView    game.View
	numPlayers   int
	think        time.Duration
	rng          *rand.Rand
	logger       zerolog.Logger
}

type Option func(p *Player)

// AsHost makes the player choose numPlayers when the game asks for a player count.
func AsHost(numPlayers int) Option {
	return func(p *Player) {
		p.numPlayers = numPlayers
	}
}

func WithThinkTime(think time.Duration) Option {
	return func(p *Player) {
		if think > 0 {
			p.think = think
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(p *Player) {
		if rng != nil {
			p.rng = rng
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// NewPlayer creates a new Player instance.
func NewPlayer(color game.Color, comm communication.Communicator, options ...Option) *Player {
	p := &Player{
		Color:        color,
		Communicator: comm,
		think:        250 * time.Millisecond,
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		logger:       log.Logger,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run plays one move per think interval until ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(p.think)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.SyncGameState() {
				continue
			}
			cmd, ok := p.TakeTurn()
			if !ok {
				continue
			}
			p.send(cmd)
		}
	}
}

func (p *Player) send(cmd input.Command) {
	message, err := input.Encode(cmd)
	if err != nil {
		p.logger.Error().Err(err).Stringer("command", cmd).Msg("cannot encode move")
		return
	}
	if err := p.Communicator.SendMessage(message); err != nil {
		p.logger.Warn().Err(err).Stringer("color", p.Color).Msg("cannot send move")
		return
	}
	p.logger.Debug().Stringer("color", p.Color).Stringer("command", cmd).Msg("player moved")
}

// SyncGameState updates the player's local view, reporting whether there is one.
func (p *Player) SyncGameState() bool {
	view, ok := p.Communicator.GetView()
	if ok {
		p.LocalView = view
	}
	return ok
}

// TakeTurn decides on a move, if the player has one to make.
func (p *Player) TakeTurn() (input.Command, bool) {
	possible := p.generatePossibleActions()
	if len(possible) == 0 {
		return nil, false
	}
	return possible[p.rng.Intn(len(possible))], true
}

// generatePossibleActions lists the moves open to the player in the current view.
func (p *Player) generatePossibleActions() []input.Command {
	v := p.LocalView
	me := p.Color.String()
	var actions []input.Command

	switch v.SetupPhase {
	case game.AwaitingPlayerCount.String():
		if p.numPlayers > 0 {
			actions = append(actions, input.WidgetClick{ID: p.numPlayers})
		}
		return actions
	case game.AwaitingColors.String():
		for _, id := range v.Buttons {
			if id == int(p.Color) {
				actions = append(actions, input.WidgetClick{ID: id})
			}
		}
		return actions
	}

	if v.Current != me {
		return nil
	}

	switch {
	case v.SetupPhase == game.ClaimTerritories.String():
		for _, c := range v.Countries {
			if c.Owner == "" {
				actions = append(actions, input.TerritoryClick{CountryID: c.ID})
			}
		}
	case v.SetupPhase == game.DeployInitialReinforcements.String(),
		v.PlayPhase == game.DeployTurnReinforcements.String():
		for _, c := range v.Countries {
			if c.Owner == me {
				actions = append(actions, input.TerritoryClick{CountryID: c.ID})
			}
		}
	case v.PlayPhase == game.AwaitingAction.String():
		actions = p.generateAttacks()
	}
	return actions
}

// generateAttacks selects a country on the front line, then attacks from it.
func (p *Player) generateAttacks() []input.Command {
	v := p.LocalView
	me := p.Color.String()
	owners := make(map[int]string, len(v.Countries))
	for _, c := range v.Countries {
		owners[c.ID] = c.Owner
	}

	var actions []input.Command
	for _, c := range v.Countries {
		if c.Owner != me {
			continue
		}
		for _, n := range c.Neighbors {
			if owners[n] == me {
				continue
			}
			if v.Selected == c.ID {
				actions = append(actions, input.TerritoryClick{CountryID: n})
			} else if v.Selected == 0 {
				actions = append(actions, input.TerritoryClick{CountryID: c.ID})
				break
			}
		}
	}
	if len(actions) == 0 && v.Selected != 0 {
		actions = append(actions, input.Deselect{})
	}
	return actions
}
