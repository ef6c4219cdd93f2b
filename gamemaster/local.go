package gamemaster

import (
	"conquest/communication"
	"conquest/game"
	"conquest/input"
	"conquest/meta"
	"conquest/player"

	"golang.org/x/exp/rand"
)

// Local returns an in-process communicator for src that follows every frame.
func (gm *GameMaster) Local(src input.Source) *communication.Local {
	l := communication.NewLocal(gm.Dispatcher, src)
	gm.AddSink(l)
	return l
}

func (gm *GameMaster) seatBots(rng *rand.Rand) {
	numPlayers := max(gm.numBots, meta.MIN_PLAYERS)
	colors := game.Colors()
	for i := 0; i < gm.numBots && i < len(colors); i++ {
		options := []player.Option{
			player.WithThinkTime(gm.botThink),
			player.WithRand(rand.New(rand.NewSource(rng.Uint64()))),
			player.WithLogger(gm.logger),
		}
		if i == 0 {
			options = append(options, player.AsHost(numPlayers))
		}
		comm := gm.Local(input.Source(meta.BotSourceBase + i))
		gm.bots = append(gm.bots, player.NewPlayer(colors[i], comm, options...))
	}
}
