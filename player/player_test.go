package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"conquest/game"
	"conquest/input"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type mockCommunicator struct {
	mu   sync.Mutex
	view *game.View
	sent []string
}

func (c *mockCommunicator) GetView() (game.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == nil {
		return game.View{}, false
	}
	return *c.view, true
}

func (c *mockCommunicator) SendMessage(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
	return nil
}

func (c *mockCommunicator) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	copy(out, c.sent)
	return out
}

func newTestPlayer(color game.Color, view *game.View, options ...Option) (*Player, *mockCommunicator) {
	comm := &mockCommunicator{view: view}
	options = append([]Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithLogger(zerolog.Nop()),
	}, options...)
	return NewPlayer(color, comm, options...), comm
}

// testCountries is a line of four countries: 1-2-3-4.
func testCountries(owners ...string) []game.CountryView {
	countries := make([]game.CountryView, len(owners))
	for i, owner := range owners {
		id := i + 1
		c := game.CountryView{ID: id, Owner: owner}
		if id > 1 {
			c.Neighbors = append(c.Neighbors, id-1)
		}
		if id < len(owners) {
			c.Neighbors = append(c.Neighbors, id+1)
		}
		countries[i] = c
	}
	return countries
}

func takeAll(p *Player) []input.Command {
	return p.generatePossibleActions()
}

func TestPlayerSetup(t *testing.T) {
	t.Run("host picks the player count", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil, AsHost(4))
		p.LocalView = game.View{Mode: "Setup", SetupPhase: "AwaitingPlayerCount", Buttons: []int{3, 4, 5, 6}}

		cmd, ok := p.TakeTurn()

		require.True(t, ok)
		require.Equal(t, input.WidgetClick{ID: 4}, cmd)
	})

	t.Run("guest waits for the player count", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{Mode: "Setup", SetupPhase: "AwaitingPlayerCount", Buttons: []int{3, 4, 5, 6}}

		_, ok := p.TakeTurn()

		require.False(t, ok)
	})

	t.Run("picks its own colour while offered", func(t *testing.T) {
		p, _ := newTestPlayer(game.Green, nil)
		p.LocalView = game.View{Mode: "Setup", SetupPhase: "AwaitingColors", Buttons: []int{0, 2, 5}}

		require.Equal(t, []input.Command{input.WidgetClick{ID: int(game.Green)}}, takeAll(p))

		p.LocalView.Buttons = []int{0, 5}
		require.Empty(t, takeAll(p), "Colour already taken")
	})

	t.Run("claims only unclaimed countries on its turn", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{
			Mode: "Setup", SetupPhase: "ClaimTerritories", Current: "red",
			Countries: testCountries("blue", "", "red", ""),
		}

		require.ElementsMatch(t, []input.Command{
			input.TerritoryClick{CountryID: 2},
			input.TerritoryClick{CountryID: 4},
		}, takeAll(p))

		p.LocalView.Current = "blue"
		require.Empty(t, takeAll(p), "Not its turn")
	})

	t.Run("deploys on its own countries", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{
			Mode: "Setup", SetupPhase: "DeployInitialReinforcements", Current: "red",
			Countries: testCountries("blue", "red", "red", "blue"),
		}

		require.ElementsMatch(t, []input.Command{
			input.TerritoryClick{CountryID: 2},
			input.TerritoryClick{CountryID: 3},
		}, takeAll(p))

		p.LocalView = game.View{
			Mode: "Play", PlayPhase: "DeployTurnReinforcements", Current: "red",
			Countries: testCountries("red", "blue", "blue", "blue"),
		}
		require.Equal(t, []input.Command{input.TerritoryClick{CountryID: 1}}, takeAll(p))
	})

	t.Run("nothing to do during the roll", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{Mode: "Setup", SetupPhase: "RollForOrder", Dice: []int{3, 4, 5}}

		require.Empty(t, takeAll(p))
	})
}

func TestPlayerAttack(t *testing.T) {
	t.Run("selects a front line country", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{
			Mode: "Play", PlayPhase: "AwaitingAction", Current: "red",
			Countries: testCountries("red", "red", "blue", "blue"),
		}

		require.Equal(t, []input.Command{input.TerritoryClick{CountryID: 2}}, takeAll(p))
	})

	t.Run("attacks from the selection", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{
			Mode: "Play", PlayPhase: "AwaitingAction", Current: "red", Selected: 2,
			Countries: testCountries("red", "red", "blue", "blue"),
		}

		require.Equal(t, []input.Command{input.TerritoryClick{CountryID: 3}}, takeAll(p))
	})

	t.Run("deselects an inland selection", func(t *testing.T) {
		p, _ := newTestPlayer(game.Red, nil)
		p.LocalView = game.View{
			Mode: "Play", PlayPhase: "AwaitingAction", Current: "red", Selected: 1,
			Countries: testCountries("red", "red", "red", "blue"),
		}

		require.Equal(t, []input.Command{input.Deselect{}}, takeAll(p))
	})
}

func TestPlayerRun(t *testing.T) {
	t.Run("sends encoded moves until cancelled", func(t *testing.T) {
		view := &game.View{
			Mode: "Setup", SetupPhase: "ClaimTerritories", Current: "red",
			Countries: testCountries("blue", "blue", "", "blue"),
		}
		p, comm := newTestPlayer(game.Red, view, WithThinkTime(time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool { return len(comm.messages()) >= 2 }, time.Second, time.Millisecond)
		cancel()
		<-done
		for _, m := range comm.messages() {
			require.Equal(t, "203", m)
		}
	})

	t.Run("waits for a first frame", func(t *testing.T) {
		p, comm := newTestPlayer(game.Red, nil, WithThinkTime(time.Millisecond), AsHost(3))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go p.Run(ctx)

		require.Never(t, func() bool { return len(comm.messages()) > 0 }, 30*time.Millisecond, time.Millisecond)
	})
}
