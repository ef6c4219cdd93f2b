package game

import (
	"time"

	"conquest/input"
	"conquest/meta"
	"conquest/metrics"
	"conquest/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Machine runs the game: setup, turn order and the phases of a turn. It is not safe
// for concurrent use; callers serialize Update and Handle through the game-state lock.
type Machine struct {
	board   Board
	ledger  *TurnLedger
	rng     *rand.Rand
	logger  zerolog.Logger
	metrics metrics.Collector

	phase        Phase
	numPlayers   int
	colors       []Color // Colours not yet picked
	arbiter      *DiceArbiter
	claimed      int
	setupQuota   int // Troops left to deploy this setup turn
	selected     *Country
	attackTarget *Country
}

type Option func(m *Machine)

func WithRand(rng *rand.Rand) Option {
	return func(m *Machine) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *Machine) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMachine(board Board, options ...Option) *Machine {
	m := &Machine{
		board:   board,
		ledger:  NewTurnLedger(),
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		logger:  log.Logger,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	m.clear()
	m.phase = Phase{Mode: Setup, Setup: AwaitingPlayerCount}
	return m
}

// Reset discards the current game and goes back to choosing the number of players.
func (m *Machine) Reset() {
	m.clear()
	m.transition(Phase{Mode: Setup, Setup: AwaitingPlayerCount})
}

func (m *Machine) clear() {
	for _, c := range m.board.Countries() {
		c.unit = nil
	}
	m.ledger.Clear()
	m.numPlayers = 0
	m.colors = Colors()
	m.arbiter = nil
	m.claimed = 0
	m.setupQuota = 0
	m.selected = nil
	m.attackTarget = nil
}

func (m *Machine) transition(to Phase) {
	from := m.phase
	m.phase = to
	m.metrics.AddTransition(from.String(), to.String())
	m.logger.Info().Stringer("from", from).Stringer("to", to).Msg("phase transition")
}

// Update advances time-driven parts of the game by delta.
func (m *Machine) Update(delta time.Duration) {
	if m.phase.Mode != Setup || m.phase.Setup != RollForOrder {
		return
	}
	if first, done := m.arbiter.Update(delta); done {
		m.enterClaimTerritories(first)
	}
}

// Handle applies a command and reports whether it matched a transition of the
// current phase. Everything else is ignored.
func (m *Machine) Handle(cmd input.Command) bool {
	switch c := cmd.(type) {
	case input.WidgetClick:
		return m.buttonClicked(c.ID)
	case input.TerritoryClick:
		country := m.board.CountryByID(c.CountryID)
		if country == nil {
			return false
		}
		return m.countryClicked(country)
	case input.Deselect:
		return m.nullClicked()
	default:
		return false
	}
}

func (m *Machine) buttonClicked(id int) bool {
	if m.phase.Mode != Setup {
		return false
	}
	switch m.phase.Setup {
	case AwaitingPlayerCount:
		if id < meta.MIN_PLAYERS || id > meta.MAX_PLAYERS {
			return false
		}
		m.numPlayers = id
		m.ledger.Clear()
		m.transition(Phase{Mode: Setup, Setup: AwaitingColors})
		return true
	case AwaitingColors:
		return m.colorPicked(Color(id))
	}
	return false
}

func (m *Machine) colorPicked(color Color) bool {
	colors, ok := utils.Remove(m.colors, color)
	if !ok {
		return false
	}
	m.colors = colors
	m.ledger.Add(newArmy(color))
	m.logger.Info().Msgf("player %d picked %s", m.ledger.Len(), color)
	if m.ledger.Len() == m.numPlayers {
		m.arbiter = NewDiceArbiter(m.numPlayers, m.rng)
		m.transition(Phase{Mode: Setup, Setup: RollForOrder})
	}
	return true
}

func (m *Machine) enterClaimTerritories(first int) {
	if err := m.ledger.Rotate(first); err != nil {
		m.logger.Error().Err(err).Msg("cannot seat the first player")
		return
	}
	m.seat(0)
	m.claimed = 0

	startingTroops := (meta.STARTING_TROOPS_BASE - m.numPlayers) * meta.STARTING_TROOPS_FACTOR
	for _, a := range m.ledger.armies {
		a.setFreeUnits(startingTroops)
	}
	m.logger.Info().Msgf("%s goes first", m.ledger.Current())
	m.transition(Phase{Mode: Setup, Setup: ClaimTerritories})
}

func (m *Machine) enterDeployInitialReinforcements() {
	m.seat(0)
	m.setupQuota = meta.SETUP_DEPLOY_QUOTA
	m.transition(Phase{Mode: Setup, Setup: DeployInitialReinforcements})
}

func (m *Machine) enterPlay() {
	m.setupQuota = 0
	m.seat(m.ledger.Len() - 1)
	m.enterNextTurn()
	m.transition(Phase{Mode: Play, Play: DeployTurnReinforcements})
}

// enterNextTurn passes the turn on and hands the new army its reinforcements.
func (m *Machine) enterNextTurn() {
	m.advance()
	a := m.ledger.Current()
	a.setFreeUnits(Reinforcements(a, m.board))
	m.logger.Info().Msgf("%s receives %d reinforcements", a, a.FreeUnits())
}

func (m *Machine) enterAttack(target *Country) {
	m.attackTarget = target
	m.transition(Phase{Mode: Play, Play: AttackSelected})
	// TODO: resolve the battle once combat rules exist; the game currently stops here.
}

func (m *Machine) advance() {
	if err := m.ledger.Advance(); err != nil {
		m.logger.Error().Err(err).Stringer("phase", m.phase).Msg("cannot advance turn")
	}
}

func (m *Machine) seat(index int) {
	if err := m.ledger.Seat(index); err != nil {
		m.logger.Error().Err(err).Stringer("phase", m.phase).Msg("cannot seat turn")
	}
}

func (m *Machine) countryClicked(c *Country) bool {
	switch m.phase.Mode {
	case Setup:
		return m.countryClickedSetup(c)
	case Play:
		return m.countryClickedPlay(c)
	}
	return false
}

func (m *Machine) countryClickedSetup(c *Country) bool {
	current := m.ledger.Current()
	switch m.phase.Setup {
	case ClaimTerritories:
		if c.unit != nil {
			return false
		}
		addUnit(1, current, c)
		current.setFreeUnits(current.FreeUnits() - 1)
		m.claimed++
		m.advance()
		if m.claimed == m.board.NumCountries() {
			m.enterDeployInitialReinforcements()
		}
		return true
	case DeployInitialReinforcements:
		if c.Owner() != current || current.FreeUnits() == 0 {
			return false
		}
		addTroop(c)
		m.setupQuota--
		if m.ledger.Cursor() == m.numPlayers-1 && current.FreeUnits() == 0 {
			m.enterPlay()
			return true
		}
		if m.setupQuota <= 0 {
			m.advance()
			m.setupQuota = min(meta.SETUP_DEPLOY_QUOTA, m.ledger.Current().FreeUnits())
		}
		return true
	}
	return false
}

func (m *Machine) countryClickedPlay(c *Country) bool {
	current := m.ledger.Current()
	switch m.phase.Play {
	case DeployTurnReinforcements:
		if c.Owner() != current || current.FreeUnits() == 0 {
			return false
		}
		addTroop(c)
		if current.FreeUnits() == 0 {
			m.transition(Phase{Mode: Play, Play: AwaitingAction})
		}
		return true
	case AwaitingAction:
		if c.Owner() == current {
			m.selected = c
			return true
		}
		if m.selected != nil && m.selected.IsAdjacent(c) {
			m.enterAttack(c)
			return true
		}
	}
	return false
}

func (m *Machine) nullClicked() bool {
	if m.phase.Mode == Play && m.phase.Play == AwaitingAction {
		m.selected = nil
		return true
	}
	return false
}

func (m *Machine) Board() Board {
	return m.board
}

func (m *Machine) Phase() Phase {
	return m.phase
}

func (m *Machine) Mode() Mode {
	return m.phase.Mode
}

func (m *Machine) SetupPhase() SetupPhase {
	return m.phase.Setup
}

func (m *Machine) PlayPhase() PlayPhase {
	return m.phase.Play
}

func (m *Machine) NumPlayers() int {
	return m.numPlayers
}

// Turn is the index of the player to act. While colours are being picked it is
// the index of the player picking.
func (m *Machine) Turn() int {
	if m.phase.Mode == Setup && m.phase.Setup == AwaitingColors {
		return m.ledger.Len()
	}
	return m.ledger.Cursor()
}

// CurrentArmy returns the army whose turn it is, or nil before armies exist.
func (m *Machine) CurrentArmy() *Army {
	if m.phase.Mode == Setup && m.phase.Setup <= RollForOrder {
		return nil
	}
	return m.ledger.Current()
}

func (m *Machine) Armies() []*Army {
	return m.ledger.Armies()
}

func (m *Machine) Claimed() int {
	return m.claimed
}

func (m *Machine) SetupQuota() int {
	return m.setupQuota
}

// Dice returns the first-turn dice, or nil before they are rolled.
func (m *Machine) Dice() []int {
	if m.arbiter == nil {
		return nil
	}
	return m.arbiter.Dice()
}

// Contenders reports which armies are still in the first-turn roll.
func (m *Machine) Contenders() []bool {
	if m.arbiter == nil {
		return nil
	}
	return m.arbiter.Contenders()
}

func (m *Machine) Selected() *Country {
	return m.selected
}

func (m *Machine) AttackTarget() *Country {
	return m.attackTarget
}

// Buttons returns the ids of the widgets on offer in the current phase.
func (m *Machine) Buttons() []int {
	if m.phase.Mode != Setup {
		return nil
	}
	switch m.phase.Setup {
	case AwaitingPlayerCount:
		buttons := make([]int, 0, meta.MAX_PLAYERS-meta.MIN_PLAYERS+1)
		for n := meta.MIN_PLAYERS; n <= meta.MAX_PLAYERS; n++ {
			buttons = append(buttons, n)
		}
		return buttons
	case AwaitingColors:
		buttons := make([]int, len(m.colors))
		for i, c := range m.colors {
			buttons[i] = int(c)
		}
		return buttons
	}
	return nil
}
