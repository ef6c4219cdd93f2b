package game

import (
	"time"

	"conquest/meta"

	"golang.org/x/exp/rand"
)

// DiceArbiter decides which army goes first. Every contender rolls until its own
// timer runs out; after a short pause the highest rolls stay in and the rest are
// out for good. Ties roll again among themselves.
type DiceArbiter struct {
	rng              *rand.Rand
	dice             []int
	timers           []time.Duration
	contenders       []bool
	switchTimer      time.Duration
	displayCountdown time.Duration
	rounds           int
	winner           int
}

func NewDiceArbiter(players int, rng *rand.Rand) *DiceArbiter {
	d := &DiceArbiter{
		rng:        rng,
		dice:       make([]int, players),
		timers:     make([]time.Duration, players),
		contenders: make([]bool, players),
		rounds:     1,
		winner:     -1,
	}
	for i := range d.contenders {
		d.contenders[i] = true
		d.armTimer(i)
	}
	return d
}

func (d *DiceArbiter) armTimer(i int) {
	spread := int(meta.DICE_TIMER_SPREAD / time.Millisecond)
	d.timers[i] = meta.DICE_TIMER_MIN + time.Duration(d.rng.Intn(spread))*time.Millisecond
}

// Update advances the arbitration by delta. Once a winner is known it returns the
// winner's position and true on every call.
func (d *DiceArbiter) Update(delta time.Duration) (int, bool) {
	if d.winner >= 0 {
		return d.winner, true
	}
	if d.displayCountdown > 0 {
		d.displayCountdown -= delta
		if d.displayCountdown <= 0 {
			d.settle()
		}
	} else {
		d.roll(delta)
	}
	return d.winner, d.winner >= 0
}

func (d *DiceArbiter) roll(delta time.Duration) {
	for i := range d.timers {
		d.timers[i] -= delta
	}
	d.switchTimer -= delta
	if d.switchTimer > 0 {
		return
	}
	d.switchTimer += meta.DICE_SWITCH_INTERVAL

	done := true
	for i := range d.dice {
		// A contender always shows at least one roll before its die stops.
		if d.contenders[i] && (d.timers[i] > 0 || d.dice[i] == 0) {
			d.dice[i] = d.rng.Intn(6) + 1
			done = false
		}
	}
	if done {
		d.displayCountdown = meta.DICE_DISPLAY_PAUSE
	}
}

// settle drops every contender below the highest roll. A single survivor wins;
// otherwise the survivors roll again.
func (d *DiceArbiter) settle() {
	best := 0
	for i, die := range d.dice {
		if d.contenders[i] && die > best {
			best = die
		}
	}

	first := -1
	for i, die := range d.dice {
		if !d.contenders[i] || die != best {
			d.contenders[i] = false
			continue
		}
		d.armTimer(i)
		if first == -1 {
			first = i
		} else {
			first = -2
		}
	}

	if first >= 0 {
		d.winner = first
		return
	}
	d.rounds++
}

// Dice returns the value shown on each army's die.
func (d *DiceArbiter) Dice() []int {
	dice := make([]int, len(d.dice))
	copy(dice, d.dice)
	return dice
}

// Contenders reports which armies can still win.
func (d *DiceArbiter) Contenders() []bool {
	contenders := make([]bool, len(d.contenders))
	copy(contenders, d.contenders)
	return contenders
}

func (d *DiceArbiter) Rounds() int {
	return d.rounds
}

// Winner returns the winning position, or -1 while undecided.
func (d *DiceArbiter) Winner() int {
	return d.winner
}
