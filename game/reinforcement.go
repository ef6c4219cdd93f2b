package game

import "conquest/meta"

// Reinforcements is the number of troops a receives at the start of its turn: one
// per three units, at least MIN_REINFORCEMENTS, plus the bonus of every continent
// it holds.
func Reinforcements(a *Army, board Board) int {
	return max(meta.MIN_REINFORCEMENTS, a.NumUnits()/3) + board.ContinentBonus(a)
}
