package game

import "fmt"

// Color identifies an army. The value doubles as the id of its colour button.
type Color int

const (
	Red Color = iota
	Blue
	Green
	Yellow
	Purple
	Black
	numColors
)

// Colors returns every colour in button order.
func Colors() []Color {
	colors := make([]Color, 0, numColors)
	for c := Red; c < numColors; c++ {
		colors = append(colors, c)
	}
	return colors
}

func (c Color) Valid() bool {
	return c >= Red && c < numColors
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Purple:
		return "purple"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// Army is one player: its units on the board and its pool of troops waiting to be
// deployed.
type Army struct {
	color     Color
	units     []*Unit
	freeUnits int
}

func newArmy(color Color) *Army {
	return &Army{color: color}
}

func (a *Army) Color() Color {
	return a.color
}

// Units returns a copy of the army's units.
func (a *Army) Units() []*Unit {
	units := make([]*Unit, len(a.units))
	copy(units, a.units)
	return units
}

func (a *Army) NumUnits() int {
	return len(a.units)
}

// Troops counts the troops of every unit of the army.
func (a *Army) Troops() int {
	troops := 0
	for _, u := range a.units {
		troops += u.troops
	}
	return troops
}

func (a *Army) FreeUnits() int {
	return a.freeUnits
}

func (a *Army) setFreeUnits(n int) {
	a.freeUnits = max(0, n)
}

func (a *Army) String() string {
	return a.color.String()
}

// Unit is an army's stack of troops on one country.
type Unit struct {
	troops  int
	army    *Army
	country *Country
}

func (u *Unit) Troops() int {
	return u.troops
}

func (u *Unit) Army() *Army {
	return u.army
}

func (u *Unit) Country() *Country {
	return u.country
}

// addUnit is the only way units are created: the army, the country and the unit
// must all point at each other.
func addUnit(troops int, a *Army, c *Country) *Unit {
	u := &Unit{troops: troops, army: a, country: c}
	a.units = append(a.units, u)
	c.unit = u
	return u
}

// addTroop moves one troop from the owning army's pool onto the country.
func addTroop(c *Country) {
	u := c.unit
	u.troops++
	u.army.setFreeUnits(u.army.freeUnits - 1)
}
