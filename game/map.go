package game

// Country is a territory on the board. It holds at most one unit.
type Country struct {
	ID           int    // Unique identifier, 1 based
	Name         string // Full name of the country
	Abbreviation string
	Continent    *Continent
	neighbors    []*Country
	unit         *Unit
}

func (c *Country) Neighbors() []*Country {
	return c.neighbors
}

// Unit returns the unit occupying the country, or nil if it is unclaimed.
func (c *Country) Unit() *Unit {
	return c.unit
}

// Owner returns the army occupying the country, or nil if it is unclaimed.
func (c *Country) Owner() *Army {
	if c.unit == nil {
		return nil
	}
	return c.unit.army
}

func (c *Country) IsAdjacent(other *Country) bool {
	for _, n := range c.neighbors {
		if n == other {
			return true
		}
	}
	return false
}

type Continent struct {
	Name      string
	Bonus     int // Extra reinforcements for holding every country
	Countries []*Country
}

// OwnedBy reports whether a holds every country of the continent.
func (ct *Continent) OwnedBy(a *Army) bool {
	if a == nil || len(ct.Countries) == 0 {
		return false
	}
	for _, c := range ct.Countries {
		if c.Owner() != a {
			return false
		}
	}
	return true
}

// Board is the static board graph the game runs on.
type Board interface {
	Countries() []*Country
	CountryByID(id int) *Country
	NeighborsOf(c *Country) []*Country
	ContinentBonus(a *Army) int
	NumCountries() int
}

// Map represents the game board, containing all the countries and continents.
type Map struct {
	countries  map[int]*Country
	ordered    []*Country
	continents []*Continent
}

// NewMap creates and returns an empty Map.
func NewMap() *Map {
	return &Map{
		countries: make(map[int]*Country),
	}
}

func (m *Map) AddContinent(name string, bonus int) *Continent {
	ct := &Continent{Name: name, Bonus: bonus}
	m.continents = append(m.continents, ct)
	return ct
}

// AddCountry adds a new country to the map and its continent.
func (m *Map) AddCountry(id int, abbreviation, name string, continent *Continent) *Country {
	c := &Country{
		ID:           id,
		Name:         name,
		Abbreviation: abbreviation,
		Continent:    continent,
	}
	m.countries[id] = c
	m.ordered = append(m.ordered, c)
	if continent != nil {
		continent.Countries = append(continent.Countries, c)
	}
	return c
}

// AddBorder adds a bidirectional border between two countries.
func (m *Map) AddBorder(id1, id2 int) {
	c1, c2 := m.countries[id1], m.countries[id2]
	if c1 == nil || c2 == nil || c1 == c2 {
		return
	}
	if !c1.IsAdjacent(c2) {
		c1.neighbors = append(c1.neighbors, c2)
	}
	if !c2.IsAdjacent(c1) {
		c2.neighbors = append(c2.neighbors, c1)
	}
}

// Countries returns the countries in id order.
func (m *Map) Countries() []*Country {
	return m.ordered
}

func (m *Map) CountryByID(id int) *Country {
	return m.countries[id]
}

func (m *Map) NeighborsOf(c *Country) []*Country {
	if c == nil {
		return nil
	}
	return c.neighbors
}

func (m *Map) Continents() []*Continent {
	return m.continents
}

// ContinentBonus sums the bonuses of every continent fully held by a.
func (m *Map) ContinentBonus(a *Army) int {
	bonus := 0
	for _, ct := range m.continents {
		if ct.OwnedBy(a) {
			bonus += ct.Bonus
		}
	}
	return bonus
}

func (m *Map) NumCountries() int {
	return len(m.ordered)
}

// NewClassicMap builds the standard 42 country, 6 continent board.
func NewClassicMap() *Map {
	m := NewMap()

	continents := make(map[string]*Continent, len(continentData))
	for _, cd := range continentData {
		continents[cd.name] = m.AddContinent(cd.name, cd.bonus)
	}

	ids := make(map[string]int, len(countryData))
	for i, cd := range countryData {
		id := i + 1
		ids[cd.abbreviation] = id
		m.AddCountry(id, cd.abbreviation, cd.name, continents[cd.continent])
	}

	for _, cd := range countryData {
		for _, neighbor := range cd.neighbors {
			m.AddBorder(ids[cd.abbreviation], ids[neighbor])
		}
	}

	return m
}

var continentData = []struct {
	name  string
	bonus int
}{
	{"North America", 5},
	{"South America", 2},
	{"Europe", 5},
	{"Africa", 3},
	{"Asia", 7},
	{"Australia", 2},
}

// countryData lists the countries in id order (first entry has id 1).
var countryData = []struct {
	abbreviation string
	name         string
	continent    string
	neighbors    []string
}{
	{"ALA", "Alaska", "North America", []string{"NWT", "ALB", "KAM"}},
	{"NWT", "Northwest Territory", "North America", []string{"ALA", "ALB", "ONT", "GRL"}},
	{"GRL", "Greenland", "North America", []string{"NWT", "ONT", "QUE", "ICE"}},
	{"ALB", "Alberta", "North America", []string{"ALA", "NWT", "ONT", "WUS"}},
	{"ONT", "Ontario", "North America", []string{"NWT", "ALB", "WUS", "EUS", "QUE", "GRL"}},
	{"QUE", "Quebec", "North America", []string{"ONT", "EUS", "GRL"}},
	{"WUS", "Western United States", "North America", []string{"ALB", "ONT", "EUS", "CAM"}},
	{"EUS", "Eastern United States", "North America", []string{"WUS", "ONT", "QUE", "CAM"}},
	{"CAM", "Central America", "North America", []string{"WUS", "EUS", "VEN"}},
	{"VEN", "Venezuela", "South America", []string{"CAM", "PER", "BRA"}},
	{"PER", "Peru", "South America", []string{"VEN", "BRA", "ARG"}},
	{"BRA", "Brazil", "South America", []string{"VEN", "PER", "ARG", "NAF"}},
	{"ARG", "Argentina", "South America", []string{"PER", "BRA"}},
	{"ICE", "Iceland", "Europe", []string{"GRL", "GBR", "SCA"}},
	{"SCA", "Scandinavia", "Europe", []string{"ICE", "GBR", "NEU", "UKR"}},
	{"GBR", "Great Britain", "Europe", []string{"ICE", "SCA", "NEU", "WEU"}},
	{"NEU", "Northern Europe", "Europe", []string{"GBR", "SCA", "UKR", "SEU", "WEU"}},
	{"UKR", "Ukraine", "Europe", []string{"SCA", "NEU", "SEU", "URA", "AFG", "MEA"}},
	{"WEU", "Western Europe", "Europe", []string{"GBR", "NEU", "SEU", "NAF"}},
	{"SEU", "Southern Europe", "Europe", []string{"WEU", "NEU", "UKR", "MEA", "EGY", "NAF"}},
	{"NAF", "North Africa", "Africa", []string{"BRA", "WEU", "SEU", "EGY", "EAF", "CON"}},
	{"EGY", "Egypt", "Africa", []string{"NAF", "SEU", "MEA", "EAF"}},
	{"EAF", "East Africa", "Africa", []string{"EGY", "NAF", "CON", "SAF", "MAD", "MEA"}},
	{"CON", "Congo", "Africa", []string{"NAF", "EAF", "SAF"}},
	{"SAF", "South Africa", "Africa", []string{"CON", "EAF", "MAD"}},
	{"MAD", "Madagascar", "Africa", []string{"SAF", "EAF"}},
	{"URA", "Ural", "Asia", []string{"UKR", "SIB", "CHI", "AFG"}},
	{"SIB", "Siberia", "Asia", []string{"URA", "YAK", "IRK", "MON", "CHI"}},
	{"YAK", "Yakutsk", "Asia", []string{"SIB", "KAM", "IRK"}},
	{"KAM", "Kamchatka", "Asia", []string{"YAK", "IRK", "MON", "JAP", "ALA"}},
	{"IRK", "Irkutsk", "Asia", []string{"SIB", "YAK", "KAM", "MON"}},
	{"MON", "Mongolia", "Asia", []string{"IRK", "SIB", "KAM", "JAP", "CHI"}},
	{"JAP", "Japan", "Asia", []string{"KAM", "MON"}},
	{"AFG", "Afghanistan", "Asia", []string{"UKR", "URA", "CHI", "IND", "MEA"}},
	{"CHI", "China", "Asia", []string{"MON", "SIB", "URA", "AFG", "IND", "SIA"}},
	{"MEA", "Middle East", "Asia", []string{"UKR", "AFG", "IND", "EGY", "EAF", "SEU"}},
	{"IND", "India", "Asia", []string{"MEA", "AFG", "CHI", "SIA"}},
	{"SIA", "Siam", "Asia", []string{"IND", "CHI", "INO"}},
	{"INO", "Indonesia", "Australia", []string{"SIA", "NGU", "WAU"}},
	{"NGU", "New Guinea", "Australia", []string{"INO", "EAU", "WAU"}},
	{"WAU", "Western Australia", "Australia", []string{"INO", "NGU", "EAU"}},
	{"EAU", "Eastern Australia", "Australia", []string{"NGU", "WAU"}},
}
