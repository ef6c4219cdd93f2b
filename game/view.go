package game

// View is a snapshot of everything a renderer or remote client needs to draw one frame.
type View struct {
	Mode         string        `json:"mode"`
	SetupPhase   string        `json:"setupPhase,omitempty"`
	PlayPhase    string        `json:"playPhase,omitempty"`
	NumPlayers   int           `json:"numPlayers"`
	Turn         int           `json:"turn"`
	Current      string        `json:"current,omitempty"`
	Armies       []ArmyView    `json:"armies"`
	Countries    []CountryView `json:"countries"`
	Dice         []int         `json:"dice,omitempty"`
	Contenders   []bool        `json:"contenders,omitempty"`
	Buttons      []int         `json:"buttons,omitempty"`
	SetupQuota   int           `json:"setupQuota"`
	Selected     int           `json:"selected,omitempty"`
	AttackTarget int           `json:"attackTarget,omitempty"`
}

type ArmyView struct {
	Color     string `json:"color"`
	ColorID   int    `json:"colorId"`
	FreeUnits int    `json:"freeUnits"`
	Units     int    `json:"units"`
	Troops    int    `json:"troops"`
}

type CountryView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Troops    int    `json:"troops"`
	Neighbors []int  `json:"neighbors"`
}

// View builds the frame for the current state. Country ids are 1-based, so a zero
// Selected or AttackTarget means none.
func (m *Machine) View() View {
	v := View{
		Mode:       m.phase.Mode.String(),
		NumPlayers: m.numPlayers,
		Turn:       m.Turn(),
		Dice:       m.Dice(),
		Contenders: m.Contenders(),
		Buttons:    m.Buttons(),
		SetupQuota: m.setupQuota,
	}
	if m.phase.Mode == Setup {
		v.SetupPhase = m.phase.Setup.String()
	} else {
		v.PlayPhase = m.phase.Play.String()
	}
	if current := m.CurrentArmy(); current != nil {
		v.Current = current.String()
	}
	if m.selected != nil {
		v.Selected = m.selected.ID
	}
	if m.attackTarget != nil {
		v.AttackTarget = m.attackTarget.ID
	}

	v.Armies = make([]ArmyView, 0, m.ledger.Len())
	for _, a := range m.ledger.armies {
		v.Armies = append(v.Armies, ArmyView{
			Color:     a.String(),
			ColorID:   int(a.color),
			FreeUnits: a.freeUnits,
			Units:     a.NumUnits(),
			Troops:    a.Troops(),
		})
	}

	countries := m.board.Countries()
	v.Countries = make([]CountryView, 0, len(countries))
	for _, c := range countries {
		cv := CountryView{ID: c.ID, Name: c.Name}
		if c.unit != nil {
			cv.Owner = c.unit.army.String()
			cv.Troops = c.unit.troops
		}
		for _, n := range m.board.NeighborsOf(c) {
			cv.Neighbors = append(cv.Neighbors, n.ID)
		}
		v.Countries = append(v.Countries, cv)
	}
	return v
}
