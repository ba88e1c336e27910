package game

import (
	"fmt"
	"slices"

	"treachery/utils"
)

// Battalion is a count of normal and special forces.
type Battalion struct {
	Normal  int `json:"normal" yaml:"normal"`
	Special int `json:"special" yaml:"special"`
}

func (b Battalion) Total() int {
	return b.Normal + b.Special
}

func (b Battalion) Add(o Battalion) Battalion {
	return Battalion{Normal: b.Normal + o.Normal, Special: b.Special + o.Special}
}

func (b Battalion) String() string {
	if b.Special == 0 {
		return fmt.Sprintf("%d", b.Normal)
	}
	return fmt.Sprintf("%d+%d", b.Normal, b.Special)
}

type Player struct {
	Faction Faction
	// Seat is the sector of the player's marker at the edge of the board.
	Seat      int
	Resources int
	Hand      []CardID
	Traitors  []LeaderID
	// FaceDancers are the hidden identities Purple may reveal after a battle.
	FaceDancers []LeaderID
	Ally        Faction
	Forces      map[LocationID]Battalion
	Reserves    Battalion
	Killed      Battalion
	// KilledInBattle counts every force ever lost in battle, for the messiah.
	KilledInBattle int
}

func NewPlayer(f Faction) *Player {
	return &Player{Faction: f, Forces: make(map[LocationID]Battalion)}
}

func (p *Player) String() string {
	return p.Faction.String()
}

func (p *Player) ForcesIn(l LocationID) Battalion {
	return p.Forces[l]
}

func (p *Player) ForcesInTerritory(t *Territory) Battalion {
	var total Battalion
	for _, l := range t.Locations {
		total = total.Add(p.Forces[l])
	}
	return total
}

func (p *Player) Occupies(t *Territory) bool {
	return p.ForcesInTerritory(t).Total() > 0
}

// OccupiedLocations returns the locations holding forces of p in ascending order.
func (p *Player) OccupiedLocations() []LocationID {
	locs := make([]LocationID, 0, len(p.Forces))
	for l, b := range p.Forces {
		if b.Total() > 0 {
			locs = append(locs, l)
		}
	}
	slices.Sort(locs)
	return locs
}

// OnMap counts all forces of p on the board.
func (p *Player) OnMap() Battalion {
	var total Battalion
	for _, b := range p.Forces {
		total = total.Add(b)
	}
	return total
}

// TotalForces is constant over a game: forces only move between the map, reserves and the killed pile.
func (p *Player) TotalForces() int {
	return p.OnMap().Total() + p.Reserves.Total() + p.Killed.Total()
}

func (p *Player) AddForces(l LocationID, b Battalion) {
	p.setForces(l, p.Forces[l].Add(b))
}

func (p *Player) setForces(l LocationID, b Battalion) {
	if b.Normal < 0 || b.Special < 0 {
		panic(fmt.Sprintf("%s forces in location %d would become %s", p.Faction, l, b))
	}
	if b.Total() == 0 {
		delete(p.Forces, l)
		return
	}
	p.Forces[l] = b
}

// takeFromTerritory removes up to the requested forces from t, location by location, and returns what was removed.
func (p *Player) takeFromTerritory(t *Territory, want Battalion) Battalion {
	var taken Battalion
	for _, l := range t.Locations {
		here := p.Forces[l]
		n := min(want.Normal-taken.Normal, here.Normal)
		s := min(want.Special-taken.Special, here.Special)
		taken.Normal += n
		taken.Special += s
		p.setForces(l, Battalion{Normal: here.Normal - n, Special: here.Special - s})
	}
	return taken
}

// KillForces moves forces of t to the killed pile and returns how many were killed.
func (p *Player) KillForces(t *Territory, b Battalion) Battalion {
	killed := p.takeFromTerritory(t, b)
	p.Killed = p.Killed.Add(killed)
	p.KilledInBattle += killed.Total()
	return killed
}

func (p *Player) KillAllForces(t *Territory) Battalion {
	return p.KillForces(t, p.ForcesInTerritory(t))
}

// ForcesToReserves sends forces of t back to reserves and returns how many were moved.
func (p *Player) ForcesToReserves(t *Territory, b Battalion) Battalion {
	moved := p.takeFromTerritory(t, b)
	p.Reserves = p.Reserves.Add(moved)
	return moved
}

// MoveForces moves forces out of t into location to.
func (p *Player) MoveForces(t *Territory, to LocationID, b Battalion) Battalion {
	moved := p.takeFromTerritory(t, b)
	p.AddForces(to, moved)
	return moved
}

// ShipFromReserves places reserve forces at l.
func (p *Player) ShipFromReserves(l LocationID, b Battalion) error {
	if b.Normal > p.Reserves.Normal || b.Special > p.Reserves.Special {
		return fmt.Errorf("cannot ship %s forces: only %s in reserve", b, p.Reserves)
	}
	p.Reserves = Battalion{Normal: p.Reserves.Normal - b.Normal, Special: p.Reserves.Special - b.Special}
	p.AddForces(l, b)
	return nil
}

func (p *Player) HasCard(id CardID) bool {
	return id != 0 && utils.Contains(p.Hand, id)
}

func (p *Player) RemoveCard(id CardID) bool {
	var ok bool
	p.Hand, ok = utils.Remove(p.Hand, id)
	return ok
}

func (p *Player) HasTraitor(id LeaderID) bool {
	return id != 0 && utils.Contains(p.Traitors, id)
}

func (p *Player) HasFaceDancer(id LeaderID) bool {
	return id != 0 && utils.Contains(p.FaceDancers, id)
}

func (p *Player) Copy() *Player {
	c := *p
	c.Hand = slices.Clone(p.Hand)
	c.Traitors = slices.Clone(p.Traitors)
	c.FaceDancers = slices.Clone(p.FaceDancers)
	c.Forces = make(map[LocationID]Battalion, len(p.Forces))
	for l, b := range p.Forces {
		c.Forces[l] = b
	}
	return &c
}
