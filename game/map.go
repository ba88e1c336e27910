package game

import (
	"fmt"
	"slices"
)

type TerritoryID int
type LocationID int

// NoSector marks locations that the storm never reaches.
const NoSector = -1

const SECTORS = 18

// SEAT_SPACING is the number of sectors between consecutive player markers.
const SEAT_SPACING = 3

type StrongholdAdvantage int

const (
	NoAdvantage                StrongholdAdvantage = 0
	FreeResourcesForBattles    StrongholdAdvantage = 10
	CollectResourcesForUseless StrongholdAdvantage = 20
	CountDefensesAsAntidote    StrongholdAdvantage = 30
	WinTies                    StrongholdAdvantage = 40
	CollectResourcesForDial    StrongholdAdvantage = 50
)

var strongholdAdvantageNames = map[StrongholdAdvantage]string{
	NoAdvantage:                "None",
	FreeResourcesForBattles:    "FreeResourcesForBattles",
	CollectResourcesForUseless: "CollectResourcesForUseless",
	CountDefensesAsAntidote:    "CountDefensesAsAntidote",
	WinTies:                    "WinTies",
	CollectResourcesForDial:    "CollectResourcesForDial",
}

func (a StrongholdAdvantage) String() string {
	if s, ok := strongholdAdvantageNames[a]; ok {
		return s
	}
	return fmt.Sprintf("StrongholdAdvantage(%d)", int(a))
}

func (a StrongholdAdvantage) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *StrongholdAdvantage) UnmarshalText(text []byte) error {
	v, err := parseName(strongholdAdvantageNames, string(text))
	if err != nil {
		return fmt.Errorf("stronghold advantage: %w", err)
	}
	*a = v
	return nil
}

type Territory struct {
	ID           TerritoryID
	Name         string
	Stronghold   bool
	HiddenMobile bool                // the hidden mobile stronghold lends its owner another stronghold's advantage
	Advantage    StrongholdAdvantage // advantage held by the owner when fighting here
	Homeworld    bool
	Native       Faction // faction at home on a homeworld
	Locations    []LocationID
}

type Location struct {
	ID          LocationID
	Name        string
	Territory   TerritoryID
	Sector      int
	AdjacentIDs []LocationID
}

// Map is the static board. It is never mutated once a game starts.
type Map struct {
	Territories map[TerritoryID]*Territory
	Locations   map[LocationID]*Location
	PolarSink   LocationID
}

func NewMap() *Map {
	return &Map{
		Territories: make(map[TerritoryID]*Territory),
		Locations:   make(map[LocationID]*Location),
	}
}

func (m *Map) AddTerritory(t *Territory) {
	m.Territories[t.ID] = t
}

// AddLocation adds a location and registers it with its territory.
func (m *Map) AddLocation(l *Location) {
	m.Locations[l.ID] = l
	t := m.Territories[l.Territory]
	if !slices.Contains(t.Locations, l.ID) {
		t.Locations = append(t.Locations, l.ID)
	}
}

// AddBorder adds a bidirectional border between two locations.
func (m *Map) AddBorder(id1, id2 LocationID) {
	if !slices.Contains(m.Locations[id1].AdjacentIDs, id2) {
		m.Locations[id1].AdjacentIDs = append(m.Locations[id1].AdjacentIDs, id2)
	}
	if !slices.Contains(m.Locations[id2].AdjacentIDs, id1) {
		m.Locations[id2].AdjacentIDs = append(m.Locations[id2].AdjacentIDs, id1)
	}
}

func (m *Map) AreAdjacent(id1, id2 LocationID) bool {
	return slices.Contains(m.Locations[id1].AdjacentIDs, id2)
}

// TerritoryOf returns the territory a location belongs to.
func (m *Map) TerritoryOf(id LocationID) *Territory {
	return m.Territories[m.Locations[id].Territory]
}

// LocationIDs returns all location ids in ascending order.
func (m *Map) LocationIDs() []LocationID {
	ids := make([]LocationID, 0, len(m.Locations))
	for id := range m.Locations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TerritoryIDs returns all territory ids in ascending order.
func (m *Map) TerritoryIDs() []TerritoryID {
	ids := make([]TerritoryID, 0, len(m.Territories))
	for id := range m.Territories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Strongholds returns the stronghold territories in ascending id order.
func (m *Map) Strongholds() []*Territory {
	var out []*Territory
	for _, id := range m.TerritoryIDs() {
		if t := m.Territories[id]; t.Stronghold {
			out = append(out, t)
		}
	}
	return out
}

// StrongholdWith returns the stronghold granting advantage a, or nil.
func (m *Map) StrongholdWith(a StrongholdAdvantage) *Territory {
	for _, t := range m.Strongholds() {
		if t.Advantage == a {
			return t
		}
	}
	return nil
}

func (m *Map) HiddenMobileStronghold() *Territory {
	for _, t := range m.Strongholds() {
		if t.HiddenMobile {
			return t
		}
	}
	return nil
}

// LocationByName looks a location up by name, returning zero if unknown.
func (m *Map) LocationByName(name string) LocationID {
	for _, id := range m.LocationIDs() {
		if m.Locations[id].Name == name {
			return id
		}
	}
	return 0
}

// TerritoryByName looks a territory up by name, returning zero if unknown.
func (m *Map) TerritoryByName(name string) TerritoryID {
	for _, id := range m.TerritoryIDs() {
		if m.Territories[id].Name == name {
			return id
		}
	}
	return 0
}

type territoryDef struct {
	name       string
	stronghold bool
	hidden     bool
	advantage  StrongholdAdvantage
	native     Faction
	sectors    []int
}

var territoryDefs = []territoryDef{
	{name: "Arrakeen", stronghold: true, advantage: FreeResourcesForBattles, sectors: []int{9}},
	{name: "Carthag", stronghold: true, advantage: CountDefensesAsAntidote, sectors: []int{10}},
	{name: "Sietch Tabr", stronghold: true, advantage: CollectResourcesForDial, sectors: []int{13}},
	{name: "Tuek's Sietch", stronghold: true, advantage: CollectResourcesForUseless, sectors: []int{4}},
	{name: "Habbanya Sietch", stronghold: true, advantage: WinTies, sectors: []int{16}},
	{name: "Hidden Mobile Stronghold", stronghold: true, hidden: true, sectors: []int{NoSector}},
	{name: "Imperial Basin", sectors: []int{8, 9, 10}},
	{name: "Old Gap", sectors: []int{8, 9, 10}},
	{name: "Broken Land", sectors: []int{10, 11}},
	{name: "Rock Outcroppings", sectors: []int{12, 13}},
	{name: "The Great Flat", sectors: []int{14}},
	{name: "Habbanya Erg", sectors: []int{15, 16}},
	{name: "Cielago North", sectors: []int{0, 1, 2}},
	{name: "South Mesa", sectors: []int{3, 4, 5}},
	{name: "Red Chasm", sectors: []int{6}},
	{name: "Shield Wall", sectors: []int{7, 8}},
	{name: "Polar Sink", sectors: []int{NoSector}},
	{name: "Caladan", native: Green, sectors: []int{NoSector}},
	{name: "Giedi Prime", native: Black, sectors: []int{NoSector}},
}

// borders between locations, by location name.
var borderDefs = [][2]string{
	{"Arrakeen", "Imperial Basin (9)"},
	{"Arrakeen", "Old Gap (9)"},
	{"Carthag", "Imperial Basin (10)"},
	{"Carthag", "Broken Land (10)"},
	{"Sietch Tabr", "Rock Outcroppings (13)"},
	{"Tuek's Sietch", "South Mesa (4)"},
	{"Habbanya Sietch", "Habbanya Erg (16)"},
	{"Imperial Basin (8)", "Shield Wall (8)"},
	{"Imperial Basin (8)", "Imperial Basin (9)"},
	{"Imperial Basin (9)", "Imperial Basin (10)"},
	{"Imperial Basin (10)", "Broken Land (10)"},
	{"Old Gap (8)", "Old Gap (9)"},
	{"Old Gap (9)", "Old Gap (10)"},
	{"Old Gap (10)", "Broken Land (10)"},
	{"Broken Land (10)", "Broken Land (11)"},
	{"Broken Land (11)", "Rock Outcroppings (12)"},
	{"Rock Outcroppings (12)", "Rock Outcroppings (13)"},
	{"Rock Outcroppings (13)", "The Great Flat"},
	{"The Great Flat", "Habbanya Erg (15)"},
	{"Habbanya Erg (15)", "Habbanya Erg (16)"},
	{"Cielago North (0)", "Cielago North (1)"},
	{"Cielago North (1)", "Cielago North (2)"},
	{"Cielago North (2)", "South Mesa (3)"},
	{"South Mesa (3)", "South Mesa (4)"},
	{"South Mesa (4)", "South Mesa (5)"},
	{"South Mesa (5)", "Red Chasm"},
	{"Red Chasm", "Shield Wall (7)"},
	{"Shield Wall (7)", "Shield Wall (8)"},
	{"Shield Wall (8)", "Old Gap (8)"},
	{"Polar Sink", "Imperial Basin (9)"},
	{"Polar Sink", "The Great Flat"},
	{"Polar Sink", "Cielago North (1)"},
}

// CreateMap builds the standard board.
func CreateMap() *Map {
	m := NewMap()
	nextLocation := LocationID(1)
	for i, def := range territoryDefs {
		t := &Territory{
			ID:           TerritoryID(i + 1),
			Name:         def.name,
			Stronghold:   def.stronghold,
			HiddenMobile: def.hidden,
			Advantage:    def.advantage,
			Homeworld:    def.native != None,
			Native:       def.native,
		}
		m.AddTerritory(t)
		for _, sector := range def.sectors {
			name := def.name
			if len(def.sectors) > 1 {
				name = fmt.Sprintf("%s (%d)", def.name, sector)
			}
			m.AddLocation(&Location{ID: nextLocation, Name: name, Territory: t.ID, Sector: sector})
			nextLocation++
		}
	}
	for _, b := range borderDefs {
		from, to := m.LocationByName(b[0]), m.LocationByName(b[1])
		if from == 0 || to == 0 {
			panic(fmt.Sprintf("unknown border %s - %s", b[0], b[1]))
		}
		m.AddBorder(from, to)
	}
	m.PolarSink = m.LocationByName("Polar Sink")
	return m
}
