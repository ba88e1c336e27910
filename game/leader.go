package game

import "fmt"

type Skill int

const (
	NoSkill           Skill = 0
	Bureaucrat        Skill = 10
	Smuggler          Skill = 40
	Graduate          Skill = 50
	Warmaster         Skill = 70
	Adept             Skill = 80
	Swordmaster       Skill = 90
	KillerMedic       Skill = 100
	MasterOfAssassins Skill = 110
	Sandmaster        Skill = 120
	Thinker           Skill = 130
	Banker            Skill = 140
)

var skillNames = map[Skill]string{
	NoSkill:           "None",
	Bureaucrat:        "Bureaucrat",
	Smuggler:          "Smuggler",
	Graduate:          "Graduate",
	Warmaster:         "Warmaster",
	Adept:             "Adept",
	Swordmaster:       "Swordmaster",
	KillerMedic:       "KillerMedic",
	MasterOfAssassins: "MasterOfAssassins",
	Sandmaster:        "Sandmaster",
	Thinker:           "Thinker",
	Banker:            "Banker",
}

func (s Skill) String() string {
	if n, ok := skillNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Skill(%d)", int(s))
}

func (s Skill) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Skill) UnmarshalText(text []byte) error {
	v, err := parseName(skillNames, string(text))
	if err != nil {
		return fmt.Errorf("skill: %w", err)
	}
	*s = v
	return nil
}

type LeaderKind int

const (
	NormalLeader LeaderKind = iota
	MessiahLeader
	AuditorLeader
)

type StatusKind int

const (
	Free StatusKind = iota
	Captured
	Dead
)

// LeaderStatus is Free, Captured by one faction, or Dead. By is only meaningful when Captured.
type LeaderStatus struct {
	Kind StatusKind `json:"kind"`
	By   Faction    `json:"by,omitempty"`
}

func (s LeaderStatus) String() string {
	switch s.Kind {
	case Free:
		return "free"
	case Captured:
		return fmt.Sprintf("captured by %s", s.By)
	default:
		return "dead"
	}
}

type LeaderID int

type Leader struct {
	ID      LeaderID
	Name    string
	Faction Faction // original owner
	Value   int
	Kind    LeaderKind
	Skill   Skill
	// InFrontOfShield makes the skill available to the whole faction, not only in battle.
	InFrontOfShield bool
	// Bonus is added to Value when fighting a leader of the given faction.
	Bonus map[Faction]int
	// FoughtIn is the territory this leader battled in this turn, zero if none.
	FoughtIn TerritoryID
	Status   LeaderStatus
}

func (l *Leader) String() string {
	if l == nil {
		return "none"
	}
	return l.Name
}

func (l *Leader) Alive() bool {
	return l.Status.Kind != Dead
}

// Owner is the faction currently holding the leader.
func (l *Leader) Owner() Faction {
	if l.Status.Kind == Captured {
		return l.Status.By
	}
	return l.Faction
}

// ValueAgainst is the combat value when facing opponent, which may be nil.
func (l *Leader) ValueAgainst(opponent *Leader) int {
	if opponent == nil {
		return l.Value
	}
	return l.Value + l.Bonus[opponent.Faction]
}

// LeaderTable owns every leader of a game. Slot 0 is unused so that the zero LeaderID means "no leader".
type LeaderTable struct {
	leaders []Leader
}

func NewLeaderTable() *LeaderTable {
	return &LeaderTable{leaders: []Leader{{}}}
}

func (t *LeaderTable) Add(l Leader) LeaderID {
	l.ID = LeaderID(len(t.leaders))
	t.leaders = append(t.leaders, l)
	return l.ID
}

func (t *LeaderTable) Get(id LeaderID) *Leader {
	if id == 0 {
		return nil
	}
	if int(id) < 0 || int(id) >= len(t.leaders) {
		panic(fmt.Sprintf("unknown leader %d", id))
	}
	return &t.leaders[id]
}

func (t *LeaderTable) Len() int {
	return len(t.leaders) - 1
}

// ByName finds a leader by name, returning the zero id if none matches.
func (t *LeaderTable) ByName(name string) LeaderID {
	for i := 1; i < len(t.leaders); i++ {
		if t.leaders[i].Name == name {
			return LeaderID(i)
		}
	}
	return 0
}

// OwnedBy returns the leaders currently held by f, dead ones included, in table order.
func (t *LeaderTable) OwnedBy(f Faction) []*Leader {
	var out []*Leader
	for i := 1; i < len(t.leaders); i++ {
		if t.leaders[i].Owner() == f {
			out = append(out, &t.leaders[i])
		}
	}
	return out
}

func (t *LeaderTable) Messiah() *Leader {
	for i := 1; i < len(t.leaders); i++ {
		if t.leaders[i].Kind == MessiahLeader {
			return &t.leaders[i]
		}
	}
	return nil
}

// Capture transfers custody of a free leader to by.
func (t *LeaderTable) Capture(id LeaderID, by Faction) error {
	l := t.Get(id)
	switch {
	case l == nil:
		return fmt.Errorf("cannot capture: no leader")
	case l.Status.Kind == Dead:
		return fmt.Errorf("cannot capture %s: leader is dead", l.Name)
	case l.Status.Kind == Captured:
		return fmt.Errorf("cannot capture %s: already captured by %s", l.Name, l.Status.By)
	case l.Faction == by:
		return fmt.Errorf("cannot capture %s: leader belongs to %s", l.Name, by)
	}
	l.Status = LeaderStatus{Kind: Captured, By: by}
	l.InFrontOfShield = false
	return nil
}

// Release returns a captured leader to its original owner.
func (t *LeaderTable) Release(id LeaderID) error {
	l := t.Get(id)
	if l == nil || l.Status.Kind != Captured {
		return fmt.Errorf("cannot release %s: not captured", l)
	}
	l.Status = LeaderStatus{Kind: Free}
	if l.Skill != NoSkill {
		l.InFrontOfShield = true
	}
	return nil
}

// Kill marks the leader dead. Any capture ends with it.
func (t *LeaderTable) Kill(id LeaderID) {
	l := t.Get(id)
	if l == nil {
		return
	}
	l.Status = LeaderStatus{Kind: Dead}
	l.FoughtIn = 0
}

func (t *LeaderTable) Revive(id LeaderID) error {
	l := t.Get(id)
	if l == nil || l.Status.Kind != Dead {
		return fmt.Errorf("cannot revive %s: not dead", l)
	}
	l.Status = LeaderStatus{Kind: Free}
	return nil
}

// ResetBattleLocations forgets where leaders fought, at the start of each battle phase.
func (t *LeaderTable) ResetBattleLocations() {
	for i := range t.leaders {
		t.leaders[i].FoughtIn = 0
	}
}

func (t *LeaderTable) Copy() *LeaderTable {
	leaders := make([]Leader, len(t.leaders))
	for i, l := range t.leaders {
		leaders[i] = l
		if l.Bonus != nil {
			leaders[i].Bonus = make(map[Faction]int, len(l.Bonus))
			for f, v := range l.Bonus {
				leaders[i].Bonus[f] = v
			}
		}
	}
	return &LeaderTable{leaders: leaders}
}
