package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"

	"treachery/meta"
	"treachery/report"
	"treachery/rng"
	"treachery/utils"
)

type Milestone int

const (
	MilestoneLeaderKilled Milestone = iota + 1
	MilestoneExplosion
	MilestoneTreacheryCalled
	MilestoneVoice
	MilestonePrescience
	MilestoneMessiah
	MilestoneGraduate
	MilestoneShuffled
	MilestoneFaceDanced
	MilestoneCaptured
	MilestoneAudited
)

// GameState is the authoritative state of one game. It is only mutated by executing events.
type GameState struct {
	Map        *Map          // Static board
	Rules      Rules         // Optional rules in effect
	Players    []*Player     // Seat order
	Leaders    *LeaderTable  // Every leader of the game, indexed by LeaderID
	Cards      *CardTable    // Every treachery card, indexed by CardID
	Deck       []CardID      // Treachery deck, top card last
	Discard    []CardID      // Treachery discard pile, top card last
	Phase      PhaseState    // Position in the turn structure
	Advantages *Advantages   // Prevented faction advantages
	Battle     BattleState   // The battle being fought, if any
	Storm      int           // Sector under the storm
	Spice      map[LocationID]int
	Owners     map[TerritoryID]Faction // Stronghold owners, fixed when the battle phase starts
	Report     *report.Report
	Random     Random
	Milestones []Milestone // Milestones reached by the last executed event
	Winners    []Faction
}

func NewGameState(m *Map, rules Rules, random Random) *GameState {
	return &GameState{
		Map:        m,
		Rules:      rules,
		Leaders:    NewLeaderTable(),
		Cards:      NewCardTable(),
		Advantages: NewAdvantages(),
		Storm:      NoSector,
		Spice:      make(map[LocationID]int),
		Owners:     make(map[TerritoryID]Faction),
		Report:     report.New(),
		Random:     random,
	}
}

// NewStandardGame creates a game on the standard board with the standard deck, seeded with seed.
func NewStandardGame(rules Rules, seed uint64) *GameState {
	gs := NewGameState(CreateMap(), rules, rng.New(seed))
	gs.Deck = StandardDeck(gs.Cards)
	gs.shuffleDeck()
	return gs
}

// AddPlayer seats a faction and gives it its leaders.
func (gs *GameState) AddPlayer(f Faction) *Player {
	if gs.GetPlayer(f) != nil {
		panic(fmt.Sprintf("%s is already playing", f))
	}
	p := NewPlayer(f)
	p.Seat = (1 + SEAT_SPACING*len(gs.Players)) % SECTORS
	gs.Players = append(gs.Players, p)
	for _, l := range StandardLeaders(f) {
		gs.Leaders.Add(l)
	}
	return p
}

func (gs *GameState) GetPlayer(f Faction) *Player {
	for _, p := range gs.Players {
		if p.Faction == f {
			return p
		}
	}
	return nil
}

func (gs *GameState) IsPlaying(f Faction) bool {
	return gs.GetPlayer(f) != nil
}

func (gs *GameState) Allies(a, b Faction) bool {
	p := gs.GetPlayer(a)
	return p != nil && a != None && p.Ally == b && b != None
}

func (gs *GameState) Prevented(f Faction, k AdvantageKind) bool {
	return gs.Advantages.Prevented(f, k)
}

// log appends a report entry attributed to f, which may be None.
func (gs *GameState) log(f Faction, format string, args ...any) {
	faction := ""
	if f != None {
		faction = f.String()
	}
	gs.Report.Add(gs.Phase.Turn, gs.Phase.Main().String(), faction, fmt.Sprintf(format, args...))
}

func (gs *GameState) reached(m Milestone) {
	if !slices.Contains(gs.Milestones, m) {
		gs.Milestones = append(gs.Milestones, m)
	}
}

func (gs *GameState) Reached(m Milestone) bool {
	return slices.Contains(gs.Milestones, m)
}

func (gs *GameState) shuffleDeck() {
	gs.Random.Shuffle(len(gs.Deck), func(i, j int) {
		gs.Deck[i], gs.Deck[j] = gs.Deck[j], gs.Deck[i]
	})
}

// Draw takes the top card of the deck for f, reshuffling the discard pile into an empty deck.
func (gs *GameState) Draw(f Faction) (CardID, bool) {
	if len(gs.Deck) == 0 {
		if len(gs.Discard) == 0 {
			return 0, false
		}
		gs.Deck, gs.Discard = gs.Discard, nil
		gs.shuffleDeck()
		gs.reached(MilestoneShuffled)
	}
	id := gs.Deck[len(gs.Deck)-1]
	gs.Deck = gs.Deck[:len(gs.Deck)-1]
	p := gs.GetPlayer(f)
	p.Hand = append(p.Hand, id)
	return id, true
}

// GiveCard moves the first card of type typ found in the deck to f's hand.
func (gs *GameState) GiveCard(f Faction, typ CardType) (CardID, error) {
	p := gs.GetPlayer(f)
	if p == nil {
		return 0, fmt.Errorf("cannot give %s: %s is not playing", typ, f)
	}
	for i := len(gs.Deck) - 1; i >= 0; i-- {
		if gs.Cards.Type(gs.Deck[i]) == typ {
			id := gs.Deck[i]
			gs.Deck = slices.Delete(gs.Deck, i, i+1)
			p.Hand = append(p.Hand, id)
			return id, nil
		}
	}
	return 0, fmt.Errorf("cannot give %s: no such card left in the deck", typ)
}

// discard moves a card from whoever holds it to the discard pile.
func (gs *GameState) discard(f Faction, id CardID) {
	if id == 0 {
		return
	}
	p := gs.GetPlayer(f)
	if p == nil || !p.RemoveCard(id) {
		return
	}
	gs.Discard = append(gs.Discard, id)
	gs.log(f, "%s discard %s.", f, gs.Cards.Get(id))
}

func (gs *GameState) SpiceIn(t *Territory) int {
	total := 0
	for _, l := range t.Locations {
		total += gs.Spice[l]
	}
	return total
}

// removeSpice takes up to amount spice from t, location by location, returning what was taken.
func (gs *GameState) removeSpice(t *Territory, amount int) int {
	removed := 0
	for _, l := range t.Locations {
		n := min(amount-removed, gs.Spice[l])
		if n <= 0 {
			continue
		}
		gs.Spice[l] -= n
		if gs.Spice[l] == 0 {
			delete(gs.Spice, l)
		}
		removed += n
	}
	return removed
}

// SkilledAs reports whether the leader carries skill s.
func (gs *GameState) SkilledAs(id LeaderID, s Skill) bool {
	l := gs.Leaders.Get(id)
	return gs.Rules.LeaderSkills() && l != nil && l.Alive() && l.Skill == s
}

// PlayerSkilledAs reports whether f has a leader with skill s in front of its shield.
func (gs *GameState) PlayerSkilledAs(f Faction, s Skill) bool {
	if !gs.Rules.LeaderSkills() {
		return false
	}
	for _, l := range gs.Leaders.OwnedBy(f) {
		if l.Alive() && l.Skill == s && l.InFrontOfShield {
			return true
		}
	}
	return false
}

// skilledPlayer returns the faction holding a leader with skill s, if any.
func (gs *GameState) skilledPlayer(s Skill) Faction {
	for _, p := range gs.Players {
		if gs.PlayerSkilledAs(p.Faction, s) {
			return p.Faction
		}
	}
	return None
}

// MessiahAvailable reports whether f may field the messiah.
func (gs *GameState) MessiahAvailable(f Faction) bool {
	p := gs.GetPlayer(f)
	m := gs.Leaders.Messiah()
	return gs.Rules.GreenMessiah() && p != nil && m != nil && m.Faction == f && m.Alive() &&
		p.KilledInBattle >= meta.MESSIAH_THRESHOLD && !gs.Prevented(f, UseMessiah)
}

// updateStrongholdOwners records, per stronghold, the faction occupying it alone.
func (gs *GameState) updateStrongholdOwners() {
	clear(gs.Owners)
	for _, t := range gs.Map.Strongholds() {
		var occupants []Faction
		for _, p := range gs.Players {
			if p.Occupies(t) {
				occupants = append(occupants, p.Faction)
			}
		}
		if len(occupants) == 1 {
			gs.Owners[t.ID] = occupants[0]
		}
	}
}

// StrongholdsOccupiedBy counts the strongholds in which f has forces.
func (gs *GameState) StrongholdsOccupiedBy(f Faction) int {
	p := gs.GetPlayer(f)
	n := 0
	for _, t := range gs.Map.Strongholds() {
		if p != nil && p.Occupies(t) {
			n++
		}
	}
	return n
}

// Copy returns a deep copy sharing only the static map and rules.
func (gs GameState) Copy() *GameState {
	c := gs
	c.Players = make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		c.Players[i] = p.Copy()
	}
	c.Leaders = gs.Leaders.Copy()
	c.Cards = gs.Cards.Copy()
	c.Deck = slices.Clone(gs.Deck)
	c.Discard = slices.Clone(gs.Discard)
	c.Advantages = gs.Advantages.Copy()
	c.Battle = gs.Battle.Copy()
	c.Spice = make(map[LocationID]int, len(gs.Spice))
	for l, v := range gs.Spice {
		c.Spice[l] = v
	}
	c.Owners = make(map[TerritoryID]Faction, len(gs.Owners))
	for t, f := range gs.Owners {
		c.Owners[t] = f
	}
	c.Report = gs.Report.Copy()
	c.Random = copyRandom(gs.Random)
	c.Milestones = slices.Clone(gs.Milestones)
	c.Winners = slices.Clone(gs.Winners)
	return &c
}

func copyRandom(r Random) Random {
	switch r := r.(type) {
	case *rng.Source:
		return r.Clone()
	case interface{ Copy() Random }:
		return r.Copy()
	}
	return r
}

// Hash fingerprints the mutable state. Maps are walked in key order so equal states hash equally.
func (gs GameState) Hash() StateHash {
	hasher := fnv.New64a()
	put := func(v int) {
		binary.Write(hasher, binary.LittleEndian, int64(v))
	}

	put(gs.Phase.Turn)
	put(int(gs.Phase.Current))
	put(gs.Storm)

	for _, p := range gs.Players {
		put(int(p.Faction))
		put(p.Seat)
		put(p.Resources)
		put(int(p.Ally))
		for _, c := range p.Hand {
			put(int(c))
		}
		for _, t := range p.Traitors {
			put(int(t))
		}
		for _, l := range utils.SortedKeys(p.Forces) {
			put(int(l))
			put(p.Forces[l].Normal)
			put(p.Forces[l].Special)
		}
		put(p.Reserves.Normal)
		put(p.Reserves.Special)
		put(p.Killed.Normal)
		put(p.Killed.Special)
	}

	for i := 1; i <= gs.Leaders.Len(); i++ {
		l := gs.Leaders.Get(LeaderID(i))
		put(int(l.Status.Kind))
		put(int(l.Status.By))
		put(int(l.FoughtIn))
	}

	for _, c := range gs.Deck {
		put(int(c))
	}
	for _, c := range gs.Discard {
		put(int(c))
	}
	for _, l := range utils.SortedKeys(gs.Spice) {
		put(int(l))
		put(gs.Spice[l])
	}
	for _, k := range gs.Advantages.sortedKeys() {
		put(int(k.Faction))
		put(int(k.Kind))
		put(int(gs.Advantages.State(k.Faction, k.Kind)))
	}

	put(int(gs.Battle.Winner))
	put(int(gs.Battle.Loser))
	put(gs.Report.Len())
	for _, e := range gs.Report.Entries() {
		hasher.Write([]byte(e.Text))
	}

	return StateHash(hasher.Sum64())
}
