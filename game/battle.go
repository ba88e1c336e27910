package game

import (
	"errors"
	"slices"

	"treachery/meta"
)

// BattleState is everything scoped to the battle being fought. It is reset when a battle is initiated.
type BattleState struct {
	Current       *BattleInitiated
	AggressorPlan *BattlePlan
	DefenderPlan  *BattlePlan
	AggressorCall *TreacheryCalled
	DefenderCall  *TreacheryCalled
	Voice         *Voice
	Prescience    *Prescience
	Juice         *JuicePlayed
	Retreat       *Retreat
	Antidote      *PortableAntidoteUsed
	HMSAdvantage  StrongholdAdvantage
	Outcome       *BattleOutcome
	Winner        Faction
	Loser         Faction
	// ToothCancelled is set when the poison tooth was withdrawn after the plans were revealed.
	ToothCancelled bool
	// Victim is the leader drawn for a winning Black to capture or kill.
	Victim       LeaderID
	Auditee      Faction
	AuditedCards []CardID
	AuditDecided bool
	// Fought counts the battles fought this turn.
	Fought int
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (b *BattleState) reset() {
	*b = BattleState{Fought: b.Fought}
}

func (b BattleState) Copy() BattleState {
	c := b
	c.Current = clonePtr(b.Current)
	c.AggressorPlan = clonePtr(b.AggressorPlan)
	c.DefenderPlan = clonePtr(b.DefenderPlan)
	c.AggressorCall = clonePtr(b.AggressorCall)
	c.DefenderCall = clonePtr(b.DefenderCall)
	c.Voice = clonePtr(b.Voice)
	c.Prescience = clonePtr(b.Prescience)
	c.Juice = clonePtr(b.Juice)
	c.Retreat = clonePtr(b.Retreat)
	c.Antidote = clonePtr(b.Antidote)
	c.Outcome = clonePtr(b.Outcome)
	c.AuditedCards = slices.Clone(b.AuditedCards)
	return c
}

func (b *BattleState) Aggressor() Faction {
	if b.Current == nil {
		return None
	}
	return b.Current.Initiator
}

func (b *BattleState) Defender() Faction {
	if b.Current == nil {
		return None
	}
	return b.Current.Target
}

// PlanOf returns the plan submitted by f, or nil.
func (b *BattleState) PlanOf(f Faction) *BattlePlan {
	switch {
	case b.Current == nil || f == None:
		return nil
	case f == b.Current.Initiator:
		return b.AggressorPlan
	case f == b.Current.Target:
		return b.DefenderPlan
	}
	return nil
}

func (b *BattleState) setPlan(f Faction, plan *BattlePlan) {
	if f == b.Current.Initiator {
		b.AggressorPlan = plan
	} else {
		b.DefenderPlan = plan
	}
}

func (b *BattleState) BothPlansPresent() bool {
	return b.AggressorPlan != nil && b.DefenderPlan != nil
}

func (b *BattleState) BothCallsPresent() bool {
	return b.AggressorCall != nil && b.DefenderCall != nil
}

func (b *BattleState) traitorCalled() bool {
	return b.AggressorCall != nil && b.AggressorCall.Called || b.DefenderCall != nil && b.DefenderCall.Called
}

func (gs *GameState) battleTerritory() *Territory {
	if gs.Battle.Current == nil {
		return nil
	}
	return gs.Map.Territories[gs.Battle.Current.Territory]
}

// BattleOption is a battle a player is obliged to fight.
type BattleOption struct {
	Territory TerritoryID
	Opponent  Faction
}

// fightable reports whether forces in l take part in battles.
func (gs *GameState) fightable(l LocationID) bool {
	loc := gs.Map.Locations[l]
	if l == gs.Map.PolarSink {
		return false
	}
	return gs.Rules.BattlesUnderStorm() || loc.Sector == NoSector || loc.Sector != gs.Storm
}

// BattlesToBeFought lists the (territory, opponent) pairs f must still fight, in location order.
func (gs *GameState) BattlesToBeFought(f Faction) []BattleOption {
	p := gs.GetPlayer(f)
	if p == nil {
		return nil
	}
	var out []BattleOption
	for _, l := range p.OccupiedLocations() {
		if !gs.fightable(l) {
			continue
		}
		t := gs.Map.TerritoryOf(l)
		for _, other := range gs.Players {
			if other.Faction == f {
				continue
			}
			for _, ol := range t.Locations {
				if gs.fightable(ol) && other.ForcesIn(ol).Total() > 0 {
					opt := BattleOption{Territory: t.ID, Opponent: other.Faction}
					if !slices.Contains(out, opt) {
						out = append(out, opt)
					}
					break
				}
			}
		}
	}
	return out
}

func (gs *GameState) MustFight(f Faction) bool {
	return len(gs.BattlesToBeFought(f)) > 0
}

// BattleSequence is the order in which players initiate battles. It starts with the first
// marker after the storm, going the way the storm moves. Without a storm it is seat order.
func (gs *GameState) BattleSequence() []Faction {
	players := slices.Clone(gs.Players)
	if gs.Storm != NoSector {
		distance := func(p *Player) int {
			return ((p.Seat-gs.Storm-1)%SECTORS + SECTORS) % SECTORS
		}
		slices.SortStableFunc(players, func(a, b *Player) int {
			return distance(a) - distance(b)
		})
	}
	out := make([]Faction, len(players))
	for i, p := range players {
		out[i] = p.Faction
	}
	return out
}

// NextPlayerToBattle returns the first player in the battle sequence who must still fight, or None.
func (gs *GameState) NextPlayerToBattle() Faction {
	for _, f := range gs.BattleSequence() {
		if gs.MustFight(f) {
			return f
		}
	}
	return None
}

func (gs *GameState) enterBattlePhase() {
	gs.Battle = BattleState{}
	gs.Leaders.ResetBattleLocations()
	gs.updateStrongholdOwners()
	gs.Enter(gs.NextPlayerToBattle() != None, PhaseBeginningOfBattle, PhaseCollection)
}

func (gs *GameState) validateBattleInitiated(e *BattleInitiated) error {
	if gs.Phase.Current != PhaseBeginningOfBattle {
		return rejectWith(ErrWrongPhase, "battles are initiated at the beginning of a battle")
	}
	if next := gs.NextPlayerToBattle(); next != e.Initiator {
		return reject("%s must initiate the next battle", next)
	}
	t := gs.Map.Territories[e.Territory]
	if t == nil {
		return reject("unknown territory %d", e.Territory)
	}
	if !slices.Contains(gs.BattlesToBeFought(e.Initiator), BattleOption{Territory: e.Territory, Opponent: e.Target}) {
		return reject("%s cannot battle %s in %s", e.Initiator, e.Target, t.Name)
	}
	return nil
}

func (gs *GameState) initiateBattle(e *BattleInitiated) {
	gs.Battle.reset()
	gs.Battle.Current = clonePtr(e)
	gs.Battle.Fought++
	gs.log(e.Initiator, "%s initiate a battle with %s in %s.", e.Initiator, e.Target, gs.battleTerritory().Name)

	if len(gs.ValidBattleHeroes(e.Target)) == 0 {
		gs.log(e.Target, "%s don't have leaders available for this battle.", e.Target)
	}
	if len(gs.ValidBattleHeroes(e.Initiator)) == 0 {
		gs.log(e.Initiator, "%s don't have leaders available for this battle.", e.Initiator)
	}
	gs.EnterPhase(PhaseBattle)
}

// Hero is a leader or a cheap hero card.
type Hero struct {
	Leader LeaderID
	Card   CardID
}

// affectedByVoice reports whether f's plan is constrained by the current voice.
func (gs *GameState) affectedByVoice(f Faction) bool {
	v := gs.Battle.Voice
	if v == nil || gs.Battle.Current == nil {
		return false
	}
	opponent := gs.Battle.Current.OpponentOf(f)
	return opponent != None && (v.Initiator == opponent || gs.Allies(opponent, v.Initiator))
}

func (gs *GameState) cheapHeroes(p *Player) []CardID {
	var out []CardID
	for _, c := range p.Hand {
		if gs.Cards.Type(c) == Mercenary {
			out = append(out, c)
		}
	}
	return out
}

// canJoinCurrentBattle is false for a leader that already fought in another territory this turn.
func (gs *GameState) canJoinCurrentBattle(l *Leader) bool {
	return l.FoughtIn == 0 || gs.Battle.Current != nil && l.FoughtIn == gs.Battle.Current.Territory
}

// ValidBattleHeroes lists the heroes f may commit to the current battle.
func (gs *GameState) ValidBattleHeroes(f Faction) []Hero {
	p := gs.GetPlayer(f)
	if p == nil {
		return nil
	}
	voiced := gs.affectedByVoice(f)
	mustUseCheapHero := voiced && gs.Battle.Voice.Must && gs.Battle.Voice.Type == Mercenary
	mayNotUseCheapHero := voiced && !gs.Battle.Voice.Must && gs.Battle.Voice.Type == Mercenary

	var out []Hero
	cheap := gs.cheapHeroes(p)
	if mustUseCheapHero && len(cheap) > 0 {
		for _, c := range cheap {
			out = append(out, Hero{Card: c})
		}
		return out
	}
	for _, l := range gs.Leaders.OwnedBy(f) {
		if l.Alive() && l.Kind != MessiahLeader && gs.canJoinCurrentBattle(l) {
			out = append(out, Hero{Leader: l.ID})
		}
	}
	if !mayNotUseCheapHero {
		for _, c := range cheap {
			out = append(out, Hero{Card: c})
		}
	}
	return out
}

// voicedBy reports whether a card of type typ, played in the given slot, falls under the voiced type.
func voicedBy(asWeapon, must bool, typ, voiced CardType) bool {
	if typ == voiced {
		return true
	}
	switch voiced {
	case PoisonDefense:
		return typ == Antidote || typ == PortableAntidote || typ == ShieldAndAntidote || !asWeapon && typ == Chemistry
	case Poison:
		return typ == PoisonTooth || typ == ProjectileAndPoison || !must && asWeapon && typ == Chemistry
	case Shield:
		return typ == ShieldAndAntidote
	case ProjectileDefense:
		return typ == Shield || typ == ShieldAndAntidote
	case Projectile:
		return typ == ProjectileAndPoison
	}
	return false
}

var voiceTypes = []CardType{
	Mercenary, Laser, Poison, Projectile, Shield, Antidote, Useless,
	ArtilleryStrike, Chemistry, PoisonTooth, ProjectileDefense, PoisonDefense,
}

func (gs *GameState) playableAsWeapon(p *Player, defense CardID) []CardID {
	withDefense := gs.Cards.Type(defense)
	var out []CardID
	for _, c := range p.Hand {
		t := gs.Cards.Type(c)
		if t == Chemistry {
			if withDefense.IsDefense() && withDefense != Chemistry {
				out = append(out, c)
			}
		} else if t.IsWeapon() || t.IsUseless() {
			out = append(out, c)
		}
	}
	return out
}

// playableAsDefense leaves out the portable antidote, which is only added to a revealed plan.
func (gs *GameState) playableAsDefense(p *Player) []CardID {
	var out []CardID
	for _, c := range p.Hand {
		if t := gs.Cards.Type(c); t != PortableAntidote && (t.IsDefense() || t.IsUseless()) {
			out = append(out, c)
		}
	}
	return out
}

// ValidWeapons lists the weapons f may play next to defense, and whether playing none is allowed.
func (gs *GameState) ValidWeapons(f Faction, defense CardID) ([]CardID, bool) {
	p := gs.GetPlayer(f)
	if len(gs.ValidBattleHeroes(f)) == 0 {
		return nil, true
	}
	playable := gs.playableAsWeapon(p, defense)
	return gs.applyVoice(f, true, playable, gs.Cards.Type(defense))
}

// ValidDefenses lists the defenses f may play next to weapon, and whether playing none is allowed.
func (gs *GameState) ValidDefenses(f Faction, weapon CardID) ([]CardID, bool) {
	p := gs.GetPlayer(f)
	if len(gs.ValidBattleHeroes(f)) == 0 {
		return nil, true
	}
	playable := gs.playableAsDefense(p)
	return gs.applyVoice(f, false, playable, gs.Cards.Type(weapon))
}

func (gs *GameState) applyVoice(f Faction, asWeapon bool, playable []CardID, other CardType) ([]CardID, bool) {
	if !gs.affectedByVoice(f) {
		return playable, true
	}
	v := gs.Battle.Voice
	var voiced, unvoiced []CardID
	for _, c := range playable {
		if voicedBy(asWeapon, v.Must, gs.Cards.Type(c), v.Type) {
			voiced = append(voiced, c)
		} else {
			unvoiced = append(unvoiced, c)
		}
	}
	switch {
	case v.Must && other == v.Type:
		return playable, true
	case v.Must && len(voiced) > 0:
		return voiced, false
	case !v.Must:
		return unvoiced, true
	}
	return playable, true
}

// Cost is what f pays to fight with forces and specials at full strength.
func (gs *GameState) Cost(f Faction, forces, specials int) int {
	if !gs.mustPayForForces(f) {
		return 0
	}
	normalCost := 1
	if f == Grey {
		normalCost = 0
	}
	cost := forces*normalCost + specials
	if gs.HasStrongholdAdvantage(f, FreeResourcesForBattles) {
		cost = max(0, cost-meta.BATTLE_DISCOUNT)
	}
	return cost
}

func (gs *GameState) mustPayForForces(f Faction) bool {
	return gs.Rules.AdvancedCombat() && (f != Yellow || gs.Prevented(Yellow, NotPayingForBattles))
}

func (gs *GameState) PlanCost(plan *BattlePlan) int {
	return gs.Cost(plan.Initiator, plan.Forces, plan.SpecialForces)
}

// HasStrongholdAdvantage reports whether f holds advantage a in the current battle.
func (gs *GameState) HasStrongholdAdvantage(f Faction, a StrongholdAdvantage) bool {
	t := gs.battleTerritory()
	if t == nil || !gs.Rules.StrongholdBonus() || a == NoAdvantage || gs.Owners[t.ID] != f {
		return false
	}
	if t.HiddenMobile {
		return gs.Battle.HMSAdvantage == a
	}
	return t.Advantage == a
}

func (gs *GameState) validateBattlePlan(e *BattlePlan) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to submit a plan for")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "battle plans are submitted in the battle phase")
	}
	if !gs.Battle.Current.Involves(e.Initiator) {
		return reject("%s are not fighting this battle", e.Initiator)
	}
	return gs.checkPlan(e)
}

// checkDraftPlan is checkPlan reported the way Validate reports a submitted plan.
func (gs *GameState) checkDraftPlan(e *BattlePlan) error {
	err := gs.checkPlan(e)
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Kind == "" {
		ve.Kind = e.Kind()
	}
	return err
}

// checkPlan validates a plan against the current battle regardless of phase.
func (gs *GameState) checkPlan(e *BattlePlan) error {
	p := gs.GetPlayer(e.Initiator)
	t := gs.battleTerritory()
	present := p.ForcesInTerritory(t)

	if e.Forces < 0 || e.ForcesAtHalfStrength < 0 || e.SpecialForces < 0 || e.SpecialForcesAtHalfStrength < 0 || e.AllyContribution < 0 {
		return reject("invalid number of forces %d %d %d %d", e.Forces, e.ForcesAtHalfStrength, e.SpecialForces, e.SpecialForcesAtHalfStrength)
	}
	if e.Forces+e.ForcesAtHalfStrength > present.Normal {
		return reject("too many forces selected: %d present", present.Normal)
	}
	if e.SpecialForces+e.SpecialForcesAtHalfStrength > present.Special {
		return reject("too many special forces selected: %d present", present.Special)
	}

	cost := gs.PlanCost(e)
	if e.AllyContribution > 0 {
		ally := gs.GetPlayer(p.Ally)
		if ally == nil {
			return reject("%s have no ally to contribute", e.Initiator)
		}
		if e.AllyContribution > ally.Resources {
			return reject("%s cannot contribute %d", ally.Faction, e.AllyContribution)
		}
		if e.AllyContribution > cost {
			return reject("ally contribution %d exceeds the cost %d", e.AllyContribution, cost)
		}
	}
	if cost-e.AllyContribution > p.Resources {
		return reject("you can't pay %d to fight with %d forces at full strength", cost, e.Forces+e.SpecialForces)
	}

	heroes := gs.ValidBattleHeroes(e.Initiator)
	if e.Leader != 0 && e.CheapHero != 0 {
		return reject("a plan has a single hero")
	}
	if !e.HasHero() && len(heroes) > 0 {
		return reject("you must select a hero")
	}
	if l := gs.Leaders.Get(e.Leader); l != nil && l.Alive() && !gs.canJoinCurrentBattle(l) {
		return reject("%s already fought in another territory", l.Name)
	}
	if e.HasHero() && !slices.Contains(heroes, Hero{Leader: e.Leader, Card: e.CheapHero}) {
		return reject("invalid hero")
	}
	if e.Weapon != 0 && e.Weapon == e.Defense {
		return reject("can't use the same card as weapon and defense")
	}
	if e.CheapHero != 0 && (e.CheapHero == e.Weapon || e.CheapHero == e.Defense) {
		return reject("can't use the hero card as weapon or defense")
	}
	if !e.HasHero() && (e.Weapon != 0 || e.Defense != 0) {
		return reject("can't use treachery cards without a hero")
	}
	if e.Messiah && !e.HasHero() {
		return reject("can't use the messiah without a hero")
	}
	if e.Messiah && (!gs.MessiahAvailable(e.Initiator) || !gs.canJoinCurrentBattle(gs.Leaders.Messiah())) {
		return reject("the messiah is not available")
	}
	for _, c := range []CardID{e.Weapon, e.Defense} {
		if c != 0 && !p.HasCard(c) {
			return reject("%s is not in your hand", gs.Cards.Get(c))
		}
	}
	if e.Defense == 0 && gs.Cards.Type(e.Weapon) == Chemistry {
		return reject("you can't use %s as weapon without using a defense", Chemistry)
	}
	if weapons, none := gs.ValidWeapons(e.Initiator, e.Defense); e.Weapon == 0 && !none || e.Weapon != 0 && !slices.Contains(weapons, e.Weapon) {
		return reject("invalid weapon")
	}
	if defenses, none := gs.ValidDefenses(e.Initiator, e.Weapon); e.Defense == 0 && !none || e.Defense != 0 && !slices.Contains(defenses, e.Defense) {
		return reject("invalid defense")
	}

	if v := gs.Battle.Voice; e.HasHero() && gs.affectedByVoice(e.Initiator) && v.Must && v.Type != Mercenary {
		holdsVoiced := slices.ContainsFunc(p.Hand, func(c CardID) bool {
			t := gs.Cards.Type(c)
			return voicedBy(true, true, t, v.Type) || voicedBy(false, true, t, v.Type)
		})
		usesVoiced := e.Weapon != 0 && voicedBy(true, true, gs.Cards.Type(e.Weapon), v.Type) ||
			e.Defense != 0 && voicedBy(false, true, gs.Cards.Type(e.Defense), v.Type)
		if holdsVoiced && !usesVoiced {
			return reject("you must use a %s card", v.Type)
		}
	}
	return nil
}

func (gs *GameState) submitPlan(e *BattlePlan) {
	gs.Battle.setPlan(e.Initiator, clonePtr(e))
	gs.log(e.Initiator, "%s finalize their battle plan.", e.Initiator)
	gs.revealPrescience()

	if gs.Battle.BothPlansPresent() {
		gs.plansRevealed()
	}
}

func (gs *GameState) validateBattleRevision(e *BattleRevision) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to revise a plan for")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "plans are revised in the battle phase")
	}
	if gs.Battle.PlanOf(e.Initiator) == nil {
		return reject("%s have no plan to revise", e.Initiator)
	}
	return nil
}

// revisePlan clears the initiator's plan only; the opponent's plan is untouched.
func (gs *GameState) revisePlan(e *BattleRevision) {
	gs.Battle.setPlan(e.Initiator, nil)
	gs.log(e.Initiator, "%s revise their battle plan.", e.Initiator)
}

// RevokePlanIfNeeded clears the plan of f when it no longer satisfies the battle's constraints.
func (gs *GameState) RevokePlanIfNeeded(f Faction) {
	plan := gs.Battle.PlanOf(f)
	if plan == nil {
		return
	}
	if err := gs.checkPlan(plan); err != nil {
		gs.Battle.setPlan(f, nil)
		gs.log(f, "%s battle plan is no longer valid and must be resubmitted.", f)
	}
}

// plansRevealed runs once both plans are present.
func (gs *GameState) plansRevealed() {
	agg, def := gs.Battle.AggressorPlan, gs.Battle.DefenderPlan
	gs.activateSmuggler(agg, def)
	gs.activateSmuggler(def, agg)
	gs.logPlan(agg, def.Initiator)
	gs.logPlan(def, agg.Initiator)
	gs.EnterPhase(PhaseCallTraitorOrPass)

	purple := gs.GetPlayer(Purple)
	if purple != nil && (purple.Ally != Black || gs.Prevented(Black, CallTraitorForAlly)) {
		switch Purple {
		case agg.Initiator:
			gs.Battle.AggressorCall = &TreacheryCalled{EventHead: EventHead{Initiator: Purple}}
		case def.Initiator:
			gs.Battle.DefenderCall = &TreacheryCalled{EventHead: EventHead{Initiator: Purple}}
		}
	}
}

func (gs *GameState) heroName(plan *BattlePlan) string {
	switch {
	case plan.Leader != 0:
		return gs.Leaders.Get(plan.Leader).Name
	case plan.CheapHero != 0:
		return gs.Cards.Get(plan.CheapHero).Name
	}
	return "none"
}

func (gs *GameState) logPlan(plan *BattlePlan, opponent Faction) {
	dial := gs.Dial(plan, opponent)
	if gs.Rules.AdvancedCombat() {
		gs.log(plan.Initiator, "%s leader: %s, dial: %s, weapon: %s, defense: %s, spice: %d.",
			plan.Initiator, gs.heroName(plan), formatStrength(dial), gs.Cards.Get(plan.Weapon), gs.Cards.Get(plan.Defense), gs.PlanCost(plan))
		return
	}
	gs.log(plan.Initiator, "%s leader: %s, dial: %s, weapon: %s, defense: %s.",
		plan.Initiator, gs.heroName(plan), formatStrength(dial), gs.Cards.Get(plan.Weapon), gs.Cards.Get(plan.Defense))
}

func (gs *GameState) activateSmuggler(plan, opponent *BattlePlan) {
	if !gs.SkilledAs(plan.Leader, Smuggler) {
		return
	}
	t := gs.battleTerritory()
	for _, l := range t.Locations {
		if gs.Spice[l] == 0 {
			continue
		}
		collected := min(gs.Spice[l], gs.Leaders.Get(plan.Leader).ValueAgainst(gs.Leaders.Get(opponent.Leader)))
		if collected > 0 {
			gs.Spice[l] -= collected
			if gs.Spice[l] == 0 {
				delete(gs.Spice, l)
			}
			gs.GetPlayer(plan.Initiator).Resources += collected
			gs.log(plan.Initiator, "%s %s collects %d spice from %s.", plan.Initiator, Smuggler, collected, t.Name)
		}
		return
	}
}

// voiceTarget is the combatant constrained by a voice from f.
func (gs *GameState) voiceTarget(f Faction) Faction {
	b := gs.Battle.Current
	if b == nil {
		return None
	}
	if b.Involves(f) {
		return b.OpponentOf(f)
	}
	for _, side := range []Faction{b.Initiator, b.Target} {
		if gs.Allies(side, f) {
			return b.OpponentOf(side)
		}
	}
	return None
}

func (gs *GameState) validateVoice(e *Voice) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to use voice in")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "voice is used before plans are revealed")
	}
	if e.Initiator != Blue || gs.Prevented(Blue, UseVoice) {
		return reject("%s cannot use voice", e.Initiator)
	}
	if gs.Battle.Voice != nil {
		return reject("voice was already used in this battle")
	}
	if gs.voiceTarget(e.Initiator) == None {
		return reject("neither %s nor their ally is fighting", e.Initiator)
	}
	if !slices.Contains(voiceTypes, e.Type) {
		return reject("invalid use of voice")
	}
	return nil
}

func (gs *GameState) useVoice(e *Voice) {
	gs.Battle.Voice = clonePtr(e)
	target := gs.voiceTarget(e.Initiator)
	if e.Must {
		gs.log(e.Initiator, "%s use Voice to force %s to use a %s.", e.Initiator, target, e.Type)
	} else {
		gs.log(e.Initiator, "%s use Voice to force %s not to use a %s.", e.Initiator, target, e.Type)
	}
	gs.RevokePlanIfNeeded(target)
	gs.reached(MilestoneVoice)
}

// prescienceSide is the combatant that is Green or Green's ally.
func (gs *GameState) prescienceSide() Faction {
	b := gs.Battle.Current
	if b == nil {
		return None
	}
	for _, side := range []Faction{b.Initiator, b.Target} {
		if side == Green || gs.Allies(side, Green) {
			return side
		}
	}
	return None
}

func (gs *GameState) validatePrescience(e *Prescience) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to use prescience in")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "prescience is used before plans are revealed")
	}
	if e.Initiator != Green || gs.Prevented(Green, BattlePlanPrescience) {
		return reject("%s cannot use prescience", e.Initiator)
	}
	if gs.Battle.Prescience != nil {
		return reject("prescience was already used in this battle")
	}
	if gs.prescienceSide() == None {
		return reject("neither %s nor their ally is fighting", e.Initiator)
	}
	if e.Aspect == AspectNone {
		return reject("select a battle plan element")
	}
	return nil
}

func (gs *GameState) usePrescience(e *Prescience) {
	gs.Battle.Prescience = clonePtr(e)
	side := gs.prescienceSide()
	gs.log(e.Initiator, "%s use Prescience to see the %s of %s.", e.Initiator, e.Aspect, gs.Battle.Current.OpponentOf(side))
	gs.reached(MilestonePrescience)
	// The asking side may plan again knowing the answer.
	if gs.Battle.PlanOf(side) != nil && gs.Battle.PlanOf(gs.Battle.Current.OpponentOf(side)) == nil {
		gs.Battle.setPlan(side, nil)
		gs.log(side, "%s battle plan is withdrawn until Prescience is answered.", side)
	}
	gs.revealPrescience()
}

// revealPrescience answers a pending prescience once the opponent's plan is known.
func (gs *GameState) revealPrescience() {
	pr := gs.Battle.Prescience
	if pr == nil || gs.Battle.Current == nil {
		return
	}
	opponent := gs.Battle.Current.OpponentOf(gs.prescienceSide())
	plan := gs.Battle.PlanOf(opponent)
	if plan == nil {
		return
	}
	switch pr.Aspect {
	case AspectLeader:
		gs.log(opponent, "Prescience: %s leader is %s.", opponent, gs.heroName(plan))
	case AspectWeapon:
		gs.log(opponent, "Prescience: %s weapon is %s.", opponent, gs.Cards.Get(plan.Weapon))
	case AspectDefense:
		gs.log(opponent, "Prescience: %s defense is %s.", opponent, gs.Cards.Get(plan.Defense))
	case AspectDial:
		gs.log(opponent, "Prescience: %s dial is %s.", opponent, formatStrength(gs.Dial(plan, gs.prescienceSide())))
	}
}

func (gs *GameState) validateJuicePlayed(e *JuicePlayed) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to play juice in")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "juice is played before plans are revealed")
	}
	if !gs.Battle.Current.Involves(e.Initiator) {
		return reject("%s are not fighting this battle", e.Initiator)
	}
	if gs.Battle.Juice != nil {
		return reject("juice was already played in this battle")
	}
	if !gs.GetPlayer(e.Initiator).HasCard(e.Card) || gs.Cards.Type(e.Card) != Juice {
		return reject("you don't have %s", Juice)
	}
	return nil
}

func (gs *GameState) playJuice(e *JuicePlayed) {
	gs.Battle.Juice = clonePtr(e)
	gs.discard(e.Initiator, e.Card)
	gs.log(e.Initiator, "%s use %s to be considered aggressor.", e.Initiator, gs.Cards.Get(e.Card))
}

func (gs *GameState) isAggressorByJuice(f Faction) bool {
	return gs.Battle.Juice != nil && gs.Battle.Juice.Initiator == f
}

func (gs *GameState) validateResidualPlayed(e *ResidualPlayed) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to play residual poison in")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "residual poison is played before plans are revealed")
	}
	if !gs.Battle.Current.Involves(e.Initiator) {
		return reject("%s are not fighting this battle", e.Initiator)
	}
	if !gs.GetPlayer(e.Initiator).HasCard(e.Card) || gs.Cards.Type(e.Card) != Residual {
		return reject("you don't have %s", Residual)
	}
	return nil
}

func (gs *GameState) playResidual(e *ResidualPlayed) {
	gs.discard(e.Initiator, e.Card)
	opponent := gs.Battle.Current.OpponentOf(e.Initiator)

	var candidates []LeaderID
	for _, h := range gs.ValidBattleHeroes(opponent) {
		if h.Leader != 0 {
			candidates = append(candidates, h.Leader)
		}
	}
	if len(candidates) == 0 {
		gs.log(opponent, "%s have no available leaders to kill.", opponent)
		return
	}
	victim := candidates[gs.Random.Intn(len(candidates))]
	gs.Leaders.Kill(victim)
	gs.log(e.Initiator, "%s kill %s with %s.", e.Initiator, gs.Leaders.Get(victim).Name, gs.Cards.Get(e.Card))
	gs.reached(MilestoneLeaderKilled)
	gs.RevokePlanIfNeeded(opponent)
}

func (gs *GameState) validateStrongholdAdvantageChosen(e *StrongholdAdvantageChosen) error {
	t := gs.battleTerritory()
	if t == nil {
		return rejectWith(ErrNoBattle, "no battle to choose an advantage for")
	}
	if gs.Phase.Current != PhaseBattle {
		return rejectWith(ErrWrongPhase, "advantages are chosen before plans are revealed")
	}
	if !t.HiddenMobile || gs.Owners[t.ID] != e.Initiator {
		return reject("%s don't own the battle's hidden mobile stronghold", e.Initiator)
	}
	if gs.Battle.HMSAdvantage != NoAdvantage {
		return reject("an advantage was already chosen")
	}
	source := gs.Map.StrongholdWith(e.Advantage)
	if e.Advantage == NoAdvantage || source == nil || gs.Owners[source.ID] != e.Initiator {
		return reject("%s don't own a stronghold granting %s", e.Initiator, e.Advantage)
	}
	return nil
}

func (gs *GameState) chooseStrongholdAdvantage(e *StrongholdAdvantageChosen) {
	gs.Battle.HMSAdvantage = e.Advantage
	gs.log(e.Initiator, "%s use the %s advantage in %s.", e.Initiator, e.Advantage, gs.battleTerritory().Name)
	gs.RevokePlanIfNeeded(e.Initiator)
}

func (gs *GameState) validateAdvantagePrevented(e *AdvantagePrevented) error {
	p := gs.GetPlayer(e.Initiator)
	if !p.HasCard(e.Card) || gs.Cards.Type(e.Card) != Karma {
		return reject("you don't have %s", Karma)
	}
	if e.Target == e.Initiator || !gs.IsPlaying(e.Target) {
		return reject("%s cannot be targeted", e.Target)
	}
	if _, ok := advantageKindNames[e.Advantage]; !ok {
		return reject("unknown advantage %d", int(e.Advantage))
	}
	return nil
}

func (gs *GameState) preventAdvantage(e *AdvantagePrevented) {
	gs.discard(e.Initiator, e.Card)
	gs.Advantages.Prevent(e.Target, e.Advantage, e.UntilReset)
	gs.log(e.Initiator, "%s use %s to prevent %s %s.", e.Initiator, gs.Cards.Get(e.Card), e.Target, e.Advantage)
	if gs.Phase.Current == PhaseBattle {
		for _, f := range []Faction{gs.Battle.Aggressor(), gs.Battle.Defender()} {
			gs.RevokePlanIfNeeded(f)
		}
	}
}

// callSides returns whether f's call counts for the aggressor and for the defender.
func (gs *GameState) callSides(f Faction) (aggressor, defender bool) {
	agg, def := gs.Battle.Aggressor(), gs.Battle.Defender()
	black := gs.GetPlayer(Black)
	forAlly := func(side Faction) bool {
		return f == Black && black != nil && black.Ally == side
	}
	return f == agg || forAlly(agg), f == def || forAlly(def)
}

// MayCallTreachery reports whether f may reveal the opposing leader as a traitor.
func (gs *GameState) MayCallTreachery(f Faction) bool {
	agg, def := gs.Battle.AggressorPlan, gs.Battle.DefenderPlan
	p := gs.GetPlayer(f)
	if agg == nil || def == nil || p == nil {
		return false
	}
	if t := gs.battleTerritory(); t.Homeworld && t.Native != f {
		return false
	}
	black := gs.GetPlayer(Black)
	forAlly := func(side Faction) bool {
		return f == Black && black.Ally == side && !gs.Prevented(Black, CallTraitorForAlly)
	}
	if !def.Messiah && (agg.Initiator == f || forAlly(agg.Initiator)) && p.HasTraitor(def.Leader) {
		return true
	}
	if !agg.Messiah && (def.Initiator == f || forAlly(def.Initiator)) && p.HasTraitor(agg.Leader) {
		return true
	}
	return false
}

func (gs *GameState) validateTreacheryCalled(e *TreacheryCalled) error {
	if gs.Battle.Current == nil {
		return rejectWith(ErrNoBattle, "no battle to call treachery in")
	}
	if gs.Phase.Current != PhaseCallTraitorOrPass {
		return rejectWith(ErrWrongPhase, "treachery is called once plans are revealed")
	}
	forAgg, forDef := gs.callSides(e.Initiator)
	if !(forAgg && gs.Battle.AggressorCall == nil || forDef && gs.Battle.DefenderCall == nil) {
		return reject("%s have no call to make", e.Initiator)
	}
	if e.Called && !gs.MayCallTreachery(e.Initiator) {
		return reject("you cannot call TREACHERY")
	}
	return nil
}

func (gs *GameState) callTreachery(e *TreacheryCalled) {
	forAgg, forDef := gs.callSides(e.Initiator)
	call := clonePtr(e)
	if forAgg && gs.Battle.AggressorCall == nil {
		gs.Battle.AggressorCall = call
		if e.Called {
			gs.log(e.Initiator, "%s call TREACHERY on %s!", e.Initiator, gs.heroName(gs.Battle.DefenderPlan))
			gs.reached(MilestoneTreacheryCalled)
		}
	}
	if forDef && gs.Battle.DefenderCall == nil {
		gs.Battle.DefenderCall = call
		if e.Called {
			gs.log(e.Initiator, "%s call TREACHERY on %s!", e.Initiator, gs.heroName(gs.Battle.AggressorPlan))
			gs.reached(MilestoneTreacheryCalled)
		}
	}
	if !e.Called {
		gs.log(e.Initiator, "%s don't call treachery.", e.Initiator)
	}

	if gs.Battle.BothCallsPresent() {
		gs.enterOr(!gs.Battle.traitorCalled() && gs.retreatingSide() != None, PhaseRetreating, gs.handleRevealedBattlePlans)
	}
}

// revealedPlanOf returns f's plan while treachery calls are still open.
func (gs *GameState) revealedPlanOf(f Faction) (*BattlePlan, error) {
	if gs.Battle.Current == nil {
		return nil, rejectWith(ErrNoBattle, "no battle is being fought")
	}
	if gs.Phase.Current != PhaseCallTraitorOrPass {
		return nil, rejectWith(ErrWrongPhase, "only revealed plans can be changed")
	}
	plan := gs.Battle.PlanOf(f)
	if plan == nil {
		return nil, reject("%s are not fighting this battle", f)
	}
	return plan, nil
}

func (gs *GameState) validatePoisonToothCancelled(e *PoisonToothCancelled) error {
	plan, err := gs.revealedPlanOf(e.Initiator)
	if err != nil {
		return err
	}
	if !gs.Cards.Type(plan.Weapon).IsPoisonTooth() {
		return reject("you didn't play a %s", PoisonTooth)
	}
	if gs.Battle.ToothCancelled {
		return reject("the %s was already cancelled", PoisonTooth)
	}
	return nil
}

func (gs *GameState) cancelPoisonTooth(e *PoisonToothCancelled) {
	gs.Battle.ToothCancelled = true
	gs.log(e.Initiator, "%s don't use their %s.", e.Initiator, PoisonTooth)
}

func (gs *GameState) validatePortableAntidoteUsed(e *PortableAntidoteUsed) error {
	plan, err := gs.revealedPlanOf(e.Initiator)
	if err != nil {
		return err
	}
	if !gs.GetPlayer(e.Initiator).HasCard(e.Card) || gs.Cards.Type(e.Card) != PortableAntidote {
		return reject("you don't have a %s", PortableAntidote)
	}
	if gs.Battle.Antidote != nil {
		return reject("a %s was already used in this battle", PortableAntidote)
	}
	if !plan.HasHero() || plan.Defense != 0 || plan.Weapon == e.Card {
		return reject("your plan has no room for a %s", PortableAntidote)
	}
	if allowed, _ := gs.applyVoice(e.Initiator, false, []CardID{e.Card}, gs.Cards.Type(plan.Weapon)); !slices.Contains(allowed, e.Card) {
		return reject("the voice prevents a %s", PortableAntidote)
	}
	return nil
}

func (gs *GameState) usePortableAntidote(e *PortableAntidoteUsed) {
	gs.Battle.Antidote = clonePtr(e)
	gs.Battle.PlanOf(e.Initiator).Defense = e.Card
	gs.log(e.Initiator, "%s use a %s.", e.Initiator, gs.Cards.Get(e.Card))
}

// retreatingSide is the combatant whose Sandmaster may pull back undialed forces.
func (gs *GameState) retreatingSide() Faction {
	for _, plan := range []*BattlePlan{gs.Battle.AggressorPlan, gs.Battle.DefenderPlan} {
		if plan != nil && gs.SkilledAs(plan.Leader, Sandmaster) && gs.undialed(plan).Total() > 0 {
			return plan.Initiator
		}
	}
	return None
}

func (gs *GameState) undialed(plan *BattlePlan) Battalion {
	present := gs.GetPlayer(plan.Initiator).ForcesInTerritory(gs.battleTerritory())
	dialed := plan.Dialed()
	return Battalion{Normal: present.Normal - dialed.Normal, Special: present.Special - dialed.Special}
}

func (gs *GameState) validateRetreat(e *Retreat) error {
	if gs.Phase.Current != PhaseRetreating {
		return rejectWith(ErrWrongPhase, "retreats are decided once treachery calls are made")
	}
	if e.Initiator != gs.retreatingSide() {
		return reject("%s cannot retreat", e.Initiator)
	}
	if e.Forces < 0 || e.SpecialForces < 0 {
		return reject("invalid number of forces")
	}
	if e.Forces+e.SpecialForces == 0 {
		return nil
	}
	undialed := gs.undialed(gs.Battle.PlanOf(e.Initiator))
	if e.Forces > undialed.Normal || e.SpecialForces > undialed.Special {
		return reject("only %s undialed forces can retreat", undialed)
	}
	t := gs.battleTerritory()
	loc := gs.Map.Locations[e.Location]
	if loc == nil || loc.Territory == t.ID {
		return reject("invalid retreat location")
	}
	if !slices.ContainsFunc(t.Locations, func(l LocationID) bool { return gs.Map.AreAdjacent(l, e.Location) }) {
		return reject("%s is not adjacent to %s", loc.Name, t.Name)
	}
	if !gs.fightable(e.Location) && e.Location != gs.Map.PolarSink {
		return reject("%s is in the storm", loc.Name)
	}
	for _, p := range gs.Players {
		if p.Faction != e.Initiator && p.ForcesIn(e.Location).Total() > 0 {
			return reject("%s is occupied by %s", loc.Name, p.Faction)
		}
	}
	return nil
}

func (gs *GameState) retreat(e *Retreat) {
	if e.Forces+e.SpecialForces > 0 {
		gs.Battle.Retreat = clonePtr(e)
		gs.log(e.Initiator, "%s will retreat %d forces to %s.", e.Initiator, e.Forces+e.SpecialForces, gs.Map.Locations[e.Location].Name)
	} else {
		gs.log(e.Initiator, "%s don't retreat.", e.Initiator)
	}
	gs.handleRevealedBattlePlans()
}
