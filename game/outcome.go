package game

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"treachery/meta"
)

// Path is the way a battle was resolved. Exactly one applies to every battle.
type Path int

const (
	PathNumeric Path = iota
	PathSingleTraitor
	PathDoubleTraitor
	PathExplosion
)

var pathNames = map[Path]string{
	PathNumeric:       "Numeric",
	PathSingleTraitor: "SingleTraitor",
	PathDoubleTraitor: "DoubleTraitor",
	PathExplosion:     "Explosion",
}

func (p Path) String() string {
	if s, ok := pathNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Path(%d)", int(p))
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type CauseOfDeath int

const (
	CauseNone CauseOfDeath = iota
	CauseArtillery
	CausePoisonTooth
	CauseLaser
	CausePoison
	CauseProjectile
	CauseTraitor
	CauseExplosion
)

var causeNames = map[CauseOfDeath]string{
	CauseNone:        "None",
	CauseArtillery:   "Artillery",
	CausePoisonTooth: "PoisonTooth",
	CauseLaser:       "Lasgun",
	CausePoison:      "Poison",
	CauseProjectile:  "Projectile",
	CauseTraitor:     "Treachery",
	CauseExplosion:   "Explosion",
}

func (c CauseOfDeath) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("CauseOfDeath(%d)", int(c))
}

func (c CauseOfDeath) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type Side int

const (
	AggressorSide Side = iota
	DefenderSide
)

// SideOutcome is the tally of one combatant.
type SideOutcome struct {
	Faction Faction `json:"faction"`
	// HeroValue is the effective strength of the hero, zero under artillery.
	HeroValue  int          `json:"heroValue"`
	SkillBonus int          `json:"skillBonus"`
	Messiah    int          `json:"messiah"`
	Thinker    int          `json:"thinker"`
	Penalty    int          `json:"penalty"`
	Dial       float64      `json:"dial"`
	Total      float64      `json:"total"`
	HeroKilled bool         `json:"heroKilled"`
	Cause      CauseOfDeath `json:"cause"`
	// CarthagSaved is set when a stronghold advantage stopped a poison.
	CarthagSaved bool `json:"carthagSaved"`
}

// BattleOutcome is the pure result of two revealed plans.
type BattleOutcome struct {
	Path              Path        `json:"path"`
	Aggressor         SideOutcome `json:"aggressor"`
	Defender          SideOutcome `json:"defender"`
	AggressorWinsTies bool        `json:"aggressorWinsTies"`
	Winner            Faction     `json:"winner"`
	Loser             Faction     `json:"loser"`
}

func (o *BattleOutcome) side(s Side) *SideOutcome {
	if s == AggressorSide {
		return &o.Aggressor
	}
	return &o.Defender
}

// DecideWinner applies the tie-break predicate to two totals. It always names exactly one side.
func DecideWinner(aggressor, defender float64, aggressorWinsTies bool) Side {
	if aggressorWinsTies {
		if aggressor >= defender {
			return AggressorSide
		}
		return DefenderSide
	}
	if defender >= aggressor {
		return DefenderSide
	}
	return AggressorSide
}

// AggressorWinsTies evaluates the tie predicate for the current battle.
func (gs *GameState) AggressorWinsTies() bool {
	agg, def := gs.Battle.Aggressor(), gs.Battle.Defender()
	if gs.HasStrongholdAdvantage(def, WinTies) {
		return false
	}
	if gs.isAggressorByJuice(def) && !gs.HasStrongholdAdvantage(agg, WinTies) {
		return false
	}
	return true
}

func formatStrength(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

func (gs *GameState) specialForceStrength(f, opponent Faction) float64 {
	switch {
	case f == Blue:
		return 0
	case f == Red && opponent == Yellow:
		return 1
	case (f == Yellow || f == Red || f == Grey) && gs.Prevented(f, SpecialForceBonus):
		return 1
	}
	return 2
}

// ForceValue is the strength of a committed battalion. Forces at half strength fought without spice.
func (gs *GameState) ForceValue(f, opponent Faction, forces, specials, forcesHalf, specialsHalf int) float64 {
	special := gs.specialForceStrength(f, opponent)
	normal, normalNoSpice := 1.0, 0.5
	if f == Grey {
		normal, normalNoSpice = 0.5, 1
	}
	const specialNoSpice = 0.5
	return normal*float64(forces) +
		special*float64(specials) +
		normalNoSpice*normal*float64(forcesHalf) +
		specialNoSpice*special*float64(specialsHalf)
}

// Dial is the force strength committed by plan against opponent.
func (gs *GameState) Dial(plan *BattlePlan, opponent Faction) float64 {
	return gs.ForceValue(plan.Initiator, opponent, plan.Forces, plan.SpecialForces, plan.ForcesAtHalfStrength, plan.SpecialForcesAtHalfStrength)
}

// skillBonus walks the combat skills in order. A skill counts when the plan holds a card of its
// category and the leader (or else the player) has it; the first one that counts decides.
func (gs *GameState) skillBonus(plan *BattlePlan) int {
	weapon, defense := gs.Cards.Type(plan.Weapon), gs.Cards.Type(plan.Defense)
	checks := []struct {
		skill   Skill
		matches bool
	}{
		{Warmaster, weapon.IsUseless() || defense.IsUseless()},
		{Adept, defense.IsProjectileDefense()},
		{Swordmaster, weapon.IsProjectileWeapon()},
		{KillerMedic, defense.IsPoisonDefense()},
		{MasterOfAssassins, weapon.IsPoisonWeapon() || weapon.IsPoisonTooth()},
	}
	for _, c := range checks {
		if !c.matches {
			continue
		}
		if gs.SkilledAs(plan.Leader, c.skill) {
			return meta.SKILLED_LEADER_BONUS
		}
		if gs.PlayerSkilledAs(plan.Initiator, c.skill) {
			return meta.SKILLED_PLAYER_BONUS
		}
	}
	return 0
}

// causeOfDeath walks the death chain for plan's hero facing opponent. The first matching cause wins.
func (gs *GameState) causeOfDeath(plan, opponent *BattlePlan, poisonTooth, artillery bool) (CauseOfDeath, bool) {
	if !plan.HasHero() {
		return CauseNone, false
	}
	defense := gs.Cards.Type(plan.Defense)
	weapon := gs.Cards.Type(opponent.Weapon)
	ownPoison := poisonInWeaponSlot(gs.Cards.Type(plan.Weapon)) || gs.Cards.Type(plan.Weapon).IsPoisonTooth()
	carthag := gs.HasStrongholdAdvantage(plan.Initiator, CountDefensesAsAntidote) && !ownPoison && defense.IsDefense()

	switch {
	case artillery && !defense.IsShield():
		return CauseArtillery, false
	case poisonTooth && !defense.IsNonAntidotePoisonDefense():
		return CausePoisonTooth, false
	case weapon.IsLaser():
		return CauseLaser, false
	case poisonInWeaponSlot(weapon) && !defense.IsPoisonDefense():
		if carthag {
			return CauseNone, true
		}
		return CausePoison, false
	case weapon.IsProjectileWeapon() && !defense.IsProjectileDefense():
		return CauseProjectile, false
	}
	return CauseNone, false
}

// poisonInWeaponSlot is true for poison weapons, and for chemistry played as a weapon.
func poisonInWeaponSlot(t CardType) bool {
	return t.IsPoisonWeapon() || t == Chemistry
}

func (gs *GameState) usesType(plans []*BattlePlan, is func(CardType) bool) bool {
	for _, p := range plans {
		if is(gs.Cards.Type(p.Weapon)) || is(gs.Cards.Type(p.Defense)) {
			return true
		}
	}
	return false
}

// explodes reports whether a lasgun meets a shield anywhere in the two plans.
func (gs *GameState) explodes(agg, def *BattlePlan) bool {
	plans := []*BattlePlan{agg, def}
	return gs.usesType(plans, CardType.IsLaser) && gs.usesType(plans, CardType.IsShield)
}

func (gs *GameState) leaderValue(plan, opponent *BattlePlan) int {
	l := gs.Leaders.Get(plan.Leader)
	if l == nil {
		return 0
	}
	return l.ValueAgainst(gs.Leaders.Get(opponent.Leader))
}

// ComputeOutcome resolves two plans without changing the game.
func (gs *GameState) ComputeOutcome(agg, def *BattlePlan, aggCall, defCall *TreacheryCalled) *BattleOutcome {
	o := &BattleOutcome{
		Aggressor:         SideOutcome{Faction: agg.Initiator},
		Defender:          SideOutcome{Faction: def.Initiator},
		AggressorWinsTies: gs.AggressorWinsTies(),
	}
	aggCalled := aggCall != nil && aggCall.Called
	defCalled := defCall != nil && defCall.Called

	switch {
	case aggCalled && defCalled:
		o.Path = PathDoubleTraitor
		o.Aggressor.HeroKilled, o.Aggressor.Cause = agg.Leader != 0, CauseTraitor
		o.Defender.HeroKilled, o.Defender.Cause = def.Leader != 0, CauseTraitor

	case aggCalled || defCalled:
		o.Path = PathSingleTraitor
		winner, loser, traitor := AggressorSide, DefenderSide, def
		if defCalled {
			winner, loser, traitor = DefenderSide, AggressorSide, agg
		}
		o.Winner, o.Loser = o.side(winner).Faction, o.side(loser).Faction
		o.side(loser).HeroKilled, o.side(loser).Cause = true, CauseTraitor
		o.side(loser).HeroValue = gs.leaderValue(traitor, gs.planFor(o.Winner, agg, def))

	case gs.explodes(agg, def):
		o.Path = PathExplosion
		o.Aggressor.HeroKilled, o.Aggressor.Cause = agg.Leader != 0, CauseExplosion
		o.Defender.HeroKilled, o.Defender.Cause = def.Leader != 0, CauseExplosion

	default:
		o.Path = PathNumeric
		gs.tally(o, agg, def)
	}
	return o
}

func (gs *GameState) planFor(f Faction, agg, def *BattlePlan) *BattlePlan {
	if agg.Initiator == f {
		return agg
	}
	return def
}

func (gs *GameState) tally(o *BattleOutcome, agg, def *BattlePlan) {
	plans := []*BattlePlan{agg, def}
	artillery := gs.usesType(plans, CardType.IsArtillery)
	poisonTooth := gs.usesType(plans, CardType.IsPoisonTooth) && !gs.Battle.ToothCancelled

	score := func(s *SideOutcome, plan, opponent *BattlePlan) {
		s.Cause, s.CarthagSaved = gs.causeOfDeath(plan, opponent, poisonTooth, artillery)
		s.HeroKilled = s.Cause != CauseNone
		if plan.HasHero() && !artillery {
			s.HeroValue = gs.leaderValue(plan, opponent)
		}
		s.Dial = gs.Dial(plan, opponent.Initiator)
		contribution := 0
		if !s.HeroKilled {
			contribution = s.HeroValue
			s.SkillBonus = gs.skillBonus(plan)
			if plan.HasHero() && !artillery {
				if plan.Messiah && plan.Initiator == Green {
					s.Messiah = meta.MESSIAH_BONUS
				}
				if gs.SkilledAs(plan.Leader, Thinker) {
					s.Thinker = meta.THINKER_BONUS
				}
			}
		}
		if gs.SkilledAs(opponent.Leader, Bureaucrat) {
			s.Penalty = gs.StrongholdsOccupiedBy(plan.Initiator)
		}
		s.Total = s.Dial + float64(contribution+s.SkillBonus+s.Messiah+s.Thinker-s.Penalty)
	}
	score(&o.Aggressor, agg, def)
	score(&o.Defender, def, agg)

	if DecideWinner(o.Aggressor.Total, o.Defender.Total, o.AggressorWinsTies) == AggressorSide {
		o.Winner, o.Loser = agg.Initiator, def.Initiator
	} else {
		o.Winner, o.Loser = def.Initiator, agg.Initiator
	}
}
