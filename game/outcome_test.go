package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecideWinnerIsTotal(t *testing.T) {
	for a := 0.0; a <= 10; a += 0.5 {
		for d := 0.0; d <= 10; d += 0.5 {
			for _, aggressorWinsTies := range []bool{true, false} {
				side := DecideWinner(a, d, aggressorWinsTies)
				require.Contains(t, []Side{AggressorSide, DefenderSide}, side)
				switch {
				case a > d:
					require.Equal(t, AggressorSide, side)
				case d > a:
					require.Equal(t, DefenderSide, side)
				case aggressorWinsTies:
					require.Equal(t, AggressorSide, side)
				default:
					require.Equal(t, DefenderSide, side)
				}
			}
		}
	}
}

func TestResolutionPathsAreExclusive(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	lasgun := b.give(Red, Laser)
	shield := b.give(Black, Shield)

	for _, aggCalled := range []bool{false, true} {
		for _, defCalled := range []bool{false, true} {
			for _, explosive := range []bool{false, true} {
				agg := b.plan(Red, "Caid", 2)
				def := b.plan(Black, "Beast Rabban", 2)
				if explosive {
					agg.Weapon, def.Defense = lasgun, shield
				}
				o := gs.ComputeOutcome(agg, def,
					&TreacheryCalled{EventHead: EventHead{Initiator: Red}, Called: aggCalled},
					&TreacheryCalled{EventHead: EventHead{Initiator: Black}, Called: defCalled})

				switch {
				case aggCalled && defCalled:
					require.Equal(t, PathDoubleTraitor, o.Path)
				case aggCalled || defCalled:
					require.Equal(t, PathSingleTraitor, o.Path, "Treachery comes before any explosion")
				case explosive:
					require.Equal(t, PathExplosion, o.Path)
				default:
					require.Equal(t, PathNumeric, o.Path)
				}

				if o.Path == PathNumeric || o.Path == PathSingleTraitor {
					require.NotEqual(t, None, o.Winner)
					require.NotEqual(t, o.Winner, o.Loser)
				} else {
					require.Equal(t, None, o.Winner)
				}
			}
		}
	}
}

func TestDeathChain(t *testing.T) {
	for _, tc := range []struct {
		name           string
		weapon         CardType
		defense        CardType
		defenderCause  CauseOfDeath
		aggressorCause CauseOfDeath
	}{
		{"projectile undefended", Projectile, NoCard, CauseProjectile, CauseNone},
		{"projectile against shield", Projectile, Shield, CauseNone, CauseNone},
		{"poison against snooper", Poison, Antidote, CauseNone, CauseNone},
		{"poison against shield", Poison, Shield, CausePoison, CauseNone},
		{"poison blade against shield", ProjectileAndPoison, Shield, CausePoison, CauseNone},
		{"poison blade against shield snooper", ProjectileAndPoison, ShieldAndAntidote, CauseNone, CauseNone},
		{"lasgun against snooper", Laser, Antidote, CauseLaser, CauseNone},
		{"artillery undefended", ArtilleryStrike, NoCard, CauseArtillery, CauseArtillery},
		{"artillery against shield", ArtilleryStrike, Shield, CauseNone, CauseArtillery},
		{"poison tooth against snooper", PoisonTooth, Antidote, CausePoisonTooth, CausePoisonTooth},
		{"poison tooth against chemistry", PoisonTooth, Chemistry, CauseNone, CausePoisonTooth},
		{"useless", Useless, NoCard, CauseNone, CauseNone},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gs := newGame(t, Red, Black)
			b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
			agg := b.plan(Red, "Caid", 1)
			def := b.plan(Black, "Beast Rabban", 1)
			agg.Weapon = b.give(Red, tc.weapon)
			if tc.defense != NoCard {
				def.Defense = b.give(Black, tc.defense)
			}

			o := gs.ComputeOutcome(agg, def, nil, nil)
			require.Equal(t, PathNumeric, o.Path)
			require.Equal(t, tc.defenderCause, o.Defender.Cause)
			require.Equal(t, tc.defenderCause != CauseNone, o.Defender.HeroKilled)
			require.Equal(t, tc.aggressorCause, o.Aggressor.Cause)
		})
	}
}

func TestArtilleryCancelsLeaderValue(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	agg := b.plan(Red, "Captain Aramsham", 2)
	def := b.plan(Black, "Feyd-Rautha", 1)
	agg.Weapon = b.give(Red, ArtilleryStrike)
	agg.Defense = b.give(Red, Shield)
	def.Defense = b.give(Black, Shield)

	o := gs.ComputeOutcome(agg, def, nil, nil)
	require.False(t, o.Aggressor.HeroKilled)
	require.False(t, o.Defender.HeroKilled)
	require.Zero(t, o.Aggressor.HeroValue)
	require.Equal(t, 2.0, o.Aggressor.Total)
	require.Equal(t, 1.0, o.Defender.Total)
}

func TestSkillBonus(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	caid := gs.Leaders.Get(b.leader("Caid"))
	knife := b.give(Red, Projectile)

	plan := b.plan(Red, "Caid", 1)
	plan.Weapon = knife
	require.Zero(t, gs.skillBonus(plan))

	caid.Skill = Swordmaster
	require.Equal(t, 3, gs.skillBonus(plan), "A skilled leader in battle")

	caid.Skill = NoSkill
	burseg := gs.Leaders.Get(b.leader("Burseg"))
	burseg.Skill = Swordmaster
	burseg.InFrontOfShield = true
	require.Equal(t, 1, gs.skillBonus(plan), "A skilled leader in front of the shield")

	plan.Weapon = b.give(Red, Useless)
	require.Zero(t, gs.skillBonus(plan), "Useless cards only count for a warmaster")
}

func TestSkillBonusWithMixedCards(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	caid := gs.Leaders.Get(b.leader("Caid"))
	caid.Skill = Swordmaster

	plan := b.plan(Red, "Caid", 1)
	plan.Weapon = b.give(Red, Projectile)
	plan.Defense = b.give(Red, Useless)
	require.NoError(t, gs.checkPlan(plan))
	require.Equal(t, 3, gs.skillBonus(plan), "Nobody is a warmaster, so the swordmaster counts")

	caid.Skill = KillerMedic
	plan.Defense = b.give(Red, Antidote)
	require.Equal(t, 3, gs.skillBonus(plan), "A projectile weapon does not hide the medic")

	caid.Skill = NoSkill
	burseg := gs.Leaders.Get(b.leader("Burseg"))
	burseg.Skill = MasterOfAssassins
	burseg.InFrontOfShield = true
	plan.Weapon = b.give(Red, ProjectileAndPoison)
	require.Equal(t, 1, gs.skillBonus(plan), "The player's assassin counts past the unclaimed skills")
}

func TestThinkerAndBureaucrat(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	gs.GetPlayer(Red).AddForces(gs.Map.LocationByName("Arrakeen"), Battalion{Normal: 1})
	gs.GetPlayer(Red).AddForces(gs.Map.LocationByName("Carthag"), Battalion{Normal: 1})
	gs.Leaders.Get(b.leader("Caid")).Skill = Thinker
	gs.Leaders.Get(b.leader("Beast Rabban")).Skill = Bureaucrat

	o := gs.ComputeOutcome(b.plan(Red, "Caid", 1), b.plan(Black, "Beast Rabban", 1), nil, nil)
	require.Equal(t, 2, o.Aggressor.Thinker)
	require.Equal(t, 2, o.Aggressor.Penalty, "Red occupies two strongholds")
	require.Equal(t, 1.0+3+2-2, o.Aggressor.Total)
}

func TestMessiahBonus(t *testing.T) {
	gs := newGame(t, Green, Red)
	b := startBattle(t, gs, Green, Red, Battalion{Normal: 5}, Battalion{Normal: 5})
	gs.GetPlayer(Green).KilledInBattle = 7
	require.True(t, gs.MessiahAvailable(Green))

	plan := b.plan(Green, "Duncan Idaho", 1)
	plan.Messiah = true
	require.NoError(t, gs.checkPlan(plan))

	o := gs.ComputeOutcome(plan, b.plan(Red, "Bashar", 1), nil, nil)
	require.Equal(t, 2, o.Aggressor.Messiah)
	require.Equal(t, 1.0+2+2, o.Aggressor.Total)

	gs.Advantages.Prevent(Green, UseMessiah, false)
	require.Error(t, gs.checkPlan(plan))
}

func TestDial(t *testing.T) {
	gs := newGame(t, Red, Grey, Blue)
	for _, tc := range []struct {
		faction  Faction
		opponent Faction
		plan     BattlePlan
		want     float64
	}{
		{Red, Grey, BattlePlan{Forces: 2, SpecialForces: 1}, 4},
		{Red, Yellow, BattlePlan{Forces: 2, SpecialForces: 1}, 3},
		{Red, Grey, BattlePlan{ForcesAtHalfStrength: 2, SpecialForcesAtHalfStrength: 2}, 3},
		{Grey, Red, BattlePlan{Forces: 2, SpecialForces: 1}, 3},
		{Grey, Red, BattlePlan{ForcesAtHalfStrength: 2}, 1},
		{Blue, Red, BattlePlan{Forces: 3, SpecialForces: 2}, 3},
	} {
		plan := tc.plan
		plan.Initiator = tc.faction
		require.Equal(t, tc.want, gs.Dial(&plan, tc.opponent), "%s against %s", tc.faction, tc.opponent)
	}
}
