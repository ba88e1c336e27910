package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRejectedEventLeavesGameUntouched(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	before := gs.Hash()
	reports := gs.Report.Len()

	err := gs.Execute(b.plan(Red, "Caid", 9), false, true)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, KindBattlePlan, ve.Kind)
	require.Equal(t, before, gs.Hash())
	require.Equal(t, reports, gs.Report.Len())
}

func TestPlanValidation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(b *battle, p *BattlePlan)
	}{
		{"negative forces", func(b *battle, p *BattlePlan) { p.Forces = -1 }},
		{"more forces than present", func(b *battle, p *BattlePlan) { p.Forces, p.ForcesAtHalfStrength = 4, 2 }},
		{"more specials than present", func(b *battle, p *BattlePlan) { p.SpecialForces = 1 }},
		{"cannot pay", func(b *battle, p *BattlePlan) { b.player(Red).Resources = 2; p.Forces = 3 }},
		{"no hero", func(b *battle, p *BattlePlan) { p.Leader = 0 }},
		{"two heroes", func(b *battle, p *BattlePlan) { p.CheapHero = b.give(Red, Mercenary) }},
		{"opponent's leader", func(b *battle, p *BattlePlan) { p.Leader = b.leader("Feyd-Rautha") }},
		{"dead leader", func(b *battle, p *BattlePlan) { b.gs.Leaders.Kill(p.Leader) }},
		{"fought elsewhere", func(b *battle, p *BattlePlan) { b.gs.Leaders.Get(p.Leader).FoughtIn = b.territory.ID + 1 }},
		{"same card twice", func(b *battle, p *BattlePlan) {
			c := b.give(Red, Chemistry)
			p.Weapon, p.Defense = c, c
		}},
		{"card not in hand", func(b *battle, p *BattlePlan) { p.Weapon = b.gs.Deck[0] }},
		{"chemistry without defense", func(b *battle, p *BattlePlan) { p.Weapon = b.give(Red, Chemistry) }},
		{"defense as weapon", func(b *battle, p *BattlePlan) { p.Weapon = b.give(Red, Shield) }},
		{"weapon as defense", func(b *battle, p *BattlePlan) { p.Defense = b.give(Red, Projectile) }},
		{"messiah for red", func(b *battle, p *BattlePlan) { p.Messiah = true }},
		{"contribution without ally", func(b *battle, p *BattlePlan) { p.AllyContribution = 1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gs := newGame(t, Red, Black)
			b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
			plan := b.plan(Red, "Caid", 1)
			require.NoError(t, gs.Validate(plan))
			tc.modify(b, plan)
			require.Error(t, gs.Validate(plan))
		})
	}
}

func TestCheapHeroAndCards(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	hero := b.give(Red, Mercenary)
	chemistry := b.give(Red, Chemistry)
	shield := b.give(Red, Shield)

	plan := &BattlePlan{EventHead: EventHead{Initiator: Red}, CheapHero: hero, Forces: 1, Weapon: chemistry, Defense: shield}
	require.NoError(t, gs.Validate(plan), "Chemistry is a weapon next to a defense")

	b.do(plan)
	b.do(b.plan(Black, "Umman Kudu", 1))
	b.passBoth()
	require.Contains(t, gs.Discard, hero, "A cheap hero is discarded after the battle")
	require.False(t, gs.Leaders.Get(b.leader("Umman Kudu")).Alive(), "Chemistry counts as poison")
}

func TestPhaseGuards(t *testing.T) {
	gs := newGame(t, Red, Black)

	err := gs.Execute(&TreacheryCalled{EventHead: EventHead{Initiator: Red}}, false, true)
	require.ErrorIs(t, err, ErrNoBattle)

	err = gs.Execute(&EndPhase{}, false, true)
	require.ErrorIs(t, err, ErrHostOnly)

	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	err = gs.Execute(&TreacheryCalled{EventHead: EventHead{Initiator: Red}}, false, true)
	require.ErrorIs(t, err, ErrWrongPhase)

	err = gs.Execute(&EndPhase{}, true, true)
	require.ErrorIs(t, err, ErrWrongPhase, "A battle waits on its players")

	err = gs.Execute(b.plan(Green, "Duncan Idaho", 1), false, true)
	require.Error(t, err, "Green is not playing")
}

func TestBattleInitiationRules(t *testing.T) {
	gs := newGame(t, Red, Black, Green)
	l := gs.Map.LocationByName(arena)
	gs.GetPlayer(Red).AddForces(l, Battalion{Normal: 2})
	gs.GetPlayer(Black).AddForces(l, Battalion{Normal: 2})
	gs.GetPlayer(Green).AddForces(gs.Map.LocationByName("Carthag"), Battalion{Normal: 2})
	require.NoError(t, gs.Execute(&EndPhase{}, true, true))

	tid := gs.Map.TerritoryOf(l).ID
	require.Equal(t, []BattleOption{{Territory: tid, Opponent: Black}}, gs.BattlesToBeFought(Red))
	require.False(t, gs.MustFight(Green))

	err := gs.Execute(&BattleInitiated{EventHead: EventHead{Initiator: Black}, Target: Red, Territory: tid}, false, true)
	require.Error(t, err, "Red is first in seat order")
	err = gs.Execute(&BattleInitiated{EventHead: EventHead{Initiator: Red}, Target: Green, Territory: tid}, false, true)
	require.Error(t, err, "Green is not there")

	require.NoError(t, gs.Execute(&BattleInitiated{EventHead: EventHead{Initiator: Red}, Target: Black, Territory: tid}, false, true))
	require.Equal(t, 1, gs.Battle.Fought)
}

func TestStormAndPolarSinkPreventBattles(t *testing.T) {
	gs := newGame(t, Red, Black)
	l := gs.Map.LocationByName(arena)
	gs.GetPlayer(Red).AddForces(l, Battalion{Normal: 2})
	gs.GetPlayer(Black).AddForces(l, Battalion{Normal: 2})
	gs.GetPlayer(Red).AddForces(gs.Map.PolarSink, Battalion{Normal: 2})
	gs.GetPlayer(Black).AddForces(gs.Map.PolarSink, Battalion{Normal: 2})

	gs.Storm = gs.Map.Locations[l].Sector
	require.False(t, gs.MustFight(Red))

	gs.Rules.(*StandardRules).UnderStorm = true
	require.True(t, gs.MustFight(Red))
	require.Len(t, gs.BattlesToBeFought(Red), 1)
}

func TestGameEnded(t *testing.T) {
	gs := newGame(t, Red, Black)
	require.NoError(t, gs.Execute(&GameEnded{Winners: []Faction{Red}}, true, true))
	require.Equal(t, PhaseGameEnded, gs.Phase.Current)
	require.Equal(t, []Faction{Red}, gs.Winners)

	require.ErrorIs(t, gs.Execute(&EndPhase{}, true, true), ErrGameOver)
	require.ErrorIs(t, gs.Validate(&EndPhase{}), ErrGameOver)
}

func TestMilestonesAreScopedToOneEvent(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	poison := b.give(Red, Poison)
	red := b.plan(Red, "Caid", 1)
	red.Weapon = poison
	b.do(red)
	b.do(b.plan(Black, "Umman Kudu", 1))
	b.passBoth()
	require.True(t, gs.Reached(MilestoneLeaderKilled))

	b.do(&BattleConcluded{EventHead: EventHead{Initiator: Red}, Discarded: []CardID{poison}})
	require.False(t, gs.Reached(MilestoneLeaderKilled))
	require.Contains(t, gs.Discard, poison)
}

func TestWinnerDiscardsOnlyBattleCards(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	karma := b.give(Red, Karma)
	b.do(b.plan(Red, "Caid", 1))
	b.do(b.plan(Black, "Umman Kudu", 1))
	b.passBoth()

	err := gs.Execute(&BattleConcluded{EventHead: EventHead{Initiator: Red}, Discarded: []CardID{karma}}, false, true)
	require.Error(t, err)
	err = gs.Execute(&BattleConcluded{EventHead: EventHead{Initiator: Black}}, false, true)
	require.Error(t, err, "Only the winner concludes")
}

func playScriptedBattle(t *testing.T, seed uint64) *GameState {
	gs := NewStandardGame(NewStandardRules(), seed)
	for _, f := range []Faction{Black, Red} {
		gs.AddPlayer(f).Resources = 20
	}
	gs.Phase = PhaseState{Turn: 1, Current: PhaseShipmentAndMove}
	b := startBattle(t, gs, Black, Red, Battalion{Normal: 6}, Battalion{Normal: 3})
	for i := 0; i < 3; i++ {
		gs.Draw(Red)
	}
	b.do(&ResidualPlayed{EventHead: EventHead{Initiator: Black}, Card: b.give(Black, Residual)})
	b.do(b.plan(Black, "Feyd-Rautha", 3))
	red := gs.ValidBattleHeroes(Red)[0]
	b.do(&BattlePlan{EventHead: EventHead{Initiator: Red}, Leader: red.Leader, Forces: 1})
	b.passBoth()
	b.do(&CaptureDecided{EventHead: EventHead{Initiator: Black}, Decision: Capture})
	return gs
}

func TestDeterminism(t *testing.T) {
	a := playScriptedBattle(t, 11)
	b := playScriptedBattle(t, 11)
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a.Report.String(), b.Report.String())
	require.Equal(t, a.Battle.Victim, b.Battle.Victim)
}

func TestCopyIsIndependent(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	b.do(b.plan(Red, "Caid", 1))
	before := gs.Hash()

	c := gs.Copy()
	require.Equal(t, before, c.Hash())
	require.NoError(t, c.Execute(b.plan(Black, "Umman Kudu", 1), false, true))
	c.GetPlayer(Red).Resources = 0
	c.Leaders.Kill(b.leader("Caid"))
	c.Battle.AggressorPlan.Forces = 3

	require.Equal(t, before, gs.Hash())
	require.Nil(t, gs.Battle.DefenderPlan)
	require.Equal(t, 1, gs.Battle.AggressorPlan.Forces)
	require.True(t, gs.Leaders.Get(b.leader("Caid")).Alive())
}

func TestInvariantViolationPanics(t *testing.T) {
	gs := newGame(t, Red)
	gs.GetPlayer(Red).Resources = -1
	require.Panics(t, gs.checkInvariants)
}
