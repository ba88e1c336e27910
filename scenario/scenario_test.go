package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treachery/game"
)

func TestLoad(t *testing.T) {
	sc, err := Load("testdata/traitor.yaml")
	require.NoError(t, err)
	require.Equal(t, "single traitor", sc.Name)
	require.Equal(t, uint64(11), sc.Seed)
	require.False(t, sc.Rules.LeaderSkills())
	require.True(t, sc.Rules.AdvancedCombat(), "Unset rules keep their standard value")
	require.Len(t, sc.Steps, 6)
	require.Equal(t, game.KindEndPhase, sc.Steps[0].Kind)
	require.True(t, sc.Steps[0].Host)
	require.NotEmpty(t, sc.Source)

	gs, err := sc.NewGame(0)
	require.NoError(t, err)
	require.Equal(t, game.PhaseShipmentAndMove, gs.Phase.Current)
	require.Equal(t, 1, gs.Phase.Turn)

	black := gs.GetPlayer(game.Black)
	require.Equal(t, 10, black.Resources)
	require.Equal(t, []game.LeaderID{gs.Leaders.ByName("Gurney Halleck")}, black.Traitors)
	require.Len(t, black.Hand, 1)
	require.Equal(t, game.Poison, gs.Cards.Type(black.Hand[0]))
	require.Equal(t, game.Battalion{Normal: 4}, black.ForcesIn(gs.Map.LocationByName("Imperial Basin (10)")))
}

func TestSeedOverride(t *testing.T) {
	sc, err := Load("testdata/traitor.yaml")
	require.NoError(t, err)
	a, err := sc.NewGame(0)
	require.NoError(t, err)
	b, err := sc.NewGame(11)
	require.NoError(t, err)
	c, err := sc.NewGame(12)
	require.NoError(t, err)
	require.Equal(t, a.Deck, b.Deck)
	require.NotEqual(t, a.Deck, c.Deck)
}

func TestStepResolvesNames(t *testing.T) {
	sc, err := Load("testdata/traitor.yaml")
	require.NoError(t, err)
	gs, err := sc.NewGame(0)
	require.NoError(t, err)

	e, err := sc.Steps[1].Event(gs)
	require.NoError(t, err)
	initiated := e.(*game.BattleInitiated)
	require.Equal(t, game.Black, initiated.Initiator)
	require.Equal(t, game.Green, initiated.Target)
	require.Equal(t, gs.Map.TerritoryByName("Imperial Basin"), initiated.Territory)

	e, err = sc.Steps[3].Event(gs)
	require.NoError(t, err)
	plan := e.(*game.BattlePlan)
	green := gs.GetPlayer(game.Green)
	require.Equal(t, gs.Leaders.ByName("Gurney Halleck"), plan.Leader)
	require.Equal(t, 4, plan.Forces)
	require.True(t, green.HasCard(plan.Weapon))
	require.True(t, green.HasCard(plan.Defense))
	require.Equal(t, game.Projectile, gs.Cards.Type(plan.Weapon))
	require.Equal(t, game.Shield, gs.Cards.Type(plan.Defense))

	e, err = sc.Steps[4].Event(gs)
	require.NoError(t, err)
	require.True(t, e.(*game.TreacheryCalled).Called)
}

func TestStepErrors(t *testing.T) {
	sc, err := Parse([]byte(`
players:
  - faction: Red
  - faction: Black
steps:
  - event: BattlePlan
    initiator: Red
    leader: Nobody
  - event: BattlePlan
    initiator: Red
    leader: Bashar
    weapon: Lasgun
`))
	require.NoError(t, err)
	gs, err := sc.NewGame(1)
	require.NoError(t, err)

	_, err = sc.Steps[0].Event(gs)
	require.ErrorContains(t, err, "Nobody")
	_, err = sc.Steps[1].Event(gs)
	require.ErrorContains(t, err, "Lasgun", "Red holds no cards")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"too few players", "players:\n  - faction: Red\n"},
		{"unknown faction", "players:\n  - faction: Mauve\n  - faction: Red\n"},
		{"unknown event", "players:\n  - faction: Red\n  - faction: Black\nsteps:\n  - event: Teleport\n"},
		{"not yaml", "players: ["},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown location", "players:\n  - faction: Red\n    forces:\n      Atlantis: {normal: 1}\n  - faction: Black\n"},
		{"unknown traitor", "players:\n  - faction: Red\n    traitors: [Nobody]\n  - faction: Black\n"},
		{"absent ally", "players:\n  - faction: Red\n    ally: Blue\n  - faction: Black\n"},
		{"own captive", "players:\n  - faction: Red\n    captives: [Bashar]\n  - faction: Black\n"},
		{"seat off the board", "players:\n  - faction: Red\n    seat: 18\n  - faction: Black\n"},
		{"unknown spice location", "spice:\n  Atlantis: 3\nplayers:\n  - faction: Red\n  - faction: Black\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := Parse([]byte(tc.doc))
			require.NoError(t, err)
			_, err = sc.NewGame(1)
			require.Error(t, err)
		})
	}
}

func TestAlliesAndSkills(t *testing.T) {
	sc, err := Parse([]byte(`
storm: 4
spice:
  The Great Flat: 6
players:
  - faction: Purple
    ally: Black
  - faction: Black
    captives: [Bashar]
    skills:
      Feyd-Rautha: Graduate
    inFrontOfShield: [Feyd-Rautha]
  - faction: Red
    seat: 7
`))
	require.NoError(t, err)
	gs, err := sc.NewGame(1)
	require.NoError(t, err)

	require.True(t, gs.Allies(game.Purple, game.Black))
	require.True(t, gs.Allies(game.Black, game.Purple))
	require.Equal(t, game.Black, gs.Leaders.Get(gs.Leaders.ByName("Bashar")).Owner())
	require.True(t, gs.PlayerSkilledAs(game.Black, game.Graduate))
	require.Equal(t, 4, gs.Storm)
	require.Equal(t, 7, gs.GetPlayer(game.Red).Seat)
	require.Equal(t, []game.Faction{game.Red, game.Purple, game.Black}, gs.BattleSequence(), "Red sits first after the storm")
	require.Equal(t, 6, gs.Spice[gs.Map.LocationByName("The Great Flat")])
}
