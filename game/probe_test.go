package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeOutcome(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})

	result, outcome := ProbeOutcome(gs, b.plan(Red, "Bashar", 2))
	require.Equal(t, ProbeUnknown, result, "Black has no plan yet")
	require.Nil(t, outcome)

	b.do(b.plan(Black, "Umman Kudu", 3))
	before := gs.Hash()

	result, outcome = ProbeOutcome(gs, b.plan(Red, "Bashar", 1))
	require.Equal(t, ProbeLoss, result)
	require.Equal(t, Black, outcome.Winner)

	result, _ = ProbeOutcome(gs, b.plan(Red, "Bashar", 5))
	require.Equal(t, ProbeWin, result)

	result, _ = ProbeOutcome(gs, b.plan(Red, "Bashar", 9))
	require.Equal(t, ProbeUnknown, result, "Invalid plans cannot be probed")

	require.Equal(t, before, gs.Hash(), "Probing never touches the game")
	require.Equal(t, PhaseBattle, gs.Phase.Current)
}

func TestDraftPlanErrorsNameTheirKind(t *testing.T) {
	gs := newGame(t, Red, Black)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})

	err := gs.checkDraftPlan(b.plan(Red, "Bashar", 9))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, KindBattlePlan, ve.Kind)
	require.Contains(t, err.Error(), "invalid BattlePlan: ")

	require.NoError(t, gs.checkDraftPlan(b.plan(Red, "Bashar", 2)))
}

func TestProbeOutsideTheBattle(t *testing.T) {
	gs := newGame(t, Red, Black, Green)
	b := startBattle(t, gs, Red, Black, Battalion{Normal: 5}, Battalion{Normal: 5})
	result, _ := ProbeOutcome(gs, b.plan(Green, "Duncan Idaho", 1))
	require.Equal(t, ProbeUnknown, result)
}
