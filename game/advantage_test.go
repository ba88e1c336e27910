package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvantageStates(t *testing.T) {
	a := NewAdvantages()
	require.Equal(t, Allowed, a.State(Blue, UseVoice))

	a.Prevent(Blue, UseVoice, false)
	require.Equal(t, PreventedThisPhase, a.State(Blue, UseVoice))

	a.Prevent(Blue, UseVoice, true)
	a.Prevent(Blue, UseVoice, false)
	require.Equal(t, PreventedUntilReset, a.State(Blue, UseVoice), "A weaker prevention never overrides a stronger one")

	a.ResetPhase()
	require.True(t, a.Prevented(Blue, UseVoice))

	a.Allow(Blue, UseVoice)
	require.Zero(t, a.Len())
}

func TestBattleAdvantagesAreAllowedAfterABattle(t *testing.T) {
	a := NewAdvantages()
	a.Prevent(Brown, ReceiveForcePayment, false)
	a.Prevent(Brown, Audit, false)
	a.Prevent(Black, CaptureLeader, true)
	a.allowBattleAdvantages()
	require.False(t, a.Prevented(Brown, ReceiveForcePayment))
	require.True(t, a.Prevented(Brown, Audit), "Not a battle advantage")
	require.Equal(t, PreventedUntilReset, a.State(Black, CaptureLeader), "Only a reset ends it")
}

func TestAdvantagesCopyAndReset(t *testing.T) {
	a := NewAdvantages()
	a.Prevent(Yellow, SpecialForceBonus, false)
	c := a.Copy()
	a.Reset()
	require.Zero(t, a.Len())
	require.True(t, c.Prevented(Yellow, SpecialForceBonus))

	var k AdvantageKind
	require.NoError(t, k.UnmarshalText([]byte("CaptureLeader")))
	require.Equal(t, CaptureLeader, k)
}
