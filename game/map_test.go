package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardMap(t *testing.T) {
	m := CreateMap()

	require.Len(t, m.Strongholds(), 6)
	for _, a := range []StrongholdAdvantage{FreeResourcesForBattles, CollectResourcesForUseless,
		CountDefensesAsAntidote, WinTies, CollectResourcesForDial} {
		require.NotNil(t, m.StrongholdWith(a), a.String())
	}
	require.Equal(t, "Hidden Mobile Stronghold", m.HiddenMobileStronghold().Name)
	require.Equal(t, "Polar Sink", m.Locations[m.PolarSink].Name)

	basin := m.TerritoryByName("Imperial Basin")
	require.Len(t, m.Territories[basin].Locations, 3)
	require.Zero(t, m.TerritoryByName("Atlantis"))
	require.Zero(t, m.LocationByName("Atlantis"))

	caladan := m.Territories[m.TerritoryByName("Caladan")]
	require.True(t, caladan.Homeworld)
	require.Equal(t, Green, caladan.Native)
}

func TestBordersAreSymmetric(t *testing.T) {
	m := CreateMap()
	for _, id := range m.LocationIDs() {
		for _, other := range m.Locations[id].AdjacentIDs {
			require.True(t, m.AreAdjacent(other, id), "%s - %s", m.Locations[id].Name, m.Locations[other].Name)
		}
	}
	require.True(t, m.AreAdjacent(m.LocationByName("Arrakeen"), m.LocationByName("Old Gap (9)")))
	require.False(t, m.AreAdjacent(m.LocationByName("Arrakeen"), m.LocationByName("Carthag")))
}

func TestAddBorderIsIdempotent(t *testing.T) {
	m := CreateMap()
	a, b := m.LocationByName("Red Chasm"), m.LocationByName("Shield Wall (7)")
	before := len(m.Locations[a].AdjacentIDs)
	m.AddBorder(a, b)
	m.AddBorder(b, a)
	require.Len(t, m.Locations[a].AdjacentIDs, before)
}

func TestStrongholdAdvantageNames(t *testing.T) {
	var a StrongholdAdvantage
	require.NoError(t, a.UnmarshalText([]byte("WinTies")))
	require.Equal(t, WinTies, a)
	require.Error(t, a.UnmarshalText([]byte("LoseTies")))
}
