package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGames(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.CreateGame(ctx, Game{ID: "g1", Seed: 7, Scenario: "seed: 7\n"}))
	require.Error(t, s.CreateGame(ctx, Game{ID: "g1", Seed: 8}), "Game ids are unique")

	g, err := s.Game(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, int64(7), g.Seed)
	require.Equal(t, "seed: 7\n", g.Scenario)
	require.False(t, g.CreatedAt.IsZero())

	_, err = s.Game(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	games, err := s.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.CreateGame(ctx, Game{ID: "g1", Seed: 1}))
	require.NoError(t, s.CreateGame(ctx, Game{ID: "g2", Seed: 2}))

	require.NoError(t, s.Append(ctx, Record{GameID: "g1", Seq: 1, Kind: "EndPhase", Payload: []byte(`{}`), Host: true}))
	require.NoError(t, s.Append(ctx, Record{GameID: "g1", Seq: 2, Kind: "BattlePlan", Payload: []byte(`{"forces":2}`)}))
	require.NoError(t, s.Append(ctx, Record{GameID: "g2", Seq: 1, Kind: "EndPhase", Payload: []byte(`{}`), Host: true}))

	require.Error(t, s.Append(ctx, Record{GameID: "g1", Seq: 2, Kind: "EndPhase", Payload: []byte(`{}`)}), "Seq 2 is taken")
	require.Error(t, s.Append(ctx, Record{GameID: "g1", Seq: 5, Kind: "EndPhase", Payload: []byte(`{}`)}), "Gaps are refused")

	records, err := s.Events(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 1, records[0].Seq)
	require.True(t, records[0].Host)
	require.Equal(t, "BattlePlan", records[1].Kind)
	require.False(t, records[1].Host)
	require.JSONEq(t, `{"forces":2}`, string(records[1].Payload))

	records, err = s.Events(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.CreateGame(ctx, Game{ID: "g1", Seed: 3}))
	require.NoError(t, s.Append(ctx, Record{GameID: "g1", Seq: 1, Kind: "EndPhase", Payload: []byte(`{}`)}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	records, err := s.Events(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, 1)
}
