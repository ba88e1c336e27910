package gamemaster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"treachery/game"
	"treachery/journal"
	"treachery/scenario"
)

// Replay rebuilds a journaled game by executing its stored events, unvalidated, on its stored setup.
// The returned engine keeps journaling to store.
func Replay(ctx context.Context, store *journal.Store, gameID string) (*Engine, error) {
	g, err := store.Game(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sc, err := scenario.Parse([]byte(g.Scenario))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", gameID, err)
	}
	gs, err := sc.NewGame(uint64(g.Seed))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", gameID, err)
	}
	records, err := store.Events(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		ev, err := game.UnmarshalEvent(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("replay %s, event %d: %w", gameID, r.Seq, err)
		}
		if err := gs.Execute(ev, r.Host, false); err != nil {
			return nil, fmt.Errorf("replay %s, event %d: %w", gameID, r.Seq, err)
		}
	}
	log.Info().Str("game", gameID).Int("events", len(records)).Msg("game replayed")
	return &Engine{id: gameID, seed: uint64(g.Seed), state: gs, store: store, seq: len(records)}, nil
}
