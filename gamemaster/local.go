// Package gamemaster hosts a game: it takes event submissions, keeps the journal and publishes updates.
package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"treachery/game"
	"treachery/journal"
	"treachery/report"
	"treachery/scenario"
)

// Update describes one executed event and what it changed.
type Update struct {
	Seq        int
	Event      game.Event
	Host       bool
	Phase      game.Phase
	Hash       game.StateHash
	Entries    []report.Entry
	Milestones []game.Milestone
}

// Engine serializes submissions to a single game. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	id      string
	seed    uint64
	state   *game.GameState
	store   *journal.Store
	seq     int
	updates []Update
}

// NewEngine hosts gs in memory only.
func NewEngine(gs *game.GameState) *Engine {
	return &Engine{id: uuid.NewString(), state: gs}
}

// Start sets up sc and records the new game in store, which may be nil.
// seed overrides the scenario seed when non-zero.
func Start(ctx context.Context, store *journal.Store, sc *scenario.Scenario, seed uint64) (*Engine, error) {
	if seed == 0 {
		seed = sc.Seed
	}
	gs, err := sc.NewGame(seed)
	if err != nil {
		return nil, err
	}
	e := NewEngine(gs)
	e.seed = seed
	e.store = store
	if store != nil {
		g := journal.Game{ID: e.id, Seed: int64(seed), Scenario: string(sc.Source)}
		if err := store.CreateGame(ctx, g); err != nil {
			return nil, err
		}
	}
	log.Info().Str("game", e.id).Uint64("seed", seed).Str("scenario", sc.Name).Msg("game started")
	return e, nil
}

func (e *Engine) ID() string {
	return e.id
}

// Seed is the seed the game was set up with, zero for games not started from a scenario.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// State returns a copy of the current game state.
func (e *Engine) State() *game.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Copy()
}

// Seq is the number of events executed so far.
func (e *Engine) Seq() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Submit executes an event on behalf of the faction named in it.
func (e *Engine) Submit(ctx context.Context, ev game.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submit(ctx, ev, false)
}

// SubmitAsHost executes an event with host authority, as needed for EndPhase and GameEnded.
func (e *Engine) SubmitAsHost(ctx context.Context, ev game.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submit(ctx, ev, true)
}

// RunScript builds and submits every step in order, stopping at the first rejected one.
func (e *Engine) RunScript(ctx context.Context, steps []scenario.Step) error {
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runStep(ctx, &steps[i]); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, steps[i].Kind, err)
		}
	}
	return nil
}

func (e *Engine) runStep(ctx context.Context, s *scenario.Step) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := s.Event(e.state)
	if err != nil {
		return err
	}
	return e.submit(ctx, ev, s.Host)
}

// submit validates ev, journals it and only then executes it, so that a failed append leaves the game unchanged.
func (e *Engine) submit(ctx context.Context, ev game.Event, host bool) error {
	if ev == nil {
		return fmt.Errorf("no event")
	}
	if game.IsHostEvent(ev) && !host {
		return game.ErrHostOnly
	}
	if err := e.state.Validate(ev); err != nil {
		var ve *game.ValidationError
		if errors.As(err, &ve) {
			log.Info().Str("game", e.id).Str("event", string(ev.Kind())).Str("faction", ev.By().String()).
				Msgf("rejected: %s", ve.Reason)
		}
		return err
	}

	if e.store != nil {
		payload, err := game.MarshalEvent(ev)
		if err != nil {
			return err
		}
		r := journal.Record{GameID: e.id, Seq: e.seq + 1, Kind: string(ev.Kind()), Payload: payload, Host: host}
		if err := e.store.Append(ctx, r); err != nil {
			return err
		}
	}

	before := e.state.Report.Len()
	e.execute(ev, host)
	e.seq++
	e.updates = append(e.updates, Update{
		Seq:        e.seq,
		Event:      ev,
		Host:       host,
		Phase:      e.state.Phase.Current,
		Hash:       e.state.Hash(),
		Entries:    e.state.Report.Since(before),
		Milestones: append([]game.Milestone(nil), e.state.Milestones...),
	})
	log.Debug().Str("game", e.id).Int("seq", e.seq).Str("event", string(ev.Kind())).
		Str("faction", ev.By().String()).Str("phase", e.state.Phase.Current.String()).Msg("executed")
	return nil
}

// execute runs an already validated event. An invariant violation is logged before it propagates.
func (e *Engine) execute(ev game.Event, host bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("game", e.id).Str("event", string(ev.Kind())).Msgf("invariant violated: %v", r)
			panic(r)
		}
	}()
	if err := e.state.Execute(ev, host, false); err != nil {
		panic(fmt.Sprintf("validated %s failed: %v", ev.Kind(), err))
	}
}

// Next pops the oldest unread update. It never blocks.
func (e *Engine) Next() (Update, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.updates) == 0 {
		return Update{}, false
	}
	u := e.updates[0]
	e.updates = e.updates[1:]
	return u, true
}

// Over reports whether the game has ended.
func (e *Engine) Over() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase.Current == game.PhaseGameEnded
}
