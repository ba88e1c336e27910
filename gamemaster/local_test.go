package gamemaster

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"treachery/game"
	"treachery/journal"
	"treachery/scenario"
)

func loadScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Load("../scenarios/plain_win.yaml")
	require.NoError(t, err)
	return sc
}

func TestRunScript(t *testing.T) {
	ctx := context.Background()
	sc := loadScenario(t)
	engine, err := Start(ctx, nil, sc, 0)
	require.NoError(t, err)
	require.NotEmpty(t, engine.ID())
	require.Equal(t, uint64(7), engine.Seed())

	require.NoError(t, engine.RunScript(ctx, sc.Steps))
	require.Equal(t, len(sc.Steps), engine.Seq())

	gs := engine.State()
	require.Equal(t, game.PhaseCollection, gs.Phase.Current)
	require.Equal(t, 18, gs.GetPlayer(game.Red).Resources)
	require.Equal(t, 19, gs.GetPlayer(game.Black).Resources)
	require.True(t, gs.Report.Contains("Red WIN THE BATTLE."))

	var phases []game.Phase
	for seq := 1; ; seq++ {
		u, ok := engine.Next()
		if !ok {
			require.Equal(t, len(sc.Steps)+1, seq)
			break
		}
		require.Equal(t, seq, u.Seq)
		phases = append(phases, u.Phase)
	}
	require.Equal(t, []game.Phase{
		game.PhaseBeginningOfBattle, game.PhaseBattle, game.PhaseBattle, game.PhaseCallTraitorOrPass,
		game.PhaseCallTraitorOrPass, game.PhaseBattleConclusion, game.PhaseBattleReport, game.PhaseCollection,
	}, phases)
}

func TestRejectedSubmission(t *testing.T) {
	ctx := context.Background()
	engine, err := Start(ctx, nil, loadScenario(t), 0)
	require.NoError(t, err)

	require.ErrorIs(t, engine.Submit(ctx, &game.EndPhase{}), game.ErrHostOnly)

	err = engine.Submit(ctx, &game.TreacheryCalled{EventHead: game.EventHead{Initiator: game.Red}})
	var ve *game.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, game.KindTreacheryCalled, ve.Kind)

	require.Zero(t, engine.Seq())
	_, ok := engine.Next()
	require.False(t, ok, "Rejected events publish nothing")

	require.NoError(t, engine.SubmitAsHost(ctx, &game.EndPhase{}))
	require.Equal(t, 1, engine.Seq())
}

func TestScriptStopsAtFirstRejection(t *testing.T) {
	ctx := context.Background()
	sc := loadScenario(t)
	engine, err := Start(ctx, nil, sc, 0)
	require.NoError(t, err)

	steps := append([]scenario.Step{sc.Steps[0], sc.Steps[0]}, sc.Steps[1:]...)
	err = engine.RunScript(ctx, steps)
	require.ErrorContains(t, err, "step 2")
	require.Equal(t, 1, engine.Seq())
}

func TestStateIsACopy(t *testing.T) {
	engine, err := Start(context.Background(), nil, loadScenario(t), 0)
	require.NoError(t, err)
	gs := engine.State()
	gs.GetPlayer(game.Red).Resources = 0
	require.Equal(t, 20, engine.State().GetPlayer(game.Red).Resources)
}

func TestConcurrentPlans(t *testing.T) {
	ctx := context.Background()
	sc := loadScenario(t)
	engine, err := Start(ctx, nil, sc, 0)
	require.NoError(t, err)
	require.NoError(t, engine.RunScript(ctx, sc.Steps[:2]))

	gs := engine.State()
	plans := []game.Event{
		&game.BattlePlan{EventHead: game.EventHead{Initiator: game.Red}, Leader: gs.Leaders.ByName("Bashar"), Forces: 2},
		&game.BattlePlan{EventHead: game.EventHead{Initiator: game.Black}, Leader: gs.Leaders.ByName("Umman Kudu"), Forces: 1},
	}
	var wg sync.WaitGroup
	errs := make([]error, len(plans))
	for i, p := range plans {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = engine.Submit(ctx, p)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, game.PhaseCallTraitorOrPass, engine.State().Phase.Current)
}

func TestJournalAndReplay(t *testing.T) {
	ctx := context.Background()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer store.Close()

	sc := loadScenario(t)
	engine, err := Start(ctx, store, sc, 0)
	require.NoError(t, err)
	require.NoError(t, engine.RunScript(ctx, sc.Steps[:6]))
	want := engine.State().Hash()

	records, err := store.Events(ctx, engine.ID())
	require.NoError(t, err)
	require.Len(t, records, 6)
	require.Equal(t, string(game.KindBattleInitiated), records[1].Kind)

	replayed, err := Replay(ctx, store, engine.ID())
	require.NoError(t, err)
	require.Equal(t, want, replayed.State().Hash())
	require.Equal(t, 6, replayed.Seq())

	require.NoError(t, replayed.Submit(ctx, &game.BattleConcluded{EventHead: game.EventHead{Initiator: game.Red}}))
	records, err = store.Events(ctx, engine.ID())
	require.NoError(t, err)
	require.Len(t, records, 7)

	_, err = Replay(ctx, store, "missing")
	require.ErrorIs(t, err, journal.ErrNotFound)
}

func TestRejectedEventsAreNotJournaled(t *testing.T) {
	ctx := context.Background()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer store.Close()

	engine, err := Start(ctx, store, loadScenario(t), 0)
	require.NoError(t, err)
	require.Error(t, engine.Submit(ctx, &game.BattleRevision{EventHead: game.EventHead{Initiator: game.Red}}))

	records, err := store.Events(ctx, engine.ID())
	require.NoError(t, err)
	require.Empty(t, records)
}
