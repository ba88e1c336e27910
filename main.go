package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"treachery/config"
	"treachery/gamemaster"
	"treachery/journal"
	"treachery/report"
	"treachery/scenario"
)

const usage = `usage: treachery [run | replay <game-id> | games]

run      plays the scenario named by TREACHERY_SCENARIO and journals it
replay   rebuilds a journaled game and prints its report
games    lists the journaled games`

func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := runCommand(context.Background(), cfg, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("treachery failed")
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, cfg config.Config, args []string) error {
	cmd := "run"
	if len(args) > 0 {
		cmd = args[0]
	}
	if cmd != "run" && cmd != "replay" && cmd != "games" {
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	store, err := journal.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	switch cmd {
	case "replay":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, usage)
			return errors.New("replay needs a game id")
		}
		return replay(ctx, cfg, store, args[1])
	case "games":
		return listGames(ctx, store)
	}
	return run(ctx, cfg, store)
}

func run(ctx context.Context, cfg config.Config, store *journal.Store) error {
	if cfg.Scenario == "" {
		return errors.New("TREACHERY_SCENARIO is not set")
	}
	sc, err := scenario.Load(cfg.Scenario)
	if err != nil {
		return err
	}
	engine, err := gamemaster.Start(ctx, store, sc, cfg.Seed)
	if err != nil {
		return err
	}

	scriptErr := engine.RunScript(ctx, sc.Steps)
	for u, ok := engine.Next(); ok; u, ok = engine.Next() {
		for _, e := range u.Entries {
			fmt.Println(e)
		}
	}
	if scriptErr != nil {
		return scriptErr
	}

	fmt.Printf("game %s: %d events, state %x\n", engine.ID(), engine.Seq(), engine.State().Hash())
	return exportReport(cfg, engine)
}

func replay(ctx context.Context, cfg config.Config, store *journal.Store, id string) error {
	engine, err := gamemaster.Replay(ctx, store, id)
	if err != nil {
		return err
	}
	fmt.Print(engine.State().Report)
	fmt.Printf("game %s: %d events, state %x\n", engine.ID(), engine.Seq(), engine.State().Hash())
	return exportReport(cfg, engine)
}

func listGames(ctx context.Context, store *journal.Store) error {
	games, err := store.Games(ctx)
	if err != nil {
		return err
	}
	for _, g := range games {
		events, err := store.Events(ctx, g.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s  seed %d  %s  started %s\n", g.ID, g.Seed,
			english.Plural(len(events), "event", "events"), humanize.Time(g.CreatedAt))
	}
	return nil
}

func exportReport(cfg config.Config, engine *gamemaster.Engine) error {
	if cfg.ReportCSV == "" {
		return nil
	}
	w, err := report.NewWriter(cfg.ReportCSV)
	if err != nil {
		return err
	}
	path, err := w.WriteEntries(engine.ID()+".csv", engine.State().Report.Entries())
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("report exported")
	return nil
}
