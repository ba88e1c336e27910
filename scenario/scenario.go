// Package scenario loads game setups and scripted event steps from YAML.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"treachery/game"
)

// Scenario is a starting position plus an optional script of events to execute on it.
type Scenario struct {
	Name    string              `yaml:"name"`
	Seed    uint64              `yaml:"seed"`
	Rules   *game.StandardRules `yaml:"rules"`
	Turn    int                 `yaml:"turn"`
	Phase   game.Phase          `yaml:"phase"`
	Storm   *int                `yaml:"storm"`
	Spice   map[string]int      `yaml:"spice"` // by location name
	Players []PlayerSetup       `yaml:"players"`
	Steps   []Step              `yaml:"steps"`

	// Source is the document the scenario was parsed from.
	Source []byte `yaml:"-"`
}

type PlayerSetup struct {
	Faction     game.Faction              `yaml:"faction"`
	Seat        *int                      `yaml:"seat"` // sector of the player marker
	Resources   int                       `yaml:"resources"`
	Ally        game.Faction              `yaml:"ally"`
	Reserves    game.Battalion            `yaml:"reserves"`
	Forces      map[string]game.Battalion `yaml:"forces"` // by location name
	Cards       []game.CardType           `yaml:"cards"`
	Traitors    []string                  `yaml:"traitors"`
	FaceDancers []string                  `yaml:"faceDancers"`
	Captives    []string                  `yaml:"captives"`
	Skills      map[string]game.Skill     `yaml:"skills"`
	// InFrontOfShield lists skilled leaders whose skill the whole faction enjoys.
	InFrontOfShield []string `yaml:"inFrontOfShield"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{Rules: game.NewStandardRules(), Turn: 1}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Rules == nil {
		s.Rules = game.NewStandardRules()
	}
	if len(s.Players) < 2 {
		return nil, fmt.Errorf("parse scenario: need at least two players, got %d", len(s.Players))
	}
	s.Source = data
	return s, nil
}

// NewGame builds the starting position. seed overrides the scenario seed when non-zero.
func (s *Scenario) NewGame(seed uint64) (*game.GameState, error) {
	if seed == 0 {
		seed = s.Seed
	}
	gs := game.NewStandardGame(s.Rules, seed)
	for _, ps := range s.Players {
		gs.AddPlayer(ps.Faction)
	}
	for _, ps := range s.Players {
		if err := ps.apply(gs); err != nil {
			return nil, fmt.Errorf("set up %s: %w", ps.Faction, err)
		}
	}
	for name, amount := range s.Spice {
		l := gs.Map.LocationByName(name)
		if l == 0 {
			return nil, fmt.Errorf("spice: unknown location %q", name)
		}
		gs.Spice[l] = amount
	}
	if s.Storm != nil {
		gs.Storm = *s.Storm
	}
	gs.Phase = game.PhaseState{Turn: s.Turn, Current: s.Phase}
	return gs, nil
}

func (ps *PlayerSetup) apply(gs *game.GameState) error {
	p := gs.GetPlayer(ps.Faction)
	p.Resources = ps.Resources
	p.Reserves = ps.Reserves
	if ps.Seat != nil {
		if *ps.Seat < 0 || *ps.Seat >= game.SECTORS {
			return fmt.Errorf("seat %d is off the board", *ps.Seat)
		}
		p.Seat = *ps.Seat
	}
	if ps.Ally != game.None {
		if !gs.IsPlaying(ps.Ally) {
			return fmt.Errorf("ally %s is not playing", ps.Ally)
		}
		p.Ally = ps.Ally
		gs.GetPlayer(ps.Ally).Ally = ps.Faction
	}
	for name, b := range ps.Forces {
		l := gs.Map.LocationByName(name)
		if l == 0 {
			return fmt.Errorf("unknown location %q", name)
		}
		p.AddForces(l, b)
	}
	for _, typ := range ps.Cards {
		if _, err := gs.GiveCard(ps.Faction, typ); err != nil {
			return err
		}
	}

	var err error
	if p.Traitors, err = leaderIDs(gs, ps.Traitors); err != nil {
		return fmt.Errorf("traitors: %w", err)
	}
	if p.FaceDancers, err = leaderIDs(gs, ps.FaceDancers); err != nil {
		return fmt.Errorf("face dancers: %w", err)
	}
	captives, err := leaderIDs(gs, ps.Captives)
	if err != nil {
		return fmt.Errorf("captives: %w", err)
	}
	for _, id := range captives {
		if err := gs.Leaders.Capture(id, ps.Faction); err != nil {
			return err
		}
	}
	for name, skill := range ps.Skills {
		id := gs.Leaders.ByName(name)
		if id == 0 {
			return fmt.Errorf("skills: unknown leader %q", name)
		}
		gs.Leaders.Get(id).Skill = skill
	}
	front, err := leaderIDs(gs, ps.InFrontOfShield)
	if err != nil {
		return fmt.Errorf("in front of shield: %w", err)
	}
	for _, id := range front {
		gs.Leaders.Get(id).InFrontOfShield = true
	}
	return nil
}

func leaderIDs(gs *game.GameState, names []string) ([]game.LeaderID, error) {
	var ids []game.LeaderID
	for _, name := range names {
		id := gs.Leaders.ByName(name)
		if id == 0 {
			return nil, fmt.Errorf("unknown leader %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
