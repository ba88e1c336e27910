package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"treachery/game"
)

// Step is one scripted event. Leaders, cards, territories and locations are written by name and
// resolved against the game when the step runs, so a card name picks a matching card from the
// initiator's hand at that moment.
type Step struct {
	Kind game.EventKind
	Host bool
	body *yaml.Node
}

func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Kind game.EventKind `yaml:"event"`
		Host bool           `yaml:"host"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	if _, err := game.NewEvent(head.Kind); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	s.Kind, s.Host, s.body = head.Kind, head.Host, n
	return nil
}

// Event builds the step's event for the current state of gs.
func (s *Step) Event(gs *game.GameState) (game.Event, error) {
	e, err := game.NewEvent(s.Kind)
	if err != nil {
		return nil, err
	}
	if s.body == nil {
		return e, nil
	}
	r := resolver{gs: gs, used: make(map[game.CardID]bool)}
	body, err := r.resolve(s.body)
	if err != nil {
		return nil, fmt.Errorf("%s step at line %d: %w", s.Kind, s.body.Line, err)
	}
	if err := body.Decode(e); err != nil {
		return nil, fmt.Errorf("%s step at line %d: %w", s.Kind, s.body.Line, err)
	}
	return e, nil
}

type resolver struct {
	gs        *game.GameState
	initiator game.Faction
	used      map[game.CardID]bool
}

var cardKeys = map[string]bool{"weapon": true, "defense": true, "cheapHero": true, "card": true}

func (r *resolver) resolve(n *yaml.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: n.Line}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "initiator" {
			if err := r.initiator.UnmarshalText([]byte(n.Content[i+1].Value)); err != nil {
				return nil, err
			}
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch {
		case key.Value == "event" || key.Value == "host":
			continue
		case key.Value == "leader":
			id, err := r.leader(value)
			if err != nil {
				return nil, err
			}
			value = id
		case key.Value == "territory":
			id, err := r.named(value, func(name string) int { return int(r.gs.Map.TerritoryByName(name)) })
			if err != nil {
				return nil, fmt.Errorf("territory: %w", err)
			}
			value = id
		case key.Value == "location":
			id, err := r.named(value, func(name string) int { return int(r.gs.Map.LocationByName(name)) })
			if err != nil {
				return nil, fmt.Errorf("location: %w", err)
			}
			value = id
		case cardKeys[key.Value]:
			id, err := r.card(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.Value, err)
			}
			value = id
		case key.Value == "discarded":
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, item := range value.Content {
				id, err := r.card(item)
				if err != nil {
					return nil, fmt.Errorf("discarded: %w", err)
				}
				seq.Content = append(seq.Content, id)
			}
			value = seq
		}
		out.Content = append(out.Content, key, value)
	}
	return out, nil
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

// named resolves a scalar name through lookup. Numbers are taken as ids.
func (r *resolver) named(n *yaml.Node, lookup func(string) int) (*yaml.Node, error) {
	if _, err := strconv.Atoi(n.Value); err == nil {
		return n, nil
	}
	id := lookup(n.Value)
	if id == 0 {
		return nil, fmt.Errorf("unknown name %q", n.Value)
	}
	return intNode(id), nil
}

func (r *resolver) leader(n *yaml.Node) (*yaml.Node, error) {
	id, err := r.named(n, func(name string) int { return int(r.gs.Leaders.ByName(name)) })
	if err != nil {
		return nil, fmt.Errorf("leader: %w", err)
	}
	return id, nil
}

// card picks an unused card from the initiator's hand whose name or type matches.
func (r *resolver) card(n *yaml.Node) (*yaml.Node, error) {
	if _, err := strconv.Atoi(n.Value); err == nil {
		return n, nil
	}
	p := r.gs.GetPlayer(r.initiator)
	if p == nil {
		return nil, fmt.Errorf("card %q: %s are not playing", n.Value, r.initiator)
	}
	for _, id := range p.Hand {
		c := r.gs.Cards.Get(id)
		if r.used[id] {
			continue
		}
		if strings.EqualFold(c.Name, n.Value) || strings.EqualFold(c.Type.String(), n.Value) {
			r.used[id] = true
			return intNode(int(id)), nil
		}
	}
	return nil, fmt.Errorf("%s hold no card %q", r.initiator, n.Value)
}
