package game

import (
	"fmt"
	"slices"
)

// AdvantageKind is a faction ability that can be prevented, typically by a Karma card.
type AdvantageKind int

const (
	SpecialForceBonus AdvantageKind = iota + 1
	NotPayingForBattles
	CallTraitorForAlly
	CaptureLeader
	UseVoice
	UseMessiah
	BattlePlanPrescience
	ReceiveForcePayment
	Audit
)

var advantageKindNames = map[AdvantageKind]string{
	SpecialForceBonus:    "SpecialForceBonus",
	NotPayingForBattles:  "NotPayingForBattles",
	CallTraitorForAlly:   "CallTraitorForAlly",
	CaptureLeader:        "CaptureLeader",
	UseVoice:             "UseVoice",
	UseMessiah:           "UseMessiah",
	BattlePlanPrescience: "BattlePlanPrescience",
	ReceiveForcePayment:  "ReceiveForcePayment",
	Audit:                "Audit",
}

func (k AdvantageKind) String() string {
	if s, ok := advantageKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("AdvantageKind(%d)", int(k))
}

func (k AdvantageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AdvantageKind) UnmarshalText(text []byte) error {
	v, err := parseName(advantageKindNames, string(text))
	if err != nil {
		return fmt.Errorf("advantage: %w", err)
	}
	*k = v
	return nil
}

// battleAdvantages lose their this-phase preventions when a battle finishes.
var battleAdvantages = []struct {
	Faction Faction
	Kind    AdvantageKind
}{
	{Green, UseMessiah},
	{Green, BattlePlanPrescience},
	{Blue, UseVoice},
	{Yellow, SpecialForceBonus},
	{Yellow, NotPayingForBattles},
	{Red, SpecialForceBonus},
	{Grey, SpecialForceBonus},
	{Black, CallTraitorForAlly},
	{Black, CaptureLeader},
	{Brown, ReceiveForcePayment},
}

type AdvantageState int

const (
	Allowed AdvantageState = iota
	PreventedThisPhase
	PreventedUntilReset
)

func (s AdvantageState) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case PreventedThisPhase:
		return "prevented this phase"
	default:
		return "prevented until reset"
	}
}

type advantageKey struct {
	Faction Faction
	Kind    AdvantageKind
}

// Advantages maps (faction, advantage) to its state. Absent entries are Allowed.
type Advantages struct {
	states map[advantageKey]AdvantageState
}

func NewAdvantages() *Advantages {
	return &Advantages{states: make(map[advantageKey]AdvantageState)}
}

func (a *Advantages) State(f Faction, k AdvantageKind) AdvantageState {
	return a.states[advantageKey{f, k}]
}

func (a *Advantages) Prevented(f Faction, k AdvantageKind) bool {
	return a.State(f, k) != Allowed
}

func (a *Advantages) Prevent(f Faction, k AdvantageKind, untilReset bool) {
	if untilReset {
		a.states[advantageKey{f, k}] = PreventedUntilReset
	} else if a.State(f, k) != PreventedUntilReset {
		a.states[advantageKey{f, k}] = PreventedThisPhase
	}
}

func (a *Advantages) Allow(f Faction, k AdvantageKind) {
	delete(a.states, advantageKey{f, k})
}

// ResetPhase allows everything that was prevented for the current phase only.
func (a *Advantages) ResetPhase() {
	for key, s := range a.states {
		if s == PreventedThisPhase {
			delete(a.states, key)
		}
	}
}

// Reset allows every advantage. The game calls it when a new turn starts.
func (a *Advantages) Reset() {
	clear(a.states)
}

func (a *Advantages) allowBattleAdvantages() {
	for _, b := range battleAdvantages {
		if a.State(b.Faction, b.Kind) == PreventedThisPhase {
			a.Allow(b.Faction, b.Kind)
		}
	}
}

// Len is the number of prevented advantages.
func (a *Advantages) Len() int {
	return len(a.states)
}

func (a *Advantages) sortedKeys() []advantageKey {
	keys := make([]advantageKey, 0, len(a.states))
	for k := range a.states {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y advantageKey) int {
		if x.Faction != y.Faction {
			return int(x.Faction) - int(y.Faction)
		}
		return int(x.Kind) - int(y.Kind)
	})
	return keys
}

func (a *Advantages) Copy() *Advantages {
	c := NewAdvantages()
	for k, v := range a.states {
		c.states[k] = v
	}
	return c
}
