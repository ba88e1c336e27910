package game

import "fmt"

// Phase is a step of the turn. The battle sub-phases may be entered many times per turn, once per battle.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseStorm
	PhaseSpiceBlow
	PhaseCharity
	PhaseBidding
	PhaseResurrection
	PhaseShipmentAndMove
	PhaseBeginningOfBattle
	PhaseBattle
	PhaseCallTraitorOrPass
	PhaseRetreating
	PhaseCaptureDecision
	PhaseAuditing
	PhaseBattleConclusion
	PhaseFacedancing
	PhaseBattleReport
	PhaseCollection
	PhaseContemplate
	PhaseGameEnded
)

var phaseNames = map[Phase]string{
	PhaseNone:              "None",
	PhaseStorm:             "Storm",
	PhaseSpiceBlow:         "SpiceBlow",
	PhaseCharity:           "Charity",
	PhaseBidding:           "Bidding",
	PhaseResurrection:      "Resurrection",
	PhaseShipmentAndMove:   "ShipmentAndMove",
	PhaseBeginningOfBattle: "BeginningOfBattle",
	PhaseBattle:            "Battle",
	PhaseCallTraitorOrPass: "CallTraitorOrPass",
	PhaseRetreating:        "Retreating",
	PhaseCaptureDecision:   "CaptureDecision",
	PhaseAuditing:          "Auditing",
	PhaseBattleConclusion:  "BattleConclusion",
	PhaseFacedancing:       "Facedancing",
	PhaseBattleReport:      "BattleReport",
	PhaseCollection:        "Collection",
	PhaseContemplate:       "Contemplate",
	PhaseGameEnded:         "GameEnded",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	v, err := parseName(phaseNames, string(text))
	if err != nil {
		return fmt.Errorf("phase: %w", err)
	}
	*p = v
	return nil
}

// Main groups a phase into the part of the turn it belongs to.
func (p Phase) Main() MainPhase {
	switch p {
	case PhaseStorm:
		return MainStorm
	case PhaseSpiceBlow:
		return MainSpiceBlow
	case PhaseCharity:
		return MainCharity
	case PhaseBidding:
		return MainBidding
	case PhaseResurrection:
		return MainResurrection
	case PhaseShipmentAndMove:
		return MainShipmentAndMove
	case PhaseBeginningOfBattle, PhaseBattle, PhaseCallTraitorOrPass, PhaseRetreating, PhaseCaptureDecision,
		PhaseAuditing, PhaseBattleConclusion, PhaseFacedancing, PhaseBattleReport:
		return MainBattle
	case PhaseCollection:
		return MainCollection
	case PhaseContemplate:
		return MainContemplate
	case PhaseGameEnded:
		return MainEnded
	}
	return MainNone
}

// IsBattle reports whether p is one of the battle sub-phases.
func (p Phase) IsBattle() bool {
	return p.Main() == MainBattle
}

type MainPhase int

const (
	MainNone MainPhase = iota
	MainStorm
	MainSpiceBlow
	MainCharity
	MainBidding
	MainResurrection
	MainShipmentAndMove
	MainBattle
	MainCollection
	MainContemplate
	MainEnded
)

var mainPhaseNames = map[MainPhase]string{
	MainNone:            "Setup",
	MainStorm:           "Storm",
	MainSpiceBlow:       "Spice Blow",
	MainCharity:         "Charity",
	MainBidding:         "Bidding",
	MainResurrection:    "Resurrection",
	MainShipmentAndMove: "Shipment & Move",
	MainBattle:          "Battle",
	MainCollection:      "Collection",
	MainContemplate:     "Mentat Pause",
	MainEnded:           "Game Ended",
}

func (m MainPhase) String() string {
	if s, ok := mainPhaseNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MainPhase(%d)", int(m))
}

// PhaseState is the position of the game in the turn structure.
type PhaseState struct {
	Turn    int
	Current Phase
	// Entered counts phase entries; it grows on every transition, loops included.
	Entered int
}

func (ps *PhaseState) Main() MainPhase {
	return ps.Current.Main()
}

// Enter moves to ifTrue when cond holds and to ifFalse otherwise.
func (gs *GameState) Enter(cond bool, ifTrue, ifFalse Phase) {
	if cond {
		gs.EnterPhase(ifTrue)
	} else {
		gs.EnterPhase(ifFalse)
	}
}

// EnterPhase moves to p. Leaving a main phase ends every advantage prevention scoped to it.
func (gs *GameState) EnterPhase(p Phase) {
	if gs.Phase.Current.Main() != p.Main() {
		gs.Advantages.ResetPhase()
	}
	gs.Phase.Current = p
	gs.Phase.Entered++
}

// enterOr enters p when cond holds and runs otherwise when it does not.
func (gs *GameState) enterOr(cond bool, p Phase, otherwise func()) {
	if cond {
		gs.EnterPhase(p)
	} else {
		otherwise()
	}
}

// AdvancePhase performs the host transition out of a non-interactive phase.
func (gs *GameState) AdvancePhase() {
	switch gs.Phase.Current {
	case PhaseNone:
		gs.Phase.Turn = 1
		gs.EnterPhase(PhaseStorm)
	case PhaseStorm:
		gs.EnterPhase(PhaseSpiceBlow)
	case PhaseSpiceBlow:
		gs.EnterPhase(PhaseCharity)
	case PhaseCharity:
		gs.EnterPhase(PhaseBidding)
	case PhaseBidding:
		gs.EnterPhase(PhaseResurrection)
	case PhaseResurrection:
		gs.EnterPhase(PhaseShipmentAndMove)
	case PhaseShipmentAndMove:
		gs.enterBattlePhase()
	case PhaseBattleReport:
		gs.Battle.reset()
		gs.Enter(gs.NextPlayerToBattle() != None, PhaseBeginningOfBattle, PhaseCollection)
	case PhaseCollection:
		gs.EnterPhase(PhaseContemplate)
	case PhaseContemplate:
		if gs.Phase.Turn >= gs.Rules.MaxTurns() {
			gs.EnterPhase(PhaseGameEnded)
			return
		}
		gs.Phase.Turn++
		gs.Advantages.Reset()
		gs.EnterPhase(PhaseStorm)
	default:
		panic(fmt.Sprintf("phase %s cannot be advanced by the host", gs.Phase.Current))
	}
}

// HostAdvanceable reports whether the current phase waits on the host rather than on a player.
func (p Phase) HostAdvanceable() bool {
	switch p {
	case PhaseNone, PhaseStorm, PhaseSpiceBlow, PhaseCharity, PhaseBidding, PhaseResurrection,
		PhaseShipmentAndMove, PhaseBattleReport, PhaseCollection, PhaseContemplate:
		return true
	}
	return false
}
