package game

import "fmt"

type EventKind string

const (
	KindBattleInitiated           EventKind = "BattleInitiated"
	KindBattlePlan                EventKind = "BattlePlan"
	KindBattleRevision            EventKind = "BattleRevision"
	KindVoice                     EventKind = "Voice"
	KindPrescience                EventKind = "Prescience"
	KindTreacheryCalled           EventKind = "TreacheryCalled"
	KindRetreat                   EventKind = "Retreat"
	KindPoisonToothCancelled      EventKind = "PoisonToothCancelled"
	KindPortableAntidoteUsed      EventKind = "PortableAntidoteUsed"
	KindStrongholdAdvantageChosen EventKind = "StrongholdAdvantageChosen"
	KindJuicePlayed               EventKind = "JuicePlayed"
	KindResidualPlayed            EventKind = "ResidualPlayed"
	KindCaptureDecided            EventKind = "CaptureDecided"
	KindAuditCancelled            EventKind = "AuditCancelled"
	KindAudited                   EventKind = "Audited"
	KindBattleConcluded           EventKind = "BattleConcluded"
	KindFaceDanced                EventKind = "FaceDanced"
	KindAdvantagePrevented        EventKind = "AdvantagePrevented"
	KindEndPhase                  EventKind = "EndPhase"
	KindGameEnded                 EventKind = "GameEnded"
)

// Event is a command submitted to a game. The set of events is closed: only this package defines them.
type Event interface {
	By() Faction
	Kind() EventKind
	sealed()
}

// EventHead carries the faction submitting an event.
type EventHead struct {
	Initiator Faction `json:"initiator" yaml:"initiator"`
}

func (h EventHead) By() Faction {
	return h.Initiator
}

func (EventHead) sealed() {}

// BattleInitiated starts a battle. The initiator is the aggressor.
type BattleInitiated struct {
	EventHead `yaml:",inline"`
	Target    Faction     `json:"target" yaml:"target"`
	Territory TerritoryID `json:"territory" yaml:"territory"`
}

func (BattleInitiated) Kind() EventKind { return KindBattleInitiated }

// OpponentOf returns the other combatant, or None if f does not fight in this battle.
func (b *BattleInitiated) OpponentOf(f Faction) Faction {
	switch f {
	case b.Initiator:
		return b.Target
	case b.Target:
		return b.Initiator
	}
	return None
}

func (b *BattleInitiated) Involves(f Faction) bool {
	return f != None && (f == b.Initiator || f == b.Target)
}

// BattlePlan is the hidden commitment of one combatant. A plan has at most one hero: a leader or a cheap hero card.
type BattlePlan struct {
	EventHead                   `yaml:",inline"`
	Leader                      LeaderID `json:"leader,omitempty" yaml:"leader"`
	CheapHero                   CardID   `json:"cheapHero,omitempty" yaml:"cheapHero"`
	Messiah                     bool     `json:"messiah,omitempty" yaml:"messiah"`
	Forces                      int      `json:"forces" yaml:"forces"`
	ForcesAtHalfStrength        int      `json:"forcesAtHalfStrength,omitempty" yaml:"forcesAtHalfStrength"`
	SpecialForces               int      `json:"specialForces,omitempty" yaml:"specialForces"`
	SpecialForcesAtHalfStrength int      `json:"specialForcesAtHalfStrength,omitempty" yaml:"specialForcesAtHalfStrength"`
	AllyContribution            int      `json:"allyContribution,omitempty" yaml:"allyContribution"`
	Weapon                      CardID   `json:"weapon,omitempty" yaml:"weapon"`
	Defense                     CardID   `json:"defense,omitempty" yaml:"defense"`
}

func (BattlePlan) Kind() EventKind { return KindBattlePlan }

func (p *BattlePlan) HasHero() bool {
	return p.Leader != 0 || p.CheapHero != 0
}

// Dialed is the number of forces committed to the dial.
func (p *BattlePlan) Dialed() Battalion {
	return Battalion{Normal: p.Forces + p.ForcesAtHalfStrength, Special: p.SpecialForces + p.SpecialForcesAtHalfStrength}
}

// BattleRevision withdraws the initiator's plan so that a new one can be submitted.
type BattleRevision struct {
	EventHead `yaml:",inline"`
}

func (BattleRevision) Kind() EventKind { return KindBattleRevision }

// Voice forces the opponent to play (Must) or not to play a card of a type or category.
type Voice struct {
	EventHead `yaml:",inline"`
	Must      bool     `json:"must" yaml:"must"`
	Type      CardType `json:"type" yaml:"type"`
}

func (Voice) Kind() EventKind { return KindVoice }

type PrescienceAspect int

const (
	AspectNone PrescienceAspect = iota
	AspectLeader
	AspectWeapon
	AspectDefense
	AspectDial
)

var aspectNames = map[PrescienceAspect]string{
	AspectNone:    "None",
	AspectLeader:  "Leader",
	AspectWeapon:  "Weapon",
	AspectDefense: "Defense",
	AspectDial:    "Dial",
}

func (a PrescienceAspect) String() string {
	if s, ok := aspectNames[a]; ok {
		return s
	}
	return fmt.Sprintf("PrescienceAspect(%d)", int(a))
}

func (a PrescienceAspect) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *PrescienceAspect) UnmarshalText(text []byte) error {
	v, err := parseName(aspectNames, string(text))
	if err != nil {
		return fmt.Errorf("prescience aspect: %w", err)
	}
	*a = v
	return nil
}

// Prescience asks to see one element of the opponent's plan.
type Prescience struct {
	EventHead `yaml:",inline"`
	Aspect    PrescienceAspect `json:"aspect" yaml:"aspect"`
}

func (Prescience) Kind() EventKind { return KindPrescience }

// TreacheryCalled declares whether the opposing leader is a traitor. Black may call on behalf of its ally.
type TreacheryCalled struct {
	EventHead `yaml:",inline"`
	Called    bool `json:"called" yaml:"called"`
}

func (TreacheryCalled) Kind() EventKind { return KindTreacheryCalled }

// Retreat moves undialed forces to an adjacent location before losses are applied. Zero forces declines.
type Retreat struct {
	EventHead     `yaml:",inline"`
	Forces        int        `json:"forces" yaml:"forces"`
	SpecialForces int        `json:"specialForces,omitempty" yaml:"specialForces"`
	Location      LocationID `json:"location,omitempty" yaml:"location"`
}

func (Retreat) Kind() EventKind { return KindRetreat }

// PoisonToothCancelled withdraws a revealed poison tooth before the battle is resolved. The card stays in hand.
type PoisonToothCancelled struct {
	EventHead `yaml:",inline"`
}

func (PoisonToothCancelled) Kind() EventKind { return KindPoisonToothCancelled }

// PortableAntidoteUsed adds a portable antidote to a revealed plan that has no defense.
type PortableAntidoteUsed struct {
	EventHead `yaml:",inline"`
	Card      CardID `json:"card" yaml:"card"`
}

func (PortableAntidoteUsed) Kind() EventKind { return KindPortableAntidoteUsed }

// StrongholdAdvantageChosen picks which owned stronghold advantage applies in the hidden mobile stronghold.
type StrongholdAdvantageChosen struct {
	EventHead `yaml:",inline"`
	Advantage StrongholdAdvantage `json:"advantage" yaml:"advantage"`
}

func (StrongholdAdvantageChosen) Kind() EventKind { return KindStrongholdAdvantageChosen }

// JuicePlayed makes the initiator the aggressor for breaking ties.
type JuicePlayed struct {
	EventHead `yaml:",inline"`
	Card      CardID `json:"card" yaml:"card"`
}

func (JuicePlayed) Kind() EventKind { return KindJuicePlayed }

// ResidualPlayed kills a random leader the opponent could still fight with.
type ResidualPlayed struct {
	EventHead `yaml:",inline"`
	Card      CardID `json:"card" yaml:"card"`
}

func (ResidualPlayed) Kind() EventKind { return KindResidualPlayed }

type CaptureDecision int

const (
	DontCapture CaptureDecision = iota
	Capture
	Kill
)

var captureDecisionNames = map[CaptureDecision]string{
	DontCapture: "DontCapture",
	Capture:     "Capture",
	Kill:        "Kill",
}

func (d CaptureDecision) String() string {
	if s, ok := captureDecisionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("CaptureDecision(%d)", int(d))
}

func (d CaptureDecision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CaptureDecision) UnmarshalText(text []byte) error {
	v, err := parseName(captureDecisionNames, string(text))
	if err != nil {
		return fmt.Errorf("capture decision: %w", err)
	}
	*d = v
	return nil
}

// CaptureDecided settles the fate of the leader drawn from the loser by a winning Black.
type CaptureDecided struct {
	EventHead `yaml:",inline"`
	Decision  CaptureDecision `json:"decision" yaml:"decision"`
}

func (CaptureDecided) Kind() EventKind { return KindCaptureDecided }

// AuditCancelled is the auditee's choice to pay to avoid the audit, or not.
type AuditCancelled struct {
	EventHead `yaml:",inline"`
	Cancelled bool `json:"cancelled" yaml:"cancelled"`
}

func (AuditCancelled) Kind() EventKind { return KindAuditCancelled }

// Audited acknowledges the cards Brown was shown.
type Audited struct {
	EventHead `yaml:",inline"`
}

func (Audited) Kind() EventKind { return KindAudited }

// BattleConcluded lets the winner discard any of the cards it fought with.
type BattleConcluded struct {
	EventHead `yaml:",inline"`
	Discarded []CardID `json:"discarded,omitempty" yaml:"discarded"`
}

func (BattleConcluded) Kind() EventKind { return KindBattleConcluded }

// FaceDanced reveals the winner's leader as a face dancer, replacing the winner's forces with Purple's.
type FaceDanced struct {
	EventHead `yaml:",inline"`
	Called    bool `json:"called" yaml:"called"`
	Forces    int  `json:"forces,omitempty" yaml:"forces"`
}

func (FaceDanced) Kind() EventKind { return KindFaceDanced }

// AdvantagePrevented spends a Karma card to prevent a faction advantage.
type AdvantagePrevented struct {
	EventHead  `yaml:",inline"`
	Card       CardID        `json:"card" yaml:"card"`
	Target     Faction       `json:"target" yaml:"target"`
	Advantage  AdvantageKind `json:"advantage" yaml:"advantage"`
	UntilReset bool          `json:"untilReset,omitempty" yaml:"untilReset"`
}

func (AdvantagePrevented) Kind() EventKind { return KindAdvantagePrevented }

// EndPhase is submitted by the host to leave a phase that needs no player decision.
type EndPhase struct {
	EventHead `yaml:",inline"`
}

func (EndPhase) Kind() EventKind { return KindEndPhase }

// GameEnded is submitted by the host when a victory condition is met.
type GameEnded struct {
	EventHead `yaml:",inline"`
	Winners   []Faction `json:"winners,omitempty" yaml:"winners"`
}

func (GameEnded) Kind() EventKind { return KindGameEnded }

func (e GameEnded) hostOnly() bool { return true }
func (e EndPhase) hostOnly() bool  { return true }

type hostEvent interface {
	hostOnly() bool
}

// IsHostEvent reports whether only the host may submit e.
func IsHostEvent(e Event) bool {
	h, ok := e.(hostEvent)
	return ok && h.hostOnly()
}
