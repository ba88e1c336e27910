package game

import (
	"errors"
	"fmt"
)

// Validate checks e against the current state without changing it.
func (gs *GameState) Validate(e Event) error {
	if gs.Phase.Current == PhaseGameEnded {
		return ErrGameOver
	}
	if e == nil {
		return &ValidationError{Reason: "no event"}
	}
	err := gs.validate(e)
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Kind == "" {
		ve.Kind = e.Kind()
	}
	return err
}

func (gs *GameState) validate(e Event) error {
	if !IsHostEvent(e) && !gs.IsPlaying(e.By()) {
		return reject("%s are not playing", e.By())
	}
	switch e := e.(type) {
	case *BattleInitiated:
		return gs.validateBattleInitiated(e)
	case *BattlePlan:
		return gs.validateBattlePlan(e)
	case *BattleRevision:
		return gs.validateBattleRevision(e)
	case *Voice:
		return gs.validateVoice(e)
	case *Prescience:
		return gs.validatePrescience(e)
	case *TreacheryCalled:
		return gs.validateTreacheryCalled(e)
	case *Retreat:
		return gs.validateRetreat(e)
	case *PoisonToothCancelled:
		return gs.validatePoisonToothCancelled(e)
	case *PortableAntidoteUsed:
		return gs.validatePortableAntidoteUsed(e)
	case *StrongholdAdvantageChosen:
		return gs.validateStrongholdAdvantageChosen(e)
	case *JuicePlayed:
		return gs.validateJuicePlayed(e)
	case *ResidualPlayed:
		return gs.validateResidualPlayed(e)
	case *CaptureDecided:
		return gs.validateCaptureDecided(e)
	case *AuditCancelled:
		return gs.validateAuditCancelled(e)
	case *Audited:
		return gs.validateAudited(e)
	case *BattleConcluded:
		return gs.validateBattleConcluded(e)
	case *FaceDanced:
		return gs.validateFaceDanced(e)
	case *AdvantagePrevented:
		return gs.validateAdvantagePrevented(e)
	case *EndPhase:
		if !gs.Phase.Current.HostAdvanceable() {
			return rejectWith(ErrWrongPhase, "%s waits on a player", gs.Phase.Current)
		}
		return nil
	case *GameEnded:
		return nil
	}
	return reject("unsupported event %T", e)
}

// Execute applies e to the game. With validate set, a rejected event leaves the game untouched.
// Host events are refused unless asHost is set.
func (gs *GameState) Execute(e Event, asHost, validate bool) error {
	if gs.Phase.Current == PhaseGameEnded {
		return ErrGameOver
	}
	if e == nil {
		return &ValidationError{Reason: "no event"}
	}
	if IsHostEvent(e) && !asHost {
		return ErrHostOnly
	}
	if validate {
		if err := gs.Validate(e); err != nil {
			return err
		}
	}
	gs.Milestones = gs.Milestones[:0]
	gs.apply(e)
	gs.checkInvariants()
	return nil
}

func (gs *GameState) apply(e Event) {
	switch e := e.(type) {
	case *BattleInitiated:
		gs.initiateBattle(e)
	case *BattlePlan:
		gs.submitPlan(e)
	case *BattleRevision:
		gs.revisePlan(e)
	case *Voice:
		gs.useVoice(e)
	case *Prescience:
		gs.usePrescience(e)
	case *TreacheryCalled:
		gs.callTreachery(e)
	case *Retreat:
		gs.retreat(e)
	case *PoisonToothCancelled:
		gs.cancelPoisonTooth(e)
	case *PortableAntidoteUsed:
		gs.usePortableAntidote(e)
	case *StrongholdAdvantageChosen:
		gs.chooseStrongholdAdvantage(e)
	case *JuicePlayed:
		gs.playJuice(e)
	case *ResidualPlayed:
		gs.playResidual(e)
	case *CaptureDecided:
		gs.decideCapture(e)
	case *AuditCancelled:
		gs.cancelAudit(e)
	case *Audited:
		gs.audit(e)
	case *BattleConcluded:
		gs.concludeBattle(e)
	case *FaceDanced:
		gs.faceDance(e)
	case *AdvantagePrevented:
		gs.preventAdvantage(e)
	case *EndPhase:
		gs.AdvancePhase()
	case *GameEnded:
		gs.Battle.reset()
		gs.Winners = append([]Faction(nil), e.Winners...)
		gs.log(None, "The game has ended. Winners: %v.", e.Winners)
		gs.EnterPhase(PhaseGameEnded)
	default:
		panic(fmt.Sprintf("unsupported event %T", e))
	}
}

// checkInvariants panics when an executed event left the game in an impossible state.
func (gs *GameState) checkInvariants() {
	for _, p := range gs.Players {
		if p.Resources < 0 {
			panic(fmt.Sprintf("%s resources became %d", p.Faction, p.Resources))
		}
		for l, b := range p.Forces {
			if b.Normal < 0 || b.Special < 0 {
				panic(fmt.Sprintf("%s forces in location %d became %s", p.Faction, l, b))
			}
		}
		for _, b := range []Battalion{p.Reserves, p.Killed} {
			if b.Normal < 0 || b.Special < 0 {
				panic(fmt.Sprintf("%s force pool became %s", p.Faction, b))
			}
		}
	}
	for l, n := range gs.Spice {
		if n < 0 {
			panic(fmt.Sprintf("spice in location %d became %d", l, n))
		}
	}
	for _, plan := range []*BattlePlan{gs.Battle.AggressorPlan, gs.Battle.DefenderPlan} {
		if plan != nil && plan.Weapon != 0 && plan.Weapon == plan.Defense {
			panic(fmt.Sprintf("%s plan uses card %d twice", plan.Initiator, plan.Weapon))
		}
	}
	if gs.Battle.Current != nil && !gs.Phase.Current.IsBattle() {
		panic(fmt.Sprintf("battle still open in %s", gs.Phase.Current))
	}
}
