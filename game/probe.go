package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type Probe int

const (
	ProbeUnknown Probe = iota
	ProbeWin
	ProbeLoss
)

func (p Probe) String() string {
	switch p {
	case ProbeWin:
		return "Win"
	case ProbeLoss:
		return "Loss"
	}
	return "Unknown"
}

// ProbeOutcome answers whether plan would win against the opponent's submitted plan, assuming no treachery.
// It works on a copy of gs. Any failure is logged and reported as ProbeUnknown.
func ProbeOutcome(gs *GameState, plan *BattlePlan) (result Probe, outcome *BattleOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("faction", plan.Initiator.String()).Msgf("probe failed: %v", r)
			result, outcome = ProbeUnknown, nil
		}
	}()

	sim := gs.Copy()
	if sim.Battle.Current == nil || !sim.Battle.Current.Involves(plan.Initiator) {
		return ProbeUnknown, nil
	}
	opponent := sim.Battle.PlanOf(sim.Battle.Current.OpponentOf(plan.Initiator))
	if opponent == nil {
		return ProbeUnknown, nil
	}
	if err := sim.checkDraftPlan(plan); err != nil {
		log.Warn().Err(err).Str("faction", plan.Initiator.String()).Msg("probe on an invalid plan")
		return ProbeUnknown, nil
	}

	agg, def := plan, opponent
	if plan.Initiator != sim.Battle.Aggressor() {
		agg, def = opponent, plan
	}
	outcome = sim.ComputeOutcome(agg, def, nil, nil)
	switch outcome.Winner {
	case plan.Initiator:
		return ProbeWin, outcome
	case None:
		return ProbeUnknown, outcome
	}
	return ProbeLoss, outcome
}

func (o *BattleOutcome) String() string {
	return fmt.Sprintf("%s: %s %s vs %s %s, winner %s", o.Path,
		o.Aggressor.Faction, formatStrength(o.Aggressor.Total), o.Defender.Faction, formatStrength(o.Defender.Total), o.Winner)
}
