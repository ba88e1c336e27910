package game

import (
	"strings"

	"treachery/meta"
	"treachery/utils"
)

// selectCaptureVictim draws the loser's leader a winning Black may capture or kill.
func (gs *GameState) selectCaptureVictim() bool {
	if gs.Battle.Winner != Black || !gs.Rules.BlackCapturesOrKillsLeaders() {
		return false
	}
	if gs.Prevented(Black, CaptureLeader) {
		gs.log(Black, "%s are prevented from capturing a leader.", Black)
		return false
	}
	var candidates []LeaderID
	for _, l := range gs.Leaders.OwnedBy(gs.Battle.Loser) {
		if l.Alive() && l.Kind == NormalLeader && gs.canJoinCurrentBattle(l) {
			candidates = append(candidates, l.ID)
		}
	}
	if len(candidates) == 0 {
		gs.log(Black, "%s have no leaders to capture.", gs.Battle.Loser)
		return false
	}
	gs.Battle.Victim = candidates[gs.Random.Intn(len(candidates))]
	return true
}

func (gs *GameState) validateCaptureDecided(e *CaptureDecided) error {
	if gs.Phase.Current != PhaseCaptureDecision {
		return rejectWith(ErrWrongPhase, "no leader to capture")
	}
	if e.Initiator != Black || gs.Battle.Winner != Black {
		return reject("%s cannot capture leaders", e.Initiator)
	}
	if _, ok := captureDecisionNames[e.Decision]; !ok {
		return reject("unknown decision %d", int(e.Decision))
	}
	return nil
}

func (gs *GameState) decideCapture(e *CaptureDecided) {
	victim := gs.Leaders.Get(gs.Battle.Victim)
	switch e.Decision {
	case Capture:
		if err := gs.Leaders.Capture(victim.ID, Black); err != nil {
			panic(err)
		}
		gs.reached(MilestoneCaptured)
		gs.log(Black, "%s capture %s.", Black, victim.Name)
	case Kill:
		gs.Leaders.Kill(victim.ID)
		gs.GetPlayer(Black).Resources += meta.CAPTURE_KILL_REWARD
		gs.reached(MilestoneLeaderKilled)
		gs.log(Black, "%s kill %s and earn %d.", Black, victim.Name, meta.CAPTURE_KILL_REWARD)
	default:
		gs.log(Black, "%s don't capture or kill a leader.", Black)
	}
	gs.Battle.Victim = 0
	gs.determineAudit()
}

// auditee is the opponent of a fielded auditor, if the audit may happen.
func (gs *GameState) auditee() Faction {
	agg, def := gs.Battle.AggressorPlan, gs.Battle.DefenderPlan
	if !gs.Rules.BrownAuditor() || !gs.IsPlaying(Brown) || gs.Prevented(Brown, Audit) || agg == nil || def == nil {
		return None
	}
	isAuditor := func(id LeaderID) bool {
		l := gs.Leaders.Get(id)
		return l != nil && l.Kind == AuditorLeader
	}
	switch {
	case agg.Initiator == Brown && isAuditor(agg.Leader):
		return def.Initiator
	case def.Initiator == Brown && isAuditor(def.Leader):
		return agg.Initiator
	}
	return None
}

// determineAudit starts an audit when one applies and otherwise moves on to concluding the battle.
func (gs *GameState) determineAudit() {
	if f := gs.auditee(); f != None {
		hand := append([]CardID(nil), gs.GetPlayer(f).Hand...)
		if len(hand) > 0 {
			gs.Random.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
			gs.Battle.Auditee = f
			gs.Battle.AuditedCards = hand[:min(meta.AUDITED_CARDS, len(hand))]
			gs.EnterPhase(PhaseAuditing)
			return
		}
		gs.log(Brown, "%s have no cards to audit.", f)
	}
	gs.concludeOrFinish()
}

func (gs *GameState) concludeOrFinish() {
	gs.enterOr(gs.Battle.Winner != None, PhaseBattleConclusion, gs.afterConclusion)
}

func (gs *GameState) AuditCost() int {
	return len(gs.Battle.AuditedCards) * meta.AUDIT_CANCEL_COST
}

func (gs *GameState) validateAuditCancelled(e *AuditCancelled) error {
	if gs.Phase.Current != PhaseAuditing {
		return rejectWith(ErrWrongPhase, "no audit in progress")
	}
	if e.Initiator != gs.Battle.Auditee || gs.Battle.AuditDecided {
		return reject("%s cannot cancel the audit", e.Initiator)
	}
	if e.Cancelled && gs.GetPlayer(e.Initiator).Resources < gs.AuditCost() {
		return reject("you can't pay %d to cancel the audit", gs.AuditCost())
	}
	return nil
}

func (gs *GameState) cancelAudit(e *AuditCancelled) {
	gs.Battle.AuditDecided = true
	if !e.Cancelled {
		gs.log(e.Initiator, "%s allow %s to audit %d cards.", e.Initiator, Brown, len(gs.Battle.AuditedCards))
		return
	}
	cost := gs.AuditCost()
	gs.GetPlayer(e.Initiator).Resources -= cost
	gs.GetPlayer(Brown).Resources += cost
	gs.log(e.Initiator, "%s pay %d to %s to cancel the audit.", e.Initiator, cost, Brown)
	gs.Battle.AuditedCards = nil
	gs.concludeOrFinish()
}

func (gs *GameState) validateAudited(e *Audited) error {
	if gs.Phase.Current != PhaseAuditing {
		return rejectWith(ErrWrongPhase, "no audit in progress")
	}
	if e.Initiator != Brown || !gs.Battle.AuditDecided {
		return reject("the audit is not ready")
	}
	return nil
}

func (gs *GameState) audit(e *Audited) {
	names := make([]string, 0, len(gs.Battle.AuditedCards))
	for _, c := range gs.Battle.AuditedCards {
		names = append(names, gs.Cards.Get(c).Name)
	}
	gs.reached(MilestoneAudited)
	gs.log(Brown, "%s audit %s: %s.", Brown, gs.Battle.Auditee, strings.Join(names, ", "))
	gs.concludeOrFinish()
}

func (gs *GameState) validateBattleConcluded(e *BattleConcluded) error {
	if gs.Phase.Current != PhaseBattleConclusion {
		return rejectWith(ErrWrongPhase, "the battle is not being concluded")
	}
	if e.Initiator != gs.Battle.Winner {
		return reject("only the winner concludes the battle")
	}
	plan := gs.Battle.PlanOf(e.Initiator)
	p := gs.GetPlayer(e.Initiator)
	for _, c := range e.Discarded {
		if !p.HasCard(c) || plan == nil || c != plan.Weapon && c != plan.Defense {
			return reject("%s was not used in this battle", gs.Cards.Get(c))
		}
	}
	return nil
}

func (gs *GameState) concludeBattle(e *BattleConcluded) {
	for _, c := range e.Discarded {
		gs.discard(e.Initiator, c)
	}
	gs.afterConclusion()
}

func (gs *GameState) afterConclusion() {
	gs.enterOr(gs.IsPlaying(Purple) && gs.Battle.Winner != None && gs.Battle.Winner != Purple, PhaseFacedancing, gs.finishBattle)
}

func (gs *GameState) validateFaceDanced(e *FaceDanced) error {
	if gs.Phase.Current != PhaseFacedancing {
		return rejectWith(ErrWrongPhase, "face dancers are revealed after a battle")
	}
	if e.Initiator != Purple {
		return reject("only %s reveal face dancers", Purple)
	}
	if !e.Called {
		return nil
	}
	purple := gs.GetPlayer(Purple)
	plan := gs.Battle.PlanOf(gs.Battle.Winner)
	if plan == nil || !purple.HasFaceDancer(plan.Leader) {
		return reject("the winning leader is not your face dancer")
	}
	present := gs.GetPlayer(gs.Battle.Winner).ForcesInTerritory(gs.battleTerritory()).Total()
	if e.Forces < 0 || e.Forces > purple.Reserves.Normal || e.Forces > present {
		return reject("you can place up to %d forces", min(purple.Reserves.Normal, present))
	}
	return nil
}

func (gs *GameState) faceDance(e *FaceDanced) {
	if !e.Called {
		gs.log(Purple, "%s don't reveal a face dancer.", Purple)
		gs.finishBattle()
		return
	}
	t := gs.battleTerritory()
	winner := gs.GetPlayer(gs.Battle.Winner)
	purple := gs.GetPlayer(Purple)
	leader := gs.Leaders.Get(gs.Battle.PlanOf(winner.Faction).Leader)

	gs.reached(MilestoneFaceDanced)
	gs.log(Purple, "%s is a %s face dancer!", leader.Name, Purple)
	purple.FaceDancers, _ = utils.Remove(purple.FaceDancers, leader.ID)
	if leader.Alive() {
		gs.Leaders.Kill(leader.ID)
		gs.log(leader.Faction, "%s is killed.", leader.Name)
	}

	target := t.Locations[0]
	for _, l := range t.Locations {
		if winner.ForcesIn(l).Total() > 0 {
			target = l
			break
		}
	}
	moved := winner.ForcesToReserves(t, winner.ForcesInTerritory(t))
	gs.log(winner.Faction, "%s forces %s return to reserves.", winner.Faction, moved)
	if e.Forces > 0 {
		if err := purple.ShipFromReserves(target, Battalion{Normal: e.Forces}); err != nil {
			panic(err)
		}
		gs.log(Purple, "%s place %d forces in %s.", Purple, e.Forces, gs.Map.Locations[target].Name)
	}
	gs.finishBattle()
}

// finishBattle restores battle-scoped advantages and hands over to the host.
func (gs *GameState) finishBattle() {
	if !gs.Rules.FullPhaseKarma() {
		gs.Advantages.allowBattleAdvantages()
	}
	gs.EnterPhase(PhaseBattleReport)
}
