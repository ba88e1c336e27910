package game

import (
	"math"

	"treachery/meta"
)

// handleRevealedBattlePlans runs once every treachery call and retreat has been decided.
func (gs *GameState) handleRevealedBattlePlans() {
	agg, def := gs.Battle.AggressorPlan, gs.Battle.DefenderPlan

	gs.collectStrongholdResources(agg, def)
	gs.collectStrongholdResources(def, agg)

	aggCalled := gs.Battle.AggressorCall != nil && gs.Battle.AggressorCall.Called
	defCalled := gs.Battle.DefenderCall != nil && gs.Battle.DefenderCall.Called
	if !aggCalled || defCalled {
		gs.discardOneTimeCards(agg)
	}
	if !defCalled || aggCalled {
		gs.discardOneTimeCards(def)
	}

	gs.resolveBattle(agg, def)

	if gs.selectCaptureVictim() {
		gs.EnterPhase(PhaseCaptureDecision)
		return
	}
	gs.determineAudit()
}

func (gs *GameState) collectStrongholdResources(plan, opponent *BattlePlan) {
	p := gs.GetPlayer(plan.Initiator)
	if gs.HasStrongholdAdvantage(plan.Initiator, CollectResourcesForUseless) {
		n := 0
		for _, c := range []CardID{plan.Weapon, plan.Defense} {
			if gs.Cards.Type(c).IsUseless() {
				n++
			}
		}
		if n > 0 {
			p.Resources += n * meta.USELESS_CARD_BONUS
			gs.log(plan.Initiator, "%s collect %d for %s.", plan.Initiator, n*meta.USELESS_CARD_BONUS, CollectResourcesForUseless)
		}
	}
	if gs.HasStrongholdAdvantage(plan.Initiator, CollectResourcesForDial) {
		collected := int(math.Floor(gs.Dial(opponent, plan.Initiator)))
		if collected > 0 {
			p.Resources += collected
			gs.log(plan.Initiator, "%s collect %d for %s.", plan.Initiator, collected, CollectResourcesForDial)
		}
	}
}

func (gs *GameState) discardOneTimeCards(plan *BattlePlan) {
	gs.discard(plan.Initiator, plan.CheapHero)
	if t := gs.Cards.Type(plan.Weapon); t.IsOneTime() && !(t.IsPoisonTooth() && gs.Battle.ToothCancelled) {
		gs.discard(plan.Initiator, plan.Weapon)
	}
	if t := gs.Cards.Type(plan.Defense); t.IsOneTime() {
		gs.discard(plan.Initiator, plan.Defense)
	}
}

// resolveBattle applies the outcome of the revealed plans. The paths are mutually exclusive.
func (gs *GameState) resolveBattle(agg, def *BattlePlan) {
	o := gs.ComputeOutcome(agg, def, gs.Battle.AggressorCall, gs.Battle.DefenderCall)
	gs.Battle.Outcome = o
	t := gs.battleTerritory()

	if o.Path != PathExplosion {
		gs.executeRetreat(t)
	}
	gs.markBattleLocations(agg, def, t)
	hadMessiah := gs.MessiahAvailable(Green)

	switch o.Path {
	case PathDoubleTraitor:
		gs.resolveDoubleTraitor(t, agg, def)
	case PathSingleTraitor:
		gs.resolveSingleTraitor(t, o, agg, def)
	case PathExplosion:
		gs.resolveExplosion(t, agg, def)
	default:
		gs.resolveNumeric(t, o, agg, def)
	}

	if !hadMessiah && gs.MessiahAvailable(Green) {
		gs.reached(MilestoneMessiah)
		gs.log(Green, "The %s has awakened.", gs.Leaders.Messiah().Name)
	}

	if agg.Initiator == Black {
		gs.returnCapturedLeader(agg.Leader)
	}
	if def.Initiator == Black {
		gs.returnCapturedLeader(def.Leader)
	}
	gs.releaseCaptivesIfNeeded()
}

func (gs *GameState) executeRetreat(t *Territory) {
	r := gs.Battle.Retreat
	if r == nil {
		return
	}
	moved := gs.GetPlayer(r.Initiator).MoveForces(t, r.Location, Battalion{Normal: r.Forces, Special: r.SpecialForces})
	gs.log(r.Initiator, "%s retreat %s forces to %s.", r.Initiator, moved, gs.Map.Locations[r.Location].Name)
}

func (gs *GameState) markBattleLocations(agg, def *BattlePlan, t *Territory) {
	for _, plan := range []*BattlePlan{agg, def} {
		if l := gs.Leaders.Get(plan.Leader); l != nil {
			l.FoughtIn = t.ID
		}
		if m := gs.Leaders.Messiah(); plan.Messiah && m != nil {
			m.FoughtIn = t.ID
		}
	}
}

func (gs *GameState) resolveNumeric(t *Territory, o *BattleOutcome, agg, def *BattlePlan) {
	gs.Battle.Winner, gs.Battle.Loser = o.Winner, o.Loser

	for _, s := range []struct {
		plan *BattlePlan
		side *SideOutcome
	}{{agg, &o.Aggressor}, {def, &o.Defender}} {
		if s.side.CarthagSaved {
			gs.log(s.plan.Initiator, "%s stronghold advantage protects %s from poison.", s.plan.Initiator, gs.heroName(s.plan))
		}
		if s.side.HeroKilled {
			gs.killHeroInBattle(s.plan, s.side.Cause, o.Winner, s.side.HeroValue)
		}
	}

	gs.logStrength(agg, &o.Aggressor)
	gs.logStrength(def, &o.Defender)
	gs.log(o.Winner, "%s WIN THE BATTLE.", o.Winner)

	winner := gs.planFor(o.Winner, agg, def)
	loser := gs.planFor(o.Loser, agg, def)
	gs.processWinnerLosses(t, winner)
	gs.processLoserLosses(t, loser)
}

func (gs *GameState) logStrength(plan *BattlePlan, s *SideOutcome) {
	juice := ""
	if gs.isAggressorByJuice(plan.Initiator) {
		juice = " (aggressor by Juice)"
	}
	gs.log(plan.Initiator, "%s%s total strength: %s.", plan.Initiator, juice, formatStrength(s.Total))
	if s.Penalty > 0 {
		gs.log(plan.Initiator, "%s lose %d due to %s.", plan.Initiator, s.Penalty, Bureaucrat)
	}
}

// killHeroInBattle kills a leader hero; the winner earns its value.
func (gs *GameState) killHeroInBattle(plan *BattlePlan, cause CauseOfDeath, winner Faction, value int) {
	l := gs.Leaders.Get(plan.Leader)
	if l == nil {
		gs.log(plan.Initiator, "%s kills %s.", cause, gs.heroName(plan))
		return
	}
	gs.Leaders.Kill(l.ID)
	gs.reached(MilestoneLeaderKilled)
	if w := gs.GetPlayer(winner); w != nil && value > 0 {
		w.Resources += value
		gs.log(plan.Initiator, "%s kills %s. %s earn %d.", cause, l.Name, winner, value)
		return
	}
	gs.log(plan.Initiator, "%s kills %s.", cause, l.Name)
}

func (gs *GameState) processWinnerLosses(t *Territory, plan *BattlePlan) {
	p := gs.GetPlayer(plan.Initiator)
	gs.payDialedSpice(plan)

	lose := plan.Dialed()
	onSite, toReserves := gs.graduateRescue(plan, lose)
	if onSite.Total()+toReserves.Total() > 0 {
		gs.reached(MilestoneGraduate)
		gs.log(plan.Initiator, "%s rescues %s forces on site and %s to reserves.", Graduate, onSite, toReserves)
	}
	p.ForcesToReserves(t, toReserves)

	remaining := Battalion{
		Normal:  lose.Normal - onSite.Normal - toReserves.Normal,
		Special: lose.Special - onSite.Special - toReserves.Special,
	}
	if killed := p.KillForces(t, remaining); killed.Total() > 0 {
		gs.log(plan.Initiator, "%s lose %s forces.", plan.Initiator, killed)
	}
}

// graduateRescue splits the winner's losses into forces saved in the territory and forces sent to reserves.
// A graduate leader draws both from one pool of losses, specials first, so nothing is saved twice.
// A graduate in front of the shield sends back up to one force of each kind.
func (gs *GameState) graduateRescue(plan *BattlePlan, lose Battalion) (onSite, toReserves Battalion) {
	remaining := lose
	take := func(limit int) Battalion {
		s := min(remaining.Special, limit)
		n := min(remaining.Normal, limit-s)
		remaining.Special -= s
		remaining.Normal -= n
		return Battalion{Normal: n, Special: s}
	}
	switch {
	case gs.SkilledAs(plan.Leader, Graduate):
		onSite = take(meta.GRADUATE_ON_SITE)
		toReserves = take(meta.GRADUATE_TO_RESERVES)
	case gs.PlayerSkilledAs(plan.Initiator, Graduate):
		toReserves = Battalion{
			Normal:  min(lose.Normal, meta.GRADUATE_PLAYER_TO_RESERVES),
			Special: min(lose.Special, meta.GRADUATE_PLAYER_TO_RESERVES),
		}
	}
	return onSite, toReserves
}

func (gs *GameState) processLoserLosses(t *Territory, plan *BattlePlan) {
	gs.loseAll(t, plan.Initiator)
	gs.loseCards(plan)
	gs.payDialedSpice(plan)
}

func (gs *GameState) loseAll(t *Territory, f Faction) {
	if killed := gs.GetPlayer(f).KillAllForces(t); killed.Total() > 0 {
		gs.log(f, "%s lose all %s forces in %s.", f, killed, t.Name)
	}
}

func (gs *GameState) loseCards(plan *BattlePlan) {
	gs.discard(plan.Initiator, plan.Weapon)
	gs.discard(plan.Initiator, plan.Defense)
}

// payDialedSpice charges the plan's cost, splitting it with the ally and paying Brown its share.
func (gs *GameState) payDialedSpice(plan *BattlePlan) {
	cost := gs.PlanCost(plan)
	if cost <= 0 {
		return
	}
	p := gs.GetPlayer(plan.Initiator)
	contribution := min(plan.AllyContribution, cost)
	own := min(cost-contribution, p.Resources)
	p.Resources -= own

	costToBrown := 0
	if ally := gs.GetPlayer(p.Ally); ally != nil && contribution > 0 {
		contribution = min(contribution, ally.Resources)
		ally.Resources -= contribution
		if ally.Faction == Brown {
			costToBrown = contribution
		}
	}
	if gs.HasStrongholdAdvantage(plan.Initiator, FreeResourcesForBattles) {
		gs.log(plan.Initiator, "%s get %d spice discount from %s.", plan.Initiator, meta.BATTLE_DISCOUNT, FreeResourcesForBattles)
	}
	gs.log(plan.Initiator, "%s pay %d for forces at full strength.", plan.Initiator, own+contribution)

	profit := 0
	if brown := gs.GetPlayer(Brown); brown != nil && plan.Initiator != Brown {
		profit = int(math.Floor(meta.PAYMENT_SHARE * float64(cost-costToBrown)))
		if profit > 0 {
			if gs.Prevented(Brown, ReceiveForcePayment) {
				gs.log(Brown, "%s are prevented from receiving %d.", Brown, profit)
			} else {
				brown.Resources += profit
				gs.log(Brown, "%s receive %d.", Brown, profit)
				if profit >= meta.BUREAUCRACY_THRESHOLD {
					gs.applyBureaucracy(plan.Initiator)
				}
			}
		}
	}
	if cost-profit >= meta.BANKER_THRESHOLD {
		gs.activateBanker()
	}
}

func (gs *GameState) applyBureaucracy(payer Faction) {
	b := gs.skilledPlayer(Bureaucrat)
	if b == None || b == payer {
		return
	}
	gs.GetPlayer(b).Resources += meta.BUREAUCRACY_BONUS
	gs.log(b, "%s %s receive %d.", b, Bureaucrat, meta.BUREAUCRACY_BONUS)
}

func (gs *GameState) activateBanker() {
	b := gs.skilledPlayer(Banker)
	if b == None {
		return
	}
	gs.GetPlayer(b).Resources += meta.BANKER_BONUS
	gs.log(b, "%s %s receive %d.", b, Banker, meta.BANKER_BONUS)
}

func (gs *GameState) resolveSingleTraitor(t *Territory, o *BattleOutcome, agg, def *BattlePlan) {
	gs.Battle.Winner, gs.Battle.Loser = o.Winner, o.Loser
	loser := gs.planFor(o.Loser, agg, def)
	value := o.Aggressor.HeroValue
	if loser == def {
		value = o.Defender.HeroValue
	}
	gs.log(o.Winner, "%s is a %s traitor!", gs.heroName(loser), o.Winner)
	gs.killHeroInBattle(loser, CauseTraitor, o.Winner, value)
	gs.log(o.Winner, "%s WIN THE BATTLE.", o.Winner)
	gs.processLoserLosses(t, loser)
}

func (gs *GameState) resolveDoubleTraitor(t *Territory, agg, def *BattlePlan) {
	gs.log(None, "Both leaders are traitors, both sides lose everything!")
	for _, plan := range []*BattlePlan{agg, def} {
		gs.killHeroInBattle(plan, CauseTraitor, None, 0)
	}
	for _, plan := range []*BattlePlan{agg, def} {
		gs.processLoserLosses(t, plan)
	}
}

func (gs *GameState) resolveExplosion(t *Territory, agg, def *BattlePlan) {
	gs.reached(MilestoneExplosion)
	gs.log(None, "A %s/%s explosion occurs!", Laser, Shield)

	for _, plan := range []*BattlePlan{agg, def} {
		if plan.Leader != 0 {
			gs.killHeroInBattle(plan, CauseExplosion, None, 0)
		}
		if m := gs.Leaders.Messiah(); plan.Messiah && m != nil && m.Alive() {
			gs.Leaders.Kill(m.ID)
			gs.log(plan.Initiator, "%s kills the %s.", CauseExplosion, m.Name)
		}
	}
	for _, plan := range []*BattlePlan{agg, def} {
		gs.loseCards(plan)
		gs.payDialedSpice(plan)
	}

	if spice := gs.SpiceIn(t); spice > 0 {
		removed := gs.removeSpice(t, int(math.Floor(gs.Rules.ExplosionSpiceFraction()*float64(spice))))
		if removed > 0 {
			gs.log(None, "The explosion destroys %d spice in %s.", removed, t.Name)
		}
	}
	for _, p := range gs.Players {
		if p.Occupies(t) {
			gs.loseAll(t, p.Faction)
		}
	}
}

// returnCapturedLeader sends a captured leader that fought for Black back to its faction.
func (gs *GameState) returnCapturedLeader(id LeaderID) {
	l := gs.Leaders.Get(id)
	if l == nil || !l.Alive() || l.Status.Kind != Captured {
		return
	}
	if err := gs.Leaders.Release(id); err != nil {
		panic(err)
	}
	gs.log(l.Faction, "%s returns to %s after fighting.", l.Name, l.Faction)
}

// releaseCaptivesIfNeeded returns every captive once their custodian has no leader of its own left.
func (gs *GameState) releaseCaptivesIfNeeded() {
	if !gs.IsPlaying(Black) {
		return
	}
	var captives []*Leader
	for _, l := range gs.Leaders.OwnedBy(Black) {
		if l.Faction == Black && l.Alive() {
			return
		}
		if l.Status.Kind == Captured && l.Alive() {
			captives = append(captives, l)
		}
	}
	for _, l := range captives {
		if err := gs.Leaders.Release(l.ID); err != nil {
			panic(err)
		}
		gs.log(l.Faction, "%s returns to %s.", l.Name, l.Faction)
	}
}
