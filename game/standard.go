package game

import "treachery/meta"

type StandardRules struct {
	Advanced          bool    `yaml:"advancedCombat"`
	UnderStorm        bool    `yaml:"battlesUnderStorm"`
	FullPhase         bool    `yaml:"fullPhaseKarma"`
	BlackCaptures     bool    `yaml:"blackCapturesOrKillsLeaders"`
	Auditor           bool    `yaml:"brownAuditor"`
	Messiah           bool    `yaml:"greenMessiah"`
	Skills            bool    `yaml:"leaderSkills"`
	Strongholds       bool    `yaml:"strongholdBonus"`
	ExplosionFraction float64 `yaml:"explosionSpiceFraction"`
	Turns             int     `yaml:"maxTurns"`
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		Advanced:          true,
		BlackCaptures:     true,
		Auditor:           true,
		Messiah:           true,
		Skills:            true,
		Strongholds:       true,
		ExplosionFraction: 1.0,
		Turns:             meta.MAX_TURNS,
	}
}

func (sr *StandardRules) AdvancedCombat() bool {
	return sr.Advanced
}

func (sr *StandardRules) BattlesUnderStorm() bool {
	return sr.UnderStorm
}

func (sr *StandardRules) FullPhaseKarma() bool {
	return sr.FullPhase
}

func (sr *StandardRules) BlackCapturesOrKillsLeaders() bool {
	return sr.BlackCaptures
}

func (sr *StandardRules) BrownAuditor() bool {
	return sr.Auditor
}

func (sr *StandardRules) GreenMessiah() bool {
	return sr.Messiah
}

func (sr *StandardRules) LeaderSkills() bool {
	return sr.Skills
}

func (sr *StandardRules) StrongholdBonus() bool {
	return sr.Strongholds
}

func (sr *StandardRules) ExplosionSpiceFraction() float64 {
	return min(max(sr.ExplosionFraction, 0), 1)
}

func (sr *StandardRules) MaxTurns() int {
	if sr.Turns <= 0 {
		return meta.MAX_TURNS
	}
	return sr.Turns
}
