package game

// Rules selects the optional rules a game is played with.
type Rules interface {
	AdvancedCombat() bool
	BattlesUnderStorm() bool
	FullPhaseKarma() bool
	BlackCapturesOrKillsLeaders() bool
	BrownAuditor() bool
	GreenMessiah() bool
	LeaderSkills() bool
	StrongholdBonus() bool
	// ExplosionSpiceFraction is the share of a territory's spice destroyed by a lasgun/shield explosion.
	ExplosionSpiceFraction() float64
	MaxTurns() int
}
