package sim

// SessionConfig carries the session-level configuration knobs of §6. All
// values are resolved once at construction; per-tick changes are not
// supported (§6 "Session-level overrides are passed in at construction").
type SessionConfig struct {
	TickRateHz               int
	InterpDelayMs            int
	ReconnectGraceSeconds    float64
	SurrenderEarliestSeconds float64
	AFKTimeoutSeconds        float64
	RecallDurationSeconds    float64

	SightChampion   float64
	SightWard       float64
	WardDuration    float64
	MaxWardsPerPlayer int
	BushRevealRange float64

	PriorityCriticalDistance  float64
	PriorityHighDistance      float64
	PriorityMediumDistance    float64
	PriorityMaxTicksNoUpdate  int
	PriorityMovementThreshold float64

	CombatTimeoutSeconds       float64
	OutOfCombatRegenMultiplier float64
	ResistCap                  float64
	CritMultiplier             float64

	RespawnBaseSeconds    float64
	RespawnPerLevelSeconds float64
	RespawnCapSeconds     float64

	ExperienceShareRange   float64
	KillBaseXP             int
	PerLevelDiffBonusXP    int

	CellSize           float64
	LargeBodyThreshold float64
}

// DefaultSessionConfig returns the parenthesized defaults listed in §6.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TickRateHz:               125,
		InterpDelayMs:            24,
		ReconnectGraceSeconds:    300,
		SurrenderEarliestSeconds: 900,
		AFKTimeoutSeconds:        60,
		RecallDurationSeconds:    8,

		SightChampion:     800,
		SightWard:         600,
		WardDuration:      180,
		MaxWardsPerPlayer: 3,
		BushRevealRange:   100,

		PriorityCriticalDistance:  800,
		PriorityHighDistance:      1200,
		PriorityMediumDistance:    1600,
		PriorityMaxTicksNoUpdate:  60,
		PriorityMovementThreshold: 50,

		CombatTimeoutSeconds:       5,
		OutOfCombatRegenMultiplier: 2.5,
		ResistCap:                  0.9,
		CritMultiplier:             2.0,

		RespawnBaseSeconds:     6,
		RespawnPerLevelSeconds: 2,
		RespawnCapSeconds:      60,

		ExperienceShareRange: 1400,
		KillBaseXP:           140,
		PerLevelDiffBonusXP:  20,

		CellSize:           100,
		LargeBodyThreshold: 60,
	}
}
