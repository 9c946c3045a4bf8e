package eventbus

import "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/combatcalc"

// DamageDealtPayload carries the result of one combatcalc.Apply call.
type DamageDealtPayload struct {
	SourceID string
	TargetID string
	Kind     combatcalc.DamageKind
	Result   combatcalc.Result
}

// EntityKilledPayload fires once when an entity's health reaches zero.
type EntityKilledPayload struct {
	EntityID   string
	KillerID   string
	AssistIDs  []string
}

// AbilityCastPayload fires on every committed cast (§4.4 step 4).
type AbilityCastPayload struct {
	CasterID  string
	AbilityID string
	TargetID  string
}

// ProjectileSpawnedPayload fires when a projectile keyframe creates its
// entity at fire time (§4.4).
type ProjectileSpawnedPayload struct {
	ProjectileID string
	CasterID     string
	AbilityID    string
}

// StructureDestroyedPayload fires when a tower/inhibitor/nexus dies.
type StructureDestroyedPayload struct {
	StructureID string
	KillerTeam  string
}

// LevelUpPayload fires when a champion gains a level.
type LevelUpPayload struct {
	ChampionID string
	NewLevel   int
}

// GoldEarnedPayload and XpEarnedPayload back the synchronous reward
// bookkeeping §4.6 requires within the same tick as the triggering kill.
type GoldEarnedPayload struct {
	ChampionID string
	Amount     int
	Reason     string
}

type XpEarnedPayload struct {
	ChampionID string
	Amount     int
	Reason     string
}

// EffectAppliedPayload fires whenever effectsys.Apply installs or refreshes
// an active effect instance.
type EffectAppliedPayload struct {
	TargetID string
	EffectID string
	SourceID string
}

// ChatSentPayload relays a Chat command to every client permitted to see it
// (team or all-chat is a transport-layer routing decision, not modeled here).
type ChatSentPayload struct {
	SenderID string
	Team     string
	Text     string
}

// PingPlacedPayload relays a map ping to a sender's team.
type PingPlacedPayload struct {
	SenderID string
	Team     string
	X        float64
	Y        float64
	Kind     string
}
