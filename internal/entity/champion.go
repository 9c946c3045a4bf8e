package entity

import "time"

// AbilitySlot identifies one of the four ability slots a champion carries.
type AbilitySlot int

const (
	SlotQ AbilitySlot = iota
	SlotW
	SlotE
	SlotR
	SlotCount
)

// AbilityState is the per-champion mutable state for one ability slot; the
// id, ranks, costs, and cooldown curve are read-only catalog data.
type AbilityState struct {
	AbilityID        string
	Rank             int
	CooldownRemain   time.Duration
	Charging         bool
	Channeling       bool
	Toggled          bool
	Transformed      bool
	AmmoCharges      int
	RecastWindowOpen bool
}

// StatModifier is a flat or percent adjustment to a derived stat, tagged
// with the source that applied it (item, buff, level) so it can be removed
// independently. Flat modifiers apply before percent modifiers (§3).
type StatModifier struct {
	Stat    string
	Flat    float64
	Percent float64
	Source  string
}

// ItemSlot holds one of a champion's (up to 6) inventory entries.
type ItemSlot struct {
	ItemID string
	Charges int
}

// PassiveState tracks a champion's passive stack counter, its decay timer,
// and its own internal cooldown (distinct from the Q/W/E/R cooldowns).
type PassiveState struct {
	Stacks             int
	StackTimerRemain   time.Duration
	InternalCDRemain   time.Duration
}

// MovementIntentKind enumerates the commanded-motion states of §4.3.
type MovementIntentKind string

const (
	IntentNone             MovementIntentKind = "none"
	IntentMoveToPoint      MovementIntentKind = "move_to_point"
	IntentAttackMoveTo     MovementIntentKind = "attack_move_to_point"
	IntentAttackTarget     MovementIntentKind = "attack_target_entity"
)

// MovementIntent captures a champion's commanded motion.
type MovementIntent struct {
	Kind     MovementIntentKind
	Target   [2]float64 // for move/attack-move
	TargetID string      // for attack-target
	Waypoints [][2]float64
	NextRepathAt [2]float64
}

// ForcedMovementKind distinguishes dash from knockback for immunity checks.
type ForcedMovementKind string

const (
	ForcedDash      ForcedMovementKind = "dash"
	ForcedKnockback ForcedMovementKind = "knockback"
)

// ForcedMovement overrides commanded motion while active (§4.3).
type ForcedMovement struct {
	Active            bool
	Kind              ForcedMovementKind
	Direction         [2]float64
	RemainingDistance float64
	RemainingDuration time.Duration
}

// Champion extends Entity+Damageable with the champion-specific state of
// §3: level, resource, ability slots, CC-derived behavior flags, stat
// modifiers, inventory, and passive state.
type Champion struct {
	Level int

	Resource    float64
	ResourceMax float64

	Abilities [SlotCount]AbilityState
	Passive   PassiveState

	Modifiers []StatModifier
	Inventory [6]ItemSlot

	Intent ForcedMovementOrCommand

	KnockbackImmune bool

	// ActiveCastSeq is the cast sequence number of this champion's most
	// recently started cast, whether or not it still has pending keyframes.
	// Hard CC landing on the champion interrupts the cast it names.
	ActiveCastSeq uint64

	Gold int
	XP   int

	// derived-stat cache; invalidated whenever Modifiers or Level changes
	// (§4.5). statCacheLive is false until the cache is first computed and
	// after every invalidation; statCacheRev is not read.
	statCacheRev  uint64
	statCache     DerivedStats
	statCacheLive bool
}

// ForcedMovementOrCommand bundles the commanded intent and any forced
// override, since forced movement takes priority while active but does not
// cancel the underlying commanded intent (§4.3).
type ForcedMovementOrCommand struct {
	Commanded MovementIntent
	Forced    ForcedMovement
}

// InvalidateStatCache forces the next CachedStats call to recompute.
func (c *Champion) InvalidateStatCache() {
	c.statCacheLive = false
}
