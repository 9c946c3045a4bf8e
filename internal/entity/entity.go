// Package entity defines the shared entity record (§3 of the design) and the
// session-owned store that holds every live object in a match. Behavior that
// varies by entity kind is expressed as free functions dispatching on Kind
// and on the presence of the optional Damageable/Champion sub-records,
// rather than as a class hierarchy — see DESIGN.md for the rationale.
package entity

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// Kind tags the nine object categories the simulation can own.
type Kind string

const (
	KindChampion   Kind = "Champion"
	KindMinion     Kind = "Minion"
	KindTower      Kind = "Tower"
	KindInhibitor  Kind = "Inhibitor"
	KindNexus      Kind = "Nexus"
	KindJungleCamp Kind = "JungleCamp"
	KindProjectile Kind = "Projectile"
	KindWard       Kind = "Ward"
	KindZone       Kind = "Zone"
)

// Team identifies one of the two competing sides, or neutral objects.
type Team string

const (
	TeamBlue    Team = "Blue"
	TeamRed     Team = "Red"
	TeamNeutral Team = "Neutral"
)

// Opposite returns the other player-controlled team; Neutral maps to itself.
func (t Team) Opposite() Team {
	switch t {
	case TeamBlue:
		return TeamRed
	case TeamRed:
		return TeamBlue
	default:
		return TeamNeutral
	}
}

// InfiniteMass marks a body (towers, nexus) that never moves under
// separation and pushes its counterpart by the full overlap.
const InfiniteMass = 0

// Entity is the record every live object shares: id, kind, team, pose, and
// collision shape. Ids are unique for the lifetime of the session; a dead
// entity keeps its id until the end-of-tick removal pass.
type Entity struct {
	ID     string
	Kind   Kind
	Team   Team
	Pos    mathx.Vec2
	Facing mathx.Vec2
	Shape  mathx.Shape

	// Mass is used by collision resolution (§4.2). A value of InfiniteMass
	// (zero) means the body never moves and pushes its counterpart fully;
	// everything else resolves proportionally to the pair's combined mass.
	Mass float64

	Dead           bool
	Intangible     bool // skipped by collision resolution and narrow phase
	CollidableOpts CollideOpts

	Rev uint64 // bumped on every mutating write; the delta serializer compares quantized field values and does not read it

	Damageable *Damageable
	Champion   *Champion
	NPC        *NPC
}

// CollideOpts lets an entity opt out of collision participation without
// being otherwise intangible (e.g. wards).
type CollideOpts struct {
	SkipCollision bool
}

// IsAlive reports whether the entity should participate in this tick's
// simulation: it is non-nil and not dead.
func (e *Entity) IsAlive() bool {
	return e != nil && !e.Dead
}

// Collidable reports whether the entity participates in narrow-phase
// collision resolution this tick.
func (e *Entity) Collidable() bool {
	return e.IsAlive() && !e.Intangible && !e.CollidableOpts.SkipCollision
}

// Touch bumps the entity's revision counter; call after any mutating write
// so the delta serializer's quantized-field comparison can detect change.
func (e *Entity) Touch() {
	e.Rev++
}
