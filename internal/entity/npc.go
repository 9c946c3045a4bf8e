package entity

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// NPC carries the AI-relevant state for non-player-controlled combatants
// (minions pushing a lane, jungle camps guarding a home point). Champions
// never carry this record; Minion and JungleCamp entities always do.
type NPC struct {
	// AggroTargetID is the entity currently being chased/attacked, or empty
	// when idle.
	AggroTargetID string

	// LeashPos is the point the NPC gives up a chase and walks back to:
	// the next unreached lane waypoint for a minion, the camp spawn point
	// for a jungle monster.
	LeashPos mathx.Vec2

	// Waypoints is the remaining lane path for a minion; empty for jungle
	// camps, which never push.
	Waypoints []mathx.Vec2

	AttackDamage   float64
	AttackRange    float64
	AttackCooldown time.Duration
	AttackTimer    time.Duration

	AggroRange float64
	LeashRange float64
	MoveSpeed  float64
}

// NextWaypoint returns the NPC's current path target and whether one
// remains.
func (n *NPC) NextWaypoint() (mathx.Vec2, bool) {
	if len(n.Waypoints) == 0 {
		return mathx.Vec2{}, false
	}
	return n.Waypoints[0], true
}

// AdvanceWaypoint drops the current waypoint once reached.
func (n *NPC) AdvanceWaypoint() {
	if len(n.Waypoints) == 0 {
		return
	}
	n.Waypoints = n.Waypoints[1:]
}
