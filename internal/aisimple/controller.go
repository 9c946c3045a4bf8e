// Package aisimple drives the non-player combatants (lane minions, jungle
// camps): acquire the nearest enemy in range, chase and attack it while it
// stays within leash distance, otherwise push down the lane or walk back to
// the camp's spawn point. It is deliberately simple — no pathfinding, no
// threat tables, just target-in-range-then-attack-nearest, matching what a
// minion/camp needs and nothing more.
package aisimple

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/combatcalc"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// arriveRadius is how close to a waypoint or leash point counts as "there".
const arriveRadius = 5.0

// NearbyFunc reports the ids of entities within radius of pos. The
// simulation core supplies one backed by the spatial grid.
type NearbyFunc func(pos mathx.Vec2, radius float64) []string

// DamageFunc applies a damage instance from sourceID to target. The
// simulation core supplies one backed by its own mitigation/event pipeline.
type DamageFunc func(sourceID string, target *entity.Entity, req combatcalc.Request)

// Controller updates every Minion and JungleCamp entity's AI state for one
// tick. It holds no state of its own; everything it needs lives on each
// entity's NPC record.
type Controller struct{}

// Update advances aggro, movement, and attack timers for every NPC-bearing
// entity in store.
func (Controller) Update(dt time.Duration, store *entity.Store, nearby NearbyFunc, dealDamage DamageFunc) {
	store.EachOfKind(entity.KindMinion, func(e *entity.Entity) {
		updateOne(e, dt, store, nearby, dealDamage)
	})
	store.EachOfKind(entity.KindJungleCamp, func(e *entity.Entity) {
		updateOne(e, dt, store, nearby, dealDamage)
	})
}

func updateOne(e *entity.Entity, dt time.Duration, store *entity.Store, nearby NearbyFunc, dealDamage DamageFunc) {
	if !e.IsAlive() || e.NPC == nil {
		return
	}
	npc := e.NPC

	target := resolveTarget(e, npc, store, nearby)
	if target == nil {
		advanceUnaggroed(e, npc, dt)
		return
	}

	if npc.AttackTimer > 0 {
		npc.AttackTimer -= dt
	}

	dist := mathx.Dist(e.Pos, target.Pos)
	if dist > npc.AttackRange {
		stepToward(e, target.Pos, npc.MoveSpeed, dt)
	} else if npc.AttackTimer <= 0 {
		dealDamage(e.ID, target, combatcalc.Request{Kind: combatcalc.DamagePhysical, Amount: npc.AttackDamage})
		npc.AttackTimer = npc.AttackCooldown
	}
}

// resolveTarget returns the entity e should be attacking this tick: its
// existing target if still valid and within leash range, a freshly acquired
// nearest enemy otherwise, or nil if nothing qualifies.
func resolveTarget(e *entity.Entity, npc *entity.NPC, store *entity.Store, nearby NearbyFunc) *entity.Entity {
	if npc.AggroTargetID != "" {
		if t := store.Get(npc.AggroTargetID); validTarget(e, npc, t) {
			return t
		}
		npc.AggroTargetID = ""
	}

	var nearest *entity.Entity
	nearestDist := npc.AggroRange
	for _, id := range nearby(e.Pos, npc.AggroRange) {
		candidate := store.Get(id)
		if !validTarget(e, npc, candidate) {
			continue
		}
		if d := mathx.Dist(e.Pos, candidate.Pos); d <= nearestDist {
			nearest = candidate
			nearestDist = d
		}
	}
	if nearest != nil {
		npc.AggroTargetID = nearest.ID
	}
	return nearest
}

// validTarget reports whether t is a live enemy combatant e may engage,
// still within leash distance of e's home point.
func validTarget(e *entity.Entity, npc *entity.NPC, t *entity.Entity) bool {
	if t == nil || !t.IsAlive() || t.Damageable == nil {
		return false
	}
	if t.Team == e.Team || t.Kind == entity.KindWard || t.Kind == entity.KindZone {
		return false
	}
	return mathx.Dist(npc.LeashPos, t.Pos) <= npc.LeashRange
}

// advanceUnaggroed pushes a minion along its lane or walks a camp back to
// its leash point when nothing is worth attacking.
func advanceUnaggroed(e *entity.Entity, npc *entity.NPC, dt time.Duration) {
	if wp, ok := npc.NextWaypoint(); ok {
		if mathx.Dist(e.Pos, wp) <= arriveRadius {
			npc.AdvanceWaypoint()
			return
		}
		stepToward(e, wp, npc.MoveSpeed, dt)
		return
	}
	if mathx.Dist(e.Pos, npc.LeashPos) > arriveRadius {
		stepToward(e, npc.LeashPos, npc.MoveSpeed, dt)
	}
	if npc.AttackTimer > 0 {
		npc.AttackTimer -= dt
	}
}

func stepToward(e *entity.Entity, dest mathx.Vec2, moveSpeed float64, dt time.Duration) {
	dir := mathx.Normalize(dest.Sub(e.Pos))
	if dir.Len() < 1e-9 {
		return
	}
	step := moveSpeed * dt.Seconds()
	if step >= mathx.Dist(e.Pos, dest) {
		e.Pos = dest
	} else {
		e.Pos = e.Pos.Add(dir.Mul(step))
	}
	e.Facing = dir
	e.Touch()
}
