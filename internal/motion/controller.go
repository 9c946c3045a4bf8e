// Package motion turns a champion's commanded or forced movement intent
// into a per-tick displacement, gated by crowd-control state (§4.3).
package motion

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// PathProvider resolves a path between two points. The simulation core
// consumes it but does not implement it (§4.3, §9 Open Question — left to
// a pluggable navmesh/grid pathfinder).
type PathProvider interface {
	FindPath(from, to mathx.Vec2) ([]mathx.Vec2, bool)
}

// NoPathing is a PathProvider that always returns a direct line, used when
// no navmesh is wired (e.g. unit tests, or an open map with no obstacles).
type NoPathing struct{}

func (NoPathing) FindPath(from, to mathx.Vec2) ([]mathx.Vec2, bool) {
	return []mathx.Vec2{to}, true
}

// repathDistance is how far a moving attack-move target must drift before
// its waypoint path is recomputed (§4.3).
const repathDistance = 50.0

// waypointArriveRadius is how close to a waypoint counts as "reached".
const waypointArriveRadius = 5.0

// Step advances e's position by one tick according to champ's intent.
// Forced movement (dash, knockback) takes priority over commanded intent while active and ignores
// canMove; commanded intent only applies while canMove is true (§4.3).
func Step(e *entity.Entity, champ *entity.Champion, dt time.Duration, moveSpeed float64, canMove bool, path PathProvider) {
	dtSeconds := dt.Seconds()

	if champ.Intent.Forced.Active {
		stepForced(e, champ, dtSeconds)
		return
	}
	if !canMove {
		return
	}
	stepCommanded(e, champ, dtSeconds, moveSpeed, path)
}

func stepForced(e *entity.Entity, champ *entity.Champion, dtSeconds float64) {
	f := &champ.Intent.Forced
	dir := mathx.V2(f.Direction[0], f.Direction[1])
	if dir.Len() > 1e-9 {
		dir = mathx.Normalize(dir)
	}

	speed := f.RemainingDistance
	remainingTicks := f.RemainingDuration.Seconds()
	if remainingTicks > 0 {
		speed = f.RemainingDistance / remainingTicks
	}
	travel := speed * dtSeconds
	if travel > f.RemainingDistance {
		travel = f.RemainingDistance
	}

	e.Pos = e.Pos.Add(dir.Mul(travel))
	f.RemainingDistance -= travel
	f.RemainingDuration -= time.Duration(dtSeconds * float64(time.Second))

	if f.RemainingDistance <= 0 || f.RemainingDuration <= 0 {
		f.Active = false
		f.RemainingDistance = 0
		f.RemainingDuration = 0
	}
}

func stepCommanded(e *entity.Entity, champ *entity.Champion, dtSeconds, moveSpeed float64, path PathProvider) {
	intent := &champ.Intent.Commanded
	switch intent.Kind {
	case entity.IntentNone:
		return
	case entity.IntentMoveToPoint, entity.IntentAttackMoveTo:
		target := mathx.V2(intent.Target[0], intent.Target[1])
		advanceAlongPath(e, intent, target, dtSeconds, moveSpeed, path)
	case entity.IntentAttackTarget:
		// The caller resolves TargetID to a live position and rewrites
		// intent.Target before calling Step each tick it is still valid;
		// Step itself only ever sees a point to path toward.
		target := mathx.V2(intent.Target[0], intent.Target[1])
		advanceAlongPath(e, intent, target, dtSeconds, moveSpeed, path)
	}
}

func advanceAlongPath(e *entity.Entity, intent *entity.MovementIntent, target mathx.Vec2, dtSeconds, moveSpeed float64, path PathProvider) {
	needsRepath := len(intent.Waypoints) == 0
	repathTarget := mathx.V2(intent.NextRepathAt[0], intent.NextRepathAt[1])
	if !needsRepath && mathx.Dist(repathTarget, target) > repathDistance {
		needsRepath = true
	}

	if needsRepath {
		waypoints, ok := path.FindPath(e.Pos, target)
		if !ok || len(waypoints) == 0 {
			intent.Waypoints = nil
			return
		}
		intent.Waypoints = toRaw(waypoints)
		intent.NextRepathAt = [2]float64{target[0], target[1]}
	}

	if len(intent.Waypoints) == 0 {
		return
	}

	next := mathx.V2(intent.Waypoints[0][0], intent.Waypoints[0][1])
	travel := moveSpeed * dtSeconds
	toNext := next.Sub(e.Pos)
	dist := toNext.Len()

	if dist <= waypointArriveRadius || dist <= travel {
		e.Pos = next
		intent.Waypoints = intent.Waypoints[1:]
		if len(intent.Waypoints) == 0 {
			intent.Kind = entity.IntentNone
		}
		return
	}

	dir := toNext.Mul(1 / dist)
	e.Pos = e.Pos.Add(dir.Mul(travel))
	e.Facing = dir
}

func toRaw(points []mathx.Vec2) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p[0], p[1]}
	}
	return out
}

// BeginDash starts a forced dash of the given total distance over duration,
// in the given direction (§4.3). Knockback immunity is checked by the
// caller before invoking this for ForcedKnockback.
func BeginDash(champ *entity.Champion, kind entity.ForcedMovementKind, direction mathx.Vec2, distance float64, duration time.Duration) {
	champ.Intent.Forced = entity.ForcedMovement{
		Active:            true,
		Kind:              kind,
		Direction:         [2]float64{direction[0], direction[1]},
		RemainingDistance: distance,
		RemainingDuration: duration,
	}
}

// SetMoveTo sets a commanded move-to-point intent, clearing any stale path.
func SetMoveTo(champ *entity.Champion, target mathx.Vec2) {
	champ.Intent.Commanded = entity.MovementIntent{
		Kind:   entity.IntentMoveToPoint,
		Target: [2]float64{target[0], target[1]},
	}
}

// SetAttackMoveTo sets a commanded attack-move intent.
func SetAttackMoveTo(champ *entity.Champion, target mathx.Vec2) {
	champ.Intent.Commanded = entity.MovementIntent{
		Kind:   entity.IntentAttackMoveTo,
		Target: [2]float64{target[0], target[1]},
	}
}

// SetAttackTarget sets a commanded pursuit of a specific entity id, with its
// last-known position as the path target; the tick orchestrator refreshes
// Target every tick the entity remains alive, without checking whether it
// is visible (§4.3).
func SetAttackTarget(champ *entity.Champion, targetID string, lastKnownPos mathx.Vec2) {
	champ.Intent.Commanded = entity.MovementIntent{
		Kind:     entity.IntentAttackTarget,
		TargetID: targetID,
		Target:   [2]float64{lastKnownPos[0], lastKnownPos[1]},
	}
}

// Stop clears commanded intent (§4.3 "Stop" command).
func Stop(champ *entity.Champion) {
	champ.Intent.Commanded = entity.MovementIntent{Kind: entity.IntentNone}
}

// RetargetAttackTarget updates the pursuit target's last-known position,
// used each tick the pursued entity has moved. The path is recomputed on the
// next Step only once that position has drifted more than repathDistance
// from where the current path was computed.
func RetargetAttackTarget(champ *entity.Champion, newPos mathx.Vec2) {
	intent := &champ.Intent.Commanded
	if intent.Kind != entity.IntentAttackTarget {
		return
	}
	intent.Target = [2]float64{newPos[0], newPos[1]}
}

// InAttackRange reports whether pos is within range of target, used by the
// ability system to decide whether a pursuing basic attack can fire (§4.3).
func InAttackRange(pos, target mathx.Vec2, r float64) bool {
	return mathx.DistSq(pos, target) <= r*r
}
