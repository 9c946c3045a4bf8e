// Package priority assigns each visible entity a send-cadence band per
// distance to a client's champion, with overrides for new/moved/stale
// entities (§4.8).
package priority

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// Level is one of the four send-cadence bands.
type Level int

const (
	Critical Level = iota
	High
	Medium
	Low
)

// CadenceTicks is how many ticks apart each level sends by default (§4.8).
var CadenceTicks = map[Level]int{
	Critical: 1,
	High:     2,
	Medium:   5,
	Low:      15,
}

// Bands carries the config-bound distance thresholds of §6.
type Bands struct {
	CriticalDistance   float64
	HighDistance       float64
	MediumDistance     float64
	MaxTicksNoUpdate   int
	MovementThreshold  float64
}

// criticalEligible reports whether kind is eligible for the always-Critical
// rule (champions, structures, projectiles within critical distance); all
// other kinds fall back to distance bands only.
func criticalEligible(kind entity.Kind) bool {
	switch kind {
	case entity.KindChampion, entity.KindTower, entity.KindInhibitor, entity.KindNexus, entity.KindProjectile:
		return true
	default:
		return false
	}
}

// LevelFor derives the priority band for an entity at distance dist from
// the client's champion (§4.8).
func LevelFor(kind entity.Kind, dist float64, bands Bands) Level {
	if criticalEligible(kind) && dist <= bands.CriticalDistance {
		return Critical
	}
	switch {
	case dist <= bands.HighDistance:
		return High
	case dist <= bands.MediumDistance:
		return Medium
	default:
		return Low
	}
}

// SendState is the per-client, per-entity bookkeeping needed to decide
// whether this tick should send: last sent tick, last sent position, and
// whether this entity has ever been sent to this client.
type SendState struct {
	LastSentTick   uint64
	LastSentPos    mathx.Vec2
	EverSent       bool
}

// ShouldSend decides whether entity e must be sent to a client this tick,
// given its priority level, current tick, and prior send state (§4.8
// overrides: new entity, movement threshold, liveness ceiling).
func ShouldSend(level Level, currentTick uint64, pos mathx.Vec2, state SendState, bands Bands) bool {
	if !state.EverSent {
		return true
	}
	if mathx.Dist(pos, state.LastSentPos) > bands.MovementThreshold {
		return true
	}
	ticksSince := currentTick - state.LastSentTick
	if bands.MaxTicksNoUpdate > 0 && int(ticksSince) >= bands.MaxTicksNoUpdate {
		return true
	}
	cadence := CadenceTicks[level]
	return int(ticksSince) >= cadence
}

// FullSendForDisconnected reports that a disconnected or dead (no
// champion) player's client receives every visible entity every tick,
// bypassing cadence (§4.8).
const FullSendForDisconnected = true
