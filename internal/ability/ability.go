// Package ability implements cast resolution of §4.4: precondition checks,
// resource/cooldown commitment, keyframe scheduling scaled by cast/attack
// speed, self-target instant bypass, and projectile spawn-at-fire-time.
package ability

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/animation"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// CastRequest describes an attempted ability activation.
type CastRequest struct {
	CasterID string
	Slot     entity.AbilitySlot
	TargetID string
	GroundX  float64
	GroundY  float64
}

// CastOutcome reports whether the cast was committed and why not otherwise.
type CastOutcome int

const (
	CastOK CastOutcome = iota
	CastOnCooldown
	CastInsufficientResource
	CastBlockedByCC
	CastInvalidTarget
	CastUnknownAbility
)

// CastContext bundles the read-only lookups a cast needs.
type CastContext struct {
	Catalog        *catalog.Catalog
	Scheduler      *animation.Scheduler
	Now            time.Duration
	CasterEntity   *entity.Entity
	CasterChamp    *entity.Champion
	CasterBaseStats entity.BaseStats
	CasterChampDefID string // catalog.ChampionDef.ID, for animation lookup
	TargetEntity   *entity.Entity // nil for no_target/ground_target/self
	EffectDefOf    func(id string) (catalog.EffectDef, bool)
	NextCastSeq    func() uint64
	PublishCast    func(casterID, abilityID, targetID string)
	PublishEffect  func(targetID, effectID, sourceID string)
}

// Cast attempts to activate the ability bound to slot, applying all of
// §4.4 step 1-4 when preconditions hold.
func Cast(ctx CastContext, req CastRequest) CastOutcome {
	slot := &ctx.CasterChamp.Abilities[req.Slot]
	abilityDef, ok := ctx.Catalog.Ability(slot.AbilityID)
	if !ok {
		return CastUnknownAbility
	}
	rank := abilityDef.RankFor(slot.Rank)

	if slot.CooldownRemain > 0 {
		return CastOnCooldown
	}
	if ctx.CasterChamp.Resource < rank.ResourceCost {
		return CastInsufficientResource
	}
	if !effectsysCanCast(ctx.CasterEntity) {
		return CastBlockedByCC
	}
	if abilityDef.TargetType == catalog.TargetEnemy || abilityDef.TargetType == catalog.TargetAlly {
		if ctx.TargetEntity == nil {
			return CastInvalidTarget
		}
	}

	// Step 1: commit resource and cooldown immediately, before anything
	// else, so an interrupted cast still consumes both (§8 scenario 4).
	ctx.CasterChamp.Resource -= rank.ResourceCost
	slot.CooldownRemain = time.Duration(rank.Cooldown * float64(time.Second))

	castSeq := ctx.NextCastSeq()
	targetID := ""
	if ctx.TargetEntity != nil {
		targetID = ctx.TargetEntity.ID
	}
	if ctx.PublishCast != nil {
		ctx.PublishCast(ctx.CasterEntity.ID, abilityDef.ID, targetID)
	}

	if abilityDef.TargetType == catalog.TargetSelf {
		applySelfInstant(ctx, abilityDef)
		return CastOK
	}

	speed := castSpeedFor(ctx.CasterChamp, ctx.CasterBaseStats, abilityDef)
	animDef, ok := animationFor(ctx, req.Slot)
	if !ok {
		return CastOK
	}

	payload := animation.Payload{
		CasterID:  ctx.CasterEntity.ID,
		AbilityID: abilityDef.ID,
		TargetID:  targetID,
		TargetX:   req.GroundX,
		TargetY:   req.GroundY,
	}
	if ctx.TargetEntity != nil {
		payload.TargetX = ctx.TargetEntity.Pos[0]
		payload.TargetY = ctx.TargetEntity.Pos[1]
	}

	animation.ScheduleAnimation(ctx.Scheduler, ctx.CasterEntity.ID, animDef, ctx.Now, speed, castSeq, payload)
	return CastOK
}

func slotName(slot entity.AbilitySlot) string {
	switch slot {
	case entity.SlotQ:
		return "Q"
	case entity.SlotW:
		return "W"
	case entity.SlotE:
		return "E"
	case entity.SlotR:
		return "R"
	default:
		return ""
	}
}

// animationFor resolves the champion-specific animation descriptor for
// slot. If the champion definition has none registered, the ability's own
// keyframe list (with a nominal per-frame duration) is used instead so
// content authors can skip a champion-specific animation entry.
func animationFor(ctx CastContext, slot entity.AbilitySlot) (catalog.AnimationDef, bool) {
	abilityDef, _ := ctx.Catalog.Ability(ctx.CasterChamp.Abilities[slot].AbilityID)
	if champDef, ok := ctx.Catalog.Champion(ctx.CasterChampDefID); ok {
		if anim, ok := champDef.Animations[slotName(slot)]; ok {
			return anim, true
		}
	}
	if len(abilityDef.Keyframes) == 0 {
		return catalog.AnimationDef{}, false
	}
	const fallbackFrameDuration = 0.1 // seconds
	return catalog.AnimationDef{TotalFrames: 1, BaseFrameDuration: fallbackFrameDuration, Keyframes: abilityDef.Keyframes}, true
}

// castSpeedFor returns the speed multiplier scaling keyframe timing: attack
// speed for basic attacks, cast speed for abilities flagged ScalesCastSpeed,
// 1.0 otherwise (§4.4).
func castSpeedFor(champ *entity.Champion, base entity.BaseStats, def catalog.AbilityDef) float64 {
	stats := champ.CachedStats(base)
	if def.IsBasicAttack {
		if stats.AttackSpeed > 0 {
			return stats.AttackSpeed
		}
		return 1
	}
	if def.ScalesCastSpeed && stats.CastSpeed > 0 {
		return stats.CastSpeed
	}
	return 1
}

func applySelfInstant(ctx CastContext, def catalog.AbilityDef) {
	if ctx.CasterEntity.Damageable == nil {
		return
	}
	for _, kf := range def.Keyframes {
		if kf.Trigger.Kind != catalog.TriggerEffect {
			continue
		}
		effectDef, ok := ctx.EffectDefOf(kf.Trigger.Effect)
		if !ok {
			continue
		}
		applyEffectDirect(ctx.CasterEntity.Damageable, effectDef, ctx.CasterEntity.ID)
		if ctx.PublishEffect != nil {
			ctx.PublishEffect(ctx.CasterEntity.ID, effectDef.ID, ctx.CasterEntity.ID)
		}
	}
}

// applyEffectDirect and effectsysCanCast are thin seams so this package
// does not import effectsys directly for every call site — the tick
// orchestrator wires the real effectsys.Apply/CanCast via these vars at
// startup, keeping ability decoupled from effectsys's own import of
// entity/catalog.
var (
	applyEffectDirect = func(d *entity.Damageable, def catalog.EffectDef, sourceID string) {}
	effectsysCanCast  = func(e *entity.Entity) bool { return true }
)

// WireEffects installs the effectsys-backed implementations; called once
// at session construction (see internal/sim engine wiring).
func WireEffects(apply func(d *entity.Damageable, def catalog.EffectDef, sourceID string), canCast func(e *entity.Entity) bool) {
	applyEffectDirect = apply
	effectsysCanCast = canCast
}

// Interrupt cancels every pending scheduled action belonging to castSeq and
// returns whether anything was cancelled (§4.4 interruption semantics).
func Interrupt(scheduler *animation.Scheduler, entityID string, castSeq uint64) bool {
	return scheduler.CancelByCast(entityID, castSeq) > 0
}

// SpawnPoint resolves a projectile's initial position and direction at
// fire time, per §4.4 ("initial position = caster position at fire time,
// direction = toward target position captured at fire time").
func SpawnPoint(casterPos, targetPos mathx.Vec2) (pos, dir mathx.Vec2) {
	return casterPos, mathx.Normalize(targetPos.Sub(casterPos))
}
