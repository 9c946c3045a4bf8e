// Package effectsys applies and advances active effects on a Damageable:
// stacking-policy dispatch on (re)application, periodic DoT/HoT ticks, CC
// derivation, and expiry (§3, §4.5).
package effectsys

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/combatcalc"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
)

// TickResult reports what an Advance pass did, for event-bus publication.
type TickResult struct {
	DamageTicks []DamageTick
	HealTicks   []HealTick
	Expired     []string // effect ids removed this tick
}

type DamageTick struct {
	EffectID string
	Source   string
	Amount   float64
}

type HealTick struct {
	EffectID string
	Source   string
	Amount   float64
}

// Apply applies def as a new instance sourced from sourceID, dispatching on
// the effect's stacking policy against any existing instance (§3):
//   - refresh: reset remaining duration, stacks unchanged
//   - extend: add duration to remaining, stacks unchanged
//   - stack: add a stack (capped at MaxStacks) and refresh duration
//   - replace: drop the old instance and install a fresh one
//   - ignore: no-op if an instance already exists
func Apply(target *entity.Damageable, def catalog.EffectDef, sourceID string) {
	existing := target.FindActiveEffect(def.ID)
	duration := time.Duration(def.DurationSeconds * float64(time.Second))

	if existing == nil {
		target.ActiveEffects = append(target.ActiveEffects, entity.ActiveEffect{
			EffectID:   def.ID,
			Source:     sourceID,
			Remaining:  duration,
			NextTickIn: tickInterval(def),
			Stacks:     1,
		})
		return
	}

	switch def.Stacking {
	case catalog.StackIgnore:
		return
	case catalog.StackRefresh:
		existing.Remaining = duration
		existing.Source = sourceID
	case catalog.StackExtend:
		existing.Remaining += duration
		existing.Source = sourceID
	case catalog.StackStack:
		if def.MaxStacks <= 0 || existing.Stacks < def.MaxStacks {
			existing.Stacks++
		}
		existing.Remaining = duration
		existing.Source = sourceID
	case catalog.StackReplace:
		existing.Remaining = duration
		existing.NextTickIn = tickInterval(def)
		existing.Stacks = 1
		existing.Source = sourceID
	}
}

func tickInterval(def catalog.EffectDef) time.Duration {
	if def.TickInterval <= 0 {
		return 0
	}
	return time.Duration(def.TickInterval * float64(time.Second))
}

// Advance ages every active effect on target by dt, firing periodic
// DoT/HoT ticks and collecting expirations, then pruning expired entries
// (§3, §4.5). defOf resolves an effect id to its catalog definition.
// resistCap bounds DoT mitigation the same way it bounds direct damage.
func Advance(target *entity.Damageable, dt time.Duration, defOf func(id string) (catalog.EffectDef, bool), resistCap float64) TickResult {
	var result TickResult
	kept := target.ActiveEffects[:0]

	for i := range target.ActiveEffects {
		ae := &target.ActiveEffects[i]
		def, ok := defOf(ae.EffectID)
		if !ok {
			continue
		}

		ae.Remaining -= dt
		if def.TickInterval > 0 {
			ae.NextTickIn -= dt
			for ae.NextTickIn <= 0 {
				fireTick(target, def, ae, &result, resistCap)
				ae.NextTickIn += tickInterval(def)
			}
		}

		if ae.Expired() {
			result.Expired = append(result.Expired, ae.EffectID)
			continue
		}
		kept = append(kept, *ae)
	}
	target.ActiveEffects = kept
	return result
}

func fireTick(target *entity.Damageable, def catalog.EffectDef, ae *entity.ActiveEffect, result *TickResult, resistCap float64) {
	stacks := float64(ae.Stacks)
	if def.DamagePerTick > 0 {
		kind := combatcalc.DamageMagic
		if def.TrueDamage {
			kind = combatcalc.DamageTrue
		}
		applied := combatcalc.Apply(target, combatcalc.Request{Kind: kind, Amount: def.DamagePerTick * stacks, ResistCap: resistCap})
		result.DamageTicks = append(result.DamageTicks, DamageTick{EffectID: def.ID, Source: ae.Source, Amount: applied.HealthLost})
	}
	if def.HealPerTick > 0 {
		heal := def.HealPerTick * stacks
		target.Health += heal
		target.ClampHealth()
		result.HealTicks = append(result.HealTicks, HealTick{EffectID: def.ID, Source: ae.Source, Amount: heal})
	}
}

// Cleanse removes every cleansable active effect from target (§3 — the
// "purge" family of abilities).
func Cleanse(target *entity.Damageable, defOf func(id string) (catalog.EffectDef, bool)) int {
	kept := target.ActiveEffects[:0]
	removed := 0
	for _, ae := range target.ActiveEffects {
		def, ok := defOf(ae.EffectID)
		if ok && def.Cleansable {
			removed++
			continue
		}
		kept = append(kept, ae)
	}
	target.ActiveEffects = kept
	return removed
}

// ActiveCC reports the first crowd-control kind found among target's active
// effects, or catalog.CCNone if none (§3/GLOSSARY defines no explicit
// stacking order between distinct CC kinds, so the first active one found
// governs — callers needing a specific precedence should use HasCC).
func ActiveCC(target *entity.Damageable, defOf func(id string) (catalog.EffectDef, bool)) catalog.CCKind {
	for _, ae := range target.ActiveEffects {
		if def, ok := defOf(ae.EffectID); ok && def.CC != catalog.CCNone {
			return def.CC
		}
	}
	return catalog.CCNone
}

// HasCC reports whether target currently carries the given CC kind.
func HasCC(target *entity.Damageable, kind catalog.CCKind, defOf func(id string) (catalog.EffectDef, bool)) bool {
	for _, ae := range target.ActiveEffects {
		if def, ok := defOf(ae.EffectID); ok && def.CC == kind {
			return true
		}
	}
	return false
}

// CanMove reports whether target is free to move: not stunned, rooted,
// grounded, or knocked up (§4.3 CC-gated movement rule).
func CanMove(target *entity.Damageable, defOf func(id string) (catalog.EffectDef, bool)) bool {
	for _, ae := range target.ActiveEffects {
		def, ok := defOf(ae.EffectID)
		if !ok {
			continue
		}
		switch def.CC {
		case catalog.CCStun, catalog.CCRoot, catalog.CCGrounded, catalog.CCKnockup:
			return false
		}
	}
	return true
}

// CanCast reports whether target may begin a new ability cast (§4.4): not
// stunned, silenced, knocked up, or rooted (every CC kind for which
// EffectDef.InvalidatesCast is true).
func CanCast(target *entity.Damageable, defOf func(id string) (catalog.EffectDef, bool)) bool {
	for _, ae := range target.ActiveEffects {
		def, ok := defOf(ae.EffectID)
		if !ok {
			continue
		}
		if def.InvalidatesCast() {
			return false
		}
	}
	return true
}

// AggregateModifiers collects the StatModifiers contributed by every active
// effect, for folding into entity.DeriveStats alongside item/passive
// modifiers (§4.5).
func AggregateModifiers(target *entity.Damageable, defOf func(id string) (catalog.EffectDef, bool)) []entity.StatModifier {
	var mods []entity.StatModifier
	for _, ae := range target.ActiveEffects {
		def, ok := defOf(ae.EffectID)
		if !ok {
			continue
		}
		for range make([]struct{}, ae.Stacks) {
			mods = append(mods, def.StatModifiers...)
		}
	}
	return mods
}
