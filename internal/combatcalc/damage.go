// Package combatcalc implements the damage reduction and shield-absorption
// math of §4.5: the resist-to-multiplier formula, penetration, true damage,
// and oldest-first shield absorption before health loss.
package combatcalc

import "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"

// DamageKind distinguishes the three damage types named in §3/GLOSSARY.
type DamageKind string

const (
	DamagePhysical DamageKind = "physical"
	DamageMagic    DamageKind = "magic"
	DamageTrue     DamageKind = "true"
)

// Request describes one damage instance before mitigation.
type Request struct {
	Kind           DamageKind
	Amount         float64
	FlatPenetration float64
	PercentPenetration float64 // 0..1, applied after flat penetration

	// ResistCap bounds how much of Amount resist can mitigate away (§4.5's
	// reduction ceiling). Zero means uncapped, matching pre-ceiling callers
	// and true damage (which ignores resist entirely regardless).
	ResistCap float64
}

// Result reports how a damage instance was split between shields and health.
type Result struct {
	RawAmount      float64
	MitigatedAmount float64
	ShieldAbsorbed float64
	HealthLost     float64
}

// reductionMultiplier implements §4.5: 100/(100+resist) for non-negative
// resist, 2 - 100/(100-resist) for negative resist (shred past zero).
func reductionMultiplier(resist float64) float64 {
	if resist >= 0 {
		return 100 / (100 + resist)
	}
	return 2 - 100/(100-resist)
}

// effectiveResist applies flat then percent penetration, floored at zero
// penetration effect (penetration cannot push resist negative on its own —
// only a debuff can).
func effectiveResist(resist, flatPen, percentPen float64) float64 {
	r := resist - flatPen
	if percentPen > 0 {
		r *= (1 - percentPen)
	}
	if resist >= 0 && r < 0 {
		r = 0
	}
	return r
}

// Mitigate computes the post-reduction damage amount for a single request
// against the given raw resist stat. True damage bypasses reduction
// entirely (§4.5). req.ResistCap, if set, floors the multiplier so
// mitigation can never remove more than that fraction of the raw amount.
func Mitigate(req Request, resist float64) float64 {
	if req.Kind == DamageTrue {
		return req.Amount
	}
	r := effectiveResist(resist, req.FlatPenetration, req.PercentPenetration)
	multiplier := reductionMultiplier(r)
	if req.ResistCap > 0 {
		floor := 1 - req.ResistCap
		if multiplier < floor {
			multiplier = floor
		}
	}
	return req.Amount * multiplier
}

// Apply mitigates req against target's relevant resist stat, then absorbs
// through shields oldest-first before subtracting from health (§4.5).
// Target health is clamped to [0, MaxHealth] by the caller after all of a
// tick's damage instances have been applied.
func Apply(target *entity.Damageable, req Request) Result {
	var resist float64
	switch req.Kind {
	case DamagePhysical:
		resist = target.Armor
	case DamageMagic:
		resist = target.MagicResist
	}

	mitigated := Mitigate(req, resist)
	result := Result{RawAmount: req.Amount, MitigatedAmount: mitigated}

	remaining := mitigated
	target.PruneShields()
	for i := range target.Shields {
		if remaining <= 0 {
			break
		}
		s := &target.Shields[i]
		if s.Amount <= 0 {
			continue
		}
		absorbed := s.Amount
		if absorbed > remaining {
			absorbed = remaining
		}
		s.Amount -= absorbed
		remaining -= absorbed
		result.ShieldAbsorbed += absorbed
	}

	result.HealthLost = remaining
	target.Health -= remaining
	return result
}
