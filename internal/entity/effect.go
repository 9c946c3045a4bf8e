package entity

import "time"

// ActiveEffect is the live instance of an effect definition applied to an
// entity (§3). The definition itself (category, CC kind, stacking policy,
// stat modifiers) is read-only catalog data looked up by EffectID; this
// struct carries only what varies per application.
type ActiveEffect struct {
	EffectID   string
	Source     string
	Remaining  time.Duration
	NextTickIn time.Duration
	Stacks     int
}

// Expired reports whether the instance should be removed this tick.
func (a ActiveEffect) Expired() bool {
	return a.Remaining <= 0
}

// FindActiveEffect returns a pointer to the active effect instance with the
// given id, or nil if the entity does not currently carry it.
func (d *Damageable) FindActiveEffect(effectID string) *ActiveEffect {
	if d == nil {
		return nil
	}
	for i := range d.ActiveEffects {
		if d.ActiveEffects[i].EffectID == effectID {
			return &d.ActiveEffects[i]
		}
	}
	return nil
}

// RemoveExpiredEffects drops active effects whose remaining duration has
// elapsed. It does not look at the PersistsThroughDeath flag; the per-tick
// aging and pruning path is effectsys.Advance.
func (d *Damageable) RemoveExpiredEffects() (removed []ActiveEffect) {
	if len(d.ActiveEffects) == 0 {
		return nil
	}
	kept := d.ActiveEffects[:0]
	for _, eff := range d.ActiveEffects {
		if eff.Expired() {
			removed = append(removed, eff)
			continue
		}
		kept = append(kept, eff)
	}
	d.ActiveEffects = kept
	return removed
}
