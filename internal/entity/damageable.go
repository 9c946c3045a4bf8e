package entity

import "time"

// Shield is a temporary absorption pool; it is removed at the end of the
// effect update once Amount reaches zero or Duration expires (§3).
type Shield struct {
	Amount    float64
	Duration  time.Duration
	Source    string
	insertSeq uint64 // preserves oldest-first absorption order (§4.5)
}

// Expired reports whether the shield should be dropped at end of update.
func (s Shield) Expired() bool {
	return s.Amount <= 0 || s.Duration <= 0
}

// Damageable extends an Entity with health, resistances, shields, immunity
// tags, and the active-effect list. Invariant: 0 <= Health <= MaxHealth.
type Damageable struct {
	Health    float64
	MaxHealth float64

	Armor       float64
	MagicResist float64

	Shields      []Shield
	shieldSeq    uint64
	ImmunityTags map[string]bool

	ActiveEffects []ActiveEffect

	CombatTimer time.Duration // counts down from last damage dealt/received
}

// NewDamageable returns a Damageable with full health and no shields/effects.
func NewDamageable(maxHealth float64) *Damageable {
	return &Damageable{
		Health:       maxHealth,
		MaxHealth:    maxHealth,
		ImmunityTags: make(map[string]bool),
	}
}

// AddShield appends a new shield, preserving insertion order for oldest-first
// absorption.
func (d *Damageable) AddShield(s Shield) {
	d.shieldSeq++
	s.insertSeq = d.shieldSeq
	d.Shields = append(d.Shields, s)
}

// PruneShields drops expired shields; called once per tick after effect
// durations have been advanced.
func (d *Damageable) PruneShields() {
	if len(d.Shields) == 0 {
		return
	}
	kept := d.Shields[:0]
	for _, s := range d.Shields {
		if !s.Expired() {
			kept = append(kept, s)
		}
	}
	d.Shields = kept
}

// ClampHealth enforces 0 <= Health <= MaxHealth.
func (d *Damageable) ClampHealth() {
	if d.MaxHealth < 0 {
		d.MaxHealth = 0
	}
	if d.Health > d.MaxHealth {
		d.Health = d.MaxHealth
	}
	if d.Health < 0 {
		d.Health = 0
	}
}

// Immune reports whether the damageable carries the given immunity tag.
func (d *Damageable) Immune(tag string) bool {
	return d != nil && d.ImmunityTags != nil && d.ImmunityTags[tag]
}
