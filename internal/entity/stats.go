package entity

// DerivedStats is the pure, idempotent result of combining a champion's base
// stats, per-level growth, and modifier list (§3, §4.5). Implementations may
// cache it per tick but must invalidate on any Modifiers/Level change.
type DerivedStats struct {
	MaxHealth    float64
	AttackDamage float64
	AbilityPower float64
	Armor        float64
	MagicResist  float64
	MoveSpeed    float64
	AttackSpeed  float64
	CastSpeed    float64
	CritChance   float64
}

// BaseStats is the read-only per-champion-definition base+growth curve
// consumed by DeriveStats.
type BaseStats struct {
	Base   DerivedStats
	Growth DerivedStats
}

// DeriveStats recomputes derived stats from base/growth/level with modifiers
// applied flat-then-percent, per champion definition (§3). This function is
// pure: callers decide whether/how to cache the result.
func DeriveStats(base BaseStats, level int, mods []StatModifier) DerivedStats {
	levelFactor := float64(level - 1)
	if levelFactor < 0 {
		levelFactor = 0
	}

	grown := DerivedStats{
		MaxHealth:    base.Base.MaxHealth + base.Growth.MaxHealth*levelFactor,
		AttackDamage: base.Base.AttackDamage + base.Growth.AttackDamage*levelFactor,
		AbilityPower: base.Base.AbilityPower + base.Growth.AbilityPower*levelFactor,
		Armor:        base.Base.Armor + base.Growth.Armor*levelFactor,
		MagicResist:  base.Base.MagicResist + base.Growth.MagicResist*levelFactor,
		MoveSpeed:    base.Base.MoveSpeed + base.Growth.MoveSpeed*levelFactor,
		AttackSpeed:  base.Base.AttackSpeed + base.Growth.AttackSpeed*levelFactor,
		CastSpeed:    base.Base.CastSpeed + base.Growth.CastSpeed*levelFactor,
		CritChance:   base.Base.CritChance + base.Growth.CritChance*levelFactor,
	}

	flat := map[string]float64{}
	percent := map[string]float64{}
	for _, m := range mods {
		flat[m.Stat] += m.Flat
		percent[m.Stat] += m.Percent
	}

	apply := func(stat string, value float64) float64 {
		value += flat[stat]
		value *= 1 + percent[stat]
		return value
	}

	return DerivedStats{
		MaxHealth:    apply("MaxHealth", grown.MaxHealth),
		AttackDamage: apply("AttackDamage", grown.AttackDamage),
		AbilityPower: apply("AbilityPower", grown.AbilityPower),
		Armor:        apply("Armor", grown.Armor),
		MagicResist:  apply("MagicResist", grown.MagicResist),
		MoveSpeed:    apply("MoveSpeed", grown.MoveSpeed),
		AttackSpeed:  apply("AttackSpeed", grown.AttackSpeed),
		CastSpeed:    apply("CastSpeed", grown.CastSpeed),
		CritChance:   apply("CritChance", grown.CritChance),
	}
}

// CachedStats returns the champion's derived stats, recomputing only when
// the cache has been invalidated since the last call.
func (c *Champion) CachedStats(base BaseStats) DerivedStats {
	if !c.statCacheLive {
		c.statCache = DeriveStats(base, c.Level, c.Modifiers)
		c.statCacheLive = true
	}
	return c.statCache
}
