package effectsys

import (
	"testing"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
)

func defs() map[string]catalog.EffectDef {
	return map[string]catalog.EffectDef{
		"poison": {ID: "poison", Category: catalog.CategoryDOT, TickInterval: 1, DamagePerTick: 10, DurationSeconds: 3},
		"stun":   {ID: "stun", Category: catalog.CategoryCC, CC: catalog.CCStun, DurationSeconds: 2},
		"stacking_poison": {ID: "stacking_poison", Category: catalog.CategoryDOT, TickInterval: 1, DamagePerTick: 5, DurationSeconds: 3, Stacking: catalog.StackStack, MaxStacks: 3},
	}
}

func lookup(m map[string]catalog.EffectDef) func(string) (catalog.EffectDef, bool) {
	return func(id string) (catalog.EffectDef, bool) {
		d, ok := m[id]
		return d, ok
	}
}

func TestApplyRefreshResetsDuration(t *testing.T) {
	d := entity.NewDamageable(100)
	def := catalog.EffectDef{ID: "slow", Stacking: catalog.StackRefresh, DurationSeconds: 5}
	Apply(d, def, "caster1")
	d.ActiveEffects[0].Remaining = time.Second
	Apply(d, def, "caster1")
	if d.ActiveEffects[0].Remaining != 5*time.Second {
		t.Fatalf("refresh should reset remaining to 5s, got %v", d.ActiveEffects[0].Remaining)
	}
}

func TestApplyStackIncrementsUpToMax(t *testing.T) {
	d := entity.NewDamageable(100)
	all := defs()
	def := all["stacking_poison"]
	for i := 0; i < 5; i++ {
		Apply(d, def, "caster1")
	}
	if d.ActiveEffects[0].Stacks != 3 {
		t.Fatalf("stacks = %d, want capped at 3", d.ActiveEffects[0].Stacks)
	}
}

func TestAdvanceFiresPeriodicDamageTick(t *testing.T) {
	d := entity.NewDamageable(100)
	all := defs()
	Apply(d, all["poison"], "caster1")

	result := Advance(d, time.Second, lookup(all), 0)
	if len(result.DamageTicks) != 1 || result.DamageTicks[0].Amount != 10 {
		t.Fatalf("expected one 10-damage tick, got %+v", result.DamageTicks)
	}
	if d.Health != 90 {
		t.Fatalf("health = %v, want 90", d.Health)
	}
}

func TestAdvanceExpiresEffectAfterDuration(t *testing.T) {
	d := entity.NewDamageable(100)
	all := defs()
	Apply(d, all["stun"], "caster1")

	Advance(d, 1990*time.Millisecond, lookup(all), 0)
	result := Advance(d, 10*time.Millisecond, lookup(all), 0)
	if len(result.Expired) != 1 || result.Expired[0] != "stun" {
		t.Fatalf("expected stun to expire, got %+v", result.Expired)
	}
	if len(d.ActiveEffects) != 0 {
		t.Fatalf("expected no remaining active effects, got %v", d.ActiveEffects)
	}
}

func TestCanMoveFalseUnderStun(t *testing.T) {
	d := entity.NewDamageable(100)
	all := defs()
	Apply(d, all["stun"], "caster1")
	if CanMove(d, lookup(all)) {
		t.Fatalf("expected CanMove=false while stunned")
	}
}

func TestCanCastFalseUnderStun(t *testing.T) {
	d := entity.NewDamageable(100)
	all := defs()
	Apply(d, all["stun"], "caster1")
	if CanCast(d, lookup(all)) {
		t.Fatalf("expected CanCast=false while stunned")
	}
}
