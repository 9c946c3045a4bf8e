package combatcalc

import (
	"math"
	"testing"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
)

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestReductionMultiplierNonNegativeResist(t *testing.T) {
	got := reductionMultiplier(100)
	if !approxEqual(got, 0.5) {
		t.Fatalf("reductionMultiplier(100) = %v, want 0.5", got)
	}
}

func TestReductionMultiplierNegativeResist(t *testing.T) {
	got := reductionMultiplier(-50)
	want := 2 - 100/150.0
	if !approxEqual(got, want) {
		t.Fatalf("reductionMultiplier(-50) = %v, want %v", got, want)
	}
}

func TestTrueDamageBypassesReduction(t *testing.T) {
	d := entity.NewDamageable(500)
	d.Armor = 9999
	res := Apply(d, Request{Kind: DamageTrue, Amount: 100})
	if res.HealthLost != 100 {
		t.Fatalf("true damage health lost = %v, want 100", res.HealthLost)
	}
}

func TestPenetrationReducesEffectiveResist(t *testing.T) {
	withoutPen := Mitigate(Request{Kind: DamagePhysical, Amount: 100}, 100)
	withPen := Mitigate(Request{Kind: DamagePhysical, Amount: 100, FlatPenetration: 50}, 100)
	if withPen <= withoutPen {
		t.Fatalf("penetration should increase mitigated damage: %v <= %v", withPen, withoutPen)
	}
}

func TestShieldAbsorptionOldestFirst(t *testing.T) {
	d := entity.NewDamageable(500)
	d.AddShield(entity.Shield{Amount: 20, Duration: 1})
	d.AddShield(entity.Shield{Amount: 50, Duration: 1})

	res := Apply(d, Request{Kind: DamageTrue, Amount: 30})
	if res.ShieldAbsorbed != 30 {
		t.Fatalf("shield absorbed = %v, want 30", res.ShieldAbsorbed)
	}
	if res.HealthLost != 0 {
		t.Fatalf("health lost = %v, want 0", res.HealthLost)
	}
	if d.Shields[0].Amount != 0 {
		t.Fatalf("oldest shield should be drained first, got %v", d.Shields[0].Amount)
	}
	if d.Shields[1].Amount != 40 {
		t.Fatalf("second shield should absorb the remaining 10, got %v", d.Shields[1].Amount)
	}
}

func TestResistCapBoundsMitigation(t *testing.T) {
	uncapped := Mitigate(Request{Kind: DamagePhysical, Amount: 100}, 5000)
	if uncapped >= 5 {
		t.Fatalf("sanity: expected stacked armor to mitigate below 5%%, got %v", uncapped)
	}

	capped := Mitigate(Request{Kind: DamagePhysical, Amount: 100, ResistCap: 0.9}, 5000)
	if !approxEqual(capped, 10) {
		t.Fatalf("expected 0.9 resist cap to floor mitigated damage at 10, got %v", capped)
	}
}

func TestResistCapDoesNotAffectTrueDamage(t *testing.T) {
	got := Mitigate(Request{Kind: DamageTrue, Amount: 100, ResistCap: 0.9}, 5000)
	if got != 100 {
		t.Fatalf("true damage must ignore resist cap, got %v", got)
	}
}

func TestDamageOverflowsToHealthAfterShields(t *testing.T) {
	d := entity.NewDamageable(500)
	d.AddShield(entity.Shield{Amount: 10, Duration: 1})

	res := Apply(d, Request{Kind: DamageTrue, Amount: 30})
	if res.ShieldAbsorbed != 10 {
		t.Fatalf("shield absorbed = %v, want 10", res.ShieldAbsorbed)
	}
	if res.HealthLost != 20 {
		t.Fatalf("health lost = %v, want 20", res.HealthLost)
	}
}
