package ability

import (
	"testing"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/animation"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
)

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	yamlSrc := []byte(`
champions:
  - id: ironclad
    name: Ironclad
    base: {}
    abilitySlots:
      Q: ironclad_q
    animations:
      Q:
        totalFrames: 6
        baseFrameDuration: 0.1
        keyframes:
          - frame: 3
            trigger: {kind: damage}
abilities:
  - id: ironclad_q
    targetType: target_enemy
    maxRank: 1
    ranks:
      - resourceCost: 10
        cooldownSeconds: 5
        damageBase: 50
    shape: single
    keyframes:
      - frame: 3
        trigger: {kind: damage}
effects: []
map:
  width: 1000
  height: 1000
`)
	c, err := catalog.Load(yamlSrc)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestCastCommitsResourceAndCooldown(t *testing.T) {
	cat := buildCatalog(t)
	scheduler := animation.New()
	caster := &entity.Entity{ID: "caster", Damageable: entity.NewDamageable(500)}
	champ := &entity.Champion{Resource: 100, ResourceMax: 100}
	champ.Abilities[entity.SlotQ].AbilityID = "ironclad_q"
	target := &entity.Entity{ID: "target", Damageable: entity.NewDamageable(500)}

	ctx := CastContext{
		Catalog: cat, Scheduler: scheduler, Now: 0,
		CasterEntity: caster, CasterChamp: champ, CasterChampDefID: "ironclad",
		TargetEntity: target,
		EffectDefOf:  func(id string) (catalog.EffectDef, bool) { return catalog.EffectDef{}, false },
		NextCastSeq:  func() uint64 { return 1 },
	}

	outcome := Cast(ctx, CastRequest{CasterID: "caster", Slot: entity.SlotQ, TargetID: "target"})
	if outcome != CastOK {
		t.Fatalf("expected CastOK, got %v", outcome)
	}
	if champ.Resource != 90 {
		t.Fatalf("resource = %v, want 90", champ.Resource)
	}
	if champ.Abilities[entity.SlotQ].CooldownRemain != 5*time.Second {
		t.Fatalf("cooldown = %v, want 5s", champ.Abilities[entity.SlotQ].CooldownRemain)
	}
	if scheduler.Pending("caster") != 1 {
		t.Fatalf("expected one scheduled action, got %d", scheduler.Pending("caster"))
	}
}

func TestCastFailsOnCooldown(t *testing.T) {
	cat := buildCatalog(t)
	scheduler := animation.New()
	caster := &entity.Entity{ID: "caster", Damageable: entity.NewDamageable(500)}
	champ := &entity.Champion{Resource: 100}
	champ.Abilities[entity.SlotQ].AbilityID = "ironclad_q"
	champ.Abilities[entity.SlotQ].CooldownRemain = time.Second
	target := &entity.Entity{ID: "target", Damageable: entity.NewDamageable(500)}

	ctx := CastContext{
		Catalog: cat, Scheduler: scheduler,
		CasterEntity: caster, CasterChamp: champ, CasterChampDefID: "ironclad",
		TargetEntity: target,
		EffectDefOf:  func(id string) (catalog.EffectDef, bool) { return catalog.EffectDef{}, false },
		NextCastSeq:  func() uint64 { return 1 },
	}

	if outcome := Cast(ctx, CastRequest{Slot: entity.SlotQ}); outcome != CastOnCooldown {
		t.Fatalf("expected CastOnCooldown, got %v", outcome)
	}
}

func TestCastInterruptionCancelsPendingActions(t *testing.T) {
	cat := buildCatalog(t)
	scheduler := animation.New()
	caster := &entity.Entity{ID: "caster", Damageable: entity.NewDamageable(500)}
	champ := &entity.Champion{Resource: 100}
	champ.Abilities[entity.SlotQ].AbilityID = "ironclad_q"
	target := &entity.Entity{ID: "target", Damageable: entity.NewDamageable(500)}

	var castSeq uint64 = 1
	ctx := CastContext{
		Catalog: cat, Scheduler: scheduler,
		CasterEntity: caster, CasterChamp: champ, CasterChampDefID: "ironclad",
		TargetEntity: target,
		EffectDefOf:  func(id string) (catalog.EffectDef, bool) { return catalog.EffectDef{}, false },
		NextCastSeq:  func() uint64 { return castSeq },
	}
	Cast(ctx, CastRequest{Slot: entity.SlotQ})

	if !Interrupt(scheduler, "caster", castSeq) {
		t.Fatalf("expected interruption to cancel the pending damage keyframe")
	}
	if scheduler.Pending("caster") != 0 {
		t.Fatalf("expected no pending actions after interruption")
	}
}
