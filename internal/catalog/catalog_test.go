package catalog

import "testing"

const fixture = `
champions:
  - id: ironclad
    name: Ironclad
    base:
      base: {maxHealth: 540, attackDamage: 55, armor: 30}
      growth: {maxHealth: 85, attackDamage: 3, armor: 4}
    abilitySlots: {Q: ironclad_q, W: "", E: "", R: ""}
    shape: {kind: circle, r: 40}
abilities:
  - id: ironclad_q
    targetType: skillshot
    maxRank: 5
    ranks:
      - {resourceCost: 40, cooldownSeconds: 8, damageBase: 80, damagePerLevel: 10, radius: 60}
    shape: line
    keyframes:
      - {frame: 3, trigger: {kind: damage}}
effects: []
map:
  width: 14000
  height: 14000
  bushGroups:
    - {index: 0, centerX: 500, centerY: 0, spread: cluster, count: 3, padding: 120}
`

func TestLoadValidatesReferences(t *testing.T) {
	cat, err := Load([]byte(fixture))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cat.Champion("ironclad"); !ok {
		t.Fatalf("expected champion ironclad to load")
	}
	if _, ok := cat.Ability("ironclad_q"); !ok {
		t.Fatalf("expected ability ironclad_q to load")
	}
}

func TestLoadRejectsUnknownAbilityReference(t *testing.T) {
	bad := `
champions:
  - id: ironclad
    abilitySlots: {Q: missing_ability}
abilities: []
effects: []
`
	if _, err := Load([]byte(bad)); err == nil {
		t.Fatalf("expected validation error for unknown ability reference")
	}
}

func TestBushRectsDeterministic(t *testing.T) {
	group := BushGroupDef{Index: 0, CenterX: 500, CenterY: 0, Spread: SpreadCluster, Count: 3, Padding: 120}
	a := BushRects(group)
	b := BushRects(group)
	if len(a) != len(b) {
		t.Fatalf("bush count mismatch across identical calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bush %d differs across identical calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}
