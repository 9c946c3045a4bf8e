package entity

import "testing"

func TestStoreDeterministicIterationOrder(t *testing.T) {
	store := NewStore()
	for _, id := range []string{"c3", "c1", "c2"} {
		store.Add(&Entity{ID: id, Kind: KindChampion})
	}

	var seen []string
	store.Each(func(e *Entity) { seen = append(seen, e.ID) })

	want := []string{"c1", "c2", "c3"}
	for i, id := range want {
		if seen[i] != id {
			t.Fatalf("Each order = %v, want %v", seen, want)
		}
	}
}

func TestStoreDeferredRemoval(t *testing.T) {
	store := NewStore()
	store.Add(&Entity{ID: "a", Kind: KindMinion})
	store.Add(&Entity{ID: "b", Kind: KindMinion})

	store.MarkRemoved("a")
	if store.Len() != 2 {
		t.Fatalf("entity should remain present until CommitRemovals")
	}

	removed := store.CommitRemovals()
	if len(removed) != 1 || removed[0] != "a" {
		t.Fatalf("CommitRemovals = %v, want [a]", removed)
	}
	if store.Get("a") != nil {
		t.Fatalf("entity a should be gone after commit")
	}
	if store.Get("b") == nil {
		t.Fatalf("entity b should still be present")
	}
}

func TestDamageableHealthInvariant(t *testing.T) {
	d := NewDamageable(100)
	d.Health = 250
	d.ClampHealth()
	if d.Health != 100 {
		t.Fatalf("Health = %v, want clamped to MaxHealth", d.Health)
	}
	d.Health = -10
	d.ClampHealth()
	if d.Health != 0 {
		t.Fatalf("Health = %v, want clamped to 0", d.Health)
	}
}
