package eventbus

import "testing"

func TestPublishDeliversInFIFOOrder(t *testing.T) {
	bus := New()
	var order []int
	bus.Subscribe(DamageDealt, func(payload any) { order = append(order, payload.(int)) })

	bus.Publish(DamageDealt, 1)
	bus.Publish(DamageDealt, 2)
	bus.Publish(DamageDealt, 3)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected FIFO delivery [1 2 3], got %v", order)
	}
}

func TestDrainClearsLogAndReturnsInOrder(t *testing.T) {
	bus := New()
	bus.Publish(LevelUp, LevelUpPayload{ChampionID: "a", NewLevel: 2})
	bus.Publish(GoldEarned, GoldEarnedPayload{ChampionID: "a", Amount: 50})

	events := bus.Drain()
	if len(events) != 2 {
		t.Fatalf("expected 2 drained events, got %d", len(events))
	}
	if events[0].Kind != LevelUp || events[1].Kind != GoldEarned {
		t.Fatalf("unexpected kinds: %+v", events)
	}

	if more := bus.Drain(); len(more) != 0 {
		t.Fatalf("expected empty bus after drain, got %v", more)
	}
}

func TestMultipleSubscribersAllReceive(t *testing.T) {
	bus := New()
	calls := 0
	bus.Subscribe(EntityKilled, func(any) { calls++ })
	bus.Subscribe(EntityKilled, func(any) { calls++ })

	bus.Publish(EntityKilled, EntityKilledPayload{EntityID: "x"})
	if calls != 2 {
		t.Fatalf("expected both subscribers called, got %d calls", calls)
	}
}
