package motion

import (
	"testing"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

func TestStepMoveToPointAdvancesTowardTarget(t *testing.T) {
	e := &entity.Entity{ID: "a", Pos: mathx.V2(0, 0)}
	champ := &entity.Champion{}
	SetMoveTo(champ, mathx.V2(100, 0))

	Step(e, champ, time.Second, 10, true, NoPathing{})
	if e.Pos[0] <= 0 || e.Pos[0] > 10.01 {
		t.Fatalf("expected ~10 units of movement, got %v", e.Pos)
	}
}

func TestStepBlockedByCC(t *testing.T) {
	e := &entity.Entity{ID: "a", Pos: mathx.V2(0, 0)}
	champ := &entity.Champion{}
	SetMoveTo(champ, mathx.V2(100, 0))

	Step(e, champ, time.Second, 10, false, NoPathing{})
	if e.Pos != mathx.V2(0, 0) {
		t.Fatalf("stunned entity should not move, got %v", e.Pos)
	}
}

func TestStepArrivesAndClearsIntent(t *testing.T) {
	e := &entity.Entity{ID: "a", Pos: mathx.V2(0, 0)}
	champ := &entity.Champion{}
	SetMoveTo(champ, mathx.V2(3, 0))

	Step(e, champ, time.Second, 100, true, NoPathing{})
	if e.Pos != mathx.V2(3, 0) {
		t.Fatalf("expected exact arrival at (3,0), got %v", e.Pos)
	}
	if champ.Intent.Commanded.Kind != entity.IntentNone {
		t.Fatalf("expected intent cleared on arrival, got %v", champ.Intent.Commanded.Kind)
	}
}

func TestForcedMovementOverridesCommanded(t *testing.T) {
	e := &entity.Entity{ID: "a", Pos: mathx.V2(0, 0)}
	champ := &entity.Champion{}
	SetMoveTo(champ, mathx.V2(-100, 0))
	BeginDash(champ, entity.ForcedDash, mathx.V2(1, 0), 50, 500*time.Millisecond)

	Step(e, champ, 500*time.Millisecond, 10, true, NoPathing{})
	if e.Pos[0] <= 0 {
		t.Fatalf("expected dash to move entity in +x despite opposite commanded intent, got %v", e.Pos)
	}
	if champ.Intent.Forced.Active {
		t.Fatalf("expected dash to complete and deactivate")
	}
}

func TestInAttackRange(t *testing.T) {
	if !InAttackRange(mathx.V2(0, 0), mathx.V2(5, 0), 10) {
		t.Fatalf("expected in range")
	}
	if InAttackRange(mathx.V2(0, 0), mathx.V2(50, 0), 10) {
		t.Fatalf("expected out of range")
	}
}
