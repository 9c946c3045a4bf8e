package priority

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

func testBands() Bands {
	return Bands{
		CriticalDistance:  800,
		HighDistance:      1200,
		MediumDistance:    1600,
		MaxTicksNoUpdate:  60,
		MovementThreshold: 50,
	}
}

// TestHoldAndForward reproduces §8 scenario 5: a minion at distance 1400
// (Medium) is sent on first appearance, sent again on tick 2 because it
// moved 60 units (over the 50 threshold) despite Medium's 5-tick cadence,
// then withheld until tick 7 once it stops moving.
func TestHoldAndForward(t *testing.T) {
	bands := testBands()
	level := LevelFor(entity.KindMinion, 1400, bands)
	if level != Medium {
		t.Fatalf("expected Medium priority at distance 1400, got %v", level)
	}

	state := SendState{}
	pos := mathx.V2(1400, 0)
	if !ShouldSend(level, 1, pos, state, bands) {
		t.Fatalf("first appearance must always send")
	}
	state = SendState{EverSent: true, LastSentTick: 1, LastSentPos: pos}

	movedPos := mathx.V2(1460, 0)
	if !ShouldSend(level, 2, movedPos, state, bands) {
		t.Fatalf("movement over threshold must send despite cadence")
	}
	state = SendState{EverSent: true, LastSentTick: 2, LastSentPos: movedPos}

	// No further movement after tick 2: held at Medium cadence (every 5
	// ticks from the last send) until the ceiling or next real movement.
	if ShouldSend(level, 3, movedPos, state, bands) {
		t.Fatalf("tick 3 should not send: within cadence, no further movement")
	}
	if ShouldSend(level, 6, movedPos, state, bands) {
		t.Fatalf("tick 6 should not send yet (cadence is every 5 ticks from tick 2)")
	}
	if !ShouldSend(level, 7, movedPos, state, bands) {
		t.Fatalf("tick 7 should send: 5-tick cadence elapsed")
	}
}

func TestCriticalDistanceOnlyForEligibleKinds(t *testing.T) {
	if LevelFor(entity.KindMinion, 100, testBands()) == Critical {
		t.Fatalf("minions are never Critical regardless of distance")
	}
	if LevelFor(entity.KindChampion, 100, testBands()) != Critical {
		t.Fatalf("champion within critical distance should be Critical")
	}
}

func TestLivenessCeilingForcesS(t *testing.T) {
	bands := testBands()
	state := SendState{EverSent: true, LastSentTick: 0, LastSentPos: mathx.V2(0, 0)}
	if !ShouldSend(Low, 60, mathx.V2(0, 0), state, bands) {
		t.Fatalf("expected liveness ceiling to force a send at tick 60")
	}
}

func TestDistanceBandSelection(t *testing.T) {
	Convey("Given a champion and a minion at identical distances", t, func() {
		bands := testBands()

		Convey("When the distance is within critical range", func() {
			So(LevelFor(entity.KindChampion, 500, bands), ShouldEqual, Critical)
			So(LevelFor(entity.KindMinion, 500, bands), ShouldNotEqual, Critical)
		})

		Convey("When the distance exceeds every configured band", func() {
			So(LevelFor(entity.KindChampion, 5000, bands), ShouldEqual, Low)
			So(LevelFor(entity.KindMinion, 5000, bands), ShouldEqual, Low)
		})
	})
}
