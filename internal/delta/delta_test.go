package delta

import (
	"testing"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

func TestFirstSightSendsCreation(t *testing.T) {
	baseline := NewClientBaseline()
	views := map[string]EntityView{
		"a": {ID: "a", Kind: entity.KindChampion, Team: entity.TeamBlue, Pos: mathx.V2(10, 10), Health: 500},
	}
	records := BuildDeltas(baseline, map[string]bool{"a": true}, views)
	if len(records) != 1 || !records[0].Created {
		t.Fatalf("expected one creation record, got %+v", records)
	}
}

func TestNoChangeProducesNoRecord(t *testing.T) {
	baseline := NewClientBaseline()
	view := EntityView{ID: "a", Kind: entity.KindChampion, Pos: mathx.V2(10, 10), Health: 500}
	views := map[string]EntityView{"a": view}
	BuildDeltas(baseline, map[string]bool{"a": true}, views)

	records := BuildDeltas(baseline, map[string]bool{"a": true}, views)
	if len(records) != 0 {
		t.Fatalf("expected no records when nothing changed, got %+v", records)
	}
}

func TestHealthChangeProducesPartialDelta(t *testing.T) {
	baseline := NewClientBaseline()
	view := EntityView{ID: "a", Kind: entity.KindChampion, Pos: mathx.V2(10, 10), Health: 500}
	views := map[string]EntityView{"a": view}
	BuildDeltas(baseline, map[string]bool{"a": true}, views)

	view.Health = 400
	views["a"] = view
	records := BuildDeltas(baseline, map[string]bool{"a": true}, views)
	if len(records) != 1 || records[0].Created {
		t.Fatalf("expected one non-creation delta record, got %+v", records)
	}
	if _, ok := records[0].Changed[FieldHealth]; !ok {
		t.Fatalf("expected health field in changed set, got %+v", records[0].Changed)
	}
	if _, ok := records[0].Changed[FieldPosition]; ok {
		t.Fatalf("position did not change, should not appear in changed set")
	}
}

func TestJitterBelowQuantizationStepProducesNoDelta(t *testing.T) {
	baseline := NewClientBaseline()
	view := EntityView{ID: "a", Kind: entity.KindChampion, Pos: mathx.V2(10, 10), Health: 500}
	views := map[string]EntityView{"a": view}
	BuildDeltas(baseline, map[string]bool{"a": true}, views)

	view.Pos = mathx.V2(10.1, 10.1)
	views["a"] = view
	records := BuildDeltas(baseline, map[string]bool{"a": true}, views)
	if len(records) != 0 {
		t.Fatalf("sub-quantization jitter should not produce a delta, got %+v", records)
	}
}

func TestEntityDroppingOutOfVisibilityProducesRemoval(t *testing.T) {
	baseline := NewClientBaseline()
	view := EntityView{ID: "a", Kind: entity.KindChampion, Pos: mathx.V2(10, 10), Health: 500}
	views := map[string]EntityView{"a": view}
	BuildDeltas(baseline, map[string]bool{"a": true}, views)

	records := BuildDeltas(baseline, map[string]bool{}, views)
	if len(records) != 1 || !records[0].Removed {
		t.Fatalf("expected one removal record, got %+v", records)
	}
}
