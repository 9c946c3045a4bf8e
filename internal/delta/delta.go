// Package delta implements the per-client change-mask serializer of §4.9:
// a last-sent snapshot per client, quantized-field comparison, creation
// records for never-seen entities, and removal deltas for entities that
// drop out of the visible set.
package delta

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

// Field identifies one of the change-mask fields named in §4.9.
type Field string

const (
	FieldPosition  Field = "position"
	FieldHealth    Field = "health"
	FieldResource  Field = "resource"
	FieldLevel     Field = "level"
	FieldEffects   Field = "effects"
	FieldAbilities Field = "abilities"
	FieldItems     Field = "items"
	FieldTarget    Field = "target"
	FieldState     Field = "state"
	FieldGold      Field = "gold"
	FieldShields   Field = "shields"
	FieldPassive   Field = "passive"
)

// Snapshot is the quantized field values of one entity as last sent to a
// particular client; compared against the current entity to build a
// change-mask next tick.
type Snapshot struct {
	PosX, PosY   float64
	Health       float64
	Resource     float64
	Level        int
	EffectsHash  uint64
	AbilitiesHash uint64
	ItemsHash    uint64
	TargetID     string
	StateFlags   uint32
	Gold         int
	ShieldsTotal float64
	PassiveStacks int
}

// QuantizeStep is the position/float quantization granularity used before
// comparison (§4.9: "configurable quantization before comparison to avoid
// jitter deltas").
const QuantizeStep = 0.5

// Record is one entity's outgoing delta or creation payload for a tick.
type Record struct {
	EntityID string
	Created  bool
	Removed  bool

	// Creation carries immutable identity fields, only set when Created.
	Kind entity.Kind
	Team entity.Team

	Changed map[Field]any
}

// ClientBaseline tracks, per client, the last snapshot sent for every
// entity id that has ever been sent to it, plus which ids were visible
// last tick (for removal-delta detection).
type ClientBaseline struct {
	Snapshots map[string]Snapshot
	VisibleLastTick map[string]bool
}

// NewClientBaseline returns an empty baseline for a newly connected client.
func NewClientBaseline() *ClientBaseline {
	return &ClientBaseline{
		Snapshots:       make(map[string]Snapshot),
		VisibleLastTick: make(map[string]bool),
	}
}

// EntityView is the read-only projection of one entity's current state
// that the delta step compares against the client's baseline. The tick
// orchestrator builds these once per tick and reuses across clients.
type EntityView struct {
	ID       string
	Kind     entity.Kind
	Team     entity.Team
	Pos      mathx.Vec2
	Health   float64
	Resource float64
	Level    int
	EffectsHash  uint64
	AbilitiesHash uint64
	ItemsHash    uint64
	TargetID string
	StateFlags   uint32
	Gold     int
	ShieldsTotal float64
	PassiveStacks int
}

func quantized(v float64) float64 {
	return mathx.Quantize(v, QuantizeStep)
}

func (v EntityView) toSnapshot() Snapshot {
	return Snapshot{
		PosX: quantized(v.Pos[0]), PosY: quantized(v.Pos[1]),
		Health: quantized(v.Health), Resource: quantized(v.Resource),
		Level: v.Level, EffectsHash: v.EffectsHash, AbilitiesHash: v.AbilitiesHash,
		ItemsHash: v.ItemsHash, TargetID: v.TargetID, StateFlags: v.StateFlags,
		Gold: v.Gold, ShieldsTotal: quantized(v.ShieldsTotal), PassiveStacks: v.PassiveStacks,
	}
}

// BuildDeltas computes this tick's outgoing records for one client given
// its baseline and the set of entity ids currently visible to it, mutating
// the baseline in place so the next call compares against what was just
// sent (§4.9).
func BuildDeltas(baseline *ClientBaseline, visible map[string]bool, views map[string]EntityView) []Record {
	var records []Record

	for id := range baseline.VisibleLastTick {
		if !visible[id] {
			records = append(records, Record{EntityID: id, Removed: true})
			delete(baseline.Snapshots, id)
		}
	}

	for id := range visible {
		view, ok := views[id]
		if !ok {
			continue
		}
		snap := view.toSnapshot()
		prev, sent := baseline.Snapshots[id]

		if !sent {
			records = append(records, Record{
				EntityID: id,
				Created:  true,
				Kind:     view.Kind,
				Team:     view.Team,
				Changed:  allFields(snap),
			})
			baseline.Snapshots[id] = snap
			continue
		}

		if changed := diff(prev, snap); len(changed) > 0 {
			records = append(records, Record{EntityID: id, Changed: changed})
			baseline.Snapshots[id] = snap
		}
	}

	baseline.VisibleLastTick = make(map[string]bool, len(visible))
	for id := range visible {
		baseline.VisibleLastTick[id] = true
	}

	return records
}

func allFields(s Snapshot) map[Field]any {
	return map[Field]any{
		FieldPosition:  [2]float64{s.PosX, s.PosY},
		FieldHealth:    s.Health,
		FieldResource:  s.Resource,
		FieldLevel:     s.Level,
		FieldEffects:   s.EffectsHash,
		FieldAbilities: s.AbilitiesHash,
		FieldItems:     s.ItemsHash,
		FieldTarget:    s.TargetID,
		FieldState:     s.StateFlags,
		FieldGold:      s.Gold,
		FieldShields:   s.ShieldsTotal,
		FieldPassive:   s.PassiveStacks,
	}
}

func diff(prev, curr Snapshot) map[Field]any {
	changed := make(map[Field]any)
	if prev.PosX != curr.PosX || prev.PosY != curr.PosY {
		changed[FieldPosition] = [2]float64{curr.PosX, curr.PosY}
	}
	if prev.Health != curr.Health {
		changed[FieldHealth] = curr.Health
	}
	if prev.Resource != curr.Resource {
		changed[FieldResource] = curr.Resource
	}
	if prev.Level != curr.Level {
		changed[FieldLevel] = curr.Level
	}
	if prev.EffectsHash != curr.EffectsHash {
		changed[FieldEffects] = curr.EffectsHash
	}
	if prev.AbilitiesHash != curr.AbilitiesHash {
		changed[FieldAbilities] = curr.AbilitiesHash
	}
	if prev.ItemsHash != curr.ItemsHash {
		changed[FieldItems] = curr.ItemsHash
	}
	if prev.TargetID != curr.TargetID {
		changed[FieldTarget] = curr.TargetID
	}
	if prev.StateFlags != curr.StateFlags {
		changed[FieldState] = curr.StateFlags
	}
	if prev.Gold != curr.Gold {
		changed[FieldGold] = curr.Gold
	}
	if prev.ShieldsTotal != curr.ShieldsTotal {
		changed[FieldShields] = curr.ShieldsTotal
	}
	if prev.PassiveStacks != curr.PassiveStacks {
		changed[FieldPassive] = curr.PassiveStacks
	}
	return changed
}
