package sim

import "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"

// EntityState is the full, immutable-plus-mutable view of one entity sent
// in a FullState resync (§6). Per-tick StateUpdate messages instead carry
// delta.Record change-masks; FullState always carries every field.
type EntityState struct {
	ID        string      `json:"id"`
	Kind      entity.Kind `json:"kind"`
	Team      entity.Team `json:"team"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Health    float64     `json:"health"`
	MaxHealth float64     `json:"maxHealth"`
	Level     int         `json:"level,omitempty"`
	Resource  float64     `json:"resource,omitempty"`
	Gold      int         `json:"gold,omitempty"`
	Dead      bool        `json:"dead,omitempty"`
}

// Snapshot is the full entity list plus server tick, used for FullState
// (join/resync) and for conformance-test assertions.
type Snapshot struct {
	Tick     uint64        `json:"tick"`
	Entities []EntityState `json:"entities"`
}
