package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/ability"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/animation"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/delta"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/effectsys"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/eventbus"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/motion"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/priority"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/simrand"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/spatial"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/lifecycle"
)

// clientState is the per-connected-client bookkeeping the orchestrator
// carries across ticks: the champion it controls, input sequence ordering
// (§6), and the vision/priority/delta pipeline state for §4.1 step 9.
type clientState struct {
	ClientID   string
	ChampionID string
	Team       entity.Team
	Connected  bool

	HasSequence  bool
	LastSequence uint64

	Baseline  *delta.ClientBaseline
	SendState map[string]priority.SendState
}

// respawnState tracks a dead champion's pending revival (§4.1 step 2/§6).
type respawnState struct {
	RespawnAt time.Duration
	SpawnPos  mathx.Vec2
}

// wardState tracks a placed ward's owner and expiry for §6's max-wards and
// ward-duration knobs.
type wardState struct {
	OwnerID  string
	ExpireAt time.Duration
}

// Session implements EngineCore: it owns every subsystem one match ticks
// through and drives the ten-step order of §4.1.
type Session struct {
	deps SessionDeps
	cfg  SessionConfig
	cat  *catalog.Catalog

	store     *entity.Store
	grid      *spatial.Grid
	rng       *simrand.Source
	scheduler *animation.Scheduler
	bus       *eventbus.Bus
	path      motion.PathProvider
	bushes    []catalog.Bush

	tick        uint64
	simTime     time.Duration
	nextCastSeq uint64
	idSeq       uint64

	clients     map[string]*clientState
	clientOrder []string

	champDefOf    map[string]string // entity id -> catalog champion def id
	spawnPos      map[string]mathx.Vec2
	lastDamageBy  map[string]string // entity id -> most recent damage source id
	respawns      map[string]*respawnState
	wards         map[string]*wardState
	wardsByOwner  map[string][]string
	recallReadyAt map[string]time.Duration

	outbox []OutboundMessage
}

// SessionDeps is the Deps shape Session consumes. It is an alias of Deps,
// so the Session constructor, Loop.Deps() and EngineCore.Deps() all speak
// the same type.
type SessionDeps = Deps

// NewSession constructs a session bound to cat, seeded deterministically
// from deps.RNG if provided (§9: "all randomness must flow through one
// seeded PRNG" — deps.RNG is consulted once, at construction, purely to
// derive that seed).
func NewSession(cfg SessionConfig, cat *catalog.Catalog, deps SessionDeps) *Session {
	seed := int64(1)
	if deps.RNG != nil {
		seed = deps.RNG.Int63()
	}

	s := &Session{
		deps:          deps,
		cfg:           cfg,
		cat:           cat,
		store:         entity.NewStore(),
		grid:          spatial.NewGrid(cfg.CellSize),
		rng:           simrand.New(seed),
		scheduler:     animation.New(),
		bus:           eventbus.New(),
		path:          motion.NoPathing{},
		bushes:        cat.Map.AllBushes(),
		clients:       make(map[string]*clientState),
		champDefOf:    make(map[string]string),
		spawnPos:      make(map[string]mathx.Vec2),
		lastDamageBy:  make(map[string]string),
		respawns:      make(map[string]*respawnState),
		wards:         make(map[string]*wardState),
		wardsByOwner:  make(map[string][]string),
		recallReadyAt: make(map[string]time.Duration),
	}

	ability.WireEffects(
		func(d *entity.Damageable, def catalog.EffectDef, sourceID string) {
			effectsys.Apply(d, def, sourceID)
		},
		func(e *entity.Entity) bool {
			if e.Damageable == nil {
				return true
			}
			return effectsys.CanCast(e.Damageable, s.effectDefOf)
		},
	)

	s.bus.Subscribe(eventbus.EntityKilled, func(payload any) {
		p, ok := payload.(eventbus.EntityKilledPayload)
		if !ok {
			return
		}
		s.onEntityKilled(p)
	})

	return s
}

func (s *Session) effectDefOf(id string) (catalog.EffectDef, bool) {
	return s.cat.Effect(id)
}

func (s *Session) newID(prefix string) string {
	s.idSeq++
	return fmt.Sprintf("%s-%d", prefix, s.idSeq)
}

// Deps satisfies EngineCore.
func (s *Session) Deps() Deps {
	return s.deps
}

// AddChampion registers a new client-controlled champion, spawning it from
// champDefID's catalog row at spawnPos (§6 join/resync path feeding
// FullState). Returns the new entity id.
func (s *Session) AddChampion(clientID, champDefID string, team entity.Team, spawnPos mathx.Vec2) (string, error) {
	def, ok := s.cat.Champion(champDefID)
	if !ok {
		return "", fmt.Errorf("sim: unknown champion definition %q", champDefID)
	}

	id := s.newID("champ")
	shape := shapeFromDef(def.Shape)
	stats := entity.DeriveStats(def.Base, 1, nil)

	champ := &entity.Champion{Level: 1, Resource: 100, ResourceMax: 100}
	for _, slotName := range []string{"Q", "W", "E", "R"} {
		slot := slotIndexForName(slotName)
		if abilityID, ok := def.AbilitySlots[slotName]; ok {
			champ.Abilities[slot] = entity.AbilityState{AbilityID: abilityID, Rank: 0}
		}
	}

	e := &entity.Entity{
		ID:       id,
		Kind:     entity.KindChampion,
		Team:     team,
		Pos:      spawnPos,
		Facing:   mathx.V2(0, 1),
		Shape:    shape,
		Mass:     1,
		Champion: champ,
		Damageable: &entity.Damageable{
			Health:       stats.MaxHealth,
			MaxHealth:    stats.MaxHealth,
			Armor:        stats.Armor,
			MagicResist:  stats.MagicResist,
			ImmunityTags: make(map[string]bool),
		},
	}
	s.store.Add(e)
	s.champDefOf[id] = champDefID
	s.spawnPos[id] = spawnPos

	cs := &clientState{
		ClientID:   clientID,
		ChampionID: id,
		Team:       team,
		Connected:  true,
		Baseline:   delta.NewClientBaseline(),
		SendState:  make(map[string]priority.SendState),
	}
	s.clients[clientID] = cs
	s.clientOrder = append(s.clientOrder, clientID)

	lifecycle.PlayerJoined(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: id, Kind: logging.EntityKind(entity.KindChampion)},
		lifecycle.PlayerJoinedPayload{SpawnX: spawnPos[0], SpawnY: spawnPos[1]}, nil)

	return id, nil
}

// AddEntity registers a non-champion world object (minion, tower, jungle
// camp, nexus) constructed by the caller; the session takes ownership of e.
func (s *Session) AddEntity(e *entity.Entity) {
	s.store.Add(e)
}

// DisconnectClient marks a client's connection as lost; per §6/§7 the
// champion is not removed until the reconnect grace period expires, which
// the transport layer owns and signals back via RemoveClient.
func (s *Session) DisconnectClient(clientID string) {
	if cs, ok := s.clients[clientID]; ok {
		cs.Connected = false
		lifecycle.PlayerDisconnected(context.Background(), s.deps.Events, s.tick,
			logging.EntityRef{ID: cs.ChampionID, Kind: logging.EntityKind(entity.KindChampion)},
			lifecycle.PlayerDisconnectedPayload{Reason: "connection_lost"}, nil)
	}
}

// ReconnectClient restores a disconnected client's connected flag within
// its grace window.
func (s *Session) ReconnectClient(clientID string) {
	if cs, ok := s.clients[clientID]; ok {
		cs.Connected = true
	}
}

// RemoveClient drops a client and marks its champion removed at end of tick.
func (s *Session) RemoveClient(clientID string) {
	cs, ok := s.clients[clientID]
	if !ok {
		return
	}
	s.store.MarkRemoved(cs.ChampionID)
	delete(s.clients, clientID)
	for i, id := range s.clientOrder {
		if id == clientID {
			s.clientOrder = append(s.clientOrder[:i], s.clientOrder[i+1:]...)
			break
		}
	}
}

func shapeFromDef(d catalog.ShapeDef) mathx.Shape {
	switch d.Kind {
	case "rectangle":
		return mathx.Rectangle(d.W, d.H)
	case "capsule":
		return mathx.Capsule(d.R, d.H)
	default:
		return mathx.Circle(d.R)
	}
}

func slotIndexForName(name string) entity.AbilitySlot {
	switch name {
	case "Q":
		return entity.SlotQ
	case "W":
		return entity.SlotW
	case "E":
		return entity.SlotE
	case "R":
		return entity.SlotR
	default:
		return entity.SlotQ
	}
}

// Snapshot satisfies EngineCore: the full entity list for FullState resync.
func (s *Session) Snapshot() Snapshot {
	entities := s.store.Snapshot()
	out := make([]EntityState, 0, len(entities))
	for _, e := range entities {
		state := EntityState{
			ID:        e.ID,
			Kind:      e.Kind,
			Team:      e.Team,
			X:         e.Pos[0],
			Y:         e.Pos[1],
			Dead:      e.Dead,
		}
		if e.Damageable != nil {
			state.Health = e.Damageable.Health
			state.MaxHealth = e.Damageable.MaxHealth
		}
		if e.Champion != nil {
			state.Level = e.Champion.Level
			state.Resource = e.Champion.Resource
			state.Gold = e.Champion.Gold
		}
		out = append(out, state)
	}
	return Snapshot{Tick: s.tick, Entities: out}
}

// Outbound satisfies EngineCore: drains and returns this tick's queued
// messages, ready for the transport layer to dispatch.
func (s *Session) Outbound() []OutboundMessage {
	out := s.outbox
	s.outbox = nil
	return out
}

var _ EngineCore = (*Session)(nil)
