// Package eventbus implements the synchronous, within-tick publish/subscribe
// bus of §4.6: FIFO delivery order, subscriber registration at construction,
// and no cross-tick persistence. Game-logic code must never depend on
// goroutine scheduling order (§9 determinism rule), so this bus dispatches
// inline on the publishing goroutine rather than through channels.
package eventbus

// Kind enumerates the event kinds named in §4.6.
type Kind string

const (
	DamageDealt       Kind = "DamageDealt"
	EntityKilled      Kind = "EntityKilled"
	AbilityCast       Kind = "AbilityCast"
	ProjectileSpawned Kind = "ProjectileSpawned"
	StructureDestroyed Kind = "StructureDestroyed"
	LevelUp           Kind = "LevelUp"
	GoldEarned        Kind = "GoldEarned"
	XpEarned          Kind = "XpEarned"
	EffectApplied     Kind = "EffectApplied"
	ChatSent          Kind = "ChatSent"
	PingPlaced        Kind = "PingPlaced"
)

// Handler receives published events of one kind.
type Handler func(payload any)

// Bus is a per-session publish/subscribe dispatcher. Subscribers register
// once at construction (§4.6); Publish delivers synchronously, in FIFO
// order, to every handler registered for that kind, then returns.
type Bus struct {
	handlers map[Kind][]Handler
	order    []Published
}

// Published is one event recorded during the current tick, kept so the
// tick orchestrator can replay the list for vision-filtered delivery to
// clients without re-deriving it from subscriber side effects.
type Published struct {
	Kind    Kind
	Payload any
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers handler for kind. Must be called at construction,
// before the session's first tick (§4.6).
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish delivers payload to every handler registered for kind, in
// registration order, then appends the event to this tick's log.
func (b *Bus) Publish(kind Kind, payload any) {
	for _, h := range b.handlers[kind] {
		h(payload)
	}
	b.order = append(b.order, Published{Kind: kind, Payload: payload})
}

// Drain returns every event published since the last Drain, in FIFO order,
// and clears the log. The tick orchestrator calls this once per tick after
// step 7 of §4.1 to hand events to the vision-filtered delivery pipeline;
// events are never persisted across ticks (§4.6).
func (b *Bus) Drain() []Published {
	events := b.order
	b.order = nil
	return events
}
