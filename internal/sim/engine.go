package sim

// EngineCore is the minimal surface the tick Loop drives each session
// through (§4.1/§5): stage commands, advance one fixed tick, and read back
// the resulting state. A session is single-writer and strictly sequential
// within a tick, so EngineCore has no locking obligations of its own.
type EngineCore interface {
	Deps() Deps
	Apply(cmds []Command) error
	Step(dt float64)
	Snapshot() Snapshot
	Outbound() []OutboundMessage
}

// Engine is the surface exposed to non-simulation callers (the websocket
// session handler): everything EngineCore provides, wrapped with the
// command queue and fixed-timestep runner.
type Engine interface {
	EngineCore
	Enqueue(Command) (bool, string)
	Run(stop <-chan struct{})
}
