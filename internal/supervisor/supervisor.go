// Package supervisor owns the set of concurrently running match sessions:
// one Session/Loop/Registry/Handler tuple per match, created on demand and
// torn down when a match ends. It is the multi-match analogue of running a
// single global hub.
package supervisor

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	netws "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/ws"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
)

// discardLogger is the stdlib logger sim.Deps carries when the supervisor
// isn't given one explicitly; match-level logging instead flows through the
// telemetry.Logger passed to the websocket registry/handler.
var discardLogger = log.New(io.Discard, "", 0)

// ErrNotFound is returned by Lookup-style calls for an unknown match id.
var ErrNotFound = errors.New("supervisor: match not found")

// Config carries the knobs every match's Loop is constructed with.
type Config struct {
	Session       sim.SessionConfig
	TickCapacity  int
	PerActorLimit int
	Logger        telemetry.Logger
	IDGenerator   func() string

	// Events receives structured domain telemetry for every match this
	// supervisor creates (combat, rewards, status effects, lifecycle,
	// tick budget, network acks). Nil drops every event.
	Events logging.Publisher
}

// match bundles one running session's orchestration pieces.
type match struct {
	id       string
	session  *sim.Session
	loop     *sim.Loop
	registry *netws.Registry
	handler  *netws.Handler
	stop     chan struct{}
	created  time.Time
}

// Summary is the externally visible description of one running match.
type Summary struct {
	ID        string
	CreatedAt time.Time
	Tick      uint64
}

// Handle is the subset of a match's wiring the net layer needs to serve
// websocket connections against it.
type Handle interface {
	ID() string
	Handler() *netws.Handler
}

func (m *match) ID() string              { return m.id }
func (m *match) Handler() *netws.Handler { return m.handler }

var _ Handle = (*match)(nil)

// Supervisor creates, looks up, and tears down match sessions.
type Supervisor struct {
	cfg Config
	cat *catalog.Catalog

	mu      sync.RWMutex
	matches map[string]*match

	group   *errgroup.Group
	groupCtx context.Context
}

// New constructs a Supervisor bound to one catalog. Every match's tick loop
// runs in one errgroup derived from ctx; cancelling ctx does not stop a
// running loop, EndMatch and Shutdown do.
func New(ctx context.Context, cat *catalog.Catalog, cfg Config) *Supervisor {
	if cfg.TickCapacity <= 0 {
		cfg.TickCapacity = 4096
	}
	if cfg.PerActorLimit <= 0 {
		cfg.PerActorLimit = 32
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = randomMatchID
	}
	group, groupCtx := errgroup.WithContext(ctx)
	return &Supervisor{
		cfg:      cfg,
		cat:      cat,
		matches:  make(map[string]*match),
		group:    group,
		groupCtx: groupCtx,
	}
}

// CreateMatch starts a new match session and its tick loop, returning a
// summary of the newly running match.
func (s *Supervisor) CreateMatch() (Summary, error) {
	id := s.cfg.IDGenerator()

	seed := time.Now().UnixNano()
	deps := sim.Deps{
		Logger:  discardLogger,
		Metrics: &logging.Metrics{},
		Clock:   logging.SystemClock{},
		RNG:     rand.New(rand.NewSource(seed)),
		Events:  s.cfg.Events,
	}

	session := sim.NewSession(s.cfg.Session, s.cat, deps)
	registry := netws.NewRegistry(s.cfg.Logger)

	loopCfg := sim.LoopConfig{
		TickRate:        s.cfg.Session.TickRateHz,
		CatchupMaxTicks: 1,
		CommandCapacity: s.cfg.TickCapacity,
		PerActorLimit:   s.cfg.PerActorLimit,
		WarningStep:     256,
	}
	loop := sim.NewLoop(session, loopCfg, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			registry.Dispatch(result.Outbound)
		},
	})

	handler := netws.NewHandler(loop, registry, netws.HandlerConfig{Logger: s.cfg.Logger, Events: s.cfg.Events})

	m := &match{
		id:       id,
		session:  session,
		loop:     loop,
		registry: registry,
		handler:  handler,
		stop:     make(chan struct{}),
		created:  time.Now(),
	}

	s.mu.Lock()
	s.matches[id] = m
	s.mu.Unlock()

	s.group.Go(func() error {
		loop.Run(m.stop)
		return nil
	})

	return Summary{ID: id, CreatedAt: m.created, Tick: session.Snapshot().Tick}, nil
}

// Lookup returns the match's serving handle, if it exists.
func (s *Supervisor) Lookup(id string) (Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, false
	}
	return m, true
}

// List reports every currently running match.
func (s *Supervisor) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]Summary, 0, len(s.matches))
	for _, m := range s.matches {
		summaries = append(summaries, Summary{ID: m.id, CreatedAt: m.created, Tick: m.session.Snapshot().Tick})
	}
	return summaries
}

// ErrInvalidTeam is returned when JoinMatch is asked to place a champion on
// a team that isn't one of entity.TeamBlue/TeamRed/TeamNeutral.
var ErrInvalidTeam = errors.New("supervisor: invalid team")

// JoinMatch adds a client to a running match as a champion, returning the
// spawned entity id.
func (s *Supervisor) JoinMatch(matchID, clientID, champDefID string, team string, spawnPos mathx.Vec2) (string, error) {
	parsedTeam, ok := parseTeam(team)
	if !ok {
		return "", ErrInvalidTeam
	}

	s.mu.RLock()
	m, ok := s.matches[matchID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return m.session.AddChampion(clientID, champDefID, parsedTeam, spawnPos)
}

func parseTeam(team string) (entity.Team, bool) {
	switch t := entity.Team(team); t {
	case entity.TeamBlue, entity.TeamRed, entity.TeamNeutral:
		return t, true
	default:
		return "", false
	}
}

// EndMatch stops a match's tick loop and drops it from the registry.
func (s *Supervisor) EndMatch(id string) error {
	s.mu.Lock()
	m, ok := s.matches[id]
	if ok {
		delete(s.matches, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	close(m.stop)
	return nil
}

// Shutdown stops every running match and waits for their loops to exit.
func (s *Supervisor) Shutdown() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.matches))
	for id, m := range s.matches {
		close(m.stop)
		ids = append(ids, id)
	}
	for _, id := range ids {
		delete(s.matches, id)
	}
	s.mu.Unlock()
	return s.group.Wait()
}

func randomMatchID() string {
	return "match-" + uuid.NewString()
}
