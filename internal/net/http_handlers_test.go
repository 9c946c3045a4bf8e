package net

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/ws"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
)

// fakeEngine is the minimal sim.Engine needed to construct a real
// *ws.Handler for a fake match; its own behavior is exercised by
// internal/net/ws's own tests, not here.
type fakeEngine struct{}

func (fakeEngine) Deps() sim.Deps                     { return sim.Deps{} }
func (fakeEngine) Apply([]sim.Command) error          { return nil }
func (fakeEngine) Step(float64)                       {}
func (fakeEngine) Snapshot() sim.Snapshot             { return sim.Snapshot{} }
func (fakeEngine) Outbound() []sim.OutboundMessage    { return nil }
func (fakeEngine) Run(<-chan struct{})                {}
func (fakeEngine) Enqueue(sim.Command) (bool, string) { return true, "" }

var _ sim.Engine = fakeEngine{}

type fakeMatchHandle struct {
	id      string
	handler *ws.Handler
}

func (h fakeMatchHandle) ID() string           { return h.id }
func (h fakeMatchHandle) Handler() *ws.Handler { return h.handler }

func newFakeHandle(id string) fakeMatchHandle {
	registry := ws.NewRegistry(telemetry.WrapLogger(nil))
	return fakeMatchHandle{id: id, handler: ws.NewHandler(fakeEngine{}, registry, ws.HandlerConfig{})}
}

// fakeMatchManager implements MatchManager with in-memory state the test
// can assert against.
type fakeMatchManager struct {
	matches    map[string]fakeMatchHandle
	createErr  error
	joinErr    error
	lastJoin   joinRequest
	lastJoinID string
}

func (m *fakeMatchManager) CreateMatch() (MatchSummary, error) {
	if m.createErr != nil {
		return MatchSummary{}, m.createErr
	}
	id := "match-1"
	m.matches[id] = newFakeHandle(id)
	return MatchSummary{ID: id, CreatedAt: 1000, Tick: 0}, nil
}

func (m *fakeMatchManager) List() []MatchSummary {
	out := make([]MatchSummary, 0, len(m.matches))
	for id := range m.matches {
		out = append(out, MatchSummary{ID: id})
	}
	return out
}

func (m *fakeMatchManager) Lookup(matchID string) (MatchHandle, bool) {
	h, ok := m.matches[matchID]
	if !ok {
		return nil, false
	}
	return h, true
}

func (m *fakeMatchManager) JoinMatch(matchID, clientID, champDefID, team string, spawnPos mathx.Vec2) (string, error) {
	m.lastJoinID = matchID
	m.lastJoin = joinRequest{ClientID: clientID, ChampionID: champDefID, Team: team, SpawnX: spawnPos[0], SpawnY: spawnPos[1]}
	if m.joinErr != nil {
		return "", m.joinErr
	}
	return "entity-1", nil
}

func newFakeManager() *fakeMatchManager {
	return &fakeMatchManager{matches: make(map[string]fakeMatchHandle)}
}

func TestHTTPHealthReturnsOK(t *testing.T) {
	handler := NewHTTPHandler(newFakeManager(), HTTPHandlerConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", rec.Body.String())
	}
}

func TestHTTPCreateMatchReturnsSummary(t *testing.T) {
	manager := newFakeManager()
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summary MatchSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary.ID != "match-1" {
		t.Fatalf("expected match-1, got %q", summary.ID)
	}
}

func TestHTTPListMatchesReturnsAllSummaries(t *testing.T) {
	manager := newFakeManager()
	manager.matches["a"] = newFakeHandle("a")
	manager.matches["b"] = newFakeHandle("b")
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	handler.ServeHTTP(rec, req)

	var summaries []MatchSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(summaries))
	}
}

func TestHTTPJoinMatchSucceeds(t *testing.T) {
	manager := newFakeManager()
	manager.matches["match-1"] = newFakeHandle("match-1")
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	body, _ := json.Marshal(joinRequest{ClientID: "client-1", ChampionID: "vanguard", Team: "Blue", SpawnX: 1, SpawnY: 2})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches/match-1/join", bytes.NewReader(body))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if manager.lastJoinID != "match-1" || manager.lastJoin.ClientID != "client-1" {
		t.Fatalf("expected join routed to match-1/client-1, got %+v / %q", manager.lastJoin, manager.lastJoinID)
	}

	var resp struct {
		EntityID string `json:"entityId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.EntityID != "entity-1" {
		t.Fatalf("expected entity-1, got %q", resp.EntityID)
	}
}

func TestHTTPJoinMatchUnknownMatchReturns404(t *testing.T) {
	manager := newFakeManager()
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	body, _ := json.Marshal(joinRequest{ClientID: "client-1", ChampionID: "vanguard"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches/missing/join", bytes.NewReader(body))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHTTPJoinMatchMissingFieldsReturns400(t *testing.T) {
	manager := newFakeManager()
	manager.matches["match-1"] = newFakeHandle("match-1")
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	body, _ := json.Marshal(joinRequest{Team: "Blue"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches/match-1/join", bytes.NewReader(body))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHTTPJoinMatchPropagatesManagerError(t *testing.T) {
	manager := newFakeManager()
	manager.matches["match-1"] = newFakeHandle("match-1")
	manager.joinErr = joinRejectedError{}
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	body, _ := json.Marshal(joinRequest{ClientID: "client-1", ChampionID: "vanguard"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches/match-1/join", bytes.NewReader(body))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHTTPWebsocketUpgradeUnknownMatchReturns404(t *testing.T) {
	manager := newFakeManager()
	handler := NewHTTPHandler(manager, HTTPHandlerConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/missing?client=client-1", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type joinRejectedError struct{}

func (joinRejectedError) Error() string { return "champion definition not found" }
