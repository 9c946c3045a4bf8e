package supervisor

import (
	"context"
	"testing"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/config"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

func newTestSupervisor(t *testing.T) *Supervisor {
	t.Helper()
	cat, err := config.LoadCatalog("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cfg := Config{Session: sim.DefaultSessionConfig()}
	return New(context.Background(), cat, cfg)
}

func TestCreateMatchIsLookupable(t *testing.T) {
	sup := newTestSupervisor(t)

	summary, err := sup.CreateMatch()
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if summary.ID == "" {
		t.Fatalf("expected non-empty match id")
	}

	handle, ok := sup.Lookup(summary.ID)
	if !ok {
		t.Fatalf("expected match %s to be lookupable", summary.ID)
	}
	if handle.ID() != summary.ID {
		t.Fatalf("expected handle id %s, got %s", summary.ID, handle.ID())
	}
	if handle.Handler() == nil {
		t.Fatalf("expected a non-nil websocket handler")
	}

	if err := sup.EndMatch(summary.ID); err != nil {
		t.Fatalf("EndMatch: %v", err)
	}
	if _, ok := sup.Lookup(summary.ID); ok {
		t.Fatalf("expected match to be gone after EndMatch")
	}
}

func TestLookupMissingMatch(t *testing.T) {
	sup := newTestSupervisor(t)
	if _, ok := sup.Lookup("does-not-exist"); ok {
		t.Fatalf("expected lookup of unknown match to fail")
	}
}

func TestJoinMatchSpawnsChampion(t *testing.T) {
	sup := newTestSupervisor(t)

	summary, err := sup.CreateMatch()
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	entityID, err := sup.JoinMatch(summary.ID, "client-1", "vanguard", "Blue", mathx.V2(0, 0))
	if err != nil {
		t.Fatalf("JoinMatch: %v", err)
	}
	if entityID == "" {
		t.Fatalf("expected a non-empty spawned entity id")
	}

	if _, err := sup.JoinMatch("missing-match", "client-2", "vanguard", "Blue", mathx.V2(0, 0)); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown match, got %v", err)
	}
}

func TestJoinMatchRejectsInvalidTeam(t *testing.T) {
	sup := newTestSupervisor(t)

	summary, err := sup.CreateMatch()
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if _, err := sup.JoinMatch(summary.ID, "client-1", "vanguard", "Purple", mathx.V2(0, 0)); err != ErrInvalidTeam {
		t.Fatalf("expected ErrInvalidTeam, got %v", err)
	}
}

func TestEndMatchRejectsUnknownID(t *testing.T) {
	sup := newTestSupervisor(t)
	if err := sup.EndMatch("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShutdownStopsAllMatches(t *testing.T) {
	sup := newTestSupervisor(t)

	if _, err := sup.CreateMatch(); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if _, err := sup.CreateMatch(); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if err := sup.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(sup.List()) != 0 {
		t.Fatalf("expected no matches after shutdown")
	}
}
