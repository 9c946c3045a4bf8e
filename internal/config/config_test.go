package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.Session.TickRateHz != 125 {
		t.Fatalf("expected default tick rate 125, got %d", cfg.Session.TickRateHz)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	contents := []byte(`
server:
  listenAddr: ":9090"
  tickCapacity: 1024
session:
  tickRateHz: 60
  maxWardsPerPlayer: 5
`)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected overridden listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.TickCapacity != 1024 {
		t.Fatalf("expected overridden tick capacity, got %d", cfg.TickCapacity)
	}
	if cfg.Session.TickRateHz != 60 {
		t.Fatalf("expected overridden tick rate, got %d", cfg.Session.TickRateHz)
	}
	if cfg.Session.MaxWardsPerPlayer != 5 {
		t.Fatalf("expected overridden ward limit, got %d", cfg.Session.MaxWardsPerPlayer)
	}
	if cfg.Session.SightChampion != 800 {
		t.Fatalf("expected un-overridden field to keep default, got %v", cfg.Session.SightChampion)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error loading missing config file")
	}
}
