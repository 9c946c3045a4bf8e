// Package config loads server configuration from file and environment via
// viper, producing the sim.SessionConfig §6 knobs every match
// session is constructed with plus the ambient server settings (listen
// address, client asset directory, catalog content path).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

// Config is the full resolved server configuration.
type Config struct {
	ListenAddr    string
	ClientDir     string
	CatalogPath   string
	TickCapacity  int
	PerActorLimit int
	Session       sim.SessionConfig
}

// Default returns the configuration a server boots with when no file or
// environment override is present.
func Default() Config {
	return Config{
		ListenAddr:    ":8080",
		ClientDir:     "",
		CatalogPath:   "",
		TickCapacity:  4096,
		PerActorLimit: 32,
		Session:       sim.DefaultSessionConfig(),
	}
}

// Load resolves configuration in viper's usual precedence order: environment
// variables override file values, which override the built-in defaults.
// No command-line flags are bound.
// path may be empty, in which case only environment variables and defaults
// apply (no config file is required to boot the server).
func Load(path string) (Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetEnvPrefix("TOWER")
	vp.AutomaticEnv()
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(vp, cfg)

	if path != "" {
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	resolved := Default()
	resolved.ListenAddr = vp.GetString("server.listenAddr")
	resolved.ClientDir = vp.GetString("server.clientDir")
	resolved.CatalogPath = vp.GetString("server.catalogPath")
	resolved.TickCapacity = vp.GetInt("server.tickCapacity")
	resolved.PerActorLimit = vp.GetInt("server.perActorLimit")

	if err := vp.UnmarshalKey("session", &resolved.Session); err != nil {
		return Config{}, fmt.Errorf("config: decode session: %w", err)
	}

	return resolved, nil
}

func applyDefaults(vp *viper.Viper, cfg Config) {
	vp.SetDefault("server.listenAddr", cfg.ListenAddr)
	vp.SetDefault("server.clientDir", cfg.ClientDir)
	vp.SetDefault("server.catalogPath", cfg.CatalogPath)
	vp.SetDefault("server.tickCapacity", cfg.TickCapacity)
	vp.SetDefault("server.perActorLimit", cfg.PerActorLimit)

	vp.SetDefault("session.tickRateHz", cfg.Session.TickRateHz)
	vp.SetDefault("session.interpDelayMs", cfg.Session.InterpDelayMs)
	vp.SetDefault("session.reconnectGraceSeconds", cfg.Session.ReconnectGraceSeconds)
	vp.SetDefault("session.surrenderEarliestSeconds", cfg.Session.SurrenderEarliestSeconds)
	vp.SetDefault("session.afkTimeoutSeconds", cfg.Session.AFKTimeoutSeconds)
	vp.SetDefault("session.recallDurationSeconds", cfg.Session.RecallDurationSeconds)
	vp.SetDefault("session.sightChampion", cfg.Session.SightChampion)
	vp.SetDefault("session.sightWard", cfg.Session.SightWard)
	vp.SetDefault("session.wardDuration", cfg.Session.WardDuration)
	vp.SetDefault("session.maxWardsPerPlayer", cfg.Session.MaxWardsPerPlayer)
	vp.SetDefault("session.bushRevealRange", cfg.Session.BushRevealRange)
	vp.SetDefault("session.priorityCriticalDistance", cfg.Session.PriorityCriticalDistance)
	vp.SetDefault("session.priorityHighDistance", cfg.Session.PriorityHighDistance)
	vp.SetDefault("session.priorityMediumDistance", cfg.Session.PriorityMediumDistance)
	vp.SetDefault("session.priorityMaxTicksNoUpdate", cfg.Session.PriorityMaxTicksNoUpdate)
	vp.SetDefault("session.priorityMovementThreshold", cfg.Session.PriorityMovementThreshold)
	vp.SetDefault("session.combatTimeoutSeconds", cfg.Session.CombatTimeoutSeconds)
	vp.SetDefault("session.outOfCombatRegenMultiplier", cfg.Session.OutOfCombatRegenMultiplier)
	vp.SetDefault("session.resistCap", cfg.Session.ResistCap)
	vp.SetDefault("session.critMultiplier", cfg.Session.CritMultiplier)
	vp.SetDefault("session.respawnBaseSeconds", cfg.Session.RespawnBaseSeconds)
	vp.SetDefault("session.respawnPerLevelSeconds", cfg.Session.RespawnPerLevelSeconds)
	vp.SetDefault("session.respawnCapSeconds", cfg.Session.RespawnCapSeconds)
	vp.SetDefault("session.experienceShareRange", cfg.Session.ExperienceShareRange)
	vp.SetDefault("session.killBaseXP", cfg.Session.KillBaseXP)
	vp.SetDefault("session.perLevelDiffBonusXP", cfg.Session.PerLevelDiffBonusXP)
	vp.SetDefault("session.cellSize", cfg.Session.CellSize)
	vp.SetDefault("session.largeBodyThreshold", cfg.Session.LargeBodyThreshold)
}
