// Package app assembles the server composition root: logging, match
// supervision, and the HTTP/websocket surface, then runs it until ctx is
// cancelled.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/config"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	servernet "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/observability"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/supervisor"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	loggingSinks "github.com/luisgurmendez/the-fall-of-the-last-tower/logging/sinks"
)

// Config is the subset of startup configuration the caller (cmd/server)
// supplies directly, as opposed to what is resolved from file/env via
// internal/config.
type Config struct {
	Logger        telemetry.Logger
	ConfigPath    string
	Observability observability.Config
}

// matchManagerAdapter narrows *supervisor.Supervisor to the shape
// internal/net's router depends on, translating supervisor's summary type
// into the net package's wire-facing one.
type matchManagerAdapter struct {
	sup *supervisor.Supervisor
}

func (a matchManagerAdapter) CreateMatch() (servernet.MatchSummary, error) {
	summary, err := a.sup.CreateMatch()
	if err != nil {
		return servernet.MatchSummary{}, err
	}
	return toNetSummary(summary), nil
}

func (a matchManagerAdapter) List() []servernet.MatchSummary {
	summaries := a.sup.List()
	out := make([]servernet.MatchSummary, len(summaries))
	for i, s := range summaries {
		out[i] = toNetSummary(s)
	}
	return out
}

func (a matchManagerAdapter) Lookup(matchID string) (servernet.MatchHandle, bool) {
	return a.sup.Lookup(matchID)
}

func (a matchManagerAdapter) JoinMatch(matchID, clientID, champDefID, team string, spawnPos mathx.Vec2) (string, error) {
	return a.sup.JoinMatch(matchID, clientID, champDefID, team, spawnPos)
}

func toNetSummary(s supervisor.Summary) servernet.MatchSummary {
	return servernet.MatchSummary{ID: s.ID, CreatedAt: s.CreatedAt.UnixMilli(), Tick: s.Tick}
}

var _ servernet.MatchManager = matchManagerAdapter{}

// Run resolves configuration, stands up a Supervisor, and serves HTTP until
// ctx is cancelled.
func Run(ctx context.Context, appCfg Config) error {
	logger := appCfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}

	cat, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("app: load catalog: %w", err)
	}

	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsoleSink(os.Stdout, logging.ConsoleConfig{}),
	}
	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, nil, sinks)
	if err != nil {
		return fmt.Errorf("app: construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	sup := supervisor.New(ctx, cat, supervisor.Config{
		Session:       cfg.Session,
		TickCapacity:  cfg.TickCapacity,
		PerActorLimit: cfg.PerActorLimit,
		Logger:        logger,
		Events:        router,
	})
	defer func() {
		if serr := sup.Shutdown(); serr != nil {
			logger.Printf("supervisor shutdown error: %v", serr)
		}
	}()

	handler := servernet.NewHTTPHandler(matchManagerAdapter{sup: sup}, servernet.HTTPHandlerConfig{
		ClientDir:     cfg.ClientDir,
		Logger:        logger,
		Observability: appCfg.Observability,
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app: server failed: %w", err)
		}
		return nil
	}
}
