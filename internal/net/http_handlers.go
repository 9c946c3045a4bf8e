// Package net wires the match-lookup layer to HTTP: creating matches,
// joining them, and upgrading websocket connections to a specific match's
// handler.
package net

import (
	"encoding/json"
	"io"
	"log"
	nethttp "net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/ws"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/observability"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
)

// MatchManager is the subset of *supervisor.Supervisor the HTTP layer
// depends on, narrowed to an interface so handlers can be tested without a
// running simulation.
type MatchManager interface {
	CreateMatch() (MatchSummary, error)
	Lookup(matchID string) (MatchHandle, bool)
	List() []MatchSummary
	JoinMatch(matchID, clientID, champDefID, team string, spawnPos mathx.Vec2) (string, error)
}

// MatchSummary mirrors supervisor.Summary: the externally visible shape of
// one running match.
type MatchSummary struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAtUnixMilli"`
	Tick      uint64 `json:"tick"`
}

// MatchHandle mirrors supervisor.Handle: the pieces the net layer needs to
// serve a websocket connection against one match.
type MatchHandle interface {
	ID() string
	Handler() *ws.Handler
}

// HTTPHandlerConfig tunes the router's static assets and logging.
type HTTPHandlerConfig struct {
	ClientDir     string
	Logger        telemetry.Logger
	Observability observability.Config
	CORSOrigins   []string
}

// joinRequest is the payload a client posts to join a running match.
type joinRequest struct {
	ClientID   string  `json:"clientId"`
	ChampionID string  `json:"championId"`
	Team       string  `json:"team"`
	SpawnX     float64 `json:"spawnX"`
	SpawnY     float64 `json:"spawnY"`
}

// NewHTTPHandler builds the chi router serving match creation/lookup,
// websocket upgrades, health, metrics, and optional static client assets.
func NewHTTPHandler(manager MatchManager, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	registerPprofHandlers(r, cfg.Observability.EnablePprofTrace)

	r.Get("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			summary, err := manager.CreateMatch()
			if err != nil {
				httpError(w, "failed to create match", nethttp.StatusInternalServerError)
				return
			}
			writeJSON(w, summary)
		})

		r.Get("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, manager.List())
		})

		r.Post("/{matchID}/join", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			matchID := chi.URLParam(r, "matchID")
			if _, ok := manager.Lookup(matchID); !ok {
				httpError(w, "unknown match", nethttp.StatusNotFound)
				return
			}

			var req joinRequest
			if r.Body != nil {
				defer r.Body.Close()
				decoder := json.NewDecoder(r.Body)
				if err := decoder.Decode(&req); err != nil && err != io.EOF {
					httpError(w, "invalid payload", nethttp.StatusBadRequest)
					return
				}
			}
			if req.ChampionID == "" {
				httpError(w, "championId is required", nethttp.StatusBadRequest)
				return
			}
			if req.ClientID == "" {
				req.ClientID = uuid.NewString()
			}

			entityID, err := manager.JoinMatch(matchID, req.ClientID, req.ChampionID, req.Team, mathx.V2(req.SpawnX, req.SpawnY))
			if err != nil {
				httpError(w, err.Error(), nethttp.StatusBadRequest)
				return
			}
			writeJSON(w, struct {
				EntityID string `json:"entityId"`
			}{EntityID: entityID})
		})
	})

	r.Get("/ws/{matchID}", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		matchID := chi.URLParam(r, "matchID")
		handle, ok := manager.Lookup(matchID)
		if !ok {
			httpError(w, "unknown match", nethttp.StatusNotFound)
			return
		}
		handle.Handler().Handle(w, r)
	})

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		r.Handle("/*", fs)
	}

	return r
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}

func registerPprofHandlers(r chi.Router, enableTrace bool) {
	r.HandleFunc("/debug/pprof/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/debug/pprof/" {
			nethttp.NotFound(w, r)
			return
		}
		pprof.Index(w, r)
	})

	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)

	profiles := []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}
	for _, name := range profiles {
		r.Handle("/debug/pprof/"+name, pprof.Handler(name))
	}

	if enableTrace {
		r.HandleFunc("/debug/pprof/trace", pprof.Trace)
		return
	}

	r.HandleFunc("/debug/pprof/trace", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		httpError(w, "pprof trace disabled", nethttp.StatusNotFound)
	})
}
