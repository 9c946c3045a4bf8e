package ws

import (
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
)

// HandlerConfig tunes a Handler's upgrade behavior and logging.
type HandlerConfig struct {
	Logger telemetry.Logger

	// InboundRateLimit and InboundBurst cap how many client messages per
	// connection Serve will stage per second, dropping the rest with a
	// reject rather than letting one noisy connection starve the engine's
	// command queue. Zero means the defaults below.
	InboundRateLimit rate.Limit
	InboundBurst     int

	// Events receives per-connection ack progression telemetry. Nil drops it.
	Events logging.Publisher
}

const (
	defaultInboundRateLimit rate.Limit = 60
	defaultInboundBurst                = 120
)

// Handler upgrades incoming HTTP requests to websocket connections and
// hands each one to Serve against a single match's engine and registry. One
// Handler serves exactly one match; the supervisor mounts one per active
// match route.
type Handler struct {
	engine    sim.Engine
	registry  *Registry
	logger    telemetry.Logger
	upgrader  websocket.Upgrader
	rateLimit rate.Limit
	rateBurst int
	events    logging.Publisher
}

// NewHandler constructs a Handler bound to one match's engine and
// connection registry.
func NewHandler(engine sim.Engine, registry *Registry, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	rateLimit := cfg.InboundRateLimit
	if rateLimit <= 0 {
		rateLimit = defaultInboundRateLimit
	}
	rateBurst := cfg.InboundBurst
	if rateBurst <= 0 {
		rateBurst = defaultInboundBurst
	}
	return &Handler{
		engine:    engine,
		registry:  registry,
		logger:    logger,
		rateLimit: rateLimit,
		rateBurst: rateBurst,
		events:    cfg.Events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *nethttp.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and serves the websocket session inline,
// blocking until the connection closes.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		nethttp.Error(w, "missing client", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws: upgrade failed for %s: %v", clientID, err)
		return
	}

	Serve(SessionConfig{
		ClientID:    clientID,
		Conn:        conn,
		Engine:      h.engine,
		Registry:    h.registry,
		Logger:      h.logger,
		RateLimiter: rate.NewLimiter(h.rateLimit, h.rateBurst),
		Events:      h.events,
	})
}
