package ws

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/intake"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/proto"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/network"
)

// WireConn is the read/write surface Serve needs from a live socket. It is
// satisfied by *websocket.Conn; declared as an interface so the read loop
// can be exercised against a fake in tests.
type WireConn interface {
	Conn
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// SessionConfig contains the inputs required to run one client's websocket
// session loop against a single match's engine.
type SessionConfig struct {
	ClientID string
	Conn     WireConn
	Engine   sim.Engine
	Registry *Registry
	Logger   telemetry.Logger

	// RateLimiter caps inbound non-heartbeat messages for this connection.
	// Nil means unlimited, which production wiring never does (see
	// Handler.Handle) but unit tests find convenient.
	RateLimiter *rate.Limiter

	// Events receives per-connection ack progression telemetry. Nil drops it.
	Events logging.Publisher
}

// Serve registers the connection, reads client messages until the socket
// closes or errors, staging each one onto Engine via intake, and
// unregisters on exit. It does not write outbound traffic itself — that is
// Registry.Dispatch's job, driven by the match's tick loop.
func Serve(cfg SessionConfig) {
	if cfg.Conn == nil || cfg.Engine == nil || cfg.Registry == nil {
		if cfg.Conn != nil {
			cfg.Conn.Close()
		}
		return
	}

	cfg.Registry.Register(cfg.ClientID, cfg.Conn)
	defer cfg.Registry.Unregister(cfg.ClientID, cfg.Conn)
	defer cfg.Conn.Close()

	stageCtx := intake.CommandContext{
		Engine:    cfg.Engine,
		HasClient: cfg.Registry.Has,
		Now:       time.Now,
	}

	actor := logging.EntityRef{ID: cfg.ClientID, Kind: logging.EntityKind("client")}
	var lastSeq uint64

	for {
		_, payload, err := cfg.Conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Printf("ws: discarding malformed message from %s: %v", cfg.ClientID, err)
			}
			continue
		}

		if msg.Type == "Heartbeat" {
			writeHeartbeat(cfg, msg.ClientTime)
			continue
		}

		if cfg.RateLimiter != nil && !cfg.RateLimiter.Allow() {
			writeReject(cfg, msg.Seq, "RateLimited")
			continue
		}

		if msg.Seq > 0 {
			if msg.Seq > lastSeq {
				network.AckAdvanced(context.Background(), cfg.Events, 0, actor,
					network.AckPayload{Previous: lastSeq, Ack: msg.Seq}, nil)
				lastSeq = msg.Seq
			} else {
				network.AckRegression(context.Background(), cfg.Events, 0, actor,
					network.AckPayload{Previous: lastSeq, Ack: msg.Seq}, nil)
			}
		}

		cmd, ok, reason := intake.StageClientCommand(stageCtx, cfg.ClientID, msg)
		if msg.Seq == 0 {
			continue
		}
		if ok {
			writeAck(cfg, cmd)
			continue
		}
		writeReject(cfg, msg.Seq, reason)
	}
}

func writeAck(cfg SessionConfig, cmd sim.Command) {
	data, err := proto.EncodeCommandAck(proto.CommandAck{Seq: cmd.Sequence})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("ws: failed to encode ack for %s: %v", cfg.ClientID, err)
		}
		return
	}
	if err := cfg.Conn.WriteMessage(websocketTextMessage, data); err != nil && cfg.Logger != nil {
		cfg.Logger.Printf("ws: failed to write ack for %s: %v", cfg.ClientID, err)
	}
}

func writeHeartbeat(cfg SessionConfig, clientTime int64) {
	now := time.Now()
	data, err := proto.EncodeHeartbeat(proto.Heartbeat{
		ServerTime: now.UnixMilli(),
		ClientTime: clientTime,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("ws: failed to encode heartbeat for %s: %v", cfg.ClientID, err)
		}
		return
	}
	if err := cfg.Conn.WriteMessage(websocketTextMessage, data); err != nil && cfg.Logger != nil {
		cfg.Logger.Printf("ws: failed to write heartbeat for %s: %v", cfg.ClientID, err)
	}
}

func writeReject(cfg SessionConfig, seq uint64, reason string) {
	retry := reason == sim.CommandRejectQueueLimit
	data, err := proto.EncodeCommandReject(proto.CommandReject{Seq: seq, Reason: reason, Retry: retry})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("ws: failed to encode reject for %s: %v", cfg.ClientID, err)
		}
		return
	}
	if err := cfg.Conn.WriteMessage(websocketTextMessage, data); err != nil && cfg.Logger != nil {
		cfg.Logger.Printf("ws: failed to write reject for %s: %v", cfg.ClientID, err)
	}
}
