package ws

import (
	"sync"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/proto"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
)

// Conn is the subset of *websocket.Conn a Registry needs, narrowed so tests
// can substitute a fake.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// websocketTextMessage mirrors gorilla/websocket.TextMessage without
// importing the package here, keeping Conn satisfiable by plain fakes.
const websocketTextMessage = 1

// Registry tracks one match's live connections by client id and fans a
// tick's outbound messages out to them. One Registry serves exactly one
// match session; the supervisor owns one Registry per running match.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]Conn
	logger telemetry.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry(logger telemetry.Logger) *Registry {
	return &Registry{conns: make(map[string]Conn), logger: logger}
}

// Register associates a client id with its live connection, replacing any
// prior connection for that id (a reconnect supersedes the stale socket).
func (r *Registry) Register(clientID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[clientID] = conn
}

// Unregister drops a client's connection if it still matches conn (a late
// Unregister from an already-superseded connection must not evict the new
// one).
func (r *Registry) Unregister(clientID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[clientID]; ok && current == conn {
		delete(r.conns, clientID)
	}
}

// Has reports whether a client currently has a live connection.
func (r *Registry) Has(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[clientID]
	return ok
}

// Dispatch encodes and delivers one tick's outbound messages: a message
// with ClientID set is routed to that client only; an empty ClientID
// broadcasts to every live connection (§6: GameStart/GameEnd).
func (r *Registry) Dispatch(messages []sim.OutboundMessage) {
	for _, msg := range messages {
		data, err := proto.EncodeOutbound(msg)
		if err != nil {
			if r.logger != nil {
				r.logger.Printf("ws: failed to encode outbound message kind=%s: %v", msg.Kind, err)
			}
			continue
		}
		if msg.ClientID == "" {
			r.broadcast(data)
			continue
		}
		r.send(msg.ClientID, data)
	}
}

func (r *Registry) send(clientID string, data []byte) {
	r.mu.RLock()
	conn, ok := r.conns[clientID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.WriteMessage(websocketTextMessage, data); err != nil {
		if r.logger != nil {
			r.logger.Printf("ws: write failed for client=%s: %v", clientID, err)
		}
	}
}

func (r *Registry) broadcast(data []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for clientID, conn := range r.conns {
		if err := conn.WriteMessage(websocketTextMessage, data); err != nil && r.logger != nil {
			r.logger.Printf("ws: broadcast failed for client=%s: %v", clientID, err)
		}
	}
}
