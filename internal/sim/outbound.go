package sim

import "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/delta"

// OutboundKind enumerates the server->client message shapes of §6.
type OutboundKind string

const (
	OutboundFullState   OutboundKind = "FullState"
	OutboundStateUpdate OutboundKind = "StateUpdate"
	OutboundGameStart   OutboundKind = "GameStart"
	OutboundGameEnd     OutboundKind = "GameEnd"
	OutboundError       OutboundKind = "Error"
	OutboundPong        OutboundKind = "Pong"
)

// VisibleEvent is one event-bus publication filtered through the
// recipient's vision set, ready to serialize to a client (§4.9).
type VisibleEvent struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// StateUpdatePayload is the per-tick message body of §4.9: server tick,
// this client's entity deltas, and the events it is allowed to see.
type StateUpdatePayload struct {
	Tick   uint64         `json:"tick"`
	Deltas []delta.Record `json:"deltas"`
	Events []VisibleEvent `json:"events"`
}

// ErrorPayload reports a typed, non-fatal failure surfaced to one client
// (§7: "user-visible failures are always surfaced through typed result/
// event channels, never by closing the connection mid-session").
type ErrorPayload struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// PongPayload answers a client's Ping keepalive with both timestamps.
type PongPayload struct {
	ClientTime int64 `json:"clientTime"`
	ServerTime int64 `json:"serverTime"`
}

// OutboundMessage is one message queued for delivery to a client (or, for
// GameStart/GameEnd, to every client). The transport layer is responsible
// for routing ClientID to a connection and serializing whichever payload
// field is populated for Kind.
type OutboundMessage struct {
	Kind     OutboundKind
	ClientID string // empty means broadcast to every connected client

	FullState   *Snapshot
	StateUpdate *StateUpdatePayload
	Error       *ErrorPayload
	Pong        *PongPayload
}
