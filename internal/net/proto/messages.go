// Package proto defines the websocket wire format: decoding client input
// messages into sim.Command values and encoding sim.OutboundMessage values
// back into JSON frames.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1

	typeCommandAck    = "commandAck"
	typeCommandReject = "commandReject"
	typeHeartbeat     = "heartbeat"
)

// ClientMessage is the flattened shape of one inbound websocket frame. Only
// the fields relevant to Type are populated by the client; the rest are
// left zero.
type ClientMessage struct {
	Ver        int    `json:"ver,omitempty"`
	Type       string `json:"type"`
	Seq        uint64 `json:"seq,omitempty"`
	ClientTime int64  `json:"clientTime,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	EntityID string `json:"entityId,omitempty"`

	Slot       int     `json:"slot,omitempty"`
	TargetUnit string  `json:"targetUnit,omitempty"`
	HasPoint   bool    `json:"hasPoint,omitempty"`
	PointX     float64 `json:"pointX,omitempty"`
	PointY     float64 `json:"pointY,omitempty"`

	ItemID string `json:"itemId,omitempty"`

	Kind string `json:"kind,omitempty"`
	Text string `json:"text,omitempty"`
}

// DecodeClientMessage converts a raw websocket payload into a ClientMessage.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	return msg, json.Unmarshal(payload, &msg)
}

// ClientCommand translates a decoded ClientMessage into a sim.Command,
// copying Sequence from msg.Seq. The caller is responsible for stamping
// ActorID and IssuedAt before handing the result to an Engine.
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	cmd := sim.Command{
		Sequence:   msg.Seq,
		Type:       sim.CommandType(msg.Type),
		ClientTime: msg.ClientTime,
	}

	switch cmd.Type {
	case sim.CommandMove:
		cmd.Move = &sim.MoveCommand{X: msg.X, Y: msg.Y}
	case sim.CommandAttackMove:
		cmd.AttackMove = &sim.AttackMoveCommand{X: msg.X, Y: msg.Y}
	case sim.CommandTargetUnit:
		if msg.EntityID == "" {
			return sim.Command{}, false
		}
		cmd.TargetUnit = &sim.TargetUnitCommand{EntityID: msg.EntityID}
	case sim.CommandStop:
		// no payload
	case sim.CommandAbility:
		cmd.Ability = &sim.AbilityCommand{
			Slot:       msg.Slot,
			TargetUnit: msg.TargetUnit,
			HasPoint:   msg.HasPoint,
			PointX:     msg.PointX,
			PointY:     msg.PointY,
		}
	case sim.CommandLevelUp:
		cmd.LevelUp = &sim.LevelUpCommand{Slot: msg.Slot}
	case sim.CommandBuyItem:
		if msg.ItemID == "" {
			return sim.Command{}, false
		}
		cmd.BuyItem = &sim.BuyItemCommand{ItemID: msg.ItemID}
	case sim.CommandSellItem:
		cmd.SellItem = &sim.SellItemCommand{Slot: msg.Slot}
	case sim.CommandRecall:
		// no payload
	case sim.CommandPing:
		cmd.Ping = &sim.PingCommand{X: msg.X, Y: msg.Y, Kind: sim.PingKind(msg.Kind)}
	case sim.CommandChat:
		if msg.Text == "" {
			return sim.Command{}, false
		}
		cmd.Chat = &sim.ChatCommand{Text: msg.Text}
	case sim.CommandPlaceWard:
		cmd.PlaceWard = &sim.PlaceWardCommand{X: msg.X, Y: msg.Y}
	default:
		return sim.Command{}, false
	}

	return cmd, true
}

// CommandAck describes an acknowledgement of a processed command.
type CommandAck struct {
	Seq  uint64
	Tick uint64
}

// EncodeCommandAck renders a command acknowledgement response.
func EncodeCommandAck(msg CommandAck) ([]byte, error) {
	frame := struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		Seq  uint64 `json:"seq"`
		Tick uint64 `json:"tick,omitempty"`
	}{Ver: Version, Type: typeCommandAck, Seq: msg.Seq, Tick: msg.Tick}
	return json.Marshal(frame)
}

// CommandReject notifies the client that a command was refused.
type CommandReject struct {
	Seq    uint64
	Reason string
	Retry  bool
}

// EncodeCommandReject renders a command rejection response.
func EncodeCommandReject(msg CommandReject) ([]byte, error) {
	frame := struct {
		Ver    int    `json:"ver"`
		Type   string `json:"type"`
		Seq    uint64 `json:"seq"`
		Reason string `json:"reason"`
		Retry  bool   `json:"retry,omitempty"`
	}{Ver: Version, Type: typeCommandReject, Seq: msg.Seq, Reason: msg.Reason, Retry: msg.Retry}
	return json.Marshal(frame)
}

// Heartbeat echoes timing metadata back to the client.
type Heartbeat struct {
	ServerTime int64
	ClientTime int64
	RTTMillis  int64
}

// EncodeHeartbeat renders a heartbeat acknowledgement payload.
func EncodeHeartbeat(msg Heartbeat) ([]byte, error) {
	frame := struct {
		Ver        int    `json:"ver"`
		Type       string `json:"type"`
		ServerTime int64  `json:"serverTime"`
		ClientTime int64  `json:"clientTime"`
		RTTMillis  int64  `json:"rtt"`
	}{Ver: Version, Type: typeHeartbeat, ServerTime: msg.ServerTime, ClientTime: msg.ClientTime, RTTMillis: msg.RTTMillis}
	return json.Marshal(frame)
}

// EncodeOutbound renders one sim.OutboundMessage as the JSON frame its Kind
// implies. Exactly one of the payload fields is expected to be populated,
// per OutboundMessage's own contract.
func EncodeOutbound(msg sim.OutboundMessage) ([]byte, error) {
	switch msg.Kind {
	case sim.OutboundFullState:
		return encodeFrame(string(msg.Kind), msg.FullState)
	case sim.OutboundStateUpdate:
		return encodeFrame(string(msg.Kind), msg.StateUpdate)
	case sim.OutboundError:
		return encodeFrame(string(msg.Kind), msg.Error)
	case sim.OutboundPong:
		return encodeFrame(string(msg.Kind), msg.Pong)
	case sim.OutboundGameStart, sim.OutboundGameEnd:
		return encodeFrame(string(msg.Kind), nil)
	default:
		return nil, fmt.Errorf("proto: unknown outbound kind %q", msg.Kind)
	}
}

func encodeFrame(kind string, payload any) ([]byte, error) {
	frame := struct {
		Ver     int    `json:"ver"`
		Type    string `json:"type"`
		Payload any    `json:"payload,omitempty"`
	}{Ver: Version, Type: kind, Payload: payload}
	return json.Marshal(frame)
}
