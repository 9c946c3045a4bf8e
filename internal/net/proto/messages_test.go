package proto

import (
	"encoding/json"
	"testing"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

func TestDecodeClientMessage(t *testing.T) {
	payload := []byte(`{"type":"Move","seq":3,"x":10,"y":20}`)
	msg, err := DecodeClientMessage(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "Move" || msg.Seq != 3 || msg.X != 10 || msg.Y != 20 {
		t.Fatalf("unexpected decode result: %+v", msg)
	}
}

func TestClientCommandMove(t *testing.T) {
	cmd, ok := ClientCommand(ClientMessage{Type: "Move", X: 5, Y: 6})
	if !ok {
		t.Fatalf("expected ok")
	}
	if cmd.Type != sim.CommandMove || cmd.Move == nil || cmd.Move.X != 5 || cmd.Move.Y != 6 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestClientCommandTargetUnitRequiresEntityID(t *testing.T) {
	if _, ok := ClientCommand(ClientMessage{Type: "TargetUnit"}); ok {
		t.Fatalf("expected missing entityId to be rejected")
	}
	cmd, ok := ClientCommand(ClientMessage{Type: "TargetUnit", EntityID: "champ-1"})
	if !ok || cmd.TargetUnit == nil || cmd.TargetUnit.EntityID != "champ-1" {
		t.Fatalf("unexpected command: %+v, ok=%v", cmd, ok)
	}
}

func TestClientCommandAbility(t *testing.T) {
	cmd, ok := ClientCommand(ClientMessage{Type: "Ability", Slot: 2, HasPoint: true, PointX: 1, PointY: 2})
	if !ok || cmd.Ability == nil || cmd.Ability.Slot != 2 || !cmd.Ability.HasPoint {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestClientCommandUnknownTypeRejected(t *testing.T) {
	if _, ok := ClientCommand(ClientMessage{Type: "Nonsense"}); ok {
		t.Fatalf("expected unknown type to be rejected")
	}
}

func TestEncodeCommandAck(t *testing.T) {
	data, err := EncodeCommandAck(CommandAck{Seq: 7, Tick: 100})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame["type"] != typeCommandAck || frame["seq"].(float64) != 7 {
		t.Fatalf("unexpected frame: %v", frame)
	}
}

func TestEncodeOutboundStateUpdate(t *testing.T) {
	msg := sim.OutboundMessage{
		Kind:        sim.OutboundStateUpdate,
		ClientID:    "client-1",
		StateUpdate: &sim.StateUpdatePayload{Tick: 42},
	}
	data, err := EncodeOutbound(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame["type"] != string(sim.OutboundStateUpdate) {
		t.Fatalf("unexpected frame: %v", frame)
	}
	payload, ok := frame["payload"].(map[string]any)
	if !ok || payload["tick"].(float64) != 42 {
		t.Fatalf("unexpected payload: %v", frame)
	}
}

func TestEncodeOutboundUnknownKind(t *testing.T) {
	if _, err := EncodeOutbound(sim.OutboundMessage{Kind: "Bogus"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
