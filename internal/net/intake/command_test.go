package intake

import (
	"testing"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/proto"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

type fakeEngine struct {
	enqueueOK     bool
	enqueueReason string
	commands      []sim.Command
}

func (f *fakeEngine) Deps() sim.Deps                 { return sim.Deps{} }
func (f *fakeEngine) Apply([]sim.Command) error      { return nil }
func (f *fakeEngine) Step(float64)                   {}
func (f *fakeEngine) Snapshot() sim.Snapshot         { return sim.Snapshot{} }
func (f *fakeEngine) Outbound() []sim.OutboundMessage { return nil }
func (f *fakeEngine) Run(<-chan struct{})            {}
func (f *fakeEngine) Enqueue(cmd sim.Command) (bool, string) {
	f.commands = append(f.commands, cmd)
	if f.enqueueOK {
		return true, ""
	}
	if f.enqueueReason == "" {
		f.enqueueReason = sim.CommandRejectQueueLimit
	}
	return false, f.enqueueReason
}

var _ sim.Engine = (*fakeEngine)(nil)

func TestStageClientCommandAcceptsMove(t *testing.T) {
	engine := &fakeEngine{enqueueOK: true}
	issuedAt := time.Unix(100, 0)
	ctx := CommandContext{
		Engine:    engine,
		HasClient: func(id string) bool { return id == "client-1" },
		Now:       func() time.Time { return issuedAt },
	}

	msg := proto.ClientMessage{Type: "Move", X: 5, Y: 6}
	cmd, ok, reason := StageClientCommand(ctx, "client-1", msg)
	if !ok {
		t.Fatalf("expected command to be accepted, got reason %q", reason)
	}
	if cmd.ActorID != "client-1" {
		t.Fatalf("expected ActorID to be set, got %q", cmd.ActorID)
	}
	if !cmd.IssuedAt.Equal(issuedAt) {
		t.Fatalf("expected IssuedAt %v, got %v", issuedAt, cmd.IssuedAt)
	}
	if len(engine.commands) != 1 {
		t.Fatalf("expected engine to record command, got %d", len(engine.commands))
	}
}

func TestStageClientCommandRejectsUnknownClient(t *testing.T) {
	engine := &fakeEngine{enqueueOK: true}
	ctx := CommandContext{
		Engine:    engine,
		HasClient: func(string) bool { return false },
		Now:       func() time.Time { return time.Unix(0, 0) },
	}

	msg := proto.ClientMessage{Type: "Move", X: 1, Y: 0}
	_, ok, reason := StageClientCommand(ctx, "missing", msg)
	if ok {
		t.Fatalf("expected rejection for missing client")
	}
	if reason != CommandRejectUnknownActor {
		t.Fatalf("expected reason %q, got %q", CommandRejectUnknownActor, reason)
	}
}

func TestStageClientCommandRejectsInvalidInput(t *testing.T) {
	engine := &fakeEngine{enqueueOK: true}
	ctx := CommandContext{
		Engine:    engine,
		HasClient: func(string) bool { return true },
		Now:       func() time.Time { return time.Unix(0, 0) },
	}

	msg := proto.ClientMessage{Type: "TargetUnit"} // missing EntityID
	_, ok, reason := StageClientCommand(ctx, "client-1", msg)
	if ok {
		t.Fatalf("expected rejection for invalid input")
	}
	if reason != CommandRejectInvalidInput {
		t.Fatalf("expected reason %q, got %q", CommandRejectInvalidInput, reason)
	}
}

func TestStageClientCommandPropagatesEngineReason(t *testing.T) {
	engine := &fakeEngine{enqueueOK: false, enqueueReason: sim.CommandRejectQueueLimit}
	ctx := CommandContext{
		Engine:    engine,
		HasClient: func(string) bool { return true },
		Now:       func() time.Time { return time.Unix(0, 0) },
	}

	msg := proto.ClientMessage{Type: "Move", X: 1, Y: 0}
	_, ok, reason := StageClientCommand(ctx, "client-1", msg)
	if ok {
		t.Fatalf("expected rejection from engine")
	}
	if reason != sim.CommandRejectQueueLimit {
		t.Fatalf("expected engine reason %q, got %q", sim.CommandRejectQueueLimit, reason)
	}
}

func TestStageClientCommandHandlesNilEngine(t *testing.T) {
	ctx := CommandContext{
		Engine:    nil,
		HasClient: func(string) bool { return true },
		Now:       func() time.Time { return time.Unix(0, 0) },
	}

	msg := proto.ClientMessage{Type: "Move", X: 1, Y: 0}
	_, ok, reason := StageClientCommand(ctx, "client-1", msg)
	if ok {
		t.Fatalf("expected rejection when engine is nil")
	}
	if reason != sim.CommandRejectQueueFull {
		t.Fatalf("expected reason %q, got %q", sim.CommandRejectQueueFull, reason)
	}
}
