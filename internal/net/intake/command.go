// Package intake stages decoded client messages into sim.Command values and
// enqueues them on an Engine, rejecting anything malformed or unauthorized
// before it ever reaches the simulation.
package intake

import (
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/net/proto"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/sim"
)

const (
	// CommandRejectInvalidInput indicates the decoded message did not carry
	// the fields its Type requires, or named an unrecognized Type.
	CommandRejectInvalidInput = "InvalidInput"
	// CommandRejectUnknownActor indicates the sending client has no
	// registered champion in this session.
	CommandRejectUnknownActor = "UnknownActor"
)

// CommandContext carries the session-bound collaborators StageClientCommand
// needs: the engine to enqueue onto, a predicate for known clients, and a
// clock for stamping IssuedAt.
type CommandContext struct {
	Engine    sim.Engine
	HasClient func(string) bool
	Now       func() time.Time
}

// StageClientCommand validates and enqueues one decoded client message,
// returning the constructed Command plus an ok flag and, on rejection, a
// reason code suitable for proto.CommandReject.
func StageClientCommand(ctx CommandContext, clientID string, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command

	cmd, ok := proto.ClientCommand(msg)
	if !ok {
		return zero, false, CommandRejectInvalidInput
	}

	if ctx.HasClient != nil && !ctx.HasClient(clientID) {
		return zero, false, CommandRejectUnknownActor
	}

	cmd.ActorID = clientID
	if ctx.Now != nil {
		cmd.IssuedAt = ctx.Now()
	} else {
		cmd.IssuedAt = time.Now()
	}

	if ctx.Engine == nil {
		return zero, false, sim.CommandRejectQueueFull
	}
	if ok, reason := ctx.Engine.Enqueue(cmd); !ok {
		return zero, false, reason
	}

	return cmd, true, ""
}
