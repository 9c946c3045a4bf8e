package sim

import (
	"context"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/ability"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/eventbus"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/motion"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/conditions"
)

// Apply satisfies EngineCore (§4.1 step 1): reject stale/duplicate input
// sequences, collapse a client's movement-intent commands to its latest
// (only the newest commanded destination is ever meaningful), then apply
// every other command in arrival order, followed by each client's latest
// movement-intent command.
func (s *Session) Apply(cmds []Command) error {
	if len(cmds) == 0 {
		return nil
	}

	latestIntent := make(map[string]Command)
	for _, cmd := range cmds {
		if !s.acceptSequence(cmd) {
			continue
		}
		switch cmd.Type {
		case CommandMove, CommandAttackMove, CommandTargetUnit, CommandStop:
			latestIntent[cmd.ActorID] = cmd
		default:
			s.applyCommand(cmd)
		}
	}
	for _, cmd := range latestIntent {
		s.applyCommand(cmd)
	}
	return nil
}

// acceptSequence enforces §6's per-client monotonic sequence contract: the
// server drops out-of-order or duplicate sequence numbers.
func (s *Session) acceptSequence(cmd Command) bool {
	cs := s.clients[cmd.ActorID]
	if cs == nil {
		return false
	}
	if cs.HasSequence && cmd.Sequence <= cs.LastSequence {
		return false
	}
	cs.HasSequence = true
	cs.LastSequence = cmd.Sequence
	return true
}

func (s *Session) applyCommand(cmd Command) {
	switch cmd.Type {
	case CommandMove:
		s.applyMove(cmd)
	case CommandAttackMove:
		s.applyAttackMove(cmd)
	case CommandTargetUnit:
		s.applyTargetUnit(cmd)
	case CommandStop:
		s.applyStop(cmd)
	case CommandAbility:
		s.applyAbility(cmd)
	case CommandLevelUp:
		s.applyLevelUp(cmd)
	case CommandBuyItem:
		s.applyBuyItem(cmd)
	case CommandSellItem:
		s.applySellItem(cmd)
	case CommandRecall:
		s.applyRecall(cmd)
	case CommandPing:
		s.applyPing(cmd)
	case CommandChat:
		s.applyChat(cmd)
	case CommandPlaceWard:
		s.applyPlaceWard(cmd)
	}
}

// championOf resolves a command's acting entity, rejecting dead or unknown
// champions; a dead champion does not accept commanded input (§4.1).
func (s *Session) championOf(actorID string) (*entity.Entity, *entity.Champion) {
	e := s.store.Get(actorID)
	if e == nil || e.Champion == nil || !e.IsAlive() {
		return nil, nil
	}
	return e, e.Champion
}

func (s *Session) sendError(clientID, code, text string) {
	s.outbox = append(s.outbox, OutboundMessage{
		Kind:     OutboundError,
		ClientID: clientID,
		Error:    &ErrorPayload{Code: code, Text: text},
	})
}

func (s *Session) applyMove(cmd Command) {
	if cmd.Move == nil {
		return
	}
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	motion.SetMoveTo(champ, mathx.V2(cmd.Move.X, cmd.Move.Y))
	e.Touch()
}

func (s *Session) applyAttackMove(cmd Command) {
	if cmd.AttackMove == nil {
		return
	}
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	motion.SetAttackMoveTo(champ, mathx.V2(cmd.AttackMove.X, cmd.AttackMove.Y))
	e.Touch()
}

func (s *Session) applyTargetUnit(cmd Command) {
	if cmd.TargetUnit == nil {
		return
	}
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	target := s.store.Get(cmd.TargetUnit.EntityID)
	if target == nil || !target.IsAlive() {
		return
	}
	motion.SetAttackTarget(champ, target.ID, target.Pos)
	e.Touch()
}

func (s *Session) applyStop(cmd Command) {
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	motion.Stop(champ)
	e.Touch()
}

func (s *Session) applyAbility(cmd Command) {
	if cmd.Ability == nil {
		return
	}
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	slot := entity.AbilitySlot(cmd.Ability.Slot)
	if slot < 0 || slot >= entity.SlotCount {
		s.sendError(cmd.ActorID, "InvalidInput", "unknown ability slot")
		return
	}

	var targetEntity *entity.Entity
	if cmd.Ability.TargetUnit != "" {
		targetEntity = s.store.Get(cmd.Ability.TargetUnit)
		if targetEntity == nil || !targetEntity.IsAlive() {
			s.sendError(cmd.ActorID, "InvalidInput", "unknown ability target")
			return
		}
	}

	champDefID := s.champDefOf[e.ID]
	champDef, _ := s.cat.Champion(champDefID)

	req := ability.CastRequest{CasterID: e.ID, Slot: slot, TargetID: cmd.Ability.TargetUnit}
	if cmd.Ability.HasPoint {
		req.GroundX, req.GroundY = cmd.Ability.PointX, cmd.Ability.PointY
	}

	ctx := ability.CastContext{
		Catalog:          s.cat,
		Scheduler:        s.scheduler,
		Now:              s.simTime,
		CasterEntity:     e,
		CasterChamp:      champ,
		CasterBaseStats:  champDef.Base,
		CasterChampDefID: champDefID,
		TargetEntity:     targetEntity,
		EffectDefOf:      s.effectDefOf,
		NextCastSeq: func() uint64 {
			s.nextCastSeq++
			champ.ActiveCastSeq = s.nextCastSeq
			return s.nextCastSeq
		},
		PublishCast: func(casterID, abilityID, targetID string) {
			s.bus.Publish(eventbus.AbilityCast, eventbus.AbilityCastPayload{CasterID: casterID, AbilityID: abilityID, TargetID: targetID})
		},
		PublishEffect: func(targetID, effectID, sourceID string) {
			s.bus.Publish(eventbus.EffectApplied, eventbus.EffectAppliedPayload{TargetID: targetID, EffectID: effectID, SourceID: sourceID})
		},
	}

	outcome := ability.Cast(ctx, req)
	if outcome != ability.CastOK {
		s.sendError(cmd.ActorID, castErrorCode(outcome), "ability cast rejected")
		return
	}
	e.Touch()
}

func castErrorCode(outcome ability.CastOutcome) string {
	switch outcome {
	case ability.CastOnCooldown:
		return "AbilityOnCooldown"
	case ability.CastInsufficientResource:
		return "InsufficientResource"
	case ability.CastBlockedByCC:
		return "BlockedByCrowdControl"
	case ability.CastInvalidTarget:
		return "InvalidTarget"
	case ability.CastUnknownAbility:
		return "UnknownAbility"
	default:
		return "CastRejected"
	}
}

// applyLevelUp spends an earned ability point on the named slot. A champion
// earns one point per level (§4.5); since entity.Champion does not carry a
// separate points-pool field, the sum of current ranks already spent is
// compared against the champion's level to derive how many points remain.
func (s *Session) applyLevelUp(cmd Command) {
	if cmd.LevelUp == nil {
		return
	}
	e, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	slot := entity.AbilitySlot(cmd.LevelUp.Slot)
	if slot < 0 || slot >= entity.SlotCount {
		s.sendError(cmd.ActorID, "InvalidInput", "unknown ability slot")
		return
	}

	spent := 0
	for i := range champ.Abilities {
		spent += champ.Abilities[i].Rank
	}
	if spent >= champ.Level {
		s.sendError(cmd.ActorID, "InvalidInput", "no ability point available")
		return
	}

	state := &champ.Abilities[slot]
	abilityDef, ok := s.cat.Ability(state.AbilityID)
	if !ok {
		s.sendError(cmd.ActorID, "InvalidInput", "slot has no bound ability")
		return
	}
	if state.Rank >= abilityDef.MaxRank {
		s.sendError(cmd.ActorID, "InvalidInput", "ability already at max rank")
		return
	}
	state.Rank++
	champ.InvalidateStatCache()
	e.Touch()
}

// applyBuyItem and applySellItem commit inventory-slot bookkeeping only: the
// catalog carries no item price table, so gold is left untouched here (see
// DESIGN.md).
func (s *Session) applyBuyItem(cmd Command) {
	if cmd.BuyItem == nil {
		return
	}
	_, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	for i := range champ.Inventory {
		if champ.Inventory[i].ItemID == "" {
			champ.Inventory[i] = entity.ItemSlot{ItemID: cmd.BuyItem.ItemID}
			return
		}
	}
	s.sendError(cmd.ActorID, "InvalidInput", "inventory full")
}

func (s *Session) applySellItem(cmd Command) {
	if cmd.SellItem == nil {
		return
	}
	_, champ := s.championOf(cmd.ActorID)
	if champ == nil {
		return
	}
	if cmd.SellItem.Slot < 0 || cmd.SellItem.Slot >= len(champ.Inventory) {
		s.sendError(cmd.ActorID, "InvalidInput", "invalid inventory slot")
		return
	}
	champ.Inventory[cmd.SellItem.Slot] = entity.ItemSlot{}
}

// applyRecall starts the channel; resolveRecalls (§4.1 step 2) completes it
// after RecallDurationSeconds unless combat cancels it first.
func (s *Session) applyRecall(cmd Command) {
	e, _ := s.championOf(cmd.ActorID)
	if e == nil {
		return
	}
	s.recallReadyAt[e.ID] = s.simTime + secondsToDuration(s.cfg.RecallDurationSeconds)
	conditions.Applied(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: e.ID, Kind: logging.EntityKind(e.Kind)},
		logging.EntityRef{ID: e.ID, Kind: logging.EntityKind(e.Kind)},
		conditions.AppliedPayload{
			Condition:  "recall_channel",
			DurationMs: int64(s.cfg.RecallDurationSeconds * 1000),
		}, nil)
}

func (s *Session) applyPing(cmd Command) {
	if cmd.Ping == nil {
		return
	}
	cs := s.clients[cmd.ActorID]
	if cs == nil {
		return
	}
	s.bus.Publish(eventbus.PingPlaced, eventbus.PingPlacedPayload{
		SenderID: cmd.ActorID, Team: string(cs.Team),
		X: cmd.Ping.X, Y: cmd.Ping.Y, Kind: string(cmd.Ping.Kind),
	})
}

func (s *Session) applyChat(cmd Command) {
	if cmd.Chat == nil {
		return
	}
	cs := s.clients[cmd.ActorID]
	if cs == nil {
		return
	}
	s.bus.Publish(eventbus.ChatSent, eventbus.ChatSentPayload{
		SenderID: cmd.ActorID, Team: string(cs.Team), Text: cmd.Chat.Text,
	})
}

// applyPlaceWard enforces the max-wards-per-player knob (§6); the request is
// rejected outright once the cap is reached rather than evicting the oldest.
func (s *Session) applyPlaceWard(cmd Command) {
	if cmd.PlaceWard == nil {
		return
	}
	e, _ := s.championOf(cmd.ActorID)
	if e == nil {
		return
	}
	if len(s.wardsByOwner[e.ID]) >= s.cfg.MaxWardsPerPlayer {
		s.sendError(cmd.ActorID, "InvalidInput", "ward limit reached")
		return
	}

	id := s.newID("ward")
	ward := &entity.Entity{
		ID:             id,
		Kind:           entity.KindWard,
		Team:           e.Team,
		Pos:            mathx.V2(cmd.PlaceWard.X, cmd.PlaceWard.Y),
		Shape:          mathx.Circle(1),
		Mass:           entity.InfiniteMass,
		Intangible:     true,
		CollidableOpts: entity.CollideOpts{SkipCollision: true},
	}
	s.store.Add(ward)
	s.wards[id] = &wardState{OwnerID: e.ID, ExpireAt: s.simTime + secondsToDuration(s.cfg.WardDuration)}
	s.wardsByOwner[e.ID] = append(s.wardsByOwner[e.ID], id)
}
