package sim

import (
	"hash/fnv"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/delta"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/eventbus"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/priority"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/vision"
)

// buildOutbound is §4.1 step 9: for every connected client, compute its
// team's visibility, decide which visible entities are due to send this
// tick under the priority cadence, diff against the client's baseline, and
// enqueue a StateUpdate. Disconnected clients are skipped entirely — they
// have no socket to write to until ReconnectClient restores them.
func (s *Session) buildOutbound(events []eventbus.Published) {
	sightRanges := vision.SightRanges{
		Champion:        s.cfg.SightChampion,
		Ward:            s.cfg.SightWard,
		BushRevealRange: s.cfg.BushRevealRange,
	}
	bands := priority.Bands{
		CriticalDistance:  s.cfg.PriorityCriticalDistance,
		HighDistance:      s.cfg.PriorityHighDistance,
		MediumDistance:    s.cfg.PriorityMediumDistance,
		MaxTicksNoUpdate:  s.cfg.PriorityMaxTicksNoUpdate,
		MovementThreshold: s.cfg.PriorityMovementThreshold,
	}

	visibilityByTeam := make(map[entity.Team]vision.TeamVisibility)
	visibleFor := func(team entity.Team) vision.TeamVisibility {
		if v, ok := visibilityByTeam[team]; ok {
			return v
		}
		sources := vision.BuildSources(s.store, team, sightRanges)
		v := vision.Compute(s.store, s.grid, team, sources, s.bushes)
		visibilityByTeam[team] = v
		return v
	}

	for _, clientID := range s.clientOrder {
		cs := s.clients[clientID]
		if cs == nil || !cs.Connected {
			continue
		}
		s.sendStateUpdate(clientID, cs, visibleFor(cs.Team), bands, events)
	}
}

func (s *Session) sendStateUpdate(clientID string, cs *clientState, visible vision.TeamVisibility, bands priority.Bands, events []eventbus.Published) {
	viewer := s.store.Get(cs.ChampionID)
	viewerDisconnected := viewer == nil || !viewer.IsAlive()

	views := make(map[string]delta.EntityView, len(visible))
	for id := range visible {
		e := s.store.Get(id)
		if e == nil {
			continue
		}

		if viewerDisconnected {
			// §4.8: a client whose champion is dead or missing receives
			// every visible entity every tick, bypassing cadence entirely.
			// Disconnected clients never get here: buildOutbound skips them.
			views[id] = entityView(e)
			continue
		}

		dist := 0.0
		if viewer != nil {
			dist = e.Pos.Sub(viewer.Pos).Len()
		}
		level := priority.LevelFor(e.Kind, dist, bands)
		state := cs.SendState[id]
		if !priority.ShouldSend(level, s.tick, e.Pos, state, bands) {
			continue
		}
		cs.SendState[id] = priority.SendState{LastSentTick: s.tick, LastSentPos: e.Pos, EverSent: true}
		views[id] = entityView(e)
	}

	records := delta.BuildDeltas(cs.Baseline, visible, views)
	visEvents := s.visibleEvents(events, cs, visible)

	s.outbox = append(s.outbox, OutboundMessage{
		Kind:     OutboundStateUpdate,
		ClientID: clientID,
		StateUpdate: &StateUpdatePayload{
			Tick:   s.tick,
			Deltas: records,
			Events: visEvents,
		},
	})
}

func entityView(e *entity.Entity) delta.EntityView {
	view := delta.EntityView{ID: e.ID, Kind: e.Kind, Team: e.Team, Pos: e.Pos}
	if e.Damageable != nil {
		view.Health = e.Damageable.Health
		view.EffectsHash = hashEffects(e.Damageable.ActiveEffects)
		view.ShieldsTotal = shieldTotal(e.Damageable.Shields)
	}
	if e.Champion != nil {
		view.Resource = e.Champion.Resource
		view.Level = e.Champion.Level
		view.Gold = e.Champion.Gold
		view.AbilitiesHash = hashAbilities(e.Champion.Abilities)
		view.ItemsHash = hashItems(e.Champion.Inventory)
		view.PassiveStacks = e.Champion.Passive.Stacks
		view.TargetID = e.Champion.Intent.Commanded.TargetID
	}
	if e.Dead {
		view.StateFlags |= stateFlagDead
	}
	return view
}

const stateFlagDead uint32 = 1 << 0

func shieldTotal(shields []entity.Shield) float64 {
	total := 0.0
	for _, sh := range shields {
		total += sh.Amount
	}
	return total
}

func hashEffects(effects []entity.ActiveEffect) uint64 {
	h := fnv.New64a()
	for _, ae := range effects {
		h.Write([]byte(ae.EffectID))
		h.Write([]byte{byte(ae.Stacks)})
	}
	return h.Sum64()
}

func hashAbilities(abilities [entity.SlotCount]entity.AbilityState) uint64 {
	h := fnv.New64a()
	for _, a := range abilities {
		h.Write([]byte(a.AbilityID))
		h.Write([]byte{byte(a.Rank)})
	}
	return h.Sum64()
}

func hashItems(items [6]entity.ItemSlot) uint64 {
	h := fnv.New64a()
	for _, it := range items {
		h.Write([]byte(it.ItemID))
		h.Write([]byte{byte(it.Charges)})
	}
	return h.Sum64()
}

// visibleEvents filters this tick's published events down to the ones a
// given client is permitted to see: events naming an entity are included
// only if that entity is visible to the client's team; team-scoped chat/
// ping events are included only for the sender's own team. Two exceptions:
// structure-destroyed events go to every client, and gold/xp events go
// only to the earning champion's own client.
func (s *Session) visibleEvents(events []eventbus.Published, cs *clientState, visible vision.TeamVisibility) []VisibleEvent {
	var out []VisibleEvent
	for _, ev := range events {
		if !s.eventVisibleTo(ev, cs, visible) {
			continue
		}
		out = append(out, VisibleEvent{Kind: string(ev.Kind), Payload: ev.Payload})
	}
	return out
}

func (s *Session) eventVisibleTo(ev eventbus.Published, cs *clientState, visible vision.TeamVisibility) bool {
	switch p := ev.Payload.(type) {
	case eventbus.DamageDealtPayload:
		return visible[p.SourceID] || visible[p.TargetID]
	case eventbus.EntityKilledPayload:
		return visible[p.EntityID]
	case eventbus.AbilityCastPayload:
		return visible[p.CasterID]
	case eventbus.ProjectileSpawnedPayload:
		return visible[p.ProjectileID] || visible[p.CasterID]
	case eventbus.StructureDestroyedPayload:
		return true
	case eventbus.LevelUpPayload:
		return visible[p.ChampionID]
	case eventbus.GoldEarnedPayload:
		return p.ChampionID == cs.ChampionID
	case eventbus.XpEarnedPayload:
		return p.ChampionID == cs.ChampionID
	case eventbus.EffectAppliedPayload:
		return visible[p.TargetID]
	case eventbus.ChatSentPayload:
		return p.Team == string(cs.Team)
	case eventbus.PingPlacedPayload:
		return p.Team == string(cs.Team)
	default:
		return false
	}
}
