package sim

import (
	"context"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/ability"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/aisimple"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/animation"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/combatcalc"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/effectsys"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/eventbus"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/motion"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/spatial"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/combat"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/status_effects"
)

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Step satisfies EngineCore and drives the ten-step tick order of §4.1.
// Commands have already been applied by the caller (Loop.Advance calls
// Apply immediately before Step, per §4.1 step 1).
func (s *Session) Step(dt float64) {
	s.tick++
	dtDur := secondsToDuration(dt)
	s.simTime += dtDur

	s.advanceTimers(dtDur)          // step 2
	s.fireScheduledActions(dtDur)   // step 3
	s.advanceMovementIntent()       // step 4
	s.advanceAI(dtDur)              // step 4: minions/jungle camps
	s.integratePositions(dtDur)     // step 5
	spatial.Rebuild(s.grid, s.store, s.cfg.LargeBodyThreshold)
	spatial.Resolve(s.grid, s.store.Get, s.rng) // step 6
	s.processDeaths()                           // step 7
	events := s.bus.Drain()                     // step 8
	s.buildOutbound(events)                      // step 9
	s.commitRemovals()                           // step 10
}

// safely runs fn, catching a per-entity panic per §7 ("session-internal bug
// ... catch/mark dead at end-of-tick/log with entity id+stack/continue").
// The entity is marked dead immediately rather than waiting for the next
// processDeaths pass, since a panicking update may have left it in an
// inconsistent state.
func (s *Session) safely(id string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if e := s.store.Get(id); e != nil {
				e.Dead = true
				e.Touch()
			}
			if s.deps.Logger != nil {
				s.deps.Logger.Printf("[sim] recovered panic entity=%s: %v", id, r)
			}
		}
	}()
	fn()
}

// advanceTimers is §4.1 step 2: cooldowns, resource regen, effect durations,
// shield durations, combat-timer decay, plus the session's own recall/
// respawn/ward timers (all timer-shaped bookkeeping belongs in this step).
func (s *Session) advanceTimers(dt time.Duration) {
	s.store.Each(func(e *entity.Entity) {
		if !e.IsAlive() {
			return
		}
		s.safely(e.ID, func() {
			if e.Champion != nil {
				s.advanceChampionTimers(e, dt)
			}
			if e.Damageable != nil {
				s.advanceDamageableTimers(e, dt)
			}
		})
	})

	s.resolveRecalls()
	s.resolveRespawns()
	s.expireWards()
}

// baseRegenFraction is the out-of-combat regen rate as a fraction of max
// health/resource per second. §6 names OutOfCombatRegenMultiplier but no
// base curve; this resolves the gap (see DESIGN.md).
const baseRegenFraction = 0.01

func (s *Session) advanceChampionTimers(e *entity.Entity, dt time.Duration) {
	champ := e.Champion
	for i := range champ.Abilities {
		if champ.Abilities[i].CooldownRemain > 0 {
			champ.Abilities[i].CooldownRemain -= dt
			if champ.Abilities[i].CooldownRemain < 0 {
				champ.Abilities[i].CooldownRemain = 0
			}
		}
	}

	regenMul := 1.0
	if e.Damageable != nil && e.Damageable.CombatTimer <= 0 {
		regenMul = s.cfg.OutOfCombatRegenMultiplier
	}
	if champ.ResourceMax > 0 {
		champ.Resource += champ.ResourceMax * baseRegenFraction * regenMul * dt.Seconds()
		if champ.Resource > champ.ResourceMax {
			champ.Resource = champ.ResourceMax
		}
	}
	if e.Damageable != nil && e.Damageable.MaxHealth > 0 {
		e.Damageable.Health += e.Damageable.MaxHealth * (baseRegenFraction / 2) * regenMul * dt.Seconds()
		e.Damageable.ClampHealth()
	}
}

func (s *Session) advanceDamageableTimers(e *entity.Entity, dt time.Duration) {
	d := e.Damageable
	if d.CombatTimer > 0 {
		d.CombatTimer -= dt
		if d.CombatTimer < 0 {
			d.CombatTimer = 0
		}
	}
	d.PruneShields()

	result := effectsys.Advance(d, dt, s.effectDefOf, s.cfg.ResistCap)
	for _, tick := range result.DamageTicks {
		s.lastDamageBy[e.ID] = tick.Source
		d.CombatTimer = secondsToDuration(s.cfg.CombatTimeoutSeconds)
		s.bus.Publish(eventbus.DamageDealt, eventbus.DamageDealtPayload{
			SourceID: tick.Source, TargetID: e.ID, Kind: combatcalc.DamageMagic,
			Result: combatcalc.Result{HealthLost: tick.Amount},
		})
	}
	// heal ticks require no event in §4.6's named event list; health is
	// already applied in-place by effectsys.Advance.
	if len(result.DamageTicks) > 0 || len(result.HealTicks) > 0 || len(result.Expired) > 0 {
		e.Touch()
	}
}

// resolveRecalls completes a channel once its duration elapses, or cancels
// it on any tick the channeling champion's CombatTimer is running (damage
// resets it to CombatTimeoutSeconds, so a recall started while still in
// combat is cancelled too).
func (s *Session) resolveRecalls() {
	for id, readyAt := range s.recallReadyAt {
		e := s.store.Get(id)
		if e == nil || !e.IsAlive() {
			delete(s.recallReadyAt, id)
			continue
		}
		if e.Damageable != nil && e.Damageable.CombatTimer > 0 {
			delete(s.recallReadyAt, id)
			continue
		}
		if s.simTime >= readyAt {
			if pos, ok := s.spawnPos[id]; ok {
				e.Pos = pos
			}
			e.Touch()
			delete(s.recallReadyAt, id)
		}
	}
}

// resolveRespawns revives a dead champion once its timer elapses (§4.1
// step 2/§6 respawn formula: base + per_level*level, capped).
func (s *Session) resolveRespawns() {
	for id, r := range s.respawns {
		if s.simTime < r.RespawnAt {
			continue
		}
		e := s.store.Get(id)
		if e == nil {
			delete(s.respawns, id)
			continue
		}
		champDefID := s.champDefOf[id]
		champDef, _ := s.cat.Champion(champDefID)
		stats := entity.DeriveStats(champDef.Base, e.Champion.Level, e.Champion.Modifiers)

		e.Dead = false
		e.Pos = r.SpawnPos
		if e.Damageable != nil {
			e.Damageable.Health = stats.MaxHealth
			e.Damageable.MaxHealth = stats.MaxHealth
			e.Damageable.CombatTimer = 0
			e.Damageable.Shields = nil
			e.Damageable.ActiveEffects = nil
		}
		if e.Champion != nil {
			e.Champion.Resource = e.Champion.ResourceMax
		}
		e.Touch()
		delete(s.respawns, id)
	}
}

func (s *Session) expireWards() {
	for id, w := range s.wards {
		if s.simTime < w.ExpireAt {
			continue
		}
		s.store.MarkRemoved(id)
		delete(s.wards, id)
		owned := s.wardsByOwner[w.OwnerID]
		for i, wid := range owned {
			if wid == id {
				s.wardsByOwner[w.OwnerID] = append(owned[:i], owned[i+1:]...)
				break
			}
		}
	}
}

// fireScheduledActions is §4.1 step 3: the animation scheduler fires every
// action whose trigger time has arrived, in strict non-decreasing
// trigger-time order with ties broken by insertion order (§4.4/§9).
func (s *Session) fireScheduledActions(dt time.Duration) {
	s.scheduler.Advance(dt, func(action animation.ScheduledAction) {
		s.safely(action.EntityID, func() {
			s.resolveScheduledAction(action)
		})
	})
}

func (s *Session) resolveScheduledAction(action animation.ScheduledAction) {
	caster := s.store.Get(action.Payload.CasterID)
	if caster == nil || !caster.IsAlive() {
		return
	}

	switch action.Kind {
	case animation.ActionDamage:
		s.resolveDamageAction(caster, action)
	case animation.ActionProjectile:
		s.resolveProjectileAction(caster, action)
	case animation.ActionEffect:
		s.resolveEffectAction(caster, action)
	case animation.ActionSound, animation.ActionVFX:
		// presentation-only triggers; nothing to simulate server-side.
	}
}

func (s *Session) resolveDamageAction(caster *entity.Entity, action animation.ScheduledAction) {
	abilityDef, ok := s.cat.Ability(action.Payload.AbilityID)
	if !ok {
		return
	}
	rank := s.abilityRankFor(caster, action.Payload.AbilityID)
	level := 1
	if caster.Champion != nil {
		level = caster.Champion.Level
	}
	amount := rank.DamageBase + rank.DamagePerLevel*float64(level-1)
	if amount <= 0 {
		return
	}

	kind := combatcalc.DamageMagic
	if abilityDef.IsBasicAttack {
		kind = combatcalc.DamagePhysical
	}

	point := mathx.V2(action.Payload.TargetX, action.Payload.TargetY)
	radius := rank.Radius
	if radius <= 0 {
		radius = rank.Length
	}

	var targets []*entity.Entity
	if abilityDef.Shape == catalog.ShapeSingle || radius <= 0 {
		if action.Payload.TargetID != "" {
			if t := s.store.Get(action.Payload.TargetID); t != nil && t.IsAlive() {
				targets = append(targets, t)
			}
		}
	} else {
		for _, id := range s.grid.Nearby(point, radius, s.positionOf) {
			if t := s.store.Get(id); t != nil && t.IsAlive() {
				targets = append(targets, t)
			}
		}
	}

	var playerHits, npcHits []logging.EntityRef
	for _, t := range targets {
		if t.Damageable == nil || t.ID == caster.ID {
			continue
		}
		if t.Team == caster.Team {
			continue
		}
		if !abilityDef.Affects.Affects(t.Kind) {
			continue
		}
		s.dealDamage(caster.ID, t, combatcalc.Request{Kind: kind, Amount: amount, ResistCap: s.cfg.ResistCap})
		ref := logging.EntityRef{ID: t.ID, Kind: logging.EntityKind(t.Kind)}
		if t.Kind == entity.KindChampion {
			playerHits = append(playerHits, ref)
		} else {
			npcHits = append(npcHits, ref)
		}
	}
	if len(playerHits)+len(npcHits) > 1 {
		combat.AttackOverlap(context.Background(), s.deps.Events, s.tick,
			logging.EntityRef{ID: caster.ID, Kind: logging.EntityKind(caster.Kind)},
			action.Payload.AbilityID, playerHits, npcHits)
	}
}

func (s *Session) positionOf(id string) (mathx.Vec2, bool) {
	e := s.store.Get(id)
	if e == nil {
		return mathx.Vec2{}, false
	}
	return e.Pos, true
}

func (s *Session) abilityRankFor(caster *entity.Entity, abilityID string) catalog.RankStats {
	abilityDef, ok := s.cat.Ability(abilityID)
	if !ok || caster.Champion == nil {
		return catalog.RankStats{}
	}
	for i := range caster.Champion.Abilities {
		if caster.Champion.Abilities[i].AbilityID == abilityID {
			return abilityDef.RankFor(caster.Champion.Abilities[i].Rank)
		}
	}
	return catalog.RankStats{}
}

// dealDamage applies mitigation/shield absorption, records combat-timer and
// kill-attribution bookkeeping, and publishes DamageDealt/EntityKilled
// (§4.5/§4.6).
func (s *Session) dealDamage(sourceID string, target *entity.Entity, req combatcalc.Request) {
	result := combatcalc.Apply(target.Damageable, req)
	target.Damageable.ClampHealth()
	target.Damageable.CombatTimer = secondsToDuration(s.cfg.CombatTimeoutSeconds)
	s.lastDamageBy[target.ID] = sourceID
	target.Touch()

	s.bus.Publish(eventbus.DamageDealt, eventbus.DamageDealtPayload{
		SourceID: sourceID, TargetID: target.ID, Kind: req.Kind, Result: result,
	})
	combat.Damage(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: sourceID},
		logging.EntityRef{ID: target.ID, Kind: logging.EntityKind(target.Kind)},
		combat.DamagePayload{Kind: string(req.Kind), Amount: result.HealthLost, TargetHealth: target.Damageable.Health})
}

func (s *Session) resolveProjectileAction(caster *entity.Entity, action animation.ScheduledAction) {
	target := mathx.V2(action.Payload.TargetX, action.Payload.TargetY)
	pos, dir := ability.SpawnPoint(caster.Pos, target)
	id := s.newID("proj")
	proj := &entity.Entity{
		ID:     id,
		Kind:   entity.KindProjectile,
		Team:   caster.Team,
		Pos:    pos,
		Facing: dir,
		Shape:  mathx.Circle(10),
		Mass:   entity.InfiniteMass,
	}
	s.store.Add(proj)
	s.bus.Publish(eventbus.ProjectileSpawned, eventbus.ProjectileSpawnedPayload{
		ProjectileID: id, CasterID: caster.ID, AbilityID: action.Payload.AbilityID,
	})
}

func (s *Session) resolveEffectAction(caster *entity.Entity, action animation.ScheduledAction) {
	effectDef, ok := s.cat.Effect(action.Payload.EffectID)
	if !ok {
		return
	}
	var target *entity.Entity
	if action.Payload.TargetID != "" {
		target = s.store.Get(action.Payload.TargetID)
	} else {
		target = caster
	}
	if target == nil || target.Damageable == nil || !target.IsAlive() {
		return
	}
	effectsys.Apply(target.Damageable, effectDef, caster.ID)
	target.Touch()
	if effectDef.InvalidatesCast() && target.Champion != nil {
		ability.Interrupt(s.scheduler, target.ID, target.Champion.ActiveCastSeq)
	}
	s.bus.Publish(eventbus.EffectApplied, eventbus.EffectAppliedPayload{
		TargetID: target.ID, EffectID: effectDef.ID, SourceID: caster.ID,
	})
	status_effects.Applied(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: caster.ID, Kind: logging.EntityKind(caster.Kind)},
		logging.EntityRef{ID: target.ID, Kind: logging.EntityKind(target.Kind)},
		status_effects.AppliedPayload{StatusEffect: effectDef.ID, SourceID: caster.ID, DurationMs: int64(effectDef.DurationSeconds * 1000)}, nil)
}

// advanceMovementIntent is §4.1 step 4: refresh attack-target pursuit with
// the target's live position, then leave the motion integration itself to
// step 5.
func (s *Session) advanceMovementIntent() {
	s.store.EachOfKind(entity.KindChampion, func(e *entity.Entity) {
		if !e.IsAlive() || e.Champion == nil {
			return
		}
		intent := &e.Champion.Intent.Commanded
		if intent.Kind != entity.IntentAttackTarget {
			return
		}
		target := s.store.Get(intent.TargetID)
		if target == nil || !target.IsAlive() {
			motion.Stop(e.Champion)
			return
		}
		motion.RetargetAttackTarget(e.Champion, target.Pos)
	})
}

// advanceAI drives every minion and jungle camp's aggro/attack/movement
// state for this tick (target-in-range, attack-nearest, leash-and-return).
func (s *Session) advanceAI(dt time.Duration) {
	aisimple.Controller{}.Update(dt, s.store,
		func(pos mathx.Vec2, radius float64) []string {
			return s.grid.Nearby(pos, radius, s.positionOf)
		},
		s.dealDamage,
	)
}

// integratePositions is §4.1 step 5: champions and projectiles move under
// their commanded/forced intent; zones and structures never move.
func (s *Session) integratePositions(dt time.Duration) {
	s.store.EachOfKind(entity.KindChampion, func(e *entity.Entity) {
		if !e.IsAlive() || e.Champion == nil {
			return
		}
		s.safely(e.ID, func() {
			champDefID := s.champDefOf[e.ID]
			champDef, _ := s.cat.Champion(champDefID)
			stats := e.Champion.CachedStats(champDef.Base)
			canMove := e.Damageable == nil || effectsys.CanMove(e.Damageable, s.effectDefOf)
			motion.Step(e, e.Champion, dt, stats.MoveSpeed, canMove, s.path)
		})
	})

	s.store.EachOfKind(entity.KindProjectile, func(e *entity.Entity) {
		if !e.IsAlive() {
			return
		}
		const projectileSpeed = 1200.0
		e.Pos = e.Pos.Add(e.Facing.Mul(projectileSpeed * dt.Seconds()))
	})
}

// processDeaths is §4.1 step 7: any damageable entity whose health has
// reached zero this tick transitions to dead, cancelling its pending
// scheduled actions (excluding ones that already fired this tick, which
// Scheduler.Advance has already removed) and publishing EntityKilled.
func (s *Session) processDeaths() {
	s.store.Each(func(e *entity.Entity) {
		if e.Dead || e.Damageable == nil {
			return
		}
		if e.Damageable.Health > 0 {
			return
		}
		e.Dead = true
		e.Touch()
		s.scheduler.Cancel(e.ID, nil)
		if e.Kind != entity.KindChampion {
			s.store.MarkRemoved(e.ID)
		}

		killerID := s.lastDamageBy[e.ID]
		s.bus.Publish(eventbus.EntityKilled, eventbus.EntityKilledPayload{EntityID: e.ID, KillerID: killerID})
		combat.Defeat(context.Background(), s.deps.Events, s.tick,
			logging.EntityRef{ID: e.ID, Kind: logging.EntityKind(e.Kind)},
			combat.DefeatPayload{KillerID: killerID})

		switch e.Kind {
		case entity.KindTower, entity.KindInhibitor, entity.KindNexus:
			s.bus.Publish(eventbus.StructureDestroyed, eventbus.StructureDestroyedPayload{
				StructureID: e.ID, KillerTeam: string(e.Team.Opposite()),
			})
		}
	})
}

// commitRemovals is §4.1 step 10: entities marked for removal this tick
// (disconnected clients, expired wards, destroyed non-respawning units) are
// dropped from the store. Dead champions are not removed — they stay in
// the store, Dead, until resolveRespawns revives them.
func (s *Session) commitRemovals() {
	for _, id := range s.store.CommitRemovals() {
		delete(s.champDefOf, id)
		delete(s.spawnPos, id)
		delete(s.lastDamageBy, id)
		delete(s.respawns, id)
		delete(s.recallReadyAt, id)
	}

	s.store.EachOfKind(entity.KindChampion, func(e *entity.Entity) {
		if !e.Dead {
			return
		}
		if _, scheduled := s.respawns[e.ID]; scheduled {
			return
		}
		s.respawns[e.ID] = &respawnState{
			RespawnAt: s.simTime + respawnDelay(s.cfg, e.Champion.Level),
			SpawnPos:  s.spawnPos[e.ID],
		}
	})
}

func respawnDelay(cfg SessionConfig, level int) time.Duration {
	seconds := cfg.RespawnBaseSeconds + cfg.RespawnPerLevelSeconds*float64(level)
	if cfg.RespawnCapSeconds > 0 && seconds > cfg.RespawnCapSeconds {
		seconds = cfg.RespawnCapSeconds
	}
	return secondsToDuration(seconds)
}
