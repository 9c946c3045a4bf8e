package sim

import (
	"context"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/eventbus"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging/reward"
)

// maxChampionLevel caps level-up progression (§4.5's derived-stat curve
// assumes a bounded level range; §6 does not name a cap, so the traditional
// MOBA ceiling is used — see DESIGN.md).
const maxChampionLevel = 18

// xpForLevel is the cumulative experience required to reach level+1. No
// curve is named in §6, so a flat per-level cost is used (documented as an
// Open Question resolution in DESIGN.md).
func xpForLevel(level int) int {
	return level * 100
}

// onEntityKilled is §4.6's synchronous reward step: it runs inline from the
// EntityKilled subscription registered in NewSession, so gold/xp land in
// the same tick as the kill, before that tick's outbound pipeline runs.
func (s *Session) onEntityKilled(p eventbus.EntityKilledPayload) {
	victim := s.store.Get(p.EntityID)
	if victim == nil || victim.Champion == nil {
		return
	}
	victimLevel := victim.Champion.Level

	killer := s.store.Get(p.KillerID)
	if killer == nil || killer.Champion == nil || killer.Team == victim.Team {
		return
	}

	s.awardKill(killer, victimLevel)

	s.store.EachOfKind(entity.KindChampion, func(ally *entity.Entity) {
		if ally.ID == killer.ID || ally.Champion == nil || !ally.IsAlive() {
			return
		}
		if ally.Team != killer.Team {
			return
		}
		if ally.Pos.Sub(victim.Pos).Len() > s.cfg.ExperienceShareRange {
			return
		}
		s.awardXP(ally, xpAmount(victimLevel, ally.Champion.Level, s.cfg))
	})
}

func xpAmount(victimLevel, earnerLevel int, cfg SessionConfig) int {
	diff := victimLevel - earnerLevel
	if diff < 0 {
		diff = 0
	}
	return cfg.KillBaseXP + cfg.PerLevelDiffBonusXP*diff
}

// awardKill grants the killing blow both gold and xp; §6 defines no
// separate gold-economy knob, so gold uses the same base/level-diff curve
// as xp (see DESIGN.md).
func (s *Session) awardKill(killer *entity.Entity, victimLevel int) {
	amount := xpAmount(victimLevel, killer.Champion.Level, s.cfg)
	killer.Champion.Gold += amount
	s.bus.Publish(eventbus.GoldEarned, eventbus.GoldEarnedPayload{
		ChampionID: killer.ID, Amount: amount, Reason: "kill",
	})
	reward.GoldAwarded(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: killer.ID, Kind: logging.EntityKind(killer.Kind)},
		reward.GoldAwardedPayload{Amount: amount, Reason: "kill"})
	s.awardXP(killer, amount)
}

func (s *Session) awardXP(champEntity *entity.Entity, amount int) {
	champ := champEntity.Champion
	champ.XP += amount
	s.bus.Publish(eventbus.XpEarned, eventbus.XpEarnedPayload{
		ChampionID: champEntity.ID, Amount: amount, Reason: "kill",
	})

	leveledUp := false
	for champ.Level < maxChampionLevel && champ.XP >= xpForLevel(champ.Level) {
		champ.Level++
		leveledUp = true
		champ.InvalidateStatCache()
		s.bus.Publish(eventbus.LevelUp, eventbus.LevelUpPayload{
			ChampionID: champEntity.ID, NewLevel: champ.Level,
		})
	}
	reward.XPAwarded(context.Background(), s.deps.Events, s.tick,
		logging.EntityRef{ID: champEntity.ID, Kind: logging.EntityKind(champEntity.Kind)},
		reward.XPAwardedPayload{Amount: amount, NewLevel: champ.Level, LeveledUp: leveledUp})

	champDefID := s.champDefOf[champEntity.ID]
	if champDef, ok := s.cat.Champion(champDefID); ok && champEntity.Damageable != nil {
		stats := champ.CachedStats(champDef.Base)
		champEntity.Damageable.MaxHealth = stats.MaxHealth
		champEntity.Damageable.Armor = stats.Armor
		champEntity.Damageable.MagicResist = stats.MagicResist
		champEntity.Damageable.ClampHealth()
	}
	champEntity.Touch()
}
