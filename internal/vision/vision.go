// Package vision computes the per-team visible-entity set of §4.7: sight
// range from live vision sources, bush occlusion, and the always-visible
// rules for structures and own-team entities.
package vision

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/spatial"
)

// SightRanges carries the config-bound sight distances of §6.
type SightRanges struct {
	Champion        float64
	Ward            float64
	BushRevealRange float64
}

// Source is one vision-granting entity: a live champion, ward, structure,
// or minion belonging to a team.
type Source struct {
	Pos        mathx.Vec2
	Range      float64
	BushReveal float64
}

// TeamVisibility is the result of one team's per-tick visibility computation:
// the set of entity ids that team's clients are permitted to see.
type TeamVisibility map[string]bool

// Compute returns the set of entity ids visible to team: structures and
// own-team entities are always included; projectiles are always included
// once airborne; everything else is resolved per-source via the grid's
// Nearby query, giving the O(sources · nearby_entities) cost §4.7 requires
// instead of an O(sources · all_entities) scan.
func Compute(store *entity.Store, grid *spatial.Grid, team entity.Team, sources []Source, bushes []catalog.Bush) TeamVisibility {
	visible := make(TeamVisibility)
	positionOf := func(id string) (mathx.Vec2, bool) {
		e := store.Get(id)
		if e == nil {
			return mathx.Vec2{}, false
		}
		return e.Pos, true
	}

	store.Each(func(e *entity.Entity) {
		if !e.IsAlive() {
			return
		}
		if e.Kind == entity.KindProjectile {
			// Projectiles are visible to both teams once airborne (§4.7,
			// frozen design choice — see DESIGN.md).
			visible[e.ID] = true
			return
		}
		if isAlwaysVisible(e, team) {
			visible[e.ID] = true
		}
	})

	for _, src := range sources {
		for _, id := range grid.Nearby(src.Pos, src.Range, positionOf) {
			if visible[id] {
				continue
			}
			e := store.Get(id)
			if e == nil || !e.IsAlive() {
				continue
			}
			if targetBush, inBush := bushAt(bushes, e.Pos); inBush && !sourceCanSeeIntoBush(src, targetBush, bushes) {
				continue
			}
			visible[id] = true
		}
	}

	return visible
}

// isAlwaysVisible implements "structures and own-team entities are always
// visible to their team regardless of sources" (§4.7): any structure,
// allied or enemy, plus every entity belonging to this team.
func isAlwaysVisible(e *entity.Entity, team entity.Team) bool {
	switch e.Kind {
	case entity.KindTower, entity.KindInhibitor, entity.KindNexus:
		return true
	default:
		return e.Team == team
	}
}

// bushAt returns the bush containing point p, if any.
func bushAt(bushes []catalog.Bush, p mathx.Vec2) (catalog.Bush, bool) {
	for _, b := range bushes {
		if b.Contains(p[0], p[1]) {
			return b, true
		}
	}
	return catalog.Bush{}, false
}

// sourceCanSeeIntoBush reports whether src can see a target known to be
// standing inside targetBush: it must itself be inside that same bush, or
// within bush-reveal-range of its boundary (§4.7, §8 scenario 6).
func sourceCanSeeIntoBush(src Source, targetBush catalog.Bush, allBushes []catalog.Bush) bool {
	srcBush, srcInBush := bushAt(allBushes, src.Pos)
	if srcInBush && srcBush.GroupIndex == targetBush.GroupIndex && srcBush.X == targetBush.X && srcBush.Y == targetBush.Y {
		return true
	}
	return targetBush.DistanceToEdge(src.Pos[0], src.Pos[1]) <= src.BushReveal
}

// BuildSources collects the vision sources for team from the store: live
// champions and wards use the configured ranges; own structures and minions
// grant sight at champion range (§4.7).
func BuildSources(store *entity.Store, team entity.Team, ranges SightRanges) []Source {
	var sources []Source
	store.Each(func(e *entity.Entity) {
		if !e.IsAlive() || e.Team != team {
			return
		}
		switch e.Kind {
		case entity.KindChampion:
			sources = append(sources, Source{Pos: e.Pos, Range: ranges.Champion, BushReveal: ranges.BushRevealRange})
		case entity.KindWard:
			sources = append(sources, Source{Pos: e.Pos, Range: ranges.Ward, BushReveal: ranges.BushRevealRange})
		case entity.KindMinion, entity.KindTower, entity.KindInhibitor, entity.KindNexus, entity.KindJungleCamp:
			sources = append(sources, Source{Pos: e.Pos, Range: ranges.Champion, BushReveal: ranges.BushRevealRange})
		}
	})
	return sources
}
