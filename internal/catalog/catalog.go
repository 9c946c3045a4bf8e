// Package catalog loads the read-only content tables the core consumes at
// session init (§6): champion and ability definitions, effect definitions,
// and map geometry including deterministic bush layout. The catalog is the
// only process-wide state shared across sessions (§9); it is immutable once
// loaded.
package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable, process-wide content table set.
type Catalog struct {
	Champions map[string]ChampionDef
	Abilities map[string]AbilityDef
	Effects   map[string]EffectDef
	Map       MapGeometry
}

// source mirrors the on-disk YAML shape before conversion into the lookup
// maps callers actually want.
type source struct {
	Champions []ChampionDef `yaml:"champions"`
	Abilities []AbilityDef  `yaml:"abilities"`
	Effects   []EffectDef   `yaml:"effects"`
	Map       MapGeometry   `yaml:"map"`
}

// Load parses a catalog document (internal/config/default_catalog.yaml shows
// the expected shape) and validates referential integrity between
// champions, abilities, and effects.
func Load(data []byte) (*Catalog, error) {
	var src source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	cat := &Catalog{
		Champions: make(map[string]ChampionDef, len(src.Champions)),
		Abilities: make(map[string]AbilityDef, len(src.Abilities)),
		Effects:   make(map[string]EffectDef, len(src.Effects)),
		Map:       src.Map,
	}
	for _, c := range src.Champions {
		cat.Champions[c.ID] = c
	}
	for _, a := range src.Abilities {
		cat.Abilities[a.ID] = a
	}
	for _, e := range src.Effects {
		cat.Effects[e.ID] = e
	}

	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("catalog: validate: %w", err)
	}
	return cat, nil
}

// validate checks referential integrity: every champion's ability slots must
// resolve, and every ability's keyframe effect references must resolve.
// A champion's passive id is not checked. A catalog that fails this is a session-fatal error (§7): it must
// fail session start, never surface mid-tick.
func (c *Catalog) validate() error {
	for id, champ := range c.Champions {
		for slot, abilityID := range champ.AbilitySlots {
			if abilityID == "" {
				continue
			}
			if _, ok := c.Abilities[abilityID]; !ok {
				return fmt.Errorf("champion %q: slot %q references unknown ability %q", id, slot, abilityID)
			}
		}
	}
	for id, ability := range c.Abilities {
		for _, kf := range ability.Keyframes {
			if kf.Trigger.Effect != "" {
				if _, ok := c.Effects[kf.Trigger.Effect]; !ok {
					return fmt.Errorf("ability %q: keyframe references unknown effect %q", id, kf.Trigger.Effect)
				}
			}
		}
	}
	return nil
}

// Ability looks up an ability definition, reporting the catalog-lookup-miss
// failure mode of §7 (caller fails the cast, does not crash).
func (c *Catalog) Ability(id string) (AbilityDef, bool) {
	a, ok := c.Abilities[id]
	return a, ok
}

// Effect looks up an effect definition.
func (c *Catalog) Effect(id string) (EffectDef, bool) {
	e, ok := c.Effects[id]
	return e, ok
}

// Champion looks up a champion definition.
func (c *Catalog) Champion(id string) (ChampionDef, bool) {
	ch, ok := c.Champions[id]
	return ch, ok
}
