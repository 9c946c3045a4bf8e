package catalog

import "github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"

// ChampionDef is the read-only per-champion content row (§6): base stats,
// growth curve, ability slot assignments, passive id, collision shape, and
// animation descriptor references.
type ChampionDef struct {
	ID           string                        `yaml:"id"`
	Name         string                        `yaml:"name"`
	Base         entity.BaseStats              `yaml:"base"`
	AbilitySlots map[string]string             `yaml:"abilitySlots"` // "Q"/"W"/"E"/"R" -> ability id
	PassiveID    string                        `yaml:"passiveId"`
	Shape        ShapeDef                      `yaml:"shape"`
	Animations   map[string]AnimationDef       `yaml:"animations"` // keyed by action name, e.g. "Q", "basicAttack"
}

// ShapeDef mirrors entity.Shape in a YAML-friendly shape.
type ShapeDef struct {
	Kind string  `yaml:"kind"`
	R    float64 `yaml:"r"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// TargetType enumerates how an ability selects its target (§6).
type TargetType string

const (
	TargetSelf         TargetType = "self"
	TargetEnemy        TargetType = "target_enemy"
	TargetAlly         TargetType = "target_ally"
	TargetAny          TargetType = "target_any"
	TargetSkillshot    TargetType = "skillshot"
	TargetGround       TargetType = "ground_target"
	TargetNone         TargetType = "no_target"
)

// AbilityShape enumerates the area-of-effect geometry an ability applies.
type AbilityShape string

const (
	ShapeSingle    AbilityShape = "single"
	ShapeLine      AbilityShape = "line"
	ShapeCone      AbilityShape = "cone"
	ShapeCircleAoE AbilityShape = "circle"
	ShapeRectAoE   AbilityShape = "rectangle"
)

// RankStats carries the per-rank cost/cooldown/damage curve (§6).
type RankStats struct {
	ResourceCost   float64 `yaml:"resourceCost"`
	Cooldown       float64 `yaml:"cooldownSeconds"`
	DamageBase     float64 `yaml:"damageBase"`
	DamagePerLevel float64 `yaml:"damagePerLevel"`
	Radius         float64 `yaml:"radius"`
	Length         float64 `yaml:"length"`
}

// AffectFlags gates effect application per target kind (§9): default true
// for champions/minions/jungle, default false for towers/wards, matching
// the spec's stated defaults. A nil *bool on load means "use the default".
type AffectFlags struct {
	Champions *bool `yaml:"affectsChampions"`
	Minions   *bool `yaml:"affectsMinions"`
	Towers    *bool `yaml:"affectsTowers"`
	Jungle    *bool `yaml:"affectsJungle"`
	Wards     *bool `yaml:"affectsWards"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Affects reports whether the ability's flags permit it to hit the given
// entity kind, applying the §6/§9 defaults when a flag is unset.
func (f AffectFlags) Affects(kind entity.Kind) bool {
	switch kind {
	case entity.KindChampion:
		return boolOr(f.Champions, true)
	case entity.KindMinion:
		return boolOr(f.Minions, true)
	case entity.KindJungleCamp:
		return boolOr(f.Jungle, true)
	case entity.KindTower, entity.KindInhibitor, entity.KindNexus:
		return boolOr(f.Towers, false)
	case entity.KindWard:
		return boolOr(f.Wards, false)
	default:
		return true
	}
}

// TriggerKind tags the side effect a keyframe fires (§3).
type TriggerKind string

const (
	TriggerDamage     TriggerKind = "damage"
	TriggerProjectile TriggerKind = "projectile"
	TriggerEffect     TriggerKind = "effect"
	TriggerSound      TriggerKind = "sound"
	TriggerVFX        TriggerKind = "vfx"
)

// Trigger is the tagged union carried by an animation keyframe.
type Trigger struct {
	Kind   TriggerKind `yaml:"kind"`
	Effect string      `yaml:"effect,omitempty"`
	Sound  string       `yaml:"sound,omitempty"`
	VFX    string       `yaml:"vfx,omitempty"`
}

// Keyframe is a single (frame_index, trigger) entry in an animation (§3).
type Keyframe struct {
	FrameIndex int     `yaml:"frame"`
	Trigger    Trigger `yaml:"trigger"`
}

// AnimationDef is the read-only animation descriptor (§3).
type AnimationDef struct {
	TotalFrames       int        `yaml:"totalFrames"`
	BaseFrameDuration float64    `yaml:"baseFrameDuration"` // seconds
	Loop              bool       `yaml:"loop"`
	Keyframes         []Keyframe `yaml:"keyframes"`
}

// KeyframeTime returns the time of frame k under the given speed multiplier:
// k * baseFrameDuration / speed (§3).
func (a AnimationDef) KeyframeTime(frameIndex int, speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	return float64(frameIndex) * a.BaseFrameDuration / speed
}

// AbilityDef is the read-only per-ability content row (§6).
type AbilityDef struct {
	ID             string       `yaml:"id"`
	TargetType     TargetType   `yaml:"targetType"`
	MaxRank        int          `yaml:"maxRank"`
	Ranks          []RankStats  `yaml:"ranks"` // index 0 = rank 1
	Shape          AbilityShape `yaml:"shape"`
	Keyframes      []Keyframe   `yaml:"keyframes"`
	Affects        AffectFlags  `yaml:"affects"`
	ScalesCastSpeed bool        `yaml:"scalesCastSpeed"`
	IsBasicAttack   bool        `yaml:"isBasicAttack"`
}

// RankFor returns the rank-indexed stats, clamping to the valid range.
func (a AbilityDef) RankFor(rank int) RankStats {
	if rank < 1 {
		rank = 1
	}
	if rank > len(a.Ranks) {
		rank = len(a.Ranks)
	}
	if rank < 1 || len(a.Ranks) == 0 {
		return RankStats{}
	}
	return a.Ranks[rank-1]
}

// StackingPolicy enumerates how a repeated effect application combines with
// an existing active instance (§3).
type StackingPolicy string

const (
	StackRefresh StackingPolicy = "refresh"
	StackExtend  StackingPolicy = "extend"
	StackStack   StackingPolicy = "stack"
	StackReplace StackingPolicy = "replace"
	StackIgnore  StackingPolicy = "ignore"
)

// CCKind enumerates the crowd-control family an effect may apply (§3/GLOSSARY).
type CCKind string

const (
	CCNone      CCKind = ""
	CCStun      CCKind = "stun"
	CCSilence   CCKind = "silence"
	CCRoot      CCKind = "root"
	CCGrounded  CCKind = "grounded"
	CCDisarm    CCKind = "disarm"
	CCKnockup   CCKind = "knockup"
)

// EffectCategory enumerates the effect families of §3.
type EffectCategory string

const (
	CategoryBuff  EffectCategory = "buff"
	CategoryDebuff EffectCategory = "debuff"
	CategoryCC    EffectCategory = "cc"
	CategoryDOT   EffectCategory = "dot"
	CategoryHOT   EffectCategory = "hot"
	CategoryShield EffectCategory = "shield"
	CategoryAura  EffectCategory = "aura"
)

// EffectDef is the read-only catalog entry for an effect (§3).
type EffectDef struct {
	ID                   string                  `yaml:"id"`
	Category             EffectCategory          `yaml:"category"`
	CC                   CCKind                  `yaml:"cc"`
	StatModifiers        []entity.StatModifier   `yaml:"statModifiers"`
	TickInterval         float64                 `yaml:"tickIntervalSeconds"`
	Cleansable           bool                    `yaml:"cleansable"`
	PersistsThroughDeath bool                    `yaml:"persistsThroughDeath"`
	Stacking             StackingPolicy          `yaml:"stacking"`
	MaxStacks            int                     `yaml:"maxStacks"`
	DurationSeconds      float64                 `yaml:"durationSeconds"`
	ScalesWithLevel      bool                    `yaml:"scalesWithLevel"`
	DamagePerTick        float64                 `yaml:"damagePerTick"`
	HealPerTick          float64                 `yaml:"healPerTick"`
	TrueDamage           bool                    `yaml:"trueDamage"`
}

// InvalidatesCast reports whether this effect's CC kind is hard enough to
// interrupt a pending cast (§4.4 interruption semantics).
func (e EffectDef) InvalidatesCast() bool {
	switch e.CC {
	case CCStun, CCSilence, CCKnockup, CCRoot:
		return true
	default:
		return false
	}
}
