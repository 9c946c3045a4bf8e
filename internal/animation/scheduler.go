// Package animation implements the keyframe-triggered action scheduler of
// §4.4: casting an ability schedules one action per animation keyframe at
// (now + keyframeTime), and the scheduler fires them in strict
// non-decreasing trigger-time order with ties broken by insertion order.
package animation

import (
	"sort"
	"time"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/catalog"
)

// ActionKind distinguishes what a scheduled action resolves to once fired.
type ActionKind string

const (
	ActionDamage     ActionKind = "damage"
	ActionProjectile ActionKind = "projectile"
	ActionEffect     ActionKind = "effect"
	ActionSound      ActionKind = "sound"
	ActionVFX        ActionKind = "vfx"
)

// Payload carries whatever the firing callback needs to execute the action;
// it is opaque to the scheduler itself.
type Payload struct {
	CasterID   string
	AbilityID  string
	TargetID   string
	TargetX    float64
	TargetY    float64
	EffectID   string
	SoundID    string
	VFXID      string
	CastSeq    uint64 // identifies which cast this action belongs to, for interruption
}

// ScheduledAction is (entity_id, action_kind, absolute_trigger_time, payload)
// per §3.
type ScheduledAction struct {
	EntityID    string
	Kind        ActionKind
	TriggerTime time.Duration // absolute sim time
	Payload     Payload

	insertSeq uint64
	fired     bool
}

// Scheduler is the trigger-time-keyed multiset described in §4.4/§9: a
// sorted slice is sufficient since per-entity pending actions are few, and
// a secondary entity-id index makes cancellation O(k).
type Scheduler struct {
	actions  []*ScheduledAction
	byEntity map[string][]*ScheduledAction
	nextSeq  uint64
	now      time.Duration
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{byEntity: make(map[string][]*ScheduledAction)}
}

// Schedule inserts the action in trigger-time order (§4.4 scheduler contract).
func (s *Scheduler) Schedule(a ScheduledAction) *ScheduledAction {
	s.nextSeq++
	a.insertSeq = s.nextSeq
	stored := &a
	idx := sort.Search(len(s.actions), func(i int) bool {
		if s.actions[i].TriggerTime != stored.TriggerTime {
			return s.actions[i].TriggerTime > stored.TriggerTime
		}
		return s.actions[i].insertSeq > stored.insertSeq
	})
	s.actions = append(s.actions, nil)
	copy(s.actions[idx+1:], s.actions[idx:])
	s.actions[idx] = stored
	s.byEntity[stored.EntityID] = append(s.byEntity[stored.EntityID], stored)
	return stored
}

// Advance fires every action whose trigger time is <= the new accumulated
// time, in order, invoking callback exactly once per action, then removes
// it (§4.4 scheduler contract, §8 idempotence law).
func (s *Scheduler) Advance(dt time.Duration, callback func(ScheduledAction)) {
	s.now += dt
	i := 0
	for i < len(s.actions) && s.actions[i].TriggerTime <= s.now {
		action := s.actions[i]
		action.fired = true
		callback(*action)
		i++
	}
	if i == 0 {
		return
	}
	fired := s.actions[:i]
	s.actions = append([]*ScheduledAction{}, s.actions[i:]...)
	for _, action := range fired {
		s.removeFromEntityIndex(action)
	}
}

// Cancel removes all pending actions owned by entityID, optionally
// restricted to one action kind (§3, §4.4). Actions that have already fired
// are not retroactively cancellable.
func (s *Scheduler) Cancel(entityID string, kind *ActionKind) int {
	pending := s.byEntity[entityID]
	if len(pending) == 0 {
		return 0
	}
	removedSet := make(map[*ScheduledAction]bool)
	kept := pending[:0]
	for _, action := range pending {
		if action.fired {
			kept = append(kept, action)
			continue
		}
		if kind != nil && action.Kind != *kind {
			kept = append(kept, action)
			continue
		}
		removedSet[action] = true
	}
	s.byEntity[entityID] = kept

	if len(removedSet) == 0 {
		return 0
	}
	filtered := s.actions[:0]
	for _, action := range s.actions {
		if !removedSet[action] {
			filtered = append(filtered, action)
		}
	}
	s.actions = filtered
	return len(removedSet)
}

// CancelByCast removes only the actions belonging to a specific cast
// sequence, used when interruption must cancel one cast but leave a
// champion's other pending actions (e.g. a DoT tick) untouched.
func (s *Scheduler) CancelByCast(entityID string, castSeq uint64) int {
	pending := s.byEntity[entityID]
	removedSet := make(map[*ScheduledAction]bool)
	kept := pending[:0]
	for _, action := range pending {
		if !action.fired && action.Payload.CastSeq == castSeq {
			removedSet[action] = true
			continue
		}
		kept = append(kept, action)
	}
	s.byEntity[entityID] = kept
	if len(removedSet) == 0 {
		return 0
	}
	filtered := s.actions[:0]
	for _, action := range s.actions {
		if !removedSet[action] {
			filtered = append(filtered, action)
		}
	}
	s.actions = filtered
	return len(removedSet)
}

// Pending reports the number of not-yet-fired actions owned by entityID.
func (s *Scheduler) Pending(entityID string) int {
	return len(s.byEntity[entityID])
}

func (s *Scheduler) removeFromEntityIndex(action *ScheduledAction) {
	list := s.byEntity[action.EntityID]
	for i, a := range list {
		if a == action {
			s.byEntity[action.EntityID] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// ScheduleAnimation schedules one action per keyframe of anim, starting at
// castTime, scaled by speed: the time of frame k is
// k * baseFrameDuration / speed (§3, §8 scenario 3).
func ScheduleAnimation(s *Scheduler, entityID string, anim catalog.AnimationDef, castTime time.Duration, speed float64, castSeq uint64, basePayload Payload) []*ScheduledAction {
	var scheduled []*ScheduledAction
	for _, kf := range anim.Keyframes {
		offset := time.Duration(anim.KeyframeTime(kf.FrameIndex, speed) * float64(time.Second))
		payload := basePayload
		payload.CastSeq = castSeq
		var kind ActionKind
		switch kf.Trigger.Kind {
		case catalog.TriggerDamage:
			kind = ActionDamage
		case catalog.TriggerProjectile:
			kind = ActionProjectile
		case catalog.TriggerEffect:
			kind = ActionEffect
			payload.EffectID = kf.Trigger.Effect
		case catalog.TriggerSound:
			kind = ActionSound
			payload.SoundID = kf.Trigger.Sound
		case catalog.TriggerVFX:
			kind = ActionVFX
			payload.VFXID = kf.Trigger.VFX
		}
		scheduled = append(scheduled, s.Schedule(ScheduledAction{
			EntityID:    entityID,
			Kind:        kind,
			TriggerTime: castTime + offset,
			Payload:     payload,
		}))
	}
	return scheduled
}
