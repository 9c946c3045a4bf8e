package reward

import (
	"context"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/logging"
)

const (
	// EventItemGrantFailed is emitted when the shop fails to add an item to an inventory.
	EventItemGrantFailed logging.EventType = "reward.item_grant_failed"
	// EventGoldAwarded is emitted whenever a champion is credited gold.
	EventGoldAwarded logging.EventType = "reward.gold_awarded"
	// EventXPAwarded is emitted whenever a champion is credited experience.
	EventXPAwarded logging.EventType = "reward.xp_awarded"
)

// ItemGrantFailedPayload describes the attempted item grant.
type ItemGrantFailedPayload struct {
	ItemType string `json:"itemType"`
	Reason   string `json:"reason,omitempty"`
}

// GoldAwardedPayload describes a direct gold credit to a champion.
type GoldAwardedPayload struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// XPAwardedPayload describes a direct experience credit to a champion.
type XPAwardedPayload struct {
	Amount    int  `json:"amount"`
	NewLevel  int  `json:"newLevel,omitempty"`
	LeveledUp bool `json:"leveledUp,omitempty"`
}

// ItemGrantFailed publishes an event for a failed shop purchase.
func ItemGrantFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemGrantFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventItemGrantFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "reward",
		Payload:  payload,
	})
}

// GoldAwarded publishes a gold credit event.
func GoldAwarded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GoldAwardedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGoldAwarded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "reward",
		Payload:  payload,
	})
}

// XPAwarded publishes an experience credit event.
func XPAwarded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload XPAwardedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventXPAwarded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "reward",
		Payload:  payload,
	})
}
