package domain

import (
	"context"
	"time"
)

type AffinityEventType string

const (
	EventAffinityReceived AffinityEventType = "affinity_received"
	EventAffinityMatched  AffinityEventType = "affinity_matched"
	EventAffinityRejected AffinityEventType = "affinity_rejected"
)

// AffinityEvent is published to the notification sink on every state change.
type AffinityEvent struct {
	Type        AffinityEventType `json:"type"`
	AffinityID  string            `json:"affinity_id"`
	InitiatorID string            `json:"initiator_id"`
	RecipientID string            `json:"recipient_id"`
	Timestamp   time.Time         `json:"timestamp"`
}

// AffinityNotifier delivers events to the notification system. Delivery is
// best-effort: callers must not roll back state when Notify fails.
type AffinityNotifier interface {
	Notify(ctx context.Context, event AffinityEvent) error
}
