package domain

import "time"

// AffinityStatus tracks the lifecycle of an interest expression.
// pending is the only initial state; accepted and rejected are terminal.
type AffinityStatus string

const (
	AffinityPending  AffinityStatus = "pending"
	AffinityAccepted AffinityStatus = "accepted"
	AffinityRejected AffinityStatus = "rejected"
)

func (s AffinityStatus) Valid() bool {
	switch s {
	case AffinityPending, AffinityAccepted, AffinityRejected:
		return true
	}
	return false
}

// Affinity is a directed interest expression from initiator to recipient.
// At most one outstanding (pending or accepted) record may exist per
// ordered pair.
type Affinity struct {
	ID              string         `json:"id" db:"id"`
	InitiatorID     string         `json:"initiator_id" db:"initiator_id"`
	RecipientID     string         `json:"recipient_id" db:"recipient_id"`
	Status          AffinityStatus `json:"status" db:"status"`
	SimilarityScore float64        `json:"similarity_score" db:"similarity_score"`
	CommonInterests []string       `json:"common_interests" db:"common_interests"`
	Explanation     *string        `json:"explanation,omitempty" db:"explanation"`
	Icebreakers     []string       `json:"icebreakers,omitempty" db:"icebreakers"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// IsOutstanding reports whether the record blocks a new request for the
// same ordered pair.
func (a *Affinity) IsOutstanding() bool {
	return a.Status == AffinityPending || a.Status == AffinityAccepted
}

func (a *Affinity) HasUser(userID string) bool {
	return a.InitiatorID == userID || a.RecipientID == userID
}

func (a *Affinity) OtherUserID(userID string) (string, bool) {
	if a.InitiatorID == userID {
		return a.RecipientID, true
	}
	if a.RecipientID == userID {
		return a.InitiatorID, true
	}
	return "", false
}
