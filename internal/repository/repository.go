package repository

import (
	"context"
	"time"

	"github.com/latidoapp/latido-backend/internal/domain"
)

// ProfileSortKey selects the search result ordering. Ties always break by
// id ascending so pagination is deterministic.
type ProfileSortKey string

const (
	SortByLastSeen  ProfileSortKey = "last_seen"
	SortByCreatedAt ProfileSortKey = "created_at"
)

// ProfileFilter is a conjunction of search predicates. Zero values mean
// "no constraint".
type ProfileFilter struct {
	MinAge       *int
	MaxAge       *int
	City         string // substring, case-insensitive
	Country      string // substring, case-insensitive
	Emotions     []domain.EnergyEmotion
	Purposes     []domain.PurposeOfLife
	VerifiedOnly bool
	PremiumOnly  bool
	OnlineOnly   bool
	SortBy       ProfileSortKey
}

type Page struct {
	Limit  int
	Offset int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Search(ctx context.Context, filter ProfileFilter, page Page) ([]*domain.Profile, error)
	UpdatePresence(ctx context.Context, id string, status domain.UserStatus, lastSeen time.Time) error
}

type AffinityRepository interface {
	// Create persists a new pending record. It must be atomic with respect
	// to the outstanding-pair invariant: a concurrent Create for the same
	// ordered pair returns domain.ErrAffinityExists.
	Create(ctx context.Context, affinity *domain.Affinity) error
	GetByID(ctx context.Context, id string) (*domain.Affinity, error)
	// UpdateStatus transitions a record out of pending. It returns
	// domain.ErrAffinityResolved when the record already left pending, so
	// concurrent responders serialize on the row.
	UpdateStatus(ctx context.Context, id string, status domain.AffinityStatus, updatedAt time.Time) (*domain.Affinity, error)
	// DeletePending removes a still-pending record (withdrawal).
	DeletePending(ctx context.Context, id string) error
	UpdateEnrichment(ctx context.Context, id string, explanation string, icebreakers []string) error
	ListReceived(ctx context.Context, recipientID string) ([]*domain.Affinity, error)
	ListSent(ctx context.Context, initiatorID string) ([]*domain.Affinity, error)
	ListMatches(ctx context.Context, userID string) ([]*domain.Affinity, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
