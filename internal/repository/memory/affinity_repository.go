package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/latidoapp/latido-backend/internal/domain"
)

type AffinityRepository struct {
	mu         sync.Mutex
	affinities map[string]*domain.Affinity
}

func NewAffinityRepository() *AffinityRepository {
	return &AffinityRepository{
		affinities: make(map[string]*domain.Affinity),
	}
}

// Create enforces the outstanding-pair invariant under the repository
// mutex, mirroring the partial unique index in Postgres.
func (r *AffinityRepository) Create(_ context.Context, affinity *domain.Affinity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.affinities {
		if existing.InitiatorID == affinity.InitiatorID &&
			existing.RecipientID == affinity.RecipientID &&
			existing.IsOutstanding() {
			return domain.ErrAffinityExists
		}
	}
	stored := *affinity
	stored.CommonInterests = append([]string(nil), affinity.CommonInterests...)
	r.affinities[affinity.ID] = &stored
	return nil
}

func (r *AffinityRepository) GetByID(_ context.Context, id string) (*domain.Affinity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affinity, ok := r.affinities[id]
	if !ok {
		return nil, domain.ErrAffinityNotFound
	}
	copied := copyAffinity(affinity)
	return &copied, nil
}

func (r *AffinityRepository) UpdateStatus(_ context.Context, id string, status domain.AffinityStatus, updatedAt time.Time) (*domain.Affinity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affinity, ok := r.affinities[id]
	if !ok {
		return nil, domain.ErrAffinityNotFound
	}
	if affinity.Status != domain.AffinityPending {
		return nil, domain.ErrAffinityResolved
	}
	affinity.Status = status
	affinity.UpdatedAt = updatedAt
	copied := copyAffinity(affinity)
	return &copied, nil
}

func (r *AffinityRepository) DeletePending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	affinity, ok := r.affinities[id]
	if !ok {
		return domain.ErrAffinityNotFound
	}
	if affinity.Status != domain.AffinityPending {
		return domain.ErrAffinityResolved
	}
	delete(r.affinities, id)
	return nil
}

func (r *AffinityRepository) UpdateEnrichment(_ context.Context, id string, explanation string, icebreakers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	affinity, ok := r.affinities[id]
	if !ok {
		return domain.ErrAffinityNotFound
	}
	affinity.Explanation = &explanation
	affinity.Icebreakers = append([]string(nil), icebreakers...)
	return nil
}

func (r *AffinityRepository) ListReceived(_ context.Context, recipientID string) ([]*domain.Affinity, error) {
	return r.list(func(a *domain.Affinity) bool {
		return a.RecipientID == recipientID
	}), nil
}

func (r *AffinityRepository) ListSent(_ context.Context, initiatorID string) ([]*domain.Affinity, error) {
	return r.list(func(a *domain.Affinity) bool {
		return a.InitiatorID == initiatorID
	}), nil
}

func (r *AffinityRepository) ListMatches(_ context.Context, userID string) ([]*domain.Affinity, error) {
	return r.list(func(a *domain.Affinity) bool {
		return a.Status == domain.AffinityAccepted && a.HasUser(userID)
	}), nil
}

func (r *AffinityRepository) list(keep func(*domain.Affinity) bool) []*domain.Affinity {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*domain.Affinity
	for _, affinity := range r.affinities {
		if keep(affinity) {
			copied := copyAffinity(affinity)
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].UpdatedAt.Equal(results[j].UpdatedAt) {
			return results[i].ID < results[j].ID
		}
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})
	return results
}

func copyAffinity(a *domain.Affinity) domain.Affinity {
	copied := *a
	copied.CommonInterests = append([]string(nil), a.CommonInterests...)
	copied.Icebreakers = append([]string(nil), a.Icebreakers...)
	return copied
}
