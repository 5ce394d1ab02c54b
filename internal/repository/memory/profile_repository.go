// Package memory provides in-memory repository implementations with the
// same semantics as the Postgres ones. They back unit tests and local runs
// without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile
	now      func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*domain.Profile),
		now:      time.Now,
	}
}

func (r *ProfileRepository) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = profile.CreatedAt
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *ProfileRepository) Update(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	profile.UpdatedAt = r.now()
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *ProfileRepository) Search(_ context.Context, filter repository.ProfileFilter, page repository.Page) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var results []*domain.Profile
	for _, profile := range r.profiles {
		if !matches(profile, filter, now) {
			continue
		}
		copied := *profile
		results = append(results, &copied)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := sortKey(results[i], filter.SortBy), sortKey(results[j], filter.SortBy)
		if a.Equal(b) {
			return results[i].ID < results[j].ID
		}
		return a.After(b)
	})

	if page.Offset >= len(results) {
		return nil, nil
	}
	results = results[page.Offset:]
	if page.Limit > 0 && page.Limit < len(results) {
		results = results[:page.Limit]
	}
	return results, nil
}

func (r *ProfileRepository) UpdatePresence(_ context.Context, id string, status domain.UserStatus, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	profile.Status = status
	profile.LastSeen = lastSeen
	profile.UpdatedAt = r.now()
	return nil
}

func sortKey(p *domain.Profile, key repository.ProfileSortKey) time.Time {
	if key == repository.SortByCreatedAt {
		return p.CreatedAt
	}
	return p.LastSeen
}

func matches(p *domain.Profile, f repository.ProfileFilter, now time.Time) bool {
	if f.MinAge != nil && p.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && p.Age > *f.MaxAge {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
		return false
	}
	if f.Country != "" && !strings.Contains(strings.ToLower(p.Country), strings.ToLower(f.Country)) {
		return false
	}
	if len(f.Emotions) > 0 && !containsEmotion(f.Emotions, p.EnergyEmotion) {
		return false
	}
	if len(f.Purposes) > 0 && !containsPurpose(f.Purposes, p.PurposeOfLife) {
		return false
	}
	if f.VerifiedOnly && !p.IsVerified {
		return false
	}
	if f.PremiumOnly && !p.IsPremium {
		return false
	}
	if f.OnlineOnly && !p.IsOnlineAt(now) {
		return false
	}
	return true
}

func containsEmotion(set []domain.EnergyEmotion, v domain.EnergyEmotion) bool {
	for _, e := range set {
		if e == v {
			return true
		}
	}
	return false
}

func containsPurpose(set []domain.PurposeOfLife, v domain.PurposeOfLife) bool {
	for _, p := range set {
		if p == v {
			return true
		}
	}
	return false
}
