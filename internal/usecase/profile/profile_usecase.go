package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// UpdateProfileRequest carries a partial update; nil fields are untouched.
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,min=2,max=100"`
	Age           *int    `json:"age" binding:"omitempty,min=18,max=100"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	Country       *string `json:"country" binding:"omitempty,max=100"`
	AvatarURL     *string `json:"avatar_url" binding:"omitempty,url"`
	EnergyEmotion *string `json:"energy_emotion" binding:"omitempty,energy_emotion"`
	PurposeOfLife *string `json:"purpose_of_life" binding:"omitempty,purpose_of_life"`
	WhatSeeking   *string `json:"what_seeking" binding:"omitempty,max=500"`
	WhatInspires  *string `json:"what_inspires" binding:"omitempty,max=500"`
}

// SearchRequest mirrors the search filters the UI offers.
type SearchRequest struct {
	MinAge       *int     `form:"min_age" binding:"omitempty,min=18,max=100"`
	MaxAge       *int     `form:"max_age" binding:"omitempty,min=18,max=100"`
	City         string   `form:"city"`
	Country      string   `form:"country"`
	Emotions     []string `form:"energy_emotion" binding:"omitempty,dive,energy_emotion"`
	Purposes     []string `form:"purpose_of_life" binding:"omitempty,dive,purpose_of_life"`
	VerifiedOnly bool     `form:"verified_only"`
	PremiumOnly  bool     `form:"premium_only"`
	OnlineOnly   bool     `form:"online_only"`
	SortBy       string   `form:"sort_by" binding:"omitempty,oneof=last_seen created_at"`
	Limit        int      `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset       int      `form:"offset" binding:"omitempty,min=0"`
}

// GetByID returns a single profile.
func (uc *ProfileUseCase) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return uc.profileRepo.GetByID(ctx, id)
}

// Update applies a partial update after re-validating the result at the
// domain boundary. Enum values outside the closed sets and out-of-range
// ages are rejected with a ValidationError.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.EnergyEmotion != nil {
		profile.EnergyEmotion = domain.EnergyEmotion(*req.EnergyEmotion)
	}
	if req.PurposeOfLife != nil {
		profile.PurposeOfLife = domain.PurposeOfLife(*req.PurposeOfLife)
	}
	if req.WhatSeeking != nil {
		profile.WhatSeeking = *req.WhatSeeking
	}
	if req.WhatInspires != nil {
		profile.WhatInspires = *req.WhatInspires
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Search runs the filtered, paginated profile search.
func (uc *ProfileUseCase) Search(ctx context.Context, req *SearchRequest) ([]*domain.Profile, error) {
	filter := repository.ProfileFilter{
		MinAge:       req.MinAge,
		MaxAge:       req.MaxAge,
		City:         req.City,
		Country:      req.Country,
		VerifiedOnly: req.VerifiedOnly,
		PremiumOnly:  req.PremiumOnly,
		OnlineOnly:   req.OnlineOnly,
		SortBy:       repository.SortByLastSeen,
	}
	for _, e := range req.Emotions {
		emotion := domain.EnergyEmotion(e)
		if !emotion.Valid() {
			return nil, &domain.ValidationError{Field: "energy_emotion", Constraint: "unknown value"}
		}
		filter.Emotions = append(filter.Emotions, emotion)
	}
	for _, p := range req.Purposes {
		purpose := domain.PurposeOfLife(p)
		if !purpose.Valid() {
			return nil, &domain.ValidationError{Field: "purpose_of_life", Constraint: "unknown value"}
		}
		filter.Purposes = append(filter.Purposes, purpose)
	}
	if req.SortBy == string(repository.SortByCreatedAt) {
		filter.SortBy = repository.SortByCreatedAt
	}

	page := repository.Page{Limit: req.Limit, Offset: req.Offset}
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}

	return uc.profileRepo.Search(ctx, filter, page)
}

// Heartbeat bumps presence for the acting user.
func (uc *ProfileUseCase) Heartbeat(ctx context.Context, userID string, status domain.UserStatus) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Constraint: "unknown value"}
	}
	return uc.profileRepo.UpdatePresence(ctx, userID, status, uc.now())
}
