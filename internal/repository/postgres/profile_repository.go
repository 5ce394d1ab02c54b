package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, display_name, age, city, country, avatar_url,
			energy_emotion, purpose_of_life, what_seeking, what_inspires,
			is_verified, is_premium, beats_balance, status, last_seen
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.DisplayName, profile.Age, profile.City, profile.Country,
		profile.AvatarURL, profile.EnergyEmotion, profile.PurposeOfLife,
		profile.WhatSeeking, profile.WhatInspires,
		profile.IsVerified, profile.IsPremium, profile.BeatsBalance,
		profile.Status, profile.LastSeen,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT * FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, age = $2, city = $3, country = $4, avatar_url = $5,
		    energy_emotion = $6, purpose_of_life = $7,
		    what_seeking = $8, what_inspires = $9,
		    is_verified = $10, is_premium = $11, beats_balance = $12,
		    status = $13, last_seen = $14,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $15
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.DisplayName, profile.Age, profile.City, profile.Country, profile.AvatarURL,
		profile.EnergyEmotion, profile.PurposeOfLife,
		profile.WhatSeeking, profile.WhatInspires,
		profile.IsVerified, profile.IsPremium, profile.BeatsBalance,
		profile.Status, profile.LastSeen,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) Search(ctx context.Context, filter repository.ProfileFilter, page repository.Page) ([]*domain.Profile, error) {
	query := `SELECT * FROM profiles WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter.MinAge != nil {
		query += fmt.Sprintf(" AND age >= $%d", argCount)
		args = append(args, *filter.MinAge)
		argCount++
	}
	if filter.MaxAge != nil {
		query += fmt.Sprintf(" AND age <= $%d", argCount)
		args = append(args, *filter.MaxAge)
		argCount++
	}
	if filter.City != "" {
		query += fmt.Sprintf(" AND city ILIKE $%d", argCount)
		args = append(args, "%"+filter.City+"%")
		argCount++
	}
	if filter.Country != "" {
		query += fmt.Sprintf(" AND country ILIKE $%d", argCount)
		args = append(args, "%"+filter.Country+"%")
		argCount++
	}
	if len(filter.Emotions) > 0 {
		emotions := make([]string, len(filter.Emotions))
		for i, e := range filter.Emotions {
			emotions[i] = string(e)
		}
		query += fmt.Sprintf(" AND energy_emotion = ANY($%d)", argCount)
		args = append(args, pq.Array(emotions))
		argCount++
	}
	if len(filter.Purposes) > 0 {
		purposes := make([]string, len(filter.Purposes))
		for i, p := range filter.Purposes {
			purposes[i] = string(p)
		}
		query += fmt.Sprintf(" AND purpose_of_life = ANY($%d)", argCount)
		args = append(args, pq.Array(purposes))
		argCount++
	}
	if filter.VerifiedOnly {
		query += " AND is_verified = true"
	}
	if filter.PremiumOnly {
		query += " AND is_premium = true"
	}
	if filter.OnlineOnly {
		query += fmt.Sprintf(" AND status <> 'offline' AND last_seen > $%d", argCount)
		args = append(args, time.Now().Add(-domain.OnlineWindow))
		argCount++
	}

	sortKey := "last_seen"
	if filter.SortBy == repository.SortByCreatedAt {
		sortKey = "created_at"
	}
	query += fmt.Sprintf(" ORDER BY %s DESC, id ASC LIMIT $%d OFFSET $%d", sortKey, argCount, argCount+1)
	args = append(args, page.Limit, page.Offset)

	var profiles []*domain.Profile
	err := r.db.SelectContext(ctx, &profiles, query, args...)
	return profiles, err
}

func (r *profileRepository) UpdatePresence(ctx context.Context, id string, status domain.UserStatus, lastSeen time.Time) error {
	query := `
		UPDATE profiles
		SET status = $1, last_seen = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, lastSeen, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
