package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on outstanding (initiator_id, recipient_id) pairs.
const uniqueViolation = "23505"

type affinityRepository struct {
	db *sqlx.DB
}

func NewAffinityRepository(db *sqlx.DB) repository.AffinityRepository {
	return &affinityRepository{db: db}
}

func (r *affinityRepository) Create(ctx context.Context, affinity *domain.Affinity) error {
	query := `
		INSERT INTO affinities (
			id, initiator_id, recipient_id, status,
			similarity_score, common_interests, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(
		ctx, query,
		affinity.ID, affinity.InitiatorID, affinity.RecipientID, affinity.Status,
		affinity.SimilarityScore, pq.Array(affinity.CommonInterests),
		affinity.CreatedAt, affinity.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrAffinityExists
	}
	return err
}

func (r *affinityRepository) GetByID(ctx context.Context, id string) (*domain.Affinity, error) {
	var affinity domain.Affinity
	query := `
		SELECT id, initiator_id, recipient_id, status, similarity_score,
		       common_interests, explanation, icebreakers, created_at, updated_at
		FROM affinities WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&affinity.ID, &affinity.InitiatorID, &affinity.RecipientID, &affinity.Status,
		&affinity.SimilarityScore, pq.Array(&affinity.CommonInterests),
		&affinity.Explanation, pq.Array(&affinity.Icebreakers),
		&affinity.CreatedAt, &affinity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAffinityNotFound
		}
		return nil, err
	}
	return &affinity, nil
}

func (r *affinityRepository) UpdateStatus(ctx context.Context, id string, status domain.AffinityStatus, updatedAt time.Time) (*domain.Affinity, error) {
	// The status guard makes concurrent responders serialize on the row:
	// only the first update observes pending.
	query := `
		UPDATE affinities
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'
		RETURNING id, initiator_id, recipient_id, status, similarity_score,
		          common_interests, explanation, icebreakers, created_at, updated_at
	`
	var affinity domain.Affinity
	err := r.db.QueryRowContext(ctx, query, status, updatedAt, id).Scan(
		&affinity.ID, &affinity.InitiatorID, &affinity.RecipientID, &affinity.Status,
		&affinity.SimilarityScore, pq.Array(&affinity.CommonInterests),
		&affinity.Explanation, pq.Array(&affinity.Icebreakers),
		&affinity.CreatedAt, &affinity.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAffinityResolved
	}
	if err != nil {
		return nil, err
	}
	return &affinity, nil
}

func (r *affinityRepository) DeletePending(ctx context.Context, id string) error {
	query := `DELETE FROM affinities WHERE id = $1 AND status = 'pending'`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return domain.ErrAffinityResolved
	}
	return nil
}

func (r *affinityRepository) UpdateEnrichment(ctx context.Context, id string, explanation string, icebreakers []string) error {
	query := `UPDATE affinities SET explanation = $1, icebreakers = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, explanation, pq.Array(icebreakers), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAffinityNotFound
	}
	return nil
}

func (r *affinityRepository) ListReceived(ctx context.Context, recipientID string) ([]*domain.Affinity, error) {
	return r.list(ctx, `recipient_id = $1`, recipientID)
}

func (r *affinityRepository) ListSent(ctx context.Context, initiatorID string) ([]*domain.Affinity, error) {
	return r.list(ctx, `initiator_id = $1`, initiatorID)
}

func (r *affinityRepository) ListMatches(ctx context.Context, userID string) ([]*domain.Affinity, error) {
	return r.list(ctx, `status = 'accepted' AND (initiator_id = $1 OR recipient_id = $1)`, userID)
}

func (r *affinityRepository) list(ctx context.Context, where string, arg interface{}) ([]*domain.Affinity, error) {
	query := `
		SELECT id, initiator_id, recipient_id, status, similarity_score,
		       common_interests, explanation, icebreakers, created_at, updated_at
		FROM affinities
		WHERE ` + where + `
		ORDER BY updated_at DESC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var affinities []*domain.Affinity
	for rows.Next() {
		var affinity domain.Affinity
		err := rows.Scan(
			&affinity.ID, &affinity.InitiatorID, &affinity.RecipientID, &affinity.Status,
			&affinity.SimilarityScore, pq.Array(&affinity.CommonInterests),
			&affinity.Explanation, pq.Array(&affinity.Icebreakers),
			&affinity.CreatedAt, &affinity.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		affinities = append(affinities, &affinity)
	}
	return affinities, rows.Err()
}
