package affinity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

// Role selects which side of the affinity graph ListFor returns.
type Role string

const (
	RoleReceived Role = "received"
	RoleSent     Role = "sent"
	RoleMatches  Role = "matches"
)

// MatchEnricher produces optional AI content for an accepted affinity.
type MatchEnricher interface {
	GenerateMatchExplanation(ctx context.Context, a, b *domain.Profile) (string, error)
	GenerateIcebreakers(ctx context.Context, a, b *domain.Profile) ([]string, error)
}

type AffinityUseCase struct {
	affinityRepo repository.AffinityRepository
	profileRepo  repository.ProfileRepository
	notifier     domain.AffinityNotifier
	enricher     MatchEnricher
	logger       *slog.Logger
	now          func() time.Time
}

func NewAffinityUseCase(
	affinityRepo repository.AffinityRepository,
	profileRepo repository.ProfileRepository,
	notifier domain.AffinityNotifier,
	enricher MatchEnricher,
	logger *slog.Logger,
) *AffinityUseCase {
	return &AffinityUseCase{
		affinityRepo: affinityRepo,
		profileRepo:  profileRepo,
		notifier:     notifier,
		enricher:     enricher,
		logger:       logger,
		now:          time.Now,
	}
}

// ExpressInterest creates a pending affinity from initiator to recipient.
// The duplicate check is delegated to the repository so that check and
// insert are atomic for the ordered pair.
func (uc *AffinityUseCase) ExpressInterest(ctx context.Context, initiatorID, recipientID string) (*domain.Affinity, error) {
	if initiatorID == recipientID {
		return nil, domain.ErrSelfAffinity
	}

	initiator, err := uc.profileRepo.GetByID(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	recipient, err := uc.profileRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	score, interests := Score(initiator, recipient)
	now := uc.now()
	affinity := &domain.Affinity{
		ID:              uuid.New().String(),
		InitiatorID:     initiatorID,
		RecipientID:     recipientID,
		Status:          domain.AffinityPending,
		SimilarityScore: score,
		CommonInterests: interests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.affinityRepo.Create(ctx, affinity); err != nil {
		return nil, err
	}

	uc.notify(ctx, domain.EventAffinityReceived, affinity)
	return affinity, nil
}

// Respond resolves a pending affinity. Only the recipient may respond, and
// only once: the repository guards the pending→terminal transition.
func (uc *AffinityUseCase) Respond(ctx context.Context, affinityID string, accept bool, actingUserID string) (*domain.Affinity, error) {
	affinity, err := uc.affinityRepo.GetByID(ctx, affinityID)
	if err != nil {
		return nil, err
	}
	if affinity.RecipientID != actingUserID {
		return nil, domain.ErrForbidden
	}
	if affinity.Status != domain.AffinityPending {
		return nil, domain.ErrAffinityResolved
	}

	status := domain.AffinityRejected
	if accept {
		status = domain.AffinityAccepted
	}
	updated, err := uc.affinityRepo.UpdateStatus(ctx, affinityID, status, uc.now())
	if err != nil {
		return nil, err
	}

	if accept {
		uc.notify(ctx, domain.EventAffinityMatched, updated)
		if uc.enricher != nil {
			go uc.enrichMatch(updated.ID, updated.InitiatorID, updated.RecipientID)
		}
	} else {
		uc.notify(ctx, domain.EventAffinityRejected, updated)
	}
	return updated, nil
}

// Withdraw deletes a still-pending affinity. Only the initiator may
// withdraw; resolved records stay.
func (uc *AffinityUseCase) Withdraw(ctx context.Context, affinityID, actingUserID string) error {
	affinity, err := uc.affinityRepo.GetByID(ctx, affinityID)
	if err != nil {
		return err
	}
	if affinity.InitiatorID != actingUserID {
		return domain.ErrForbidden
	}
	return uc.affinityRepo.DeletePending(ctx, affinityID)
}

// ListFor returns the affinities visible to userID in the given role,
// ordered by updated_at descending.
func (uc *AffinityUseCase) ListFor(ctx context.Context, userID string, role Role) ([]*domain.Affinity, error) {
	switch role {
	case RoleReceived:
		return uc.affinityRepo.ListReceived(ctx, userID)
	case RoleSent:
		return uc.affinityRepo.ListSent(ctx, userID)
	case RoleMatches:
		return uc.affinityRepo.ListMatches(ctx, userID)
	default:
		return nil, &domain.ValidationError{Field: "role", Constraint: "must be received, sent or matches"}
	}
}

// notify is fire-and-forget: a sink failure never affects the persisted
// transition.
func (uc *AffinityUseCase) notify(ctx context.Context, eventType domain.AffinityEventType, affinity *domain.Affinity) {
	event := domain.AffinityEvent{
		Type:        eventType,
		AffinityID:  affinity.ID,
		InitiatorID: affinity.InitiatorID,
		RecipientID: affinity.RecipientID,
		Timestamp:   uc.now(),
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("affinity notification failed",
			"event", string(eventType),
			"affinity_id", affinity.ID,
			"error", err,
		)
	}
}

// enrichMatch asks the AI client for an explanation and icebreakers after a
// match. Runs detached from the request; all failures are logged only.
func (uc *AffinityUseCase) enrichMatch(affinityID, initiatorID, recipientID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	initiator, err := uc.profileRepo.GetByID(ctx, initiatorID)
	if err != nil {
		uc.logger.Warn("match enrichment skipped", "affinity_id", affinityID, "error", err)
		return
	}
	recipient, err := uc.profileRepo.GetByID(ctx, recipientID)
	if err != nil {
		uc.logger.Warn("match enrichment skipped", "affinity_id", affinityID, "error", err)
		return
	}

	explanation, err := uc.enricher.GenerateMatchExplanation(ctx, initiator, recipient)
	if err != nil {
		uc.logger.Warn("match explanation failed", "affinity_id", affinityID, "error", err)
		return
	}
	icebreakers, err := uc.enricher.GenerateIcebreakers(ctx, initiator, recipient)
	if err != nil {
		uc.logger.Warn("icebreaker generation failed", "affinity_id", affinityID, "error", err)
		icebreakers = nil
	}

	if err := uc.affinityRepo.UpdateEnrichment(ctx, affinityID, explanation, icebreakers); err != nil {
		uc.logger.Warn("failed to store match enrichment", "affinity_id", affinityID, "error", err)
	}
}

// ParseRole validates a role query parameter.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	switch role {
	case RoleReceived, RoleSent, RoleMatches:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}
