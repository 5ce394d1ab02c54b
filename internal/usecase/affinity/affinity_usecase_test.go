package affinity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository/memory"
)

// fakeNotifier records every event it receives; optionally it fails.
type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.AffinityEvent
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, event domain.AffinityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeNotifier) Events() []domain.AffinityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AffinityEvent(nil), f.events...)
}

func newTestUseCase(t *testing.T) (*AffinityUseCase, *memory.ProfileRepository, *fakeNotifier) {
	t.Helper()
	profileRepo := memory.NewProfileRepository()
	affinityRepo := memory.NewAffinityRepository()
	sink := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := NewAffinityUseCase(affinityRepo, profileRepo, sink, nil, logger)
	return uc, profileRepo, sink
}

func seedProfile(t *testing.T, repo *memory.ProfileRepository, id string, emotion domain.EnergyEmotion, purpose domain.PurposeOfLife) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Profile{
		ID:            id,
		DisplayName:   "user " + id,
		Age:           28,
		City:          "Madrid",
		Country:       "España",
		EnergyEmotion: emotion,
		PurposeOfLife: purpose,
		Status:        domain.StatusAvailable,
	})
	require.NoError(t, err)
}

func TestExpressInterestCreatesPending(t *testing.T) {
	uc, profiles, sink := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionAlegre, domain.PurposeTrueLove)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	assert.Equal(t, domain.AffinityPending, affinity.Status)
	assert.Equal(t, "u1", affinity.InitiatorID)
	assert.Equal(t, "u2", affinity.RecipientID)
	assert.Greater(t, affinity.SimilarityScore, 0.0)
	assert.NotEmpty(t, affinity.CommonInterests)
	assert.False(t, affinity.UpdatedAt.Before(affinity.CreatedAt))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAffinityReceived, events[0].Type)
	assert.Equal(t, affinity.ID, events[0].AffinityID)
	assert.Equal(t, "u1", events[0].InitiatorID)
	assert.Equal(t, "u2", events[0].RecipientID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestExpressInterestSelfReference(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)

	_, err := uc.ExpressInterest(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, domain.ErrSelfAffinity)
}

func TestExpressInterestDuplicate(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	_, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	_, err = uc.ExpressInterest(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, domain.ErrAffinityExists)
}

func TestExpressInterestUnknownProfile(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)

	_, err := uc.ExpressInterest(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestExpressInterestSinkFailureIsIgnored(t *testing.T) {
	uc, profiles, sink := newTestUseCase(t)
	sink.err = errors.New("redis down")
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionAlegre, domain.PurposeTrueLove)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	// The record is durable even though delivery failed
	listed, err := uc.ListFor(context.Background(), "u2", RoleReceived)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, affinity.ID, listed[0].ID)
}

func TestRespondAccept(t *testing.T) {
	uc, profiles, sink := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionAlegre, domain.PurposeTrueLove)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	updated, err := uc.Respond(context.Background(), affinity.ID, true, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.AffinityAccepted, updated.Status)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventAffinityMatched, events[1].Type)
}

func TestRespondReject(t *testing.T) {
	uc, profiles, sink := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	updated, err := uc.Respond(context.Background(), affinity.ID, false, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.AffinityRejected, updated.Status)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventAffinityRejected, events[1].Type)
}

func TestRespondOnlyRecipientMay(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)
	seedProfile(t, profiles, "u3", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	_, err = uc.Respond(context.Background(), affinity.ID, true, "u1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Respond(context.Background(), affinity.ID, true, "u3")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRespondTwiceFails(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	first, err := uc.Respond(context.Background(), affinity.ID, true, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.AffinityAccepted, first.Status)

	_, err = uc.Respond(context.Background(), affinity.ID, false, "u2")
	assert.ErrorIs(t, err, domain.ErrAffinityResolved)
}

func TestRespondUnknownAffinity(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.Respond(context.Background(), "missing", true, "u2")
	assert.ErrorIs(t, err, domain.ErrAffinityNotFound)
}

func TestListForReceivedIncludesPending(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	received, err := uc.ListFor(context.Background(), "u2", RoleReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, affinity.ID, received[0].ID)
	assert.Equal(t, domain.AffinityPending, received[0].Status)

	sent, err := uc.ListFor(context.Background(), "u1", RoleSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, affinity.ID, sent[0].ID)
}

func TestListForMatchesOnlyAfterAccept(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	matches, err := uc.ListFor(context.Background(), "u1", RoleMatches)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = uc.Respond(context.Background(), affinity.ID, true, "u2")
	require.NoError(t, err)

	// Acceptance alone establishes mutuality for both sides
	for _, userID := range []string{"u1", "u2"} {
		matches, err = uc.ListFor(context.Background(), userID, RoleMatches)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, affinity.ID, matches[0].ID)
	}
}

func TestListForUnknownRole(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.ListFor(context.Background(), "u1", Role("friends"))
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRejectedPairAllowsNewRequest(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	rejected, err := uc.Respond(context.Background(), affinity.ID, false, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.AffinityRejected, rejected.Status)

	// Only pending/accepted block a new request; rejected is terminal history
	again, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.NotEqual(t, affinity.ID, again.ID)
	assert.Equal(t, domain.AffinityPending, again.Status)
}

func TestAcceptedPairBlocksNewRequest(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)
	_, err = uc.Respond(context.Background(), affinity.ID, true, "u2")
	require.NoError(t, err)

	_, err = uc.ExpressInterest(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, domain.ErrAffinityExists)
}

func TestReverseDirectionIsNotADuplicate(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	_, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	// The invariant is per ordered pair
	_, err = uc.ExpressInterest(context.Background(), "u2", "u1")
	assert.NoError(t, err)
}

func TestWithdrawPending(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	require.NoError(t, uc.Withdraw(context.Background(), affinity.ID, "u1"))

	received, err := uc.ListFor(context.Background(), "u2", RoleReceived)
	require.NoError(t, err)
	assert.Empty(t, received)

	// Withdrawal frees the pair for a new request
	_, err = uc.ExpressInterest(context.Background(), "u1", "u2")
	assert.NoError(t, err)
}

func TestWithdrawOnlyInitiatorMay(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	err = uc.Withdraw(context.Background(), affinity.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWithdrawResolvedFails(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "u1", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "u2", domain.EmotionCalma, domain.PurposeFamily)

	affinity, err := uc.ExpressInterest(context.Background(), "u1", "u2")
	require.NoError(t, err)
	_, err = uc.Respond(context.Background(), affinity.ID, true, "u2")
	require.NoError(t, err)

	err = uc.Withdraw(context.Background(), affinity.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrAffinityResolved)
}

func TestSharedAttributesScoreHigherThanDisjoint(t *testing.T) {
	uc, profiles, _ := newTestUseCase(t)
	seedProfile(t, profiles, "a", domain.EmotionAlegre, domain.PurposeTrueLove)
	seedProfile(t, profiles, "b", domain.EmotionAlegre, domain.PurposeTrueLove)
	require.NoError(t, profiles.Create(context.Background(), &domain.Profile{
		ID:            "c",
		DisplayName:   "user c",
		Age:           62,
		City:          "Santiago",
		Country:       "Chile",
		EnergyEmotion: domain.EmotionMisteriosa,
		PurposeOfLife: domain.PurposeCareer,
		Status:        domain.StatusAvailable,
	}))

	ab, err := uc.ExpressInterest(context.Background(), "a", "b")
	require.NoError(t, err)
	ac, err := uc.ExpressInterest(context.Background(), "a", "c")
	require.NoError(t, err)

	assert.Greater(t, ab.SimilarityScore, ac.SimilarityScore)
	assert.NotEmpty(t, ab.CommonInterests)
	assert.Empty(t, ac.CommonInterests)
}
