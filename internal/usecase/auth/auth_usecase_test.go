package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuth() (*AuthUseCase, *memory.ProfileRepository) {
	profileRepo := memory.NewProfileRepository()
	return NewAuthUseCase(memory.NewUserRepository(), profileRepo, testSecret, 60), profileRepo
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:         "ana@example.com",
		Password:      "secret-pass",
		DisplayName:   "Ana",
		Age:           26,
		City:          "Madrid",
		Country:       "España",
		EnergyEmotion: string(domain.EmotionAlegre),
		PurposeOfLife: string(domain.PurposeTrueLove),
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	uc, profiles := newTestAuth()

	result, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.False(t, result.ExpiresAt.IsZero())
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Ana", result.Profile.DisplayName)
	assert.Equal(t, domain.StatusAvailable, result.Profile.Status)

	// Profile id doubles as the user id
	stored, err := profiles.GetByID(context.Background(), result.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.DisplayName, stored.DisplayName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newTestAuth()

	_, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterRejectsInvalidProfile(t *testing.T) {
	uc, _ := newTestAuth()

	req := registerRequest()
	req.EnergyEmotion = "furious"

	_, err := uc.Register(context.Background(), req)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "energy_emotion", vErr.Field)
}

func TestLoginRoundtrip(t *testing.T) {
	uc, _ := newTestAuth()

	registered, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	result, err := uc.Login(context.Background(), "ana@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.Profile.ID, result.Profile.ID)

	userID, err := uc.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.Profile.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newTestAuth()

	_, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "ana@example.com", "not-the-pass")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	uc, _ := newTestAuth()

	_, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	uc, _ := newTestAuth()

	_, err := uc.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	uc, _ := newTestAuth()
	other := NewAuthUseCase(memory.NewUserRepository(), memory.NewProfileRepository(), "ffffffffffffffffffffffffffffffff", 60)

	result, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = other.ParseToken(result.Token)
	assert.Error(t, err)
}
