package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/repository"
)

type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtSecret string,
	accessExpiryMin int,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    time.Duration(accessExpiryMin) * time.Minute,
	}
}

// RegisterRequest creates a credential record and its profile in one step;
// registration in this product always completes the profile.
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8,max=72"`
	DisplayName   string `json:"display_name" binding:"required,min=2,max=100"`
	Age           int    `json:"age" binding:"required,min=18,max=100"`
	City          string `json:"city" binding:"required,max=100"`
	Country       string `json:"country" binding:"required,max=100"`
	EnergyEmotion string `json:"energy_emotion" binding:"required,energy_emotion"`
	PurposeOfLife string `json:"purpose_of_life" binding:"required,purpose_of_life"`
	WhatSeeking   string `json:"what_seeking" binding:"omitempty,max=500"`
	WhatInspires  string `json:"what_inspires" binding:"omitempty,max=500"`
}

type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *domain.Profile `json:"profile"`
}

// Register creates the user and their profile, then issues a token.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &domain.Profile{
		ID:            user.ID,
		DisplayName:   req.DisplayName,
		Age:           req.Age,
		City:          req.City,
		Country:       req.Country,
		EnergyEmotion: domain.EnergyEmotion(req.EnergyEmotion),
		PurposeOfLife: domain.PurposeOfLife(req.PurposeOfLife),
		WhatSeeking:   req.WhatSeeking,
		WhatInspires:  req.WhatInspires,
		Status:        domain.StatusAvailable,
		LastSeen:      now,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return uc.issueToken(user.ID, profile)
}

// Login verifies credentials and issues a token.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrBadCredentials
	}

	profile, err := uc.profileRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return uc.issueToken(user.ID, profile)
}

// ParseToken validates a bearer token and returns the user id.
func (uc *AuthUseCase) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

func (uc *AuthUseCase) issueToken(userID string, profile *domain.Profile) (*AuthResult, error) {
	expiresAt := time.Now().Add(uc.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		Profile:   profile,
	}, nil
}
