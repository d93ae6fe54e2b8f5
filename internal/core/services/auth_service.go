package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
	"github.com/afisha/api/internal/token"
)

const bcryptCost = 10

type AuthService struct {
	userRepo ports.UserRepository
	ledger   ports.TokenLedger
	tokens   *token.Manager
}

func NewAuthService(userRepo ports.UserRepository, ledger ports.TokenLedger, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		ledger:   ledger,
		tokens:   tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	// Hashing happens here, once, as part of registration. Never in a
	// persistence hook.
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (string, *domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return "", nil, domain.ErrValidation
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	// Unknown email and wrong password are deliberately the same error.
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Sign(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return accessToken, user, nil
}

func (s *AuthService) Logout(ctx context.Context, rawToken string) (bool, error) {
	// Same gate as Authenticate: an expired or malformed token cannot be
	// logged out, and the subject must still exist. Only the revocation
	// check is skipped, so a second logout stays a success.
	claims, err := s.tokens.Parse(rawToken)
	if err != nil || claims.ExpiresAt == nil {
		return false, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return false, domain.ErrInvalidToken
	}

	revoked, err := s.ledger.IsRevoked(ctx, rawToken)
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return true, nil
	}

	// The insert is an upsert, so a concurrent double-logout of the same
	// token converges without coordination.
	if err := s.ledger.Revoke(ctx, rawToken, claims.ExpiresAt.Time); err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return false, nil
}

func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	// Signature and expiry are checked before anything touches a store, so a
	// garbage token costs no lookup.
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, err
		}
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	revoked, err := s.ledger.IsRevoked(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return user, nil
}
