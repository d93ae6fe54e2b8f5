package ports

import (
	"context"
	"time"

	"github.com/afisha/api/internal/core/domain"
)

// TokenLedger records tokens revoked before their natural expiry. Revoke is
// an idempotent insert; double-revoking the same token is not an error.
type TokenLedger interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed access token plus the user it belongs to.
	Login(ctx context.Context, input LoginInput) (string, *domain.User, error)
	// Logout blacklists the raw token string. alreadyRevoked is true when the
	// token had been logged out before; that is a success, not an error.
	Logout(ctx context.Context, rawToken string) (alreadyRevoked bool, err error)
	// Authenticate resolves a raw bearer token to a user. It fails unless the
	// signature verifies, the token is unexpired, the subject still exists and
	// the token is not in the revocation ledger, in that order.
	Authenticate(ctx context.Context, rawToken string) (*domain.User, error)
}
