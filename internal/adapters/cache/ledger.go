package cache

import (
	"context"
	"time"

	"github.com/afisha/api/internal/core/ports"
)

const revokedKeyPrefix = "revoked:"

// Ledger wraps a TokenLedger with a read-through cache on the revocation
// check, which runs on every authenticated request. Only confirmed
// revocations are cached, so a cache miss always falls back to the store and
// a freshly revoked token is never reported as valid.
type Ledger struct {
	next     ports.TokenLedger
	client   Client
	tokenTTL time.Duration
}

// tokenTTL caps cache entries made on the read path, where the token's own
// expiry is not at hand.
func NewLedger(next ports.TokenLedger, client Client, tokenTTL time.Duration) *Ledger {
	return &Ledger{next: next, client: client, tokenTTL: tokenTTL}
}

func (l *Ledger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if err := l.next.Revoke(ctx, token, expiresAt); err != nil {
		return err
	}
	l.remember(ctx, token, expiresAt)
	return nil
}

func (l *Ledger) IsRevoked(ctx context.Context, token string) (bool, error) {
	if _, err := l.client.Get(ctx, revokedKeyPrefix+token); err == nil {
		return true, nil
	}

	revoked, err := l.next.IsRevoked(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		l.remember(ctx, token, time.Now().Add(l.tokenTTL))
	}
	return revoked, nil
}

func (l *Ledger) DeleteExpired(ctx context.Context) (int64, error) {
	return l.next.DeleteExpired(ctx)
}

func (l *Ledger) remember(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	// Cache errors are not correctness errors; the store stays authoritative.
	_ = l.client.Set(ctx, revokedKeyPrefix+token, "1", ttl)
}
