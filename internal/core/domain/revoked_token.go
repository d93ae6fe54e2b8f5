package domain

import (
	"time"
)

// RevokedToken is a blacklist entry for a token that was logged out before
// its natural expiry. ExpiresAt mirrors the token's own exp claim so the
// record can be garbage-collected once the token would be rejected anyway.
type RevokedToken struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
