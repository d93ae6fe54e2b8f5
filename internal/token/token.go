// Package token mints and verifies the HS256 access tokens used by the API.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("token: invalid token")
	ErrExpired = errors.New("token: token expired")
)

// Claims is the JWT payload. The subject is the numeric user id.
type Claims struct {
	UserID int64 `json:"id"`
	jwtlib.RegisteredClaims
}

// Manager signs and parses access tokens with a single shared secret. It is
// constructed once at startup and injected wherever tokens are needed.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// TTL returns the validity window tokens are minted with.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Sign creates a signed token for the given user id, valid for the
// manager's TTL starting now.
func (m *Manager) Sign(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse validates the signature and expiry of a raw token and returns its
// claims. Expired tokens yield ErrExpired; anything else wrong with the
// token yields ErrInvalid.
func (m *Manager) Parse(raw string) (*Claims, error) {
	t, err := jwtlib.ParseWithClaims(raw, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
