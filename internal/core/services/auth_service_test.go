package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
	"github.com/afisha/api/internal/token"
)

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeLedger) {
	userRepo := newFakeUserRepo()
	ledger := newFakeLedger()
	tokens := token.NewManager([]byte("test-secret"), 24*time.Hour)
	return NewAuthService(userRepo, ledger, tokens), userRepo, ledger
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.Password, "password must be stored hashed")

	accessToken, loggedIn, err := svc.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// Decoded subject equals the created user's id.
	claims, err := token.NewManager([]byte("test-secret"), 24*time.Hour).Parse(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	for _, input := range []ports.RegisterInput{
		{Email: "a@x.com", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "a@x.com"},
	} {
		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, ports.RegisterInput{Name: "B", Email: "a@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, userRepo.users, 1, "no second row may be created")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "wrong"})
	_, _, unknownEmail := svc.Login(ctx, ports.LoginInput{Email: "nobody@x.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	accessToken, _, err := svc.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

// A token is accepted iff the signature verifies, it is unexpired, and it is
// not revoked. Each condition flips acceptance on its own.
func TestAuthenticateRejections(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	accessToken, user, err := svc.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("forged signature", func(t *testing.T) {
		forged, err := token.NewManager([]byte("attacker"), 24*time.Hour).Sign(user.ID)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := token.NewManager([]byte("test-secret"), -time.Minute).Sign(user.ID)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, expired)
		assert.ErrorIs(t, err, token.ErrExpired)
	})

	t.Run("revoked token", func(t *testing.T) {
		_, err := svc.Logout(ctx, accessToken)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, accessToken)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		orphan, err := token.NewManager([]byte("test-secret"), 24*time.Hour).Sign(9999)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, orphan)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestLogoutIdempotence(t *testing.T) {
	svc, _, ledger := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	accessToken, _, err := svc.Login(ctx, ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	already, err := svc.Logout(ctx, accessToken)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = svc.Logout(ctx, accessToken)
	require.NoError(t, err)
	assert.True(t, already, "second logout reports the token was already revoked")

	assert.Len(t, ledger.revoked, 1, "no duplicate revocation record")
}

func TestLogoutGarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogoutExpiredToken(t *testing.T) {
	svc, _, ledger := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	expired, err := token.NewManager([]byte("test-secret"), -time.Minute).Sign(user.ID)
	require.NoError(t, err)

	already, err := svc.Logout(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.False(t, already)
	assert.Empty(t, ledger.revoked, "an expired token must not produce a revocation record")
}

func TestLogoutOrphanSubject(t *testing.T) {
	svc, _, ledger := newTestAuthService()
	ctx := context.Background()

	orphan, err := token.NewManager([]byte("test-secret"), 24*time.Hour).Sign(9999)
	require.NoError(t, err)

	_, err = svc.Logout(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Empty(t, ledger.revoked)
}
