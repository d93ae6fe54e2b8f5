package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afisha/api/internal/token"
)

func TestRegisterLoginAndAccessProtectedRoute(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	email := uniqueEmail("alice")
	user, accessToken := app.registerAndLogin(t, "Alice", email, "sup3rsecret")

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, email, user.Email)
	assert.NotZero(t, user.ID)

	resp := app.doJSON(t, http.MethodGet, "/api/me", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := decodeBody[userBody](t, resp)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, email, me.Email)
}

func TestLoginWithWrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	email := uniqueEmail("bob")
	app.registerAndLogin(t, "Bob", email, "correct-password")

	resp := app.postJSON(t, "/auth/login", "", map[string]string{
		"email": email, "password": "wrong-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	wrongPass := decodeBody[messageBody](t, resp)

	// An unknown email must produce the exact same response so callers
	// cannot probe which addresses are registered.
	resp = app.postJSON(t, "/auth/login", "", map[string]string{
		"email": uniqueEmail("nobody"), "password": "whatever",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	unknownEmail := decodeBody[messageBody](t, resp)
	assert.Equal(t, wrongPass.Message, unknownEmail.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, accessToken := app.registerAndLogin(t, "Carol", uniqueEmail("carol"), "sup3rsecret")

	resp := app.doJSON(t, http.MethodGet, "/api/me", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.postJSON(t, "/auth/logout", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logged out", decodeBody[messageBody](t, resp).Message)

	// The token is still well-formed and unexpired, but must now be refused.
	resp = app.doJSON(t, http.MethodGet, "/api/me", accessToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", decodeBody[messageBody](t, resp).Message)
}

func TestLogoutIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, accessToken := app.registerAndLogin(t, "Dave", uniqueEmail("dave"), "sup3rsecret")

	resp := app.postJSON(t, "/auth/logout", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logged out", decodeBody[messageBody](t, resp).Message)

	resp = app.postJSON(t, "/auth/logout", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "already logged out", decodeBody[messageBody](t, resp).Message)

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM revoked_tokens WHERE token = $1", accessToken).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLogoutRejectsExpiredToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	user, _ := app.registerAndLogin(t, "Eve", uniqueEmail("eve"), "sup3rsecret")

	// Correctly signed for an existing user, but past its expiry.
	expired, err := token.NewManager([]byte(testJWTSecret), -time.Minute).Sign(user.ID)
	require.NoError(t, err)

	resp := app.postJSON(t, "/auth/logout", expired, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", decodeBody[messageBody](t, resp).Message)

	var count int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM revoked_tokens WHERE token = $1", expired).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count, "expired tokens must not be recorded in the ledger")
}

func TestProtectedRouteRejectsBadTokens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	for name, header := range map[string]string{
		"no header":      "",
		"garbage token":  "not-a-jwt",
		"forged payload": "eyJhbGciOiJIUzI1NiJ9.eyJpZCI6MX0.forgedsignature",
	} {
		t.Run(name, func(t *testing.T) {
			resp := app.doJSON(t, http.MethodGet, "/api/me", header, nil)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "unauthorized", decodeBody[messageBody](t, resp).Message)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	email := uniqueEmail("erin")
	app.registerAndLogin(t, "Erin", email, "sup3rsecret")

	resp := app.postJSON(t, "/auth/register", "", map[string]string{
		"name": "Imposter", "email": email, "password": "other-pass",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetUserByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	user, _ := app.registerAndLogin(t, "Frank", uniqueEmail("frank"), "sup3rsecret")

	resp := app.doJSON(t, http.MethodGet, "/api/users/"+itoa(user.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fetched := decodeBody[userBody](t, resp)
	assert.Equal(t, user, fetched)

	resp = app.doJSON(t, http.MethodGet, "/api/users/999999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
