package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/afisha/api/internal/adapters/cache"
	handler "github.com/afisha/api/internal/adapters/handler/http"
	repo "github.com/afisha/api/internal/adapters/repository/postgres"
	"github.com/afisha/api/internal/core/ports"
	"github.com/afisha/api/internal/core/services"
	"github.com/afisha/api/internal/rate"
	"github.com/afisha/api/internal/token"
)

const (
	testJWTSecret  = "test-secret"
	testDailyLimit = 5
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Tokens      *token.Manager
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dirPath, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	cacheClient := cache.NewMemory()
	tokens := token.NewManager([]byte(testJWTSecret), 24*time.Hour)

	userRepo := repo.NewUserRepository(db)
	eventRepo := repo.NewEventRepository(db)
	participantRepo := repo.NewParticipantRepository(db)

	var ledger ports.TokenLedger = repo.NewRevokedTokenRepository(db)
	ledger = cache.NewLedger(ledger, cacheClient, 24*time.Hour)

	authSvc := services.NewAuthService(userRepo, ledger, tokens)
	eventSvc := services.NewEventService(eventRepo, testDailyLimit)
	participantSvc := services.NewParticipantService(eventRepo, participantRepo)
	userSvc := services.NewUserService(userRepo)

	// Generous window so only the dedicated test trips the limiter.
	limiter := rate.NewWindowLimiter(cacheClient, "auth:", 1000, time.Minute)

	router := handler.NewHandler(
		zap.NewNop(),
		authSvc,
		limiter,
		handler.NewAuthHandler(authSvc),
		handler.NewEventHandler(eventSvc, participantSvc),
		handler.NewUserHandler(userSvc),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Tokens:      tokens,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}

func (app *TestApp) postJSON(t *testing.T, path, bearer string, body any) *http.Response {
	t.Helper()
	return app.doJSON(t, http.MethodPost, path, bearer, body)
}

func (app *TestApp) doJSON(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type userBody struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerBody struct {
	Message string   `json:"message"`
	User    userBody `json:"user"`
}

type loginBody struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

type messageBody struct {
	Message string `json:"message"`
}

type eventBody struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	CreatedBy   int64     `json:"created_by"`
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// uniqueEmail returns an address that cannot collide with earlier test runs
// against the same container.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString())
}

// registerAndLogin creates a fresh user through the API and returns its
// projection plus a live access token.
func (app *TestApp) registerAndLogin(t *testing.T, name, email, password string) (userBody, string) {
	t.Helper()

	resp := app.postJSON(t, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody[registerBody](t, resp)

	resp = app.postJSON(t, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loggedIn := decodeBody[loginBody](t, resp)

	return registered.User, loggedIn.Token
}
