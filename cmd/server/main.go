package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/afisha/api/internal/adapters/cache"
	"github.com/afisha/api/internal/adapters/handler/http"
	"github.com/afisha/api/internal/adapters/repository/postgres"
	"github.com/afisha/api/internal/config"
	"github.com/afisha/api/internal/core/ports"
	"github.com/afisha/api/internal/core/services"
	"github.com/afisha/api/internal/metrics"
	"github.com/afisha/api/internal/rate"
	"github.com/afisha/api/internal/token"
)

func main() {
	// .env is optional; in containers everything comes from the real env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	cacheClient, err := newCacheClient(cfg)
	if err != nil {
		logger.Fatal("failed to init cache", zap.Error(err))
	}
	defer cacheClient.Close()

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)

	var ledger ports.TokenLedger = postgres.NewRevokedTokenRepository(db)
	ledger = cache.NewLedger(ledger, cacheClient, cfg.TokenTTL)

	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)

	authService := services.NewAuthService(userRepo, ledger, tokens)
	eventService := services.NewEventService(eventRepo, cfg.DailyEventLimit)
	participantService := services.NewParticipantService(eventRepo, participantRepo)
	userService := services.NewUserService(userRepo)

	authLimiter := rate.NewWindowLimiter(cacheClient, "auth:", cfg.AuthRateMax, cfg.AuthRateWindow)

	handler := http.NewHandler(
		logger,
		authService,
		authLimiter,
		http.NewAuthHandler(authService),
		http.NewEventHandler(eventService, participantService),
		http.NewUserHandler(userService),
	)
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeRevokedTokens(ctx, ledger, cfg.PurgeInterval, logger)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}
}

func newCacheClient(cfg *config.Config) (cache.Client, error) {
	if cfg.CacheDriver == "redis" {
		return cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "afisha:")
	}
	return cache.NewMemory(), nil
}

// purgeRevokedTokens drops blacklist rows whose tokens have expired anyway.
// Purely housekeeping: an expired token fails verification regardless.
func purgeRevokedTokens(ctx context.Context, ledger ports.TokenLedger, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ledger.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("failed to purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				metrics.RevokedTokensPurged.Add(float64(n))
				logger.Info("purged revoked tokens", zap.Int64("count", n))
			}
		}
	}
}
