package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/harambee/backend/docs"
	"github.com/harambee/backend/internal/audit"
	"github.com/harambee/backend/internal/config"
	"github.com/harambee/backend/internal/database"
	"github.com/harambee/backend/internal/metrics"
	"github.com/harambee/backend/internal/server"
	"github.com/harambee/backend/internal/services"
	"github.com/harambee/backend/internal/store"
	"github.com/harambee/backend/pkg/logging"
	"github.com/spf13/viper"
)

// @title Harambee Treasury API
// @version 1.0
// @description Member onboarding, KYC, group treasury and proposal voting
// @host localhost:8080
// @BasePath /api/users
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logging.Setup()
	cfg := config.Load()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx := context.Background()

	auditLogger := audit.NewAuditLogger(nil)
	if cfg.AuditToDatabase {
		db, err := database.InitDB()
		if err != nil {
			slog.Error("Failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := audit.EnsureSchema(ctx, db); err != nil {
			slog.Error("Failed to create audit schema", "error", err)
			os.Exit(1)
		}
		auditLogger = audit.NewAuditLogger(db)
	}

	var (
		otps     store.OTPStore     = store.NewMemoryOTPStore(cfg.OTPTTL)
		sessions store.SessionStore = store.NewMemorySessionStore(cfg.SessionTTL)
	)
	if viper.GetBool("redis.enabled") {
		if rdb := database.InitRedis(ctx); rdb != nil {
			defer closeRedis(rdb)
			otps = store.NewRedisOTPStore(rdb, cfg.OTPTTL)
			sessions = store.NewRedisSessionStore(rdb, cfg.SessionTTL)
		}
	}

	st := store.New()
	m := metrics.New()

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	svc := server.Services{
		Auth:          services.NewAuthService(st, otps, sessions, tokens, auditLogger, m, cfg.Argon2),
		KYC:           services.NewKYCService(st, auditLogger),
		Treasury:      services.NewTreasuryService(st, auditLogger, m, cfg.SyncIncrement),
		Proposals:     services.NewProposalService(st, auditLogger, m, services.WithSimulatedTally(cfg.SimulateVotes)),
		Notifications: services.NewNotificationService(st, cfg.NotifyLimit),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.NewRouter(cfg, svc, m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		slog.Warn("Failed to close Redis client", "error", err)
	}
}
