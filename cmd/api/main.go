package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kohi-api/config"
	v1 "kohi-api/internal/delivery/http/v1"
	"kohi-api/internal/domain"
	"kohi-api/internal/repository/postgres"
	"kohi-api/internal/usecase"
	"kohi-api/migrations"
	"kohi-api/pkg/database"
	"kohi-api/pkg/email"
	"kohi-api/pkg/logger"
	redisclient "kohi-api/pkg/redis"
	"kohi-api/pkg/security"
	"kohi-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// @title           kohi API
// @version         1.0
// @description     Contact form and blog backend for the kohi personal site.
// @BasePath        /api
// @securityDefinitions.basic BasicAuth
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.IsProduction())
	secLog := security.InitSecurityLogger("kohi-api", cfg.Environment)
	defer secLog.Sync()
	logger.Log.Info("Starting kohi api", "port", cfg.Port, "env", cfg.Environment)

	ctx := context.Background()

	// 3. Optional Database
	var (
		dbPool      *pgxpool.Pool
		contactRepo domain.ContactRepository
		postRepo    domain.PostRepository
		dbCheck     usecase.HealthChecker
	)
	if cfg.PersistenceEnabled() {
		if cfg.MigrateOnStart {
			if err := runMigrations(cfg.DBUrl); err != nil {
				logger.Log.Error("Failed to run migrations", "error", err)
				os.Exit(1)
			}
		}

		dbPool, err = database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		contactRepo = postgres.NewContactRepository(dbPool)
		postRepo = postgres.NewPostRepository(dbPool)
		dbCheck = usecase.PingChecker(dbPool)
	} else {
		logger.Log.Warn("DATABASE_URL not set - messages are not stored and admin is unavailable")
	}

	// 4. Optional Redis
	var (
		rdb        *goredis.Client
		redisCheck usecase.HealthChecker
	)
	if cfg.RateLimitEnabled() {
		rdb, err = redisclient.NewClient(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			// Rate limiting is optional; keep serving without it.
			logger.Log.Error("Failed to connect to redis - contact rate limit disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
			redisCheck = func(ctx context.Context) error { return redisclient.HealthCheck(ctx, rdb) }
		}
	}

	// 5. Setup Email Dispatcher
	dispatcher := email.NewDispatcher(cfg)
	if !dispatcher.IsConfigured() {
		logger.Log.Warn("Email provider not fully configured - contact form will be unavailable")
	}
	if !cfg.AdminEnabled() {
		logger.Log.Warn("ADMIN_USER/ADMIN_PASS not set - admin endpoints are disabled")
	}

	// 6. Setup UseCases
	validate := validation.New()
	contactUC := usecase.NewContactUsecase(contactRepo, dispatcher, validate, secLog, usecase.ContactConfig{
		MinElapsed:         cfg.ContactMinElapsed,
		RequirePersistence: cfg.ContactRequirePersistence,
	})
	postUC := usecase.NewPostUsecase(postRepo, validate)
	healthUC := usecase.NewHealthUsecase(dbCheck, redisCheck, dispatcher)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		PostUC:         postUC,
		HealthUC:       healthUC,
		Redis:          rdb,
		SecurityLogger: secLog,
		Config:         cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func runMigrations(dbURL string) error {
	m, err := database.NewMigrator(dbURL, migrations.FS, migrations.Dir)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
