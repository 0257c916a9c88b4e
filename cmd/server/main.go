package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/admin"
	"github.com/sujalbistaa/secretos/internal/auth"
	"github.com/sujalbistaa/secretos/internal/cache"
	"github.com/sujalbistaa/secretos/internal/config"
	"github.com/sujalbistaa/secretos/internal/db"
	routes "github.com/sujalbistaa/secretos/internal/http"
	"github.com/sujalbistaa/secretos/internal/logging"
	"github.com/sujalbistaa/secretos/internal/ratelimit"
	"github.com/sujalbistaa/secretos/internal/repository"
	"github.com/sujalbistaa/secretos/internal/service"
	"github.com/sujalbistaa/secretos/internal/storage"
	"github.com/sujalbistaa/secretos/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	database, err := db.Init(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("running database migrations")
	if err := db.Migrate(database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	schools := repository.NewSchoolRepository(database)
	secrets := repository.NewSecretRepository(database)
	images := repository.NewImageRepository(database)
	users := repository.NewAdminUserRepository(database)

	// 2. Sessions
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to reach redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		sessions = auth.NewRedisSessionStore(rdb)
		logger.Info("refresh tokens stored in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		tokens := cache.New[string, uint](cfg.RefreshTokenTTL, 10*time.Minute)
		defer tokens.Close()
		sessions = auth.NewMemorySessionStore(tokens)
		logger.Info("refresh tokens stored in memory")
	}

	authService := auth.NewService(users, sessions, cfg.BackendKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if cfg.AdminEmail != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("failed to bootstrap admin user", zap.Error(err))
		}
		if created {
			logger.Info("admin user created", zap.String("email", cfg.AdminEmail))
		}
	}

	// 3. Object storage
	store, err := storage.NewS3Store(ctx, storage.Options{
		Endpoint:        cfg.StorageEndpoint,
		Region:          cfg.StorageRegion,
		AccessKeyID:     cfg.StorageAccessKeyID,
		SecretAccessKey: cfg.StorageSecretAccessKey,
		Bucket:          cfg.StorageBucket,
		PublicBaseURL:   cfg.BackendURL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	// 4. Upload limiter and websocket hub
	limiter := ratelimit.New()
	limiter.StartCleanup(ctx, cfg.RateLimitCleanupTick)

	hub := ws.NewHub(logger)
	go hub.Run()

	tables := cache.New[uint, *admin.Table](cfg.RefreshTokenTTL, 10*time.Minute)
	defer tables.Close()

	env := &routes.Env{
		Posts:   service.NewPostService(schools, secrets),
		Images:  service.NewImageService(images, store),
		Auth:    authService,
		Tables:  admin.NewRegistry(admin.NewBackend(secrets), tables),
		Limiter: limiter,
		Events:  hub,
		Log:     logger,
		Settings: routes.Settings{
			UploadLimit:        cfg.UploadLimit,
			UploadWindow:       cfg.UploadWindow,
			MaxUploadBytes:     cfg.MaxUploadBytes,
			AllowedDepartments: cfg.AllowedDepartments,
		},
	}

	// 5. Router
	router := gin.New()
	routes.SetupRoutes(ctx, router, env, hub, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exiting")
}
