// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment string
	Port        string
	DatabaseURL string

	// BackendURL and BackendKey identify the backend collaborator. The key
	// signs session tokens; the URL is the base for storage endpoints and
	// public object URLs.
	BackendURL string
	BackendKey string

	StorageBucket          string
	StorageEndpoint        string
	StorageRegion          string
	StorageAccessKeyID     string
	StorageSecretAccessKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigin string

	AdminEmail    string
	AdminPassword string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	UploadLimit          int
	UploadWindow         time.Duration
	RateLimitCleanupTick time.Duration
	MaxUploadBytes       int64

	AllowedDepartments []string
}

// Load reads configuration from .env (if present) and environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	backendURL := strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_URL")), "/")
	if backendURL == "" {
		return Config{}, fmt.Errorf("BACKEND_URL is required")
	}
	backendKey := strings.TrimSpace(os.Getenv("BACKEND_KEY"))
	if backendKey == "" {
		return Config{}, fmt.Errorf("BACKEND_KEY is required")
	}

	cfg := Config{
		Environment:            getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", "sqlite://secretos.db"),
		BackendURL:             backendURL,
		BackendKey:             backendKey,
		StorageBucket:          getEnv("STORAGE_BUCKET", "attachments"),
		StorageEndpoint:        getEnv("STORAGE_ENDPOINT", backendURL+"/storage/v1/s3"),
		StorageRegion:          getEnv("STORAGE_REGION", "us-east-1"),
		StorageAccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getInt("REDIS_DB", 0),
		CORSOrigin:             getEnv("CORS_ORIGIN", "*"),
		AdminEmail:             strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		AccessTokenTTL:         getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:        getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		UploadLimit:            getInt("UPLOAD_RATE_LIMIT", 10),
		UploadWindow:           getDuration("UPLOAD_RATE_WINDOW", 5*time.Minute),
		RateLimitCleanupTick:   getDuration("RATE_LIMIT_CLEANUP_INTERVAL", 10*time.Minute),
		MaxUploadBytes:         int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		AllowedDepartments:     getList("ALLOWED_DEPARTMENTS", []string{"CONCORDIA"}),
	}

	if cfg.UploadLimit < 1 {
		cfg.UploadLimit = 1
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
