package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// BusyPolicy controls what happens when a manual sync or recalculation is
// requested while a cycle for the same tournament is already in flight.
type BusyPolicy string

const (
	BusyReject BusyPolicy = "reject"
	BusyWait   BusyPolicy = "wait"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL  string
	ServerPort   int
	JWTSecretKey string

	// Bcrypt hash of the single admin password.
	AdminPasswordHash string

	// Results provider (Slash Golf via RapidAPI).
	GolfAPIKey     string
	GolfAPIHost    string
	GolfAPIBaseURL string
	DefaultOrgID   string

	// Scheduler defaults.
	SyncInterval    time.Duration
	SyncMinInterval time.Duration
	SyncStartHour   int
	SyncStopHour    int
	SyncBusyPolicy  BusyPolicy

	CORSOrigins []string

	// Optional cycle archive (Cloudflare R2). Enabled when all fields are set.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally loading a
// .env file first (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is not set")
	}

	apiKey := os.Getenv("GOLF_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOLF_API_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	intervalSec, err := intEnv("SYNC_INTERVAL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	minIntervalSec, err := intEnv("SYNC_MIN_INTERVAL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	startHour, err := intEnv("SYNC_START_HOUR", 6)
	if err != nil {
		return nil, err
	}
	stopHour, err := intEnv("SYNC_STOP_HOUR", 23)
	if err != nil {
		return nil, err
	}
	if startHour < 0 || startHour > 23 || stopHour < 0 || stopHour > 23 {
		return nil, fmt.Errorf("SYNC_START_HOUR and SYNC_STOP_HOUR must be within 0..23")
	}

	policy := BusyPolicy(strings.ToLower(envOrDefault("SYNC_BUSY_POLICY", string(BusyReject))))
	if policy != BusyReject && policy != BusyWait {
		return nil, fmt.Errorf("SYNC_BUSY_POLICY must be %q or %q, got %q", BusyReject, BusyWait, policy)
	}

	origins := strings.Split(envOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		JWTSecretKey:      jwtKey,
		AdminPasswordHash: adminHash,
		GolfAPIKey:        apiKey,
		GolfAPIHost:       envOrDefault("GOLF_API_HOST", "live-golf-data.p.rapidapi.com"),
		GolfAPIBaseURL:    envOrDefault("GOLF_API_BASE_URL", "https://live-golf-data.p.rapidapi.com"),
		DefaultOrgID:      envOrDefault("GOLF_DEFAULT_ORG_ID", "1"),
		SyncInterval:      time.Duration(intervalSec) * time.Second,
		SyncMinInterval:   time.Duration(minIntervalSec) * time.Second,
		SyncStartHour:     startHour,
		SyncStopHour:      stopHour,
		SyncBusyPolicy:    policy,
		CORSOrigins:       origins,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.SyncInterval < cfg.SyncMinInterval {
		return nil, fmt.Errorf("SYNC_INTERVAL_SECONDS (%d) is below the minimum of %d", intervalSec, minIntervalSec)
	}

	return cfg, nil
}

// ArchiveEnabled reports whether the optional R2 cycle archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
