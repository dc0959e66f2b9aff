package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"smarttrash-backend/internal/routing"
	"smarttrash-backend/internal/services"
)

// Config is the server configuration read from the environment
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
	FCMTopic                  string
	TrashFullThreshold        float64

	RouteMaxDistanceKm float64
	RouteStrategy      routing.Strategy

	TelemetryRatePerSec float64
	TelemetryBurst      int
}

const (
	defaultPort               = "8080"
	defaultCredentialsFile    = "./firebase-service-account.json"
	defaultTrashFullThreshold = 80
	defaultTelemetryRate      = 20
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// LoadDotEnv loads .env into the process environment. It reports whether
// the file was found.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// FromEnv builds a Config from the process environment
func FromEnv() (*Config, error) {
	return Parse(os.Getenv)
}

// Parse builds a Config from getenv, applying defaults for unset values
func Parse(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                      getenv("PORT"),
		DatabaseURL:               getenv("DATABASE_URL"),
		JWTSecret:                 getenv("APP_JWT_SECRET"),
		FirebaseCredentialsBase64: getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   getenv("FIREBASE_CREDENTIALS_FILE"),
		FCMTopic:                  getenv("FCM_TOPIC"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.FirebaseCredentialsFile == "" {
		cfg.FirebaseCredentialsFile = defaultCredentialsFile
	}
	if cfg.FCMTopic == "" {
		cfg.FCMTopic = services.DefaultTopic
	}

	var err error
	if cfg.TrashFullThreshold, err = floatVar(getenv, "TRASH_FULL_THRESHOLD", defaultTrashFullThreshold); err != nil {
		return nil, err
	}
	if !(cfg.TrashFullThreshold >= 0 && cfg.TrashFullThreshold <= 100) {
		return nil, fmt.Errorf("TRASH_FULL_THRESHOLD must be between 0 and 100, got %v", cfg.TrashFullThreshold)
	}
	// 0 leaves route edges unbounded
	if cfg.RouteMaxDistanceKm, err = floatVar(getenv, "ROUTE_MAX_DISTANCE_KM", 0); err != nil {
		return nil, err
	}
	if cfg.RouteMaxDistanceKm < 0 {
		return nil, fmt.Errorf("ROUTE_MAX_DISTANCE_KM must not be negative, got %v", cfg.RouteMaxDistanceKm)
	}
	if cfg.RouteStrategy, err = routing.ParseStrategy(getenv("ROUTE_STRATEGY")); err != nil {
		return nil, fmt.Errorf("invalid ROUTE_STRATEGY: %w", err)
	}
	if cfg.TelemetryRatePerSec, err = floatVar(getenv, "TELEMETRY_RATE_PER_SEC", defaultTelemetryRate); err != nil {
		return nil, err
	}
	if !(cfg.TelemetryRatePerSec > 0) {
		return nil, fmt.Errorf("TELEMETRY_RATE_PER_SEC must be positive, got %v", cfg.TelemetryRatePerSec)
	}

	// one second worth of readings, at least one
	cfg.TelemetryBurst = max(int(cfg.TelemetryRatePerSec), 1)

	return cfg, nil
}

func floatVar(getenv func(string) string, name string, def float64) (float64, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", name, raw)
	}
	return v, nil
}
