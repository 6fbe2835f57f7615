package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB        DatabaseConfig
	Redis     RedisConfig
	Discovery DiscoveryConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DiscoveryConfig contains tuning knobs for the discovery engines.
type DiscoveryConfig struct {
	// DefaultRadiusKm applies when a within-radius query omits the radius.
	DefaultRadiusKm float64
	// MaxRadiusKm is the largest radius a caller may request.
	MaxRadiusKm float64
	// MaxScanRows caps the candidate set fetched for manually paginated
	// queries (distance filters cannot be pushed down to the store).
	MaxScanRows int
	// DefaultPageLimit applies when a request omits the page limit.
	DefaultPageLimit int
	// MaxPageLimit clamps the requested page limit.
	MaxPageLimit int
	// ProductCountTTL bounds staleness of the cached per-business product count.
	ProductCountTTL time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Discovery engine tuning
	cfg.Discovery = DiscoveryConfig{
		DefaultRadiusKm:  getEnvFloat("DISCOVERY_DEFAULT_RADIUS_KM", 10.0),
		MaxRadiusKm:      getEnvFloat("DISCOVERY_MAX_RADIUS_KM", 300.0),
		MaxScanRows:      getEnvInt("DISCOVERY_MAX_SCAN_ROWS", 5000),
		DefaultPageLimit: getEnvInt("DISCOVERY_DEFAULT_PAGE_LIMIT", 20),
		MaxPageLimit:     getEnvInt("DISCOVERY_MAX_PAGE_LIMIT", 100),
	}
	var err error
	if cfg.Discovery.ProductCountTTL, err = parseDurationEnv("PRODUCT_COUNT_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid PRODUCT_COUNT_CACHE_TTL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for session token validation")
	}

	if cfg.Discovery.MaxScanRows <= 0 {
		return nil, errors.New("DISCOVERY_MAX_SCAN_ROWS must be positive")
	}
	if cfg.Discovery.DefaultRadiusKm <= 0 || cfg.Discovery.MaxRadiusKm < cfg.Discovery.DefaultRadiusKm {
		return nil, errors.New("invalid radius configuration: require 0 < DISCOVERY_DEFAULT_RADIUS_KM <= DISCOVERY_MAX_RADIUS_KM")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvFloat returns the value of an environment variable as a float or a default if empty/invalid.
func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
