// Package config loads service configuration from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TokenTTL is the fixed lifetime of an admin session token and its cookie.
const TokenTTL = 24 * time.Hour

// Config is the root configuration for the storefront service.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Catalog   CatalogConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	AutoMigrate bool
}

// AuthConfig holds the admin session settings.
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign and verify admin session tokens.
	JWTSecret       string
	AdminPathPrefix string
	LoginPath       string
	CookieSecure    bool
}

type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type ShutdownConfig struct {
	Timeout             string
	ReadinessDrainDelay string
}

// Load reads configuration from .env (optional) and the environment.
func Load() *Config {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "storefront-service"),
			Version: getEnv("VERSION", "dev"),
			Env:     env,
			Port:    getEnv("PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:    int32(getEnvInt("DB_MIN_CONNS", 1)),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AdminPathPrefix: getEnv("ADMIN_PATH_PREFIX", "/admin"),
			LoginPath:       getEnv("ADMIN_LOGIN_PATH", "/admin/login"),
			CookieSecure:    getEnvBool("AUTH_COOKIE_SECURE", env == "production"),
		},
		Catalog: CatalogConfig{
			DefaultPageSize: getEnvInt("CATALOG_DEFAULT_PAGE_SIZE", 12),
			MaxPageSize:     getEnvInt("CATALOG_MAX_PAGE_SIZE", 100),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "5s"),
		},
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("invalid pool size: min=%d max=%d", c.Database.MinConns, c.Database.MaxConns))
	}
	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if !strings.HasPrefix(c.Auth.AdminPathPrefix, "/") {
		errs = append(errs, fmt.Errorf("ADMIN_PATH_PREFIX must start with '/': %q", c.Auth.AdminPathPrefix))
	}
	if !strings.HasPrefix(c.Auth.LoginPath, strings.TrimSuffix(c.Auth.AdminPathPrefix, "/")+"/") {
		errs = append(errs, fmt.Errorf("ADMIN_LOGIN_PATH %q must live under %q", c.Auth.LoginPath, c.Auth.AdminPathPrefix))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATE must be within [0, 1]: %v", c.Tracing.SampleRate))
	}
	if c.Catalog.DefaultPageSize < 1 || c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		errs = append(errs, fmt.Errorf("invalid catalog page sizes: default=%d max=%d", c.Catalog.DefaultPageSize, c.Catalog.MaxPageSize))
	}
	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay); err != nil {
		errs = append(errs, fmt.Errorf("READINESS_DRAIN_DELAY: %w", err))
	}

	return errors.Join(errs...)
}

// GetShutdownTimeoutDuration returns the HTTP shutdown timeout, 10s when unparsable.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration returns how long /ready reports 503 before the
// HTTP server stops accepting requests.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}
