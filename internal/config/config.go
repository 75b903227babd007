// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds configuration shared by the API and the worker.
type Config struct {
	Env       string
	Port      string
	LogLevel  string
	LogFile   string
	LogPretty bool

	// RequireTLS rejects requests forwarded with X-Forwarded-Proto other
	// than https.
	RequireTLS bool

	// Storage selects the repository backend: memory or postgres.
	Storage string

	// Seed loads the fixture dataset into empty stores at startup.
	Seed bool

	Database  DatabaseConfig
	Redis     RedisConfig
	PubSub    PubSubConfig
	Telemetry TelemetryConfig
	Auth      AuthConfig
	Worker    WorkerConfig
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds the retrying connect at startup.
	ConnectTimeout time.Duration
}

// ConnectionString returns the PostgreSQL connection string.
func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RedisConfig configures the shared transition ledger. An empty Addr keeps
// the ledger in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	KeyTTL   time.Duration
}

// PubSubConfig configures domain event publishing and the worker
// subscription. An empty ProjectID disables Pub/Sub.
type PubSubConfig struct {
	ProjectID    string
	EventsTopic  string
	Subscription string
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

// AuthConfig configures token signing.
type AuthConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// WorkerConfig configures the background worker.
type WorkerConfig struct {
	// AuditSchedule is a cron expression for the urgency audit. Empty
	// disables the schedule.
	AuditSchedule string

	// AuditRepair rewrites drifted urgency levels instead of only reporting.
	AuditRepair bool
}

// DefaultSigningKey is used when JWT_SIGNING_KEY is unset.
const DefaultSigningKey = "local-dev-signing-key-change-in-production"

// Load reads a .env file if present and then builds a Config from the
// environment. Variables already set in the environment win over .env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:        getEnvOrDefault("APP_ENV", "development"),
		Port:       getEnvOrDefault("APP_PORT", "8080"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:    os.Getenv("LOG_FILE"),
		LogPretty:  getBool("LOG_PRETTY", false),
		RequireTLS: getBool("REQUIRE_TLS", false),
		Storage:    strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageMemory)),
		Seed:       getBool("SEED_DATA", true),
		Database: DatabaseConfig{
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getInt("DB_PORT", 5432),
			User:            getEnvOrDefault("DB_USER", "aidlink"),
			Password:        getEnvOrDefault("DB_PASSWORD", "localdev"),
			Database:        getEnvOrDefault("DB_NAME", "aidlink"),
			SSLMode:         getEnvOrDefault("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout:  getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			KeyTTL:   getDuration("REDIS_TRANSITION_TTL", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
			EventsTopic:  getEnvOrDefault("PUBSUB_EVENTS_TOPIC", "aidlink-events"),
			Subscription: getEnvOrDefault("PUBSUB_SUBSCRIPTION", "aidlink-worker-jobs"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio:  getFloat("OTEL_SAMPLE_RATIO", 1.0),
		},
		Auth: AuthConfig{
			SigningKey: getEnvOrDefault("JWT_SIGNING_KEY", DefaultSigningKey),
			Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.aidlink.org"),
			Audience:   getEnvOrDefault("JWT_AUDIENCE", "aidlink-api"),
		},
		Worker: WorkerConfig{
			AuditSchedule: getEnvOrDefault("AUDIT_SCHEDULE", "@every 15m"),
			AuditRepair:   getBool("AUDIT_REPAIR", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be between 0 and 1, got %v", c.Telemetry.SampleRatio)
	}
	if c.Env == "production" && c.Auth.SigningKey == DefaultSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
