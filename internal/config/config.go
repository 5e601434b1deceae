// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"geofeed/internal/domain/geo"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Discovery   DiscoveryConfig
	Geo         GeoConfig
	Logging     LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
	SQLitePath   string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
	IngestEnabled  bool
}

// DiscoveryConfig holds trending engine configuration
type DiscoveryConfig struct {
	CacheTTL             time.Duration
	CandidateCap         int
	DefaultLimit         int
	DefaultRadiusMeters  float64
	MaxConcurrentFetches int
	AuthorBatchSize      int
	WarmSchedule         string
	WarmTimeframes       []string
}

// GeoConfig holds venue configuration
type GeoConfig struct {
	VenuesFile string
	Venues     []geo.Venue
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// venueFile is the on-disk layout of VENUES_FILE
type venueFile struct {
	Venues []geo.Venue `toml:"venue"`
}

// Load loads configuration from the environment, seeded from .env when present
func Load() (Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "geofeed"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:   getEnv("SQLITE_PATH", "geofeed.db"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("DISCOVERY_EVENTS_TOPIC", "discovery"),
			IngestEnabled:  getEnvAsBool("NATS_INGEST_ENABLED", true),
		},
		Discovery: DiscoveryConfig{
			CacheTTL:             getEnvAsDuration("DISCOVERY_CACHE_TTL", 5*time.Minute),
			CandidateCap:         getEnvAsInt("DISCOVERY_CANDIDATE_CAP", 100),
			DefaultLimit:         getEnvAsInt("DISCOVERY_DEFAULT_LIMIT", 20),
			DefaultRadiusMeters:  getEnvAsFloat("DISCOVERY_DEFAULT_RADIUS_METERS", 5000),
			MaxConcurrentFetches: getEnvAsInt("DISCOVERY_MAX_CONCURRENT_FETCHES", 16),
			AuthorBatchSize:      getEnvAsInt("DISCOVERY_AUTHOR_BATCH_SIZE", 10),
			WarmSchedule:         getEnv("DISCOVERY_WARM_SCHEDULE", "@every 5m"),
			WarmTimeframes:       getEnvAsSlice("DISCOVERY_WARM_TIMEFRAMES", []string{"24h", "7d"}),
		},
		Geo: GeoConfig{
			VenuesFile: getEnv("VENUES_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if config.Geo.VenuesFile != "" {
		venues, err := LoadVenues(config.Geo.VenuesFile)
		if err != nil {
			return config, err
		}
		config.Geo.Venues = venues
	}

	return config, validate(config)
}

// LoadVenues reads [[venue]] tables from a TOML file, keeping file order
func LoadVenues(path string) ([]geo.Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venues file %s: %w", path, err)
	}

	var file venueFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse venues file %s: %w", path, err)
	}

	return file.Venues, nil
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// validate checks if config is valid
func validate(config Config) error {
	var errs []error

	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", config.Database.Driver))
	}

	if config.Discovery.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive"))
	}
	if config.Discovery.CandidateCap <= 0 {
		errs = append(errs, fmt.Errorf("candidate cap must be positive"))
	}
	if config.Discovery.AuthorBatchSize <= 0 || config.Discovery.AuthorBatchSize > 10 {
		errs = append(errs, fmt.Errorf("author batch size must be between 1 and 10"))
	}

	for i, v := range config.Geo.Venues {
		if v.RadiusMeters <= 0 {
			errs = append(errs, fmt.Errorf("venue %d (%s): radius must be positive", i, v.Name))
		}
	}

	return errors.Join(errs...)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
