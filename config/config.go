package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Supabase      SupabaseConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Realtime      RealtimeConfig
	LinkPreview   LinkPreviewConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
// The connection bypasses row-level security and is used as the privileged store.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// SupabaseConfig holds the identity provider settings
type SupabaseConfig struct {
	URL         string        // Project base URL; the JWKS endpoint is derived from it
	JWTSecret   string        // Optional HS256 shared secret
	JWKSTimeout time.Duration // Upper bound on the key set fetch
}

// AuthConfig holds authorization settings
type AuthConfig struct {
	RoleLookupTimeout time.Duration
	ExposeErrorDetail bool // Embed lookup error type and text in 403 messages
}

// CORSConfig holds the allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// RealtimeConfig holds WebSocket fan-out settings.
// RedisURL is optional; when empty broadcasts stay in-process.
type RealtimeConfig struct {
	RedisURL     string
	Channel      string
	WriteTimeout time.Duration
}

// LinkPreviewConfig holds link preview fetch settings
type LinkPreviewConfig struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or text
	MetricsEnabled bool
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: loadDatabaseConfig(),
		Supabase: SupabaseConfig{
			URL:         strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			JWTSecret:   getEnv("SUPABASE_JWT_SECRET", ""),
			JWKSTimeout: getEnvAsDuration("SUPABASE_JWKS_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			RoleLookupTimeout: getEnvAsDuration("AUTH_ROLE_LOOKUP_TIMEOUT", 3*time.Second),
			ExposeErrorDetail: getEnvAsBool("AUTH_EXPOSE_ERROR_DETAIL", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Realtime: RealtimeConfig{
			RedisURL:     getEnv("REDIS_URL", ""),
			Channel:      getEnv("REALTIME_CHANNEL", "learnhub:posts"),
			WriteTimeout: getEnvAsDuration("REALTIME_WRITE_TIMEOUT", 10*time.Second),
		},
		LinkPreview: LinkPreviewConfig{
			Timeout:   getEnvAsDuration("LINK_PREVIEW_TIMEOUT", 5*time.Second),
			CacheSize: getEnvAsInt("LINK_PREVIEW_CACHE_SIZE", 512),
			CacheTTL:  getEnvAsDuration("LINK_PREVIEW_CACHE_TTL", 30*time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("supabase URL is required: set SUPABASE_URL")
	}
	if _, err := url.ParseRequestURI(c.Supabase.URL); err != nil {
		return fmt.Errorf("supabase URL is invalid: %w", err)
	}

	// Database validation (DATABASE_URL or DB_* vars)
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	if c.Database.ConnectionString == "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Auth.RoleLookupTimeout <= 0 {
		return fmt.Errorf("role lookup timeout must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// JWKSURL returns the well-known key set endpoint of the project
func (c *SupabaseConfig) JWKSURL() string {
	return strings.TrimRight(c.URL, "/") + "/auth/v1/.well-known/jwks.json"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

func loadDatabaseConfig() DatabaseConfig {
	pool := DatabaseConfig{
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		pool.ConnectionString = dbURL
		return pool
	}
	pool.Host = getEnv("DB_HOST", "localhost")
	pool.Port = getEnvAsInt("DB_PORT", 5432)
	pool.User = getEnv("DB_USER", "postgres")
	pool.Password = getEnv("DB_PASSWORD", "postgres")
	pool.Database = getEnv("DB_NAME", "postgres")
	pool.SSLMode = getEnv("DB_SSLMODE", "disable")
	return pool
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8000)
func getPort() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := os.Getenv(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return 8000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
