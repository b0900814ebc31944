package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"SUPABASE_URL": "https://project.supabase.co",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Empty(t, cfg.Supabase.JWTSecret)
				assert.Equal(t, 5*time.Second, cfg.Supabase.JWKSTimeout)
				assert.Equal(t, 3*time.Second, cfg.Auth.RoleLookupTimeout)
				assert.False(t, cfg.Auth.ExposeErrorDetail)
				assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
				assert.Empty(t, cfg.Realtime.RedisURL)
				assert.Equal(t, "learnhub:posts", cfg.Realtime.Channel)
				assert.Equal(t, 5*time.Second, cfg.LinkPreview.Timeout)
			},
		},
		{
			name: "supabase settings",
			envVars: map[string]string{
				"SUPABASE_URL":          "https://project.supabase.co/",
				"SUPABASE_JWT_SECRET":   "super-secret",
				"SUPABASE_JWKS_TIMEOUT": "2s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
				assert.Equal(t, "super-secret", cfg.Supabase.JWTSecret)
				assert.Equal(t, 2*time.Second, cfg.Supabase.JWKSTimeout)
				assert.Equal(t, "https://project.supabase.co/auth/v1/.well-known/jwks.json", cfg.Supabase.JWKSURL())
			},
		},
		{
			name: "database url takes precedence",
			envVars: map[string]string{
				"SUPABASE_URL": "https://project.supabase.co",
				"DATABASE_URL": "postgres://u:p@db.example.com:6543/postgres",
				"DB_HOST":      "ignored",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://u:p@db.example.com:6543/postgres", cfg.Database.DSN())
				assert.Equal(t, "host=db.example.com port=6543 database=postgres", cfg.Database.LogString())
			},
		},
		{
			name: "cors origins list",
			envVars: map[string]string{
				"SUPABASE_URL": "https://project.supabase.co",
				"CORS_ORIGINS": "http://localhost:5173, https://learnhub.app,,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://localhost:5173", "https://learnhub.app"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name: "realtime and auth overrides",
			envVars: map[string]string{
				"SUPABASE_URL":             "https://project.supabase.co",
				"REDIS_URL":                "redis://localhost:6379/0",
				"AUTH_ROLE_LOOKUP_TIMEOUT": "500ms",
				"AUTH_EXPOSE_ERROR_DETAIL": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "redis://localhost:6379/0", cfg.Realtime.RedisURL)
				assert.Equal(t, 500*time.Millisecond, cfg.Auth.RoleLookupTimeout)
				assert.True(t, cfg.Auth.ExposeErrorDetail)
			},
		},
		{
			name: "PORT env var takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"SUPABASE_URL": "https://project.supabase.co",
				"PORT":         "9443",
				"SERVER_PORT":  "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name:    "missing supabase url",
			envVars: map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := New(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "development",
			Supabase:    SupabaseConfig{URL: "https://project.supabase.co"},
			Database: DatabaseConfig{
				Host:     "localhost",
				User:     "user",
				Database: "db",
			},
			Auth:          AuthConfig{RoleLookupTimeout: time.Second},
			Observability: ObservabilityConfig{LogLevel: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid development config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing supabase url",
			mutate:  func(c *Config) { c.Supabase.URL = "" },
			wantErr: true,
			errMsg:  "supabase URL is required",
		},
		{
			name:    "relative supabase url",
			mutate:  func(c *Config) { c.Supabase.URL = "not a url" },
			wantErr: true,
			errMsg:  "supabase URL is invalid",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: true,
			errMsg:  "database configuration required",
		},
		{
			name:    "missing database user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: true,
			errMsg:  "database user is required",
		},
		{
			name:    "zero role lookup timeout",
			mutate:  func(c *Config) { c.Auth.RoleLookupTimeout = 0 },
			wantErr: true,
			errMsg:  "role lookup timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"production", "production", true},
		{"prod", "prod", true},
		{"development", "development", false},
		{"staging", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			assert.Equal(t, tt.want, cfg.IsProduction())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.DSN())
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 8000}
	assert.Equal(t, "0.0.0.0:8000", cfg.Address())
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "a", []string{"a"}},
		{"trimmed", " a , b ", []string{"a", "b"}},
		{"only commas", ",,", []string{"default"}},
		{"empty", "", []string{"default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_LIST", tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsList("TEST_LIST", []string{"default"}))
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", "true", false, true},
		{"false", "false", true, false},
		{"empty value", "", true, true},
		{"invalid bool", "not-a-bool", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			assert.Equal(t, tt.want, getEnvAsBool("TEST_BOOL", tt.defaultValue))
		})
	}
}
