package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/flashdeck")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/flashdeck"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "flashdeck-test"
  access_token_ttl: "30m"

log:
  level: "debug"
  format: "text"

practice:
  default_count: 10
  max_count: 50
  timezone: "Europe/Berlin"
  session_ttl: "30m"
  sweep_interval: "30s"

stats:
  backend: "memory"

rate_limit:
  enabled: true
  requests_per_minute: 60
  cleanup_interval: "1m"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "flashdeck-test" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("auth.access_token_ttl = %v, want 30m", cfg.Auth.AccessTokenTTL)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Practice
	if cfg.Practice.DefaultCount != 10 || cfg.Practice.MaxCount != 50 {
		t.Errorf("practice counts = %d/%d, want 10/50", cfg.Practice.DefaultCount, cfg.Practice.MaxCount)
	}
	if cfg.Practice.Timezone == nil || cfg.Practice.Timezone.String() != "Europe/Berlin" {
		t.Errorf("practice.timezone = %v, want Europe/Berlin", cfg.Practice.Timezone)
	}
	if cfg.Practice.SessionTTL != 30*time.Minute {
		t.Errorf("practice.session_ttl = %v, want 30m", cfg.Practice.SessionTTL)
	}

	// Stats
	if cfg.Stats.Backend != StatsBackendMemory {
		t.Errorf("stats.backend = %q, want %q", cfg.Stats.Backend, StatsBackendMemory)
	}

	// Rate limit
	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("rate_limit.requests_per_minute = %d, want 60", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STATS_BACKEND", "postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Stats.Backend != StatsBackendPostgres {
		t.Errorf("stats.backend = %q, want postgres (ENV override)", cfg.Stats.Backend)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	// Unset CONFIG_PATH so the fallback path is used and the file is just absent.
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Practice.DefaultCount != 20 || cfg.Practice.MaxCount != 200 {
		t.Errorf("practice defaults = %d/%d, want 20/200", cfg.Practice.DefaultCount, cfg.Practice.MaxCount)
	}
	if cfg.Practice.Timezone != time.UTC {
		t.Errorf("practice.timezone = %v, want UTC", cfg.Practice.Timezone)
	}
	if cfg.Stats.Backend != StatsBackendPostgres {
		t.Errorf("stats.backend = %q, want postgres (default)", cfg.Stats.Backend)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadFrom_IgnoresConfigPathEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.ApplicationName != "flashdeck" || cfg.Database.ConnectTimeout != 5*time.Second {
		t.Errorf("database defaults = %q/%v", cfg.Database.ApplicationName, cfg.Database.ConnectTimeout)
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Database: DatabaseConfig{
			MaxConns:       10,
			MinConns:       2,
			ConnectTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:      "this-is-a-very-long-jwt-secret-for-testing-32+",
			AccessTokenTTL: 15 * time.Minute,
		},
		Practice: PracticeConfig{
			DefaultCount:  20,
			MaxCount:      200,
			TimezoneRaw:   "UTC",
			SessionTTL:    time.Hour,
			SweepInterval: time.Minute,
		},
		Stats: StatsConfig{Backend: StatsBackendPostgres},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 100,
			CleanupInterval:   time.Minute,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Timezone != time.UTC {
		t.Errorf("timezone not resolved: %v", cfg.Practice.Timezone)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{"jwt secret empty", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"jwt secret too short", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"token ttl zero", func(c *Config) { c.Auth.AccessTokenTTL = 0 }, "access_token_ttl"},
		{"max conns zero", func(c *Config) { c.Database.MaxConns = 0 }, "max_conns"},
		{"min conns above max", func(c *Config) { c.Database.MinConns = 11 }, "min_conns"},
		{"connect timeout zero", func(c *Config) { c.Database.ConnectTimeout = 0 }, "connect_timeout"},
		{"max count zero", func(c *Config) { c.Practice.MaxCount = 0 }, "max_count"},
		{"default above max", func(c *Config) { c.Practice.DefaultCount = 500 }, "default_count"},
		{"default negative", func(c *Config) { c.Practice.DefaultCount = -1 }, "default_count"},
		{"ttl negative", func(c *Config) { c.Practice.SessionTTL = -time.Second }, "session_ttl"},
		{"ttl zero keeps finished sessions forever", func(c *Config) { c.Practice.SessionTTL = 0 }, "session_ttl"},
		{"sweep interval missing", func(c *Config) { c.Practice.SweepInterval = 0 }, "sweep_interval"},
		{"unknown timezone", func(c *Config) { c.Practice.TimezoneRaw = "Mars/Olympus" }, "timezone"},
		{"unknown stats backend", func(c *Config) { c.Stats.Backend = "redis" }, "stats.backend"},
		{"rate limit zero", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, "requests_per_minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}



func TestValidate_RateLimitDisabled_SkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = RateLimitConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StatsBackendCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.Stats.Backend = "Memory"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stats.Backend != StatsBackendMemory {
		t.Errorf("stats.backend = %q, want normalized %q", cfg.Stats.Backend, StatsBackendMemory)
	}
}

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", "UTC", false},
		{"  UTC ", "UTC", false},
		{"America/New_York", "America/New_York", false},
		{"Nowhere/Special", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseTimezone(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if loc.String() != tt.want {
				t.Errorf("ParseTimezone(%q) = %s, want %s", tt.raw, loc, tt.want)
			}
		})
	}
}
