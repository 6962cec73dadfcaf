package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without a tz database
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %s)", c.Auth.AccessTokenTTL)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := c.Practice.validate(); err != nil {
		return fmt.Errorf("practice: %w", err)
	}

	switch strings.ToLower(c.Stats.Backend) {
	case StatsBackendMemory, StatsBackendPostgres:
		c.Stats.Backend = strings.ToLower(c.Stats.Backend)
	default:
		return fmt.Errorf("stats.backend must be %q or %q (got %q)", StatsBackendMemory, StatsBackendPostgres, c.Stats.Backend)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
		}
		if c.RateLimit.CleanupInterval <= 0 {
			return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %s)", c.RateLimit.CleanupInterval)
		}
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be between 0 and max_conns %d (got %d)", d.MaxConns, d.MinConns)
	}
	if d.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be > 0 (got %s)", d.ConnectTimeout)
	}
	return nil
}

func (p *PracticeConfig) validate() error {
	if p.MaxCount <= 0 {
		return fmt.Errorf("max_count must be > 0 (got %d)", p.MaxCount)
	}
	if p.DefaultCount < 0 || p.DefaultCount > p.MaxCount {
		return fmt.Errorf("default_count must be between 0 and max_count %d (got %d)", p.MaxCount, p.DefaultCount)
	}
	// Sessions leave the registry only by DELETE or by eviction, so an
	// unbounded TTL would keep every finished session in memory.
	if p.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %s)", p.SessionTTL)
	}
	if p.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %s)", p.SweepInterval)
	}

	loc, err := ParseTimezone(p.TimezoneRaw)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	p.Timezone = loc

	return nil
}

// ParseTimezone resolves an IANA zone name. An empty string means UTC.
func ParseTimezone(raw string) (*time.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid zone %q: %w", raw, err)
	}
	return loc, nil
}
