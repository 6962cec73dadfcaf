package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashdeck-backend/internal/config"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	cfg, err := poolConfig(config.DatabaseConfig{
		DSN:             "postgres://u:p@localhost:5432/flashdeck?sslmode=disable",
		MaxConns:        8,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  3 * time.Second,
		ApplicationName: "flashdeck-test",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(8), cfg.MaxConns)
	assert.Equal(t, int32(1), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 3*time.Second, cfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, "UTC", cfg.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "flashdeck-test", cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@localhost:notaport/db"})
	assert.ErrorContains(t, err, "parse database DSN")
}
