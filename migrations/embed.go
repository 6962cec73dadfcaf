// Package migrations embeds the goose SQL migrations of the database schema.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds every *.sql migration, applied in version order by goose.
//
//go:embed *.sql
var FS embed.FS

// NewProvider returns a goose provider over FS for a PostgreSQL database.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}
