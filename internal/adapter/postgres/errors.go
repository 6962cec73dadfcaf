package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// SQLSTATE codes of the constraints our schema declares.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var constraintErrors = map[string]error{
	codeUniqueViolation:     domain.ErrAlreadyExists,
	codeForeignKeyViolation: domain.ErrNotFound,
	codeCheckViolation:      domain.ErrValidation,
}

// MapError translates a driver error for the row identified by subject and id.
// Missing rows and constraint violations become domain sentinels, context
// errors pass through unchanged, and anything else is a PersistenceError.
func MapError(err error, subject string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	op := fmt.Sprintf("%s %s", subject, id)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if target, ok := constraintErrors[pgErr.Code]; ok {
			return fmt.Errorf("%s: %w", op, target)
		}
	}
	return domain.NewPersistenceError(op, err)
}
