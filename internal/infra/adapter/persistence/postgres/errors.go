package postgres

import (
	"errors"
	"fmt"

	"blog-admin/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes mapped to entity.ErrConstraintViolation.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeStringTooLong       = "22001"
)

// wrapError prefixes err with op and marks integrity errors reported by
// PostgreSQL as entity.ErrConstraintViolation.
func wrapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeNotNullViolation, codeForeignKeyViolation, codeUniqueViolation, codeStringTooLong:
			return fmt.Errorf("%s: %w: %w", op, entity.ErrConstraintViolation, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
