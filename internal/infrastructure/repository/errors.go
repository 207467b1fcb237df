package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicateKeyViolation checks if the error is a unique constraint
// violation. A concurrent Update losing the (auction_id, id) race
// surfaces this way.
func IsDuplicateKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
