package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// mapRowError converts a pgx row error into the matching store
// sentinel, keeping not-found detection out of the query methods.
func mapRowError(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
