// internal/repository/postgres/helpers.go
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pocketledger/internal/util"
)

// nullTime lets the database default created_at when the caller left it unset.
func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// expectOneRow turns an UPDATE/DELETE that matched nothing into util.ErrNotFound.
func expectOneRow(result sql.Result, what string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s %d: %w", what, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", what, id, util.ErrNotFound)
	}
	return nil
}

// notFound maps sql.ErrNoRows onto util.ErrNotFound and wraps everything else.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, util.ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
