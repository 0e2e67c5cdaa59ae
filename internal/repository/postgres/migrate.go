// internal/repository/postgres/migrate.go
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"pocketledger/internal/repository"
)

//go:embed schema.sql
var schema string

// Migrate applies the idempotent schema and seeds the global default categories.
func Migrate(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
