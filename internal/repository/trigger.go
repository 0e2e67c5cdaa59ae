// internal/repository/trigger.go
package repository

import (
	"context"

	"pocketledger/internal/domain"
)

// LedgerTrigger keeps wallet amounts consistent with ledger rows. It is called with the same
// executor as the row write, so a failed balance update rolls back the write and vice versa.
// before is nil on insert and after is nil on delete.
type LedgerTrigger interface {
	EntryChanged(ctx context.Context, q DBExecutor, before, after *domain.Entry) error
	TransferChanged(ctx context.Context, q DBExecutor, before, after *domain.Transfer) error
}
