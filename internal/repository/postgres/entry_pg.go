// internal/repository/postgres/entry_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/repository"
)

const entryColumns = `id, user_id, amount, category, wallet_id, wallet, description, created_at`

// EntryRepository implements repository.EntryRepository for the expenses and income tables.
// Both tables share one layout; the kind picks the table.
type EntryRepository struct {
	kind  domain.Kind
	table string
}

// NewExpenseRepository returns the repository for the expenses table.
func NewExpenseRepository() repository.EntryRepository {
	return &EntryRepository{kind: domain.KindExpense, table: "expenses"}
}

// NewIncomeRepository returns the repository for the income table.
func NewIncomeRepository() repository.EntryRepository {
	return &EntryRepository{kind: domain.KindIncome, table: "income"}
}

func (r *EntryRepository) Kind() domain.Kind { return r.kind }

// ListEntries retrieves the user's entries, newest first.
func (r *EntryRepository) ListEntries(ctx context.Context, q repository.DBExecutor, filter domain.EntryFilter) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ` + r.table + ` WHERE user_id = $1`
	args := []interface{}{filter.UserID}

	if filter.WalletID != nil {
		args = append(args, *filter.WalletID)
		query += fmt.Sprintf(" AND wallet_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	entries := []domain.Entry{}
	if err := q.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	for i := range entries {
		entries[i].Kind = r.kind
	}
	return entries, nil
}

// GetEntryByID retrieves a single entry.
func (r *EntryRepository) GetEntryByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	var entry domain.Entry
	query := `SELECT ` + entryColumns + ` FROM ` + r.table + ` WHERE id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &entry, query, id, userID); err != nil {
		return nil, notFound(err, "failed to get %s %d", r.kind, id)
	}
	entry.Kind = r.kind
	return &entry, nil
}

// GetEntryForUpdate reads an entry and row-locks it until the transaction ends.
func (r *EntryRepository) GetEntryForUpdate(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	var entry domain.Entry
	query := `SELECT ` + entryColumns + ` FROM ` + r.table + ` WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := q.GetContext(ctx, &entry, query, id, userID); err != nil {
		return nil, notFound(err, "failed to lock %s %d", r.kind, id)
	}
	entry.Kind = r.kind
	return &entry, nil
}

// CreateEntry inserts the full denormalized payload.
func (r *EntryRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	query := `INSERT INTO ` + r.table + ` (user_id, amount, category, wallet_id, wallet, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW())) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query,
		entry.UserID,
		entry.Amount,
		entry.Category,
		entry.WalletID,
		entry.Wallet,
		entry.Description,
		nullTime(entry.CreatedAt),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}
	entry.Kind = r.kind
	return nil
}

// UpdateEntry rewrites an entry in place. An unset CreatedAt keeps the stored one; either way
// CreatedAt is refreshed from the row.
func (r *EntryRepository) UpdateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	query := `UPDATE ` + r.table + `
              SET amount = $1, category = $2, wallet_id = $3, wallet = $4, description = $5,
                  created_at = COALESCE($6, created_at)
              WHERE id = $7 AND user_id = $8 RETURNING created_at`
	err := q.GetContext(ctx, &entry.CreatedAt, query,
		entry.Amount,
		entry.Category,
		entry.WalletID,
		entry.Wallet,
		entry.Description,
		nullTime(entry.CreatedAt),
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return notFound(err, "failed to update %s %d", r.kind, entry.ID)
	}
	return nil
}

// DeleteEntry removes an entry and returns the deleted row.
func (r *EntryRepository) DeleteEntry(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	var entry domain.Entry
	query := `DELETE FROM ` + r.table + ` WHERE id = $1 AND user_id = $2 RETURNING ` + entryColumns
	if err := q.GetContext(ctx, &entry, query, id, userID); err != nil {
		return nil, notFound(err, "failed to delete %s %d", r.kind, id)
	}
	entry.Kind = r.kind
	return &entry, nil
}
