// internal/repository/postgres/transfer_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/repository"
)

const transferColumns = `id, user_id, from_wallet_id, to_wallet_id, amount, description, created_at`

// TransferRepository implements repository.TransferRepository for PostgreSQL.
type TransferRepository struct{}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository() repository.TransferRepository {
	return &TransferRepository{}
}

// ListTransfers retrieves the user's transfers, newest first.
// A wallet filter matches transfers on either side of that wallet.
func (r *TransferRepository) ListTransfers(ctx context.Context, q repository.DBExecutor, filter domain.TransferFilter) ([]domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE user_id = $1`
	args := []interface{}{filter.UserID}

	if filter.WalletID != nil {
		args = append(args, *filter.WalletID)
		query += fmt.Sprintf(" AND (from_wallet_id = $%d OR to_wallet_id = $%d)", len(args), len(args))
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

	transfers := []domain.Transfer{}
	if err := q.SelectContext(ctx, &transfers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

// GetTransferByID retrieves a transfer by its ID.
func (r *TransferRepository) GetTransferByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &transfer, query, id, userID); err != nil {
		return nil, notFound(err, "failed to get transfer %d", id)
	}
	return &transfer, nil
}

// GetTransferForUpdate reads a transfer and row-locks it until the transaction ends.
func (r *TransferRepository) GetTransferForUpdate(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := q.GetContext(ctx, &transfer, query, id, userID); err != nil {
		return nil, notFound(err, "failed to lock transfer %d", id)
	}
	return &transfer, nil
}

// CreateTransfer inserts a new transfer record.
func (r *TransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	query := `INSERT INTO transfers (user_id, from_wallet_id, to_wallet_id, amount, description, created_at)
              VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW())) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query,
		transfer.UserID,
		transfer.FromWalletID,
		transfer.ToWalletID,
		transfer.Amount,
		transfer.Description,
		nullTime(transfer.CreatedAt),
	).Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// UpdateTransfer rewrites a transfer in place and refreshes CreatedAt from the row.
func (r *TransferRepository) UpdateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	query := `UPDATE transfers
              SET from_wallet_id = $1, to_wallet_id = $2, amount = $3, description = $4,
                  created_at = COALESCE($5, created_at)
              WHERE id = $6 AND user_id = $7 RETURNING created_at`
	err := q.GetContext(ctx, &transfer.CreatedAt, query,
		transfer.FromWalletID,
		transfer.ToWalletID,
		transfer.Amount,
		transfer.Description,
		nullTime(transfer.CreatedAt),
		transfer.ID,
		transfer.UserID,
	)
	if err != nil {
		return notFound(err, "failed to update transfer %d", transfer.ID)
	}
	return nil
}

// DeleteTransfer removes a transfer and returns the deleted row.
func (r *TransferRepository) DeleteTransfer(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	query := `DELETE FROM transfers WHERE id = $1 AND user_id = $2 RETURNING ` + transferColumns
	if err := q.GetContext(ctx, &transfer, query, id, userID); err != nil {
		return nil, notFound(err, "failed to delete transfer %d", id)
	}
	return &transfer, nil
}
