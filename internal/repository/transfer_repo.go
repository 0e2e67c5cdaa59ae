// internal/repository/transfer_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
)

// TransferRepository defines the interface for transfer data operations.
type TransferRepository interface {
	ListTransfers(ctx context.Context, q DBExecutor, filter domain.TransferFilter) ([]domain.Transfer, error)
	GetTransferByID(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error)
	// GetTransferForUpdate reads the transfer and locks its row for the rest of the transaction.
	GetTransferForUpdate(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error)
	CreateTransfer(ctx context.Context, q DBExecutor, transfer *domain.Transfer) error
	// UpdateTransfer rewrites the row in place and fills CreatedAt with the stored value.
	UpdateTransfer(ctx context.Context, q DBExecutor, transfer *domain.Transfer) error
	// DeleteTransfer hard-deletes the row and returns what was removed.
	DeleteTransfer(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error)
}
