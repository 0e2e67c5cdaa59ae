// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// ListWallets returns every wallet owned by the user, oldest first.
	ListWallets(ctx context.Context, q DBExecutor, userID uuid.UUID) ([]domain.Wallet, error)
	// GetWalletByID retrieves one of the user's wallets.
	GetWalletByID(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Wallet, error)
	// CreateWallet inserts a wallet including its opening amount.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// UpdateWallet changes name, icon, color and type. It never writes the amount.
	UpdateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// DeleteWallet removes a wallet that no ledger row references.
	DeleteWallet(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) error
	// AdjustWalletBalance adds delta to the wallet amount and returns the new amount.
	// Only the ledger trigger calls it.
	AdjustWalletBalance(ctx context.Context, q DBExecutor, userID uuid.UUID, walletID int64, delta money.Money) (money.Money, error)
}
