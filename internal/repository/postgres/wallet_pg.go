// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/repository"
)

const walletColumns = `id, user_id, name, amount, icon, color, type, created_at`

// WalletRepository implements repository.WalletRepository for PostgreSQL.
// It holds no connection; every method receives the executor to run on.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// ListWallets returns the user's wallets in creation order.
func (r *WalletRepository) ListWallets(ctx context.Context, q repository.DBExecutor, userID uuid.UUID) ([]domain.Wallet, error) {
	wallets := []domain.Wallet{}
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	if err := q.SelectContext(ctx, &wallets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list wallets for user %s: %w", userID, err)
	}
	return wallets, nil
}

// GetWalletByID retrieves a wallet by its ID.
func (r *WalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &wallet, query, id, userID); err != nil {
		return nil, notFound(err, "failed to get wallet by ID %d", id)
	}
	return &wallet, nil
}

// CreateWallet inserts a new wallet.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, name, amount, icon, color, type, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW())) RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query,
		wallet.UserID,
		wallet.Name,
		wallet.Amount,
		wallet.Icon,
		wallet.Color,
		wallet.Type,
		nullTime(wallet.CreatedAt),
	).Scan(&wallet.ID, &wallet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// UpdateWallet updates the descriptive fields of a wallet.
func (r *WalletRepository) UpdateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `UPDATE wallets SET name = $1, icon = $2, color = $3, type = $4 WHERE id = $5 AND user_id = $6`
	result, err := q.ExecContext(ctx, query, wallet.Name, wallet.Icon, wallet.Color, wallet.Type, wallet.ID, wallet.UserID)
	if err != nil {
		return fmt.Errorf("failed to update wallet %d: %w", wallet.ID, err)
	}
	return expectOneRow(result, "wallet", wallet.ID)
}

// DeleteWallet deletes a wallet. Referencing ledger rows make the foreign keys reject it.
func (r *WalletRepository) DeleteWallet(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete wallet %d: %w", id, err)
	}
	return expectOneRow(result, "wallet", id)
}

// AdjustWalletBalance applies delta with a single-row atomic update.
func (r *WalletRepository) AdjustWalletBalance(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, walletID int64, delta money.Money) (money.Money, error) {
	var amount money.Money
	query := `UPDATE wallets SET amount = amount + $1 WHERE id = $2 AND user_id = $3 RETURNING amount`
	if err := q.GetContext(ctx, &amount, query, delta, walletID, userID); err != nil {
		return money.Zero, notFound(err, "failed to update wallet balance for ID %d", walletID)
	}
	return amount, nil
}
