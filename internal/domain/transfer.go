// internal/domain/transfer.go
package domain

import (
	"time"

	"github.com/google/uuid"

	"pocketledger/internal/money"
)

// Transfer moves money between two distinct wallets of the same user.
type Transfer struct {
	ID           int64       `db:"id" json:"id"`
	UserID       uuid.UUID   `db:"user_id" json:"user_id"`
	FromWalletID int64       `db:"from_wallet_id" json:"from_wallet_id"`
	ToWalletID   int64       `db:"to_wallet_id" json:"to_wallet_id"`
	Amount       money.Money `db:"amount" json:"amount"`
	Description  string      `db:"description" json:"description"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// Touches reports whether walletID is either endpoint of the transfer.
func (t *Transfer) Touches(walletID int64) bool {
	return t.FromWalletID == walletID || t.ToWalletID == walletID
}

// TransferFilter narrows a transfer listing. WalletID matches either endpoint.
type TransferFilter struct {
	UserID   uuid.UUID
	WalletID *int64
	From     *time.Time
	To       *time.Time
}
