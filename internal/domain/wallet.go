// internal/domain/wallet.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pocketledger/internal/money"
)

// WalletType distinguishes bank accounts from cash.
type WalletType string

const (
	WalletTypeBank WalletType = "Bank"
	WalletTypeCash WalletType = "Cash"
)

// Valid reports whether t is one of the known wallet types.
func (t WalletType) Valid() bool {
	return t == WalletTypeBank || t == WalletTypeCash
}

// Wallet represents a named balance-holding account.
// Amount is maintained by the ledger trigger; only wallet creation sets it directly.
type Wallet struct {
	ID        int64       `db:"id" json:"id"`
	UserID    uuid.UUID   `db:"user_id" json:"user_id"`
	Name      string      `db:"name" json:"name"`
	Amount    money.Money `db:"amount" json:"amount"`
	Icon      string      `db:"icon" json:"icon"`
	Color     string      `db:"color" json:"color"`
	Type      WalletType  `db:"type" json:"type"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// NewWallet creates a new Wallet instance with the given opening amount.
func NewWallet(userID uuid.UUID, name string, walletType WalletType, opening money.Money) *Wallet {
	return &Wallet{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Amount:    opening,
		Type:      walletType,
		CreatedAt: time.Now().UTC(),
	}
}
