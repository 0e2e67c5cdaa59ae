// internal/domain/entry.go
package domain

import (
	"time"

	"github.com/google/uuid"

	"pocketledger/internal/money"
)

// Kind tags the three ledger mutation types.
type Kind string

const (
	KindExpense  Kind = "expense"
	KindIncome   Kind = "income"
	KindTransfer Kind = "transfer"
)

// ParseKind accepts the lower-case kind or its capitalised display form.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "expense", "Expense":
		return KindExpense, true
	case "income", "Income":
		return KindIncome, true
	case "transfer", "Transfer":
		return KindTransfer, true
	}
	return "", false
}

// Entry is an expense or income row. Kind is not stored; each kind has its own table.
// Wallet and Category hold display names denormalized at submission time.
type Entry struct {
	ID          int64       `db:"id" json:"id"`
	Kind        Kind        `db:"-" json:"kind"`
	UserID      uuid.UUID   `db:"user_id" json:"user_id"`
	Amount      money.Money `db:"amount" json:"amount"`
	Category    string      `db:"category" json:"category"`
	WalletID    int64       `db:"wallet_id" json:"wallet_id"`
	Wallet      string      `db:"wallet" json:"wallet"`
	Description string      `db:"description" json:"description"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// Delta is the signed effect of the entry on its wallet.
func (e *Entry) Delta() money.Money {
	if e.Kind == KindExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// EntryFilter narrows an entry listing. UserID is always set by the store from the session.
type EntryFilter struct {
	UserID   uuid.UUID
	WalletID *int64
	From     *time.Time
	To       *time.Time
}
