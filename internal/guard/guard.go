// Package guard validates ledger mutations against locally cached balances before they are
// submitted. The checks are advisory: the ledger trigger revalidates inside the store.
package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/util"
)

// Balances reports the last known amount of a wallet.
type Balances interface {
	Get(ctx context.Context, userID uuid.UUID, walletID int64) (money.Money, error)
}

// Policy decides how an edit is reconciled against the balance it already consumed.
type Policy string

const (
	// PolicyUniform adds the original amount back whenever the source wallet is unchanged.
	PolicyUniform Policy = "uniform"
	// PolicyLegacy adds it back for transfers only. Expense edits are checked against the raw balance.
	PolicyLegacy Policy = "legacy"
)

// ParsePolicy accepts "uniform" or "legacy"; empty means uniform.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyUniform:
		return PolicyUniform, nil
	case PolicyLegacy:
		return PolicyLegacy, nil
	}
	return "", fmt.Errorf("%w: unknown reconcile policy %q", util.ErrInvalidInput, s)
}

// Guard runs the pre-submission checks.
type Guard struct {
	balances Balances
	policy   Policy
}

// New creates a Guard reading balances from b.
func New(b Balances, policy Policy) *Guard {
	if policy == "" {
		policy = PolicyUniform
	}
	return &Guard{balances: b, policy: policy}
}

// Policy returns the active reconciliation policy.
func (g *Guard) Policy() Policy { return g.policy }

// CheckEntry dispatches on the entry kind. original is nil when creating.
func (g *Guard) CheckEntry(ctx context.Context, original, e *domain.Entry) error {
	switch e.Kind {
	case domain.KindExpense:
		return g.CheckExpense(ctx, original, e)
	case domain.KindIncome:
		return g.CheckIncome(original, e)
	}
	return fmt.Errorf("%w: unsupported entry kind %q", util.ErrInvalidInput, e.Kind)
}

// CheckExpense validates an expense create (original == nil) or edit.
func (g *Guard) CheckExpense(ctx context.Context, original, e *domain.Entry) error {
	if err := requireEntryFields(e); err != nil {
		return err
	}
	if original != nil && original.WalletID != e.WalletID {
		return util.ErrWalletImmutable
	}

	available, err := g.balances.Get(ctx, e.UserID, e.WalletID)
	if err != nil {
		return err
	}
	if original != nil && g.policy == PolicyUniform {
		available = available.Add(original.Amount)
	}
	return sufficient(e.Amount, available)
}

// CheckIncome validates an income create or edit. Income never needs funds.
func (g *Guard) CheckIncome(_ *domain.Entry, e *domain.Entry) error {
	return requireEntryFields(e)
}

// CheckTransfer validates a transfer create (original == nil) or edit.
func (g *Guard) CheckTransfer(ctx context.Context, original, t *domain.Transfer) error {
	if t.FromWalletID == 0 {
		return util.MissingField("from_wallet_id")
	}
	if t.ToWalletID == 0 {
		return util.MissingField("to_wallet_id")
	}
	if t.FromWalletID == t.ToWalletID {
		return util.ErrSameWalletTransfer
	}
	if err := requireAmount(t.Amount); err != nil {
		return err
	}

	available, err := g.balances.Get(ctx, t.UserID, t.FromWalletID)
	if err != nil {
		return err
	}
	if original != nil && original.FromWalletID == t.FromWalletID {
		available = available.Add(original.Amount)
	}
	return sufficient(t.Amount, available)
}

func requireEntryFields(e *domain.Entry) error {
	if err := requireAmount(e.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return util.MissingField("category")
	}
	if e.WalletID == 0 {
		return util.MissingField("wallet_id")
	}
	return nil
}

// requireAmount enforces Money(>0). Blank input never gets here; money.Parse reports it as missing.
func requireAmount(m money.Money) error {
	if !m.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", util.ErrInvalidAmount)
	}
	return nil
}

func sufficient(amount, available money.Money) error {
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: need %s, have %s", util.ErrInsufficientFunds, amount, available)
	}
	return nil
}
