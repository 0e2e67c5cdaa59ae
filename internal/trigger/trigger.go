// Package trigger maintains wallet amounts in response to ledger mutations. It plays the
// role of a database row trigger but runs in the application, inside the caller's
// transaction, so the row write and the balance adjustment commit or roll back together.
package trigger

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/repository"
	"pocketledger/internal/util"
)

// Adjustment is the net change applied to one wallet.
type Adjustment struct {
	WalletID int64
	Delta    money.Money
}

// BalanceTrigger implements repository.LedgerTrigger on top of a WalletRepository.
type BalanceTrigger struct {
	wallets       repository.WalletRepository
	allowOverdraw bool
}

// Option configures a BalanceTrigger.
type Option func(*BalanceTrigger)

// AllowOverdraw lets debits take a wallet below zero.
func AllowOverdraw() Option {
	return func(t *BalanceTrigger) { t.allowOverdraw = true }
}

// New creates a BalanceTrigger.
func New(wallets repository.WalletRepository, opts ...Option) *BalanceTrigger {
	t := &BalanceTrigger{wallets: wallets}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ repository.LedgerTrigger = (*BalanceTrigger)(nil)

// EntryChanged reverses the old entry's effect and applies the new one.
func (t *BalanceTrigger) EntryChanged(ctx context.Context, q repository.DBExecutor, before, after *domain.Entry) error {
	userID, err := ownerOf(entryUser(before), entryUser(after))
	if err != nil {
		return err
	}
	return t.apply(ctx, q, userID, EntryDeltas(before, after))
}

// TransferChanged reverses the old transfer and applies the new one.
func (t *BalanceTrigger) TransferChanged(ctx context.Context, q repository.DBExecutor, before, after *domain.Transfer) error {
	userID, err := ownerOf(transferUser(before), transferUser(after))
	if err != nil {
		return err
	}
	return t.apply(ctx, q, userID, TransferDeltas(before, after))
}

func (t *BalanceTrigger) apply(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, adjustments []Adjustment) error {
	for _, adj := range adjustments {
		balance, err := t.wallets.AdjustWalletBalance(ctx, q, userID, adj.WalletID, adj.Delta)
		if err != nil {
			return fmt.Errorf("trigger: failed to adjust wallet %d: %w", adj.WalletID, err)
		}
		if !t.allowOverdraw && adj.Delta.IsNegative() && balance.IsNegative() {
			return fmt.Errorf("trigger: wallet %d would drop to %s: %w", adj.WalletID, balance, util.ErrInsufficientFunds)
		}
	}
	return nil
}

// EntryDeltas computes the per-wallet adjustments for an entry mutation.
func EntryDeltas(before, after *domain.Entry) []Adjustment {
	acc := newAccumulator()
	if before != nil {
		acc.add(before.WalletID, before.Delta().Neg())
	}
	if after != nil {
		acc.add(after.WalletID, after.Delta())
	}
	return acc.result()
}

// TransferDeltas computes the per-wallet adjustments for a transfer mutation.
func TransferDeltas(before, after *domain.Transfer) []Adjustment {
	acc := newAccumulator()
	if before != nil {
		acc.add(before.FromWalletID, before.Amount)
		acc.add(before.ToWalletID, before.Amount.Neg())
	}
	if after != nil {
		acc.add(after.FromWalletID, after.Amount.Neg())
		acc.add(after.ToWalletID, after.Amount)
	}
	return acc.result()
}

type accumulator map[int64]money.Money

func newAccumulator() accumulator { return accumulator{} }

func (a accumulator) add(walletID int64, delta money.Money) {
	a[walletID] = a[walletID].Add(delta)
}

// result drops no-op adjustments and orders by wallet id so concurrent mutations lock rows
// in the same order.
func (a accumulator) result() []Adjustment {
	out := make([]Adjustment, 0, len(a))
	for id, delta := range a {
		if delta.IsZero() {
			continue
		}
		out = append(out, Adjustment{WalletID: id, Delta: delta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WalletID < out[j].WalletID })
	return out
}

func entryUser(e *domain.Entry) *uuid.UUID {
	if e == nil {
		return nil
	}
	return &e.UserID
}

func transferUser(t *domain.Transfer) *uuid.UUID {
	if t == nil {
		return nil
	}
	return &t.UserID
}

func ownerOf(before, after *uuid.UUID) (uuid.UUID, error) {
	switch {
	case before == nil && after == nil:
		return uuid.Nil, fmt.Errorf("trigger: nothing changed: %w", util.ErrInvalidInput)
	case before == nil:
		return *after, nil
	case after == nil:
		return *before, nil
	case *before != *after:
		return uuid.Nil, fmt.Errorf("trigger: row changed owner: %w", util.ErrInvalidInput)
	}
	return *before, nil
}
