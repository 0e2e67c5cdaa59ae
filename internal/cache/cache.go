// Package cache keeps an advisory copy of wallet amounts so balance checks do not need a
// round trip. The store remains the source of truth; the trigger revalidates every write.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/util"
)

// Backend stores cached amounts per user and wallet.
type Backend interface {
	Load(ctx context.Context, userID uuid.UUID, walletID int64) (money.Money, bool, error)
	Save(ctx context.Context, userID uuid.UUID, walletID int64, amount money.Money) error
	// Replace drops every entry of the user and stores amounts instead.
	Replace(ctx context.Context, userID uuid.UUID, amounts map[int64]money.Money) error
	Remove(ctx context.Context, userID uuid.UUID, walletIDs ...int64) error
}

// Loader reads authoritative wallet rows.
type Loader interface {
	LoadWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error)
	LoadWallet(ctx context.Context, userID uuid.UUID, walletID int64) (*domain.Wallet, error)
}

// BalanceCache is a read-through cache of wallet amounts.
type BalanceCache struct {
	backend Backend
	loader  Loader
	logger  *slog.Logger
}

// NewBalanceCache creates a cache over backend that reloads through loader.
func NewBalanceCache(backend Backend, loader Loader) *BalanceCache {
	return &BalanceCache{
		backend: backend,
		loader:  loader,
		logger:  util.GetLogger().With("component", "balance_cache"),
	}
}

// Get returns the cached amount of a wallet, loading it on a miss.
func (c *BalanceCache) Get(ctx context.Context, userID uuid.UUID, walletID int64) (money.Money, error) {
	amount, ok, err := c.backend.Load(ctx, userID, walletID)
	if err != nil {
		// Backend errors count as a miss.
		c.logger.Warn("Cache load failed", "user_id", userID, "wallet_id", walletID, "error", err)
	} else if ok {
		return amount, nil
	}

	wallet, err := c.loader.LoadWallet(ctx, userID, walletID)
	if err != nil {
		return money.Zero, err
	}
	if err := c.backend.Save(ctx, userID, walletID, wallet.Amount); err != nil {
		c.logger.Warn("Cache save failed", "user_id", userID, "wallet_id", walletID, "error", err)
	}
	return wallet.Amount, nil
}

// Refresh re-reads one wallet. A wallet that no longer exists is removed from the cache.
func (c *BalanceCache) Refresh(ctx context.Context, userID uuid.UUID, walletID int64) error {
	wallet, err := c.loader.LoadWallet(ctx, userID, walletID)
	if util.IsError(err, util.ErrNotFound) {
		return c.backend.Remove(ctx, userID, walletID)
	}
	if err != nil {
		return err
	}
	return c.backend.Save(ctx, userID, walletID, wallet.Amount)
}

// RefreshAll replaces the user's entries with the current wallet list and returns it.
func (c *BalanceCache) RefreshAll(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := c.loader.LoadWallets(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Prime(ctx, userID, wallets)
	return wallets, nil
}

// Prime replaces the user's entries with amounts from an already fetched wallet list.
func (c *BalanceCache) Prime(ctx context.Context, userID uuid.UUID, wallets []domain.Wallet) {
	amounts := make(map[int64]money.Money, len(wallets))
	for _, w := range wallets {
		amounts[w.ID] = w.Amount
	}
	if err := c.backend.Replace(ctx, userID, amounts); err != nil {
		c.logger.Warn("Cache replace failed", "user_id", userID, "error", err)
	}
}

// Invalidate drops the given wallets so the next Get reloads them.
func (c *BalanceCache) Invalidate(ctx context.Context, userID uuid.UUID, walletIDs ...int64) error {
	if len(walletIDs) == 0 {
		return nil
	}
	if err := c.backend.Remove(ctx, userID, walletIDs...); err != nil {
		return fmt.Errorf("failed to invalidate wallets %v: %w", walletIDs, err)
	}
	return nil
}
