// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pocketledger/internal/aggregator"
	"pocketledger/internal/appstate"
	"pocketledger/internal/cache"
	"pocketledger/internal/domain"
	"pocketledger/internal/guard"
	"pocketledger/internal/money"
	"pocketledger/internal/session"
	"pocketledger/internal/util"
)

// LedgerService runs every ledger action through guard, store and cache refresh.
type LedgerService struct {
	store    Store
	balances *cache.BalanceCache
	guard    *guard.Guard
	prefs    *appstate.Preferences
	location *time.Location
	gate     *submissionGate
	logger   *slog.Logger
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService. Feed day buckets are computed in loc.
func NewLedgerService(
	store Store,
	balances *cache.BalanceCache,
	g *guard.Guard,
	prefs *appstate.Preferences,
	loc *time.Location,
) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{
		store:    store,
		balances: balances,
		guard:    g,
		prefs:    prefs,
		location: loc,
		gate:     newSubmissionGate(),
		logger:   util.GetLogger().With("component", "ledger_service"),
		now:      time.Now,
	}
}

// submit resolves the user and holds their submission slot while fn runs.
func (s *LedgerService) submit(ctx context.Context, fn func(userID uuid.UUID) error) error {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	release, err := s.gate.acquire(userID)
	if err != nil {
		return err
	}
	defer release()
	return fn(userID)
}

// refresh re-reads the touched wallets. The write already committed, so failures are only logged.
func (s *LedgerService) refresh(ctx context.Context, userID uuid.UUID, walletIDs ...int64) {
	seen := make(map[int64]bool, len(walletIDs))
	for _, id := range walletIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if err := s.balances.Refresh(ctx, userID, id); err != nil {
			s.logger.Warn("Failed to refresh wallet balance", "user_id", userID, "wallet_id", id, "error", err)
			_ = s.balances.Invalidate(ctx, userID, id)
		}
	}
}

// Wallets lists the user's wallets and refreshes their cached balances.
func (s *LedgerService) Wallets(ctx context.Context) ([]domain.Wallet, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.balances.RefreshAll(ctx, userID)
}

func (s *LedgerService) Wallet(ctx context.Context, id int64) (*domain.Wallet, error) {
	return s.store.GetWallet(ctx, id)
}

// CreateWallet validates and inserts a wallet with its opening amount.
func (s *LedgerService) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	if err := validateWallet(wallet); err != nil {
		return err
	}
	if wallet.Amount.IsNegative() {
		return fmt.Errorf("%w: opening amount cannot be negative", util.ErrInvalidAmount)
	}
	return s.submit(ctx, func(userID uuid.UUID) error {
		if err := s.store.CreateWallet(ctx, wallet); err != nil {
			return err
		}
		s.logger.Info("Wallet created", "user_id", userID, "wallet_id", wallet.ID, "amount", wallet.Amount.String())
		s.refresh(ctx, userID, wallet.ID)
		return nil
	})
}

// UpdateWallet changes the wallet's presentation. The amount is never written.
func (s *LedgerService) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	if err := validateWallet(wallet); err != nil {
		return err
	}
	return s.submit(ctx, func(userID uuid.UUID) error {
		if err := s.store.UpdateWallet(ctx, wallet); err != nil {
			return err
		}
		s.logger.Info("Wallet updated", "user_id", userID, "wallet_id", wallet.ID)
		return nil
	})
}

func (s *LedgerService) DeleteWallet(ctx context.Context, id int64) error {
	return s.submit(ctx, func(userID uuid.UUID) error {
		if err := s.store.DeleteWallet(ctx, id); err != nil {
			return err
		}
		s.logger.Info("Wallet deleted", "user_id", userID, "wallet_id", id)
		return s.balances.Invalidate(ctx, userID, id)
	})
}

func validateWallet(w *domain.Wallet) error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return util.MissingField("name")
	}
	if !w.Type.Valid() {
		return fmt.Errorf("%w: wallet type must be %q or %q", util.ErrInvalidInput, domain.WalletTypeBank, domain.WalletTypeCash)
	}
	return nil
}

// Entries lists expenses or income, optionally for one wallet.
func (s *LedgerService) Entries(ctx context.Context, kind domain.Kind, walletID *int64) ([]domain.Entry, error) {
	return s.store.ListEntries(ctx, kind, domain.EntryFilter{WalletID: walletID})
}

func (s *LedgerService) Entry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	return s.store.GetEntry(ctx, kind, id)
}

// SubmitEntry creates an expense or income. Guard failures return before any write.
func (s *LedgerService) SubmitEntry(ctx context.Context, entry *domain.Entry) error {
	return s.submit(ctx, func(userID uuid.UUID) error {
		entry.UserID = userID
		if err := s.guard.CheckEntry(ctx, nil, entry); err != nil {
			return err
		}
		if err := s.fillWalletName(ctx, entry); err != nil {
			return err
		}
		if err := s.store.CreateEntry(ctx, entry); err != nil {
			return err
		}
		s.logger.Info("Entry created", "user_id", userID, "kind", entry.Kind, "entry_id", entry.ID,
			"wallet_id", entry.WalletID, "amount", entry.Amount.String())
		s.refresh(ctx, userID, entry.WalletID)
		return nil
	})
}

// UpdateEntry edits an expense or income in place.
func (s *LedgerService) UpdateEntry(ctx context.Context, entry *domain.Entry) error {
	return s.submit(ctx, func(userID uuid.UUID) error {
		entry.UserID = userID
		original, err := s.store.GetEntry(ctx, entry.Kind, entry.ID)
		if err != nil {
			return err
		}
		if err := s.guard.CheckEntry(ctx, original, entry); err != nil {
			return err
		}
		if entry.WalletID == original.WalletID && entry.Wallet == "" {
			entry.Wallet = original.Wallet
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = original.CreatedAt
		}
		if err := s.fillWalletName(ctx, entry); err != nil {
			return err
		}
		if err := s.store.UpdateEntry(ctx, entry); err != nil {
			return err
		}
		s.logger.Info("Entry updated", "user_id", userID, "kind", entry.Kind, "entry_id", entry.ID,
			"amount", entry.Amount.String())
		s.refresh(ctx, userID, original.WalletID, entry.WalletID)
		return nil
	})
}

// DeleteEntry removes an expense or income and returns it.
func (s *LedgerService) DeleteEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	var deleted *domain.Entry
	err := s.submit(ctx, func(userID uuid.UUID) error {
		var err error
		deleted, err = s.store.DeleteEntry(ctx, kind, id)
		if err != nil {
			return err
		}
		s.logger.Info("Entry deleted", "user_id", userID, "kind", kind, "entry_id", id)
		s.refresh(ctx, userID, deleted.WalletID)
		return nil
	})
	return deleted, err
}

// fillWalletName denormalizes the wallet display name when the caller left it empty.
func (s *LedgerService) fillWalletName(ctx context.Context, entry *domain.Entry) error {
	if strings.TrimSpace(entry.Wallet) != "" {
		return nil
	}
	wallet, err := s.store.GetWallet(ctx, entry.WalletID)
	if err != nil {
		return err
	}
	entry.Wallet = wallet.Name
	return nil
}

func (s *LedgerService) Transfers(ctx context.Context, walletID *int64) ([]domain.Transfer, error) {
	return s.store.ListTransfers(ctx, domain.TransferFilter{WalletID: walletID})
}

func (s *LedgerService) Transfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	return s.store.GetTransfer(ctx, id)
}

// SubmitTransfer moves money between two wallets of the user.
func (s *LedgerService) SubmitTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return s.submit(ctx, func(userID uuid.UUID) error {
		transfer.UserID = userID
		if err := s.guard.CheckTransfer(ctx, nil, transfer); err != nil {
			return err
		}
		if err := s.store.CreateTransfer(ctx, transfer); err != nil {
			return err
		}
		s.logger.Info("Transfer created", "user_id", userID, "transfer_id", transfer.ID,
			"from_wallet_id", transfer.FromWalletID, "to_wallet_id", transfer.ToWalletID, "amount", transfer.Amount.String())
		s.refresh(ctx, userID, transfer.FromWalletID, transfer.ToWalletID)
		return nil
	})
}

func (s *LedgerService) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return s.submit(ctx, func(userID uuid.UUID) error {
		transfer.UserID = userID
		original, err := s.store.GetTransfer(ctx, transfer.ID)
		if err != nil {
			return err
		}
		if err := s.guard.CheckTransfer(ctx, original, transfer); err != nil {
			return err
		}
		if transfer.CreatedAt.IsZero() {
			transfer.CreatedAt = original.CreatedAt
		}
		if err := s.store.UpdateTransfer(ctx, transfer); err != nil {
			return err
		}
		s.logger.Info("Transfer updated", "user_id", userID, "transfer_id", transfer.ID, "amount", transfer.Amount.String())
		s.refresh(ctx, userID, original.FromWalletID, original.ToWalletID, transfer.FromWalletID, transfer.ToWalletID)
		return nil
	})
}

func (s *LedgerService) DeleteTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	var deleted *domain.Transfer
	err := s.submit(ctx, func(userID uuid.UUID) error {
		var err error
		deleted, err = s.store.DeleteTransfer(ctx, id)
		if err != nil {
			return err
		}
		s.logger.Info("Transfer deleted", "user_id", userID, "transfer_id", id)
		s.refresh(ctx, userID, deleted.FromWalletID, deleted.ToWalletID)
		return nil
	})
	return deleted, err
}

func (s *LedgerService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *LedgerService) Category(ctx context.Context, id int64) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *LedgerService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.submit(ctx, func(uuid.UUID) error {
		return s.store.CreateCategory(ctx, category)
	})
}

func (s *LedgerService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.submit(ctx, func(uuid.UUID) error {
		return s.store.UpdateCategory(ctx, category)
	})
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	return s.submit(ctx, func(uuid.UUID) error {
		return s.store.DeleteCategory(ctx, id)
	})
}

func validateCategory(c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return util.MissingField("name")
	}
	switch c.Type {
	case "", domain.KindExpense, domain.KindIncome:
		return nil
	}
	return fmt.Errorf("%w: category type must be expense, income or empty", util.ErrInvalidInput)
}

// Feed fetches the user's ledger in parallel and runs the aggregator over it. With
// q.WalletID set the feed is scoped to that wallet.
func (s *LedgerService) Feed(ctx context.Context, q aggregator.Query) (aggregator.Feed, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return aggregator.Feed{}, err
	}

	var in aggregator.Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Expenses, err = s.store.ListEntries(gctx, domain.KindExpense, domain.EntryFilter{WalletID: q.WalletID})
		return err
	})
	g.Go(func() (err error) {
		in.Income, err = s.store.ListEntries(gctx, domain.KindIncome, domain.EntryFilter{WalletID: q.WalletID})
		return err
	})
	g.Go(func() (err error) {
		in.Transfers, err = s.store.ListTransfers(gctx, domain.TransferFilter{WalletID: q.WalletID})
		return err
	})
	g.Go(func() (err error) {
		in.Categories, err = s.store.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Wallets, err = s.store.ListWallets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return aggregator.Feed{}, err
	}

	if q.WalletID != nil && !hasWallet(in.Wallets, *q.WalletID) {
		return aggregator.Feed{}, fmt.Errorf("wallet %d: %w", *q.WalletID, util.ErrNotFound)
	}
	s.balances.Prime(ctx, userID, in.Wallets)

	return aggregator.Build(in, q, aggregator.Options{
		Now:      s.now(),
		Location: s.location,
		Currency: s.prefs.Currency(userID),
	})
}

func hasWallet(wallets []domain.Wallet, id int64) bool {
	for _, w := range wallets {
		if w.ID == id {
			return true
		}
	}
	return false
}

// Currency returns the user's display currency.
func (s *LedgerService) Currency(ctx context.Context) (money.Currency, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return money.Currency{}, err
	}
	return money.LookupCurrency(s.prefs.Currency(userID))
}

// SetCurrency changes the user's display currency.
func (s *LedgerService) SetCurrency(ctx context.Context, code string) (money.Currency, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return money.Currency{}, err
	}
	return s.prefs.SetCurrency(userID, code)
}
