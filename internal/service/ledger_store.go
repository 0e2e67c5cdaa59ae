// internal/service/ledger_store.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/repository"
	"pocketledger/internal/session"
	"pocketledger/internal/util"
	"pocketledger/pkg/db"
)

// Store is the remote ledger as seen by the service. Every method resolves the user from the
// session in ctx, except the Load methods used by the balance cache.
type Store interface {
	LoadWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error)
	LoadWallet(ctx context.Context, userID uuid.UUID, walletID int64) (*domain.Wallet, error)

	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	GetWallet(ctx context.Context, id int64) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, wallet *domain.Wallet) error
	UpdateWallet(ctx context.Context, wallet *domain.Wallet) error
	DeleteWallet(ctx context.Context, id int64) error

	ListEntries(ctx context.Context, kind domain.Kind, filter domain.EntryFilter) ([]domain.Entry, error)
	GetEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error)
	CreateEntry(ctx context.Context, entry *domain.Entry) error
	UpdateEntry(ctx context.Context, entry *domain.Entry) error
	DeleteEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error)

	ListTransfers(ctx context.Context, filter domain.TransferFilter) ([]domain.Transfer, error)
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) error
	UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error
	DeleteTransfer(ctx context.Context, id int64) (*domain.Transfer, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// Repositories groups the table repositories the store writes through.
type Repositories struct {
	Wallets    repository.WalletRepository
	Expenses   repository.EntryRepository
	Income     repository.EntryRepository
	Transfers  repository.TransferRepository
	Categories repository.CategoryRepository
}

// LedgerStore implements Store on PostgreSQL. Ledger writes and the trigger share one
// transaction. Nothing is retried.
type LedgerStore struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	wallets    repository.WalletRepository
	entries    map[domain.Kind]repository.EntryRepository
	transfers  repository.TransferRepository
	categories repository.CategoryRepository
	trigger    repository.LedgerTrigger
	timeout    time.Duration
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

var _ Store = (*LedgerStore)(nil)

// NewLedgerStore creates a new LedgerStore. A zero timeout leaves calls unbounded.
func NewLedgerStore(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	repos Repositories,
	trigger repository.LedgerTrigger,
	timeout time.Duration,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) *LedgerStore {
	return &LedgerStore{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		wallets:    repos.Wallets,
		entries: map[domain.Kind]repository.EntryRepository{
			repos.Expenses.Kind(): repos.Expenses,
			repos.Income.Kind():   repos.Income,
		},
		transfers:  repos.Transfers,
		categories: repos.Categories,
		trigger:    trigger,
		timeout:    timeout,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// begin bounds ctx by the store timeout and resolves the session user.
func (s *LedgerStore) begin(ctx context.Context) (context.Context, context.CancelFunc, uuid.UUID, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return ctx, func() {}, uuid.Nil, err
	}
	ctx, cancel := s.bound(ctx)
	return ctx, cancel, userID, nil
}

func (s *LedgerStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// inTx runs fn in a transaction and commits only if fn succeeds.
func (s *LedgerStore) inTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func (s *LedgerStore) entryRepo(kind domain.Kind) (repository.EntryRepository, error) {
	repo, ok := s.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no table for kind %q", util.ErrInvalidInput, kind)
	}
	return repo, nil
}

// LoadWallets lists a user's wallets for the balance cache.
func (s *LedgerStore) LoadWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	wallets, err := s.wallets.ListWallets(ctx, s.dbExecutor, userID)
	return wallets, util.RemoteRejected("load wallets", err)
}

// LoadWallet reads one wallet for the balance cache.
func (s *LedgerStore) LoadWallet(ctx context.Context, userID uuid.UUID, walletID int64) (*domain.Wallet, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	wallet, err := s.wallets.GetWalletByID(ctx, s.dbExecutor, userID, walletID)
	return wallet, util.RemoteRejected("load wallet", err)
}

func (s *LedgerStore) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.LoadWallets(ctx, userID)
}

func (s *LedgerStore) GetWallet(ctx context.Context, id int64) (*domain.Wallet, error) {
	userID, err := session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.LoadWallet(ctx, userID, id)
}

// CreateWallet inserts a wallet with its opening amount. This is the only write that sets the
// amount directly.
func (s *LedgerStore) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	wallet.UserID = userID
	return util.RemoteRejected("create wallet", s.wallets.CreateWallet(ctx, s.dbExecutor, wallet))
}

func (s *LedgerStore) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	wallet.UserID = userID
	return util.RemoteRejected("update wallet", s.wallets.UpdateWallet(ctx, s.dbExecutor, wallet))
}

func (s *LedgerStore) DeleteWallet(ctx context.Context, id int64) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	return util.RemoteRejected("delete wallet", s.wallets.DeleteWallet(ctx, s.dbExecutor, userID, id))
}

func (s *LedgerStore) ListEntries(ctx context.Context, kind domain.Kind, filter domain.EntryFilter) ([]domain.Entry, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	repo, err := s.entryRepo(kind)
	if err != nil {
		return nil, err
	}
	filter.UserID = userID
	entries, err := repo.ListEntries(ctx, s.dbExecutor, filter)
	return entries, util.RemoteRejected("list "+string(kind), err)
}

func (s *LedgerStore) GetEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	repo, err := s.entryRepo(kind)
	if err != nil {
		return nil, err
	}
	entry, err := repo.GetEntryByID(ctx, s.dbExecutor, userID, id)
	return entry, util.RemoteRejected("get "+string(kind), err)
}

// CreateEntry inserts the entry and applies its balance effect in one transaction.
func (s *LedgerStore) CreateEntry(ctx context.Context, entry *domain.Entry) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	repo, err := s.entryRepo(entry.Kind)
	if err != nil {
		return err
	}
	entry.UserID = userID

	op := "create " + string(entry.Kind)
	err = s.inTx(ctx, op, func(q repository.DBExecutor) error {
		if err := repo.CreateEntry(ctx, q, entry); err != nil {
			return err
		}
		return s.trigger.EntryChanged(ctx, q, nil, entry)
	})
	return util.RemoteRejected(op, err)
}

// UpdateEntry rewrites the entry in place and moves its balance effect accordingly.
// The original row stays locked until commit so concurrent edits reverse it only once.
func (s *LedgerStore) UpdateEntry(ctx context.Context, entry *domain.Entry) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	repo, err := s.entryRepo(entry.Kind)
	if err != nil {
		return err
	}
	entry.UserID = userID

	op := "update " + string(entry.Kind)
	err = s.inTx(ctx, op, func(q repository.DBExecutor) error {
		before, err := repo.GetEntryForUpdate(ctx, q, userID, entry.ID)
		if err != nil {
			return err
		}
		if err := repo.UpdateEntry(ctx, q, entry); err != nil {
			return err
		}
		return s.trigger.EntryChanged(ctx, q, before, entry)
	})
	return util.RemoteRejected(op, err)
}

// DeleteEntry hard-deletes the entry and reverses its balance effect before returning.
func (s *LedgerStore) DeleteEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	repo, err := s.entryRepo(kind)
	if err != nil {
		return nil, err
	}

	op := "delete " + string(kind)
	var deleted *domain.Entry
	err = s.inTx(ctx, op, func(q repository.DBExecutor) error {
		deleted, err = repo.DeleteEntry(ctx, q, userID, id)
		if err != nil {
			return err
		}
		return s.trigger.EntryChanged(ctx, q, deleted, nil)
	})
	if err != nil {
		return nil, util.RemoteRejected(op, err)
	}
	return deleted, nil
}

func (s *LedgerStore) ListTransfers(ctx context.Context, filter domain.TransferFilter) ([]domain.Transfer, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	filter.UserID = userID
	transfers, err := s.transfers.ListTransfers(ctx, s.dbExecutor, filter)
	return transfers, util.RemoteRejected("list transfers", err)
}

func (s *LedgerStore) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	transfer, err := s.transfers.GetTransferByID(ctx, s.dbExecutor, userID, id)
	return transfer, util.RemoteRejected("get transfer", err)
}

// CreateTransfer inserts the transfer and debits/credits both wallets in one transaction.
func (s *LedgerStore) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	transfer.UserID = userID

	err = s.inTx(ctx, "create transfer", func(q repository.DBExecutor) error {
		if err := s.transfers.CreateTransfer(ctx, q, transfer); err != nil {
			return err
		}
		return s.trigger.TransferChanged(ctx, q, nil, transfer)
	})
	return util.RemoteRejected("create transfer", err)
}

// UpdateTransfer rewrites the transfer and moves both balance effects, holding the original row lock.
func (s *LedgerStore) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	transfer.UserID = userID

	err = s.inTx(ctx, "update transfer", func(q repository.DBExecutor) error {
		before, err := s.transfers.GetTransferForUpdate(ctx, q, userID, transfer.ID)
		if err != nil {
			return err
		}
		if err := s.transfers.UpdateTransfer(ctx, q, transfer); err != nil {
			return err
		}
		return s.trigger.TransferChanged(ctx, q, before, transfer)
	})
	return util.RemoteRejected("update transfer", err)
}

func (s *LedgerStore) DeleteTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	var deleted *domain.Transfer
	err = s.inTx(ctx, "delete transfer", func(q repository.DBExecutor) error {
		deleted, err = s.transfers.DeleteTransfer(ctx, q, userID, id)
		if err != nil {
			return err
		}
		return s.trigger.TransferChanged(ctx, q, deleted, nil)
	})
	if err != nil {
		return nil, util.RemoteRejected("delete transfer", err)
	}
	return deleted, nil
}

func (s *LedgerStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.ListCategories(ctx, s.dbExecutor, userID)
	return categories, util.RemoteRejected("list categories", err)
}

func (s *LedgerStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetCategoryByID(ctx, s.dbExecutor, userID, id)
	return category, util.RemoteRejected("get category", err)
}

func (s *LedgerStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	category.UserID = &userID
	return util.RemoteRejected("create category", s.categories.CreateCategory(ctx, s.dbExecutor, category))
}

func (s *LedgerStore) UpdateCategory(ctx context.Context, category *domain.Category) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	category.UserID = &userID
	return util.RemoteRejected("update category", s.categories.UpdateCategory(ctx, s.dbExecutor, category))
}

func (s *LedgerStore) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel, userID, err := s.begin(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	return util.RemoteRejected("delete category", s.categories.DeleteCategory(ctx, s.dbExecutor, userID, id))
}
