package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/repository"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it also satisfies repository.DBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) ListWallets(ctx context.Context, q repository.DBExecutor, userID uuid.UUID) ([]domain.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	return m.Called(ctx, q, wallet).Error(0)
}

func (m *MockWalletRepository) UpdateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	return m.Called(ctx, q, wallet).Error(0)
}

func (m *MockWalletRepository) DeleteWallet(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) error {
	return m.Called(ctx, q, userID, id).Error(0)
}

func (m *MockWalletRepository) AdjustWalletBalance(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, walletID int64, delta money.Money) (money.Money, error) {
	args := m.Called(ctx, q, userID, walletID, delta)
	return args.Get(0).(money.Money), args.Error(1)
}

// MockEntryRepository is a mock implementation of repository.EntryRepository.
type MockEntryRepository struct {
	mock.Mock
	kind domain.Kind
}

func (m *MockEntryRepository) Kind() domain.Kind { return m.kind }

func (m *MockEntryRepository) ListEntries(ctx context.Context, q repository.DBExecutor, filter domain.EntryFilter) ([]domain.Entry, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetEntryByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetEntryForUpdate(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	return m.Called(ctx, q, entry).Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	return m.Called(ctx, q, entry).Error(0)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

// MockTransferRepository is a mock implementation of repository.TransferRepository.
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, q repository.DBExecutor, filter domain.TransferFilter) ([]domain.Transfer, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransferByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransferForUpdate(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	return m.Called(ctx, q, transfer).Error(0)
}

func (m *MockTransferRepository) UpdateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	return m.Called(ctx, q, transfer).Error(0)
}

func (m *MockTransferRepository) DeleteTransfer(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// MockCategoryRepository is a mock implementation of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, q repository.DBExecutor, userID uuid.UUID) ([]domain.Category, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetCategoryByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Category, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, q repository.DBExecutor, category *domain.Category) error {
	return m.Called(ctx, q, category).Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, q repository.DBExecutor, category *domain.Category) error {
	return m.Called(ctx, q, category).Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) error {
	return m.Called(ctx, q, userID, id).Error(0)
}

// MockLedgerTrigger is a mock implementation of repository.LedgerTrigger.
type MockLedgerTrigger struct {
	mock.Mock
}

func (m *MockLedgerTrigger) EntryChanged(ctx context.Context, q repository.DBExecutor, before, after *domain.Entry) error {
	return m.Called(ctx, q, before, after).Error(0)
}

func (m *MockLedgerTrigger) TransferChanged(ctx context.Context, q repository.DBExecutor, before, after *domain.Transfer) error {
	return m.Called(ctx, q, before, after).Error(0)
}

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockStore) LoadWallet(ctx context.Context, userID uuid.UUID, walletID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockStore) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockStore) GetWallet(ctx context.Context, id int64) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockStore) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockStore) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockStore) DeleteWallet(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListEntries(ctx context.Context, kind domain.Kind, filter domain.EntryFilter) ([]domain.Entry, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockStore) GetEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockStore) CreateEntry(ctx context.Context, entry *domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockStore) UpdateEntry(ctx context.Context, entry *domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockStore) DeleteEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockStore) ListTransfers(ctx context.Context, filter domain.TransferFilter) ([]domain.Transfer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transfer), args.Error(1)
}

func (m *MockStore) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockStore) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockStore) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockStore) DeleteTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockStore) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockStore) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
