package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/util"
)

// MockExecutor is a mock implementation of repository.DBExecutor that records the SQL it is given.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return m.Called(ctx, dest, query, args).Error(0)
}

func (m *MockExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return m.Called(ctx, dest, query, args).Error(0)
}

func (m *MockExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	a := m.Called(ctx, query, args)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(sql.Result), a.Error(1)
}

func (m *MockExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return nil
}

func queryWith(parts ...string) interface{} {
	return mock.MatchedBy(func(q string) bool {
		for _, p := range parts {
			if !strings.Contains(q, p) {
				return false
			}
		}
		return true
	})
}

func TestEntryRepository_GetEntryForUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := NewExpenseRepository()

	t.Run("LocksTheRow", func(t *testing.T) {
		q := new(MockExecutor)
		q.On("GetContext", ctx, mock.AnythingOfType("*domain.Entry"), queryWith("FROM expenses", "FOR UPDATE"), []interface{}{int64(7), userID}).
			Run(func(args mock.Arguments) {
				e := args.Get(1).(*domain.Entry)
				e.ID = 7
				e.Amount = money.MustParse("10")
			}).
			Return(nil).Once()

		entry, err := repo.GetEntryForUpdate(ctx, q, userID, 7)

		require.NoError(t, err)
		assert.Equal(t, domain.KindExpense, entry.Kind)
		assert.True(t, entry.Amount.Equal(money.MustParse("10")))
		q.AssertExpectations(t)
	})

	t.Run("MissingRowIsNotFound", func(t *testing.T) {
		q := new(MockExecutor)
		q.On("GetContext", ctx, mock.Anything, queryWith("FOR UPDATE"), mock.Anything).Return(sql.ErrNoRows).Once()

		_, err := repo.GetEntryForUpdate(ctx, q, userID, 404)

		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestEntryRepository_UpdateEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := NewIncomeRepository()
	stored := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("KeepsStoredCreatedAt", func(t *testing.T) {
		q := new(MockExecutor)
		entry := &domain.Entry{ID: 4, UserID: userID, Amount: money.MustParse("120"), Category: "Salary", WalletID: 2, Wallet: "Bank"}

		q.On("GetContext", ctx, mock.AnythingOfType("*time.Time"), queryWith("UPDATE income", "COALESCE($6, created_at)", "RETURNING created_at"), mock.Anything).
			Run(func(args mock.Arguments) {
				params := args.Get(3).([]interface{})
				assert.Nil(t, params[5], "unset created_at must not overwrite the column")
				*args.Get(1).(*time.Time) = stored
			}).
			Return(nil).Once()

		require.NoError(t, repo.UpdateEntry(ctx, q, entry))
		assert.Equal(t, stored, entry.CreatedAt)
		q.AssertExpectations(t)
	})

	t.Run("ExplicitCreatedAtIsWritten", func(t *testing.T) {
		q := new(MockExecutor)
		moved := time.Date(2024, 4, 30, 18, 0, 0, 0, time.UTC)
		entry := &domain.Entry{ID: 4, UserID: userID, Amount: money.MustParse("120"), Category: "Salary", WalletID: 2, CreatedAt: moved}

		q.On("GetContext", ctx, mock.Anything, queryWith("RETURNING created_at"), mock.Anything).
			Run(func(args mock.Arguments) {
				params := args.Get(3).([]interface{})
				assert.Equal(t, moved, params[5])
				*args.Get(1).(*time.Time) = moved
			}).
			Return(nil).Once()

		require.NoError(t, repo.UpdateEntry(ctx, q, entry))
		assert.Equal(t, moved, entry.CreatedAt)
	})

	t.Run("MissingRowIsNotFound", func(t *testing.T) {
		q := new(MockExecutor)
		q.On("GetContext", ctx, mock.Anything, mock.Anything, mock.Anything).Return(sql.ErrNoRows).Once()

		err := repo.UpdateEntry(ctx, q, &domain.Entry{ID: 404, UserID: userID})

		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestTransferRepository_LockAndUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := NewTransferRepository()
	stored := time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC)

	t.Run("GetTransferForUpdateLocksTheRow", func(t *testing.T) {
		q := new(MockExecutor)
		q.On("GetContext", ctx, mock.AnythingOfType("*domain.Transfer"), queryWith("FROM transfers", "FOR UPDATE"), []interface{}{int64(3), userID}).
			Return(nil).Once()

		_, err := repo.GetTransferForUpdate(ctx, q, userID, 3)

		require.NoError(t, err)
		q.AssertExpectations(t)
	})

	t.Run("UpdateReturnsCreatedAt", func(t *testing.T) {
		q := new(MockExecutor)
		transfer := &domain.Transfer{ID: 3, UserID: userID, FromWalletID: 1, ToWalletID: 2, Amount: money.MustParse("10")}

		q.On("GetContext", ctx, mock.AnythingOfType("*time.Time"), queryWith("UPDATE transfers", "COALESCE($5, created_at)", "RETURNING created_at"), mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*time.Time) = stored
			}).
			Return(nil).Once()

		require.NoError(t, repo.UpdateTransfer(ctx, q, transfer))
		assert.Equal(t, stored, transfer.CreatedAt)
		q.AssertExpectations(t)
	})
}

func TestCategoryRepository_GetCategoryByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := NewCategoryRepository()

	q := new(MockExecutor)
	q.On("GetContext", ctx, mock.AnythingOfType("*domain.Category"), queryWith("user_id = $2 OR user_id IS NULL"), []interface{}{int64(99), userID}).
		Return(sql.ErrNoRows).Once()

	_, err := repo.GetCategoryByID(ctx, q, userID, 99)

	assert.ErrorIs(t, err, util.ErrNotFound)
	q.AssertExpectations(t)
}
