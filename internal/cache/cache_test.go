package cache

import (
	"context"
	"os"
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

// MockLoader is a mock implementation of Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockLoader) LoadWallet(ctx context.Context, userID uuid.UUID, walletID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func TestBalanceCache_GetReadsThrough(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	loader := new(MockLoader)
	loader.On("LoadWallet", ctx, userID, int64(1)).
		Return(&domain.Wallet{ID: 1, Amount: money.MustParse("100")}, nil).Once()

	c := NewBalanceCache(NewMemoryBackend(), loader)

	got, err := c.Get(ctx, userID, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(money.MustParse("100")))

	// Second read is served from the backend; Once() would fail a second loader call.
	got, err = c.Get(ctx, userID, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(money.MustParse("100")))
	loader.AssertExpectations(t)
}

func TestBalanceCache_Refresh(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, userID, 1, money.MustParse("50")))
	require.NoError(t, backend.Save(ctx, userID, 2, money.MustParse("10")))

	loader := new(MockLoader)
	loader.On("LoadWallet", ctx, userID, int64(1)).Return(&domain.Wallet{ID: 1, Amount: money.MustParse("20")}, nil)
	loader.On("LoadWallet", ctx, userID, int64(2)).Return(nil, util.ErrNotFound)

	c := NewBalanceCache(backend, loader)
	require.NoError(t, c.Refresh(ctx, userID, 1))
	require.NoError(t, c.Refresh(ctx, userID, 2))

	amount, ok, _ := backend.Load(ctx, userID, 1)
	assert.True(t, ok)
	assert.True(t, amount.Equal(money.MustParse("20")))

	_, ok, _ = backend.Load(ctx, userID, 2)
	assert.False(t, ok, "deleted wallet should be evicted")
}

func TestBalanceCache_RefreshAllReplacesUserEntries(t *testing.T) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, alice, 9, money.MustParse("1")))
	require.NoError(t, backend.Save(ctx, bob, 9, money.MustParse("2")))

	loader := new(MockLoader)
	loader.On("LoadWallets", ctx, alice).Return([]domain.Wallet{
		{ID: 1, Amount: money.MustParse("50")},
		{ID: 2, Amount: money.Zero},
	}, nil)

	wallets, err := NewBalanceCache(backend, loader).RefreshAll(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, wallets, 2)

	_, ok, _ := backend.Load(ctx, alice, 9)
	assert.False(t, ok)
	amount, ok, _ := backend.Load(ctx, alice, 1)
	assert.True(t, ok)
	assert.True(t, amount.Equal(money.MustParse("50")))

	_, ok, _ = backend.Load(ctx, bob, 9)
	assert.True(t, ok, "other users are untouched")
}

func TestBalanceCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, userID, 1, money.MustParse("50")))

	c := NewBalanceCache(backend, new(MockLoader))
	require.NoError(t, c.Invalidate(ctx, userID))
	require.NoError(t, c.Invalidate(ctx, userID, 1))

	_, ok, _ := backend.Load(ctx, userID, 1)
	assert.False(t, ok)
}

func TestRedisBackend_KeyLayout(t *testing.T) {
	userID := uuid.MustParse("7b0f7a5e-2d2c-4c57-9f38-7d5e3b1e9a10")
	assert.Equal(t, "balances:7b0f7a5e-2d2c-4c57-9f38-7d5e3b1e9a10", userKey(userID))
	assert.Equal(t, "42", walletField(42))

	m, err := decodeAmount("123.4500")
	require.NoError(t, err)
	assert.True(t, m.Equal(money.MustParse("123.45")))
}

func TestRedisBackend_Live(t *testing.T) {
	addr := os.Getenv("LEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := NewRedisClient(strings.Split(addr, ","), "")
	defer client.Close()

	backend := NewRedisBackend(client, time.Minute)
	userID := uuid.New()
	defer client.Del(ctx, userKey(userID))

	require.NoError(t, backend.Replace(ctx, userID, map[int64]money.Money{1: money.MustParse("50"), 2: money.MustParse("7.25")}))

	amount, ok, err := backend.Load(ctx, userID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, amount.Equal(money.MustParse("7.25")))

	require.NoError(t, backend.Remove(ctx, userID, 2))
	_, ok, err = backend.Load(ctx, userID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
