package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pocketledger/internal/money"
)

// MemoryBackend keeps amounts in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	users map[uuid.UUID]map[int64]money.Money
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{users: make(map[uuid.UUID]map[int64]money.Money)}
}

func (b *MemoryBackend) Load(_ context.Context, userID uuid.UUID, walletID int64) (money.Money, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	amount, ok := b.users[userID][walletID]
	return amount, ok, nil
}

func (b *MemoryBackend) Save(_ context.Context, userID uuid.UUID, walletID int64, amount money.Money) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	wallets, ok := b.users[userID]
	if !ok {
		wallets = make(map[int64]money.Money)
		b.users[userID] = wallets
	}
	wallets[walletID] = amount
	return nil
}

func (b *MemoryBackend) Replace(_ context.Context, userID uuid.UUID, amounts map[int64]money.Money) error {
	fresh := make(map[int64]money.Money, len(amounts))
	for id, amount := range amounts {
		fresh[id] = amount
	}
	b.mu.Lock()
	b.users[userID] = fresh
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Remove(_ context.Context, userID uuid.UUID, walletIDs ...int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range walletIDs {
		delete(b.users[userID], id)
	}
	return nil
}
