package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pocketledger/internal/money"
)

const balanceNamespace = "balances"

// RedisBackend stores one hash per user, "balances:<user>", mapping wallet id to amount.
type RedisBackend struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient connects to a single node, or to a cluster when several addresses are given.
func NewRedisClient(addrs []string, password string) redis.UniversalClient {
	if len(addrs) > 1 {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:     addrs[0],
		Password: password,
		DB:       0,
	})
}

// NewRedisBackend wraps client. A zero ttl keeps entries until they are replaced.
func NewRedisBackend(client redis.UniversalClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func userKey(userID uuid.UUID) string {
	return balanceNamespace + ":" + userID.String()
}

func walletField(walletID int64) string {
	return strconv.FormatInt(walletID, 10)
}

func (b *RedisBackend) Load(ctx context.Context, userID uuid.UUID, walletID int64) (money.Money, bool, error) {
	raw, err := b.client.HGet(ctx, userKey(userID), walletField(walletID)).Result()
	if errors.Is(err, redis.Nil) {
		return money.Zero, false, nil
	}
	if err != nil {
		return money.Zero, false, err
	}
	amount, err := decodeAmount(raw)
	if err != nil {
		return money.Zero, false, err
	}
	return amount, true, nil
}

func (b *RedisBackend) Save(ctx context.Context, userID uuid.UUID, walletID int64, amount money.Money) error {
	key := userKey(userID)
	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, key, walletField(walletID), amount.String())
	if b.ttl > 0 {
		pipe.Expire(ctx, key, b.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *RedisBackend) Replace(ctx context.Context, userID uuid.UUID, amounts map[int64]money.Money) error {
	key := userKey(userID)
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(amounts) > 0 {
		values := make(map[string]interface{}, len(amounts))
		for id, amount := range amounts {
			values[walletField(id)] = amount.String()
		}
		pipe.HSet(ctx, key, values)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *RedisBackend) Remove(ctx context.Context, userID uuid.UUID, walletIDs ...int64) error {
	if len(walletIDs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(walletIDs))
	for _, id := range walletIDs {
		fields = append(fields, walletField(id))
	}
	return b.client.HDel(ctx, userKey(userID), fields...).Err()
}

func decodeAmount(raw string) (money.Money, error) {
	var m money.Money
	if err := m.UnmarshalJSON([]byte(raw)); err != nil {
		return money.Zero, err
	}
	return m, nil
}
