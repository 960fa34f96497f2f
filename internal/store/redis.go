package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "stocksurge:snapshot:"

var _ SnapshotStore = (*RedisStore)(nil)

// RedisStore keeps snapshots as JSON values that expire after ttl.
// A zero ttl keeps them forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewRedisStore(rdb, ttl), nil
}

func key(name string) string { return keyPrefix + name }

func (r *RedisStore) Save(ctx context.Context, name string, snap PortfolioSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(name), b, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, name string) (PortfolioSnapshot, error) {
	b, err := r.client.Get(ctx, key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return PortfolioSnapshot{}, ErrNotFound
	}
	if err != nil {
		return PortfolioSnapshot{}, err
	}

	var snap PortfolioSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return PortfolioSnapshot{}, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return snap, nil
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
