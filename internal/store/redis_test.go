package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zappabad/stocksurge/internal/ledger"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(rdb, ttl)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t, time.Hour)

	snap := PortfolioSnapshot{Cash: 1234.56, Portfolio: ledger.Portfolio{"FoodCo": 7}}
	if err := s.Save(ctx, "bob", snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists(keyPrefix + "bob") {
		t.Fatalf("expected key %s to exist", keyPrefix+"bob")
	}
	if ttl := mr.TTL(keyPrefix + "bob"); ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %v", ttl)
	}

	got, err := s.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cash != 1234.56 || got.Portfolio["FoodCo"] != 7 {
		t.Errorf("unexpected snapshot %+v", got)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t, time.Minute)

	if err := s.Save(ctx, "carol", PortfolioSnapshot{Cash: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := s.Load(ctx, "carol"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStoreCorruptValue(t *testing.T) {
	s, mr := newTestRedis(t, 0)
	mr.Set(keyPrefix+"dave", "not json")

	if _, err := s.Load(context.Background(), "dave"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}
