package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.values[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := m.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	val, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (m *mockCmdable) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	cmd := redis.NewScanCmd(ctx, nil)
	cmd.SetVal(keys, 0)
	return cmd
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestCacheKeyNamespacing(t *testing.T) {
	client := &Client{}
	if got := client.CacheKey("loans"); got != "parcinfo:cache:loans" {
		t.Fatalf("unexpected cache key %s", got)
	}
	if got := client.CacheKey("loans", "emp-1"); got != "parcinfo:cache:loans:emp-1" {
		t.Fatalf("unexpected cache key %s", got)
	}
}

func TestSetNXClaimsOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "parcinfo:maintenance:lock", "owner-1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first claim to win, got ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "parcinfo:maintenance:lock", "owner-2", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if ok {
		t.Fatal("expected second claim to lose")
	}
}

func TestDelByPrefixRemovesOnlyNamespace(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, client.CacheKey("loans", "a"), "1", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := client.Set(ctx, client.CacheKey("loans", "b"), "2", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := client.Set(ctx, client.CacheKey("stock_items", "c"), "3", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := client.DelByPrefix(ctx, "loans"); err != nil {
		t.Fatalf("del by prefix failed: %v", err)
	}

	if _, err := client.Get(ctx, client.CacheKey("loans", "a")); err != redis.Nil {
		t.Fatalf("expected loans key removed, got %v", err)
	}
	if got, err := client.Get(ctx, client.CacheKey("stock_items", "c")); err != nil || got != "3" {
		t.Fatalf("expected stock_items key preserved, got %q err=%v", got, err)
	}
}
