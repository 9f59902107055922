package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis implements the commands the store issues.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "set", key, value, "nx")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	if _, exists := f.data[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestIdempotencyStore_ReserveThenComplete(t *testing.T) {
	fake := newFakeRedis()
	store := NewIdempotencyStore(fake, time.Hour)
	ctx := context.Background()

	reserved, number, err := store.Reserve(ctx, "t1", "req-1")
	if err != nil || !reserved || number != "" {
		t.Fatalf("first reserve: reserved=%v number=%q err=%v", reserved, number, err)
	}
	if fake.data["idem:t1:req-1"] != pendingMarker || fake.ttls["idem:t1:req-1"] != pendingTTL {
		t.Fatalf("expected short-lived pending marker, got %q for %s", fake.data["idem:t1:req-1"], fake.ttls["idem:t1:req-1"])
	}

	// A retry while the first request is still running sees the key as busy.
	reserved, number, err = store.Reserve(ctx, "t1", "req-1")
	if err != nil || reserved || number != "" {
		t.Fatalf("retry while pending: reserved=%v number=%q err=%v", reserved, number, err)
	}

	if err := store.Complete(ctx, "t1", "req-1", "OS-00000001"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if fake.ttls["idem:t1:req-1"] != time.Hour {
		t.Errorf("ttl after complete: got %s", fake.ttls["idem:t1:req-1"])
	}

	reserved, number, err = store.Reserve(ctx, "t1", "req-1")
	if err != nil || reserved || number != "OS-00000001" {
		t.Fatalf("retry after complete: reserved=%v number=%q err=%v", reserved, number, err)
	}
}

func TestIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	store := NewIdempotencyStore(newFakeRedis(), 0)
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "t1", "req-1")
	if err := store.Release(ctx, "t1", "req-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if reserved, _, err := store.Reserve(ctx, "t1", "req-1"); err != nil || !reserved {
		t.Fatalf("expected key to be free again: reserved=%v err=%v", reserved, err)
	}
}

func TestIdempotencyStore_TenantsAreIsolated(t *testing.T) {
	store := NewIdempotencyStore(newFakeRedis(), 0)
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "t1", "req-1")
	_ = store.Complete(ctx, "t1", "req-1", "OS-00000001")
	if reserved, _, _ := store.Reserve(ctx, "t2", "req-1"); !reserved {
		t.Error("key leaked across tenants")
	}
}

func TestIdempotencyStore_PropagatesErrors(t *testing.T) {
	fake := newFakeRedis()
	fake.err = errors.New("dial tcp: connection refused")
	store := NewIdempotencyStore(fake, 0)
	ctx := context.Background()

	if _, _, err := store.Reserve(ctx, "t1", "k"); !errors.Is(err, fake.err) {
		t.Errorf("reserve: expected wrapped error, got %v", err)
	}
	if err := store.Complete(ctx, "t1", "k", "OS-1"); !errors.Is(err, fake.err) {
		t.Errorf("complete: expected wrapped error, got %v", err)
	}
	if err := store.Release(ctx, "t1", "k"); !errors.Is(err, fake.err) {
		t.Errorf("release: expected wrapped error, got %v", err)
	}
}
