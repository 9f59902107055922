package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour

	// pendingMarker holds a reserved key until the order number is known.
	pendingMarker = "pending"
	// pendingTTL bounds how long a crashed request can block its key.
	pendingTTL = time.Minute
)

// IdempotencyStore maps client-supplied Idempotency-Key headers to the order
// they created.
// Key format: idem:<tenant_id>:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given Redis client. A non-positive ttl falls
// back to 24 hours.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with a pending marker. If another request owns the key
// it returns the order number stored there, or "" while that order is still
// pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, tenantID, key string) (bool, string, error) {
	k := s.key(tenantID, key)
	// Two attempts: the holder may expire or release between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
		if err != nil {
			return false, "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return true, "", nil
		}
		value, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if value == pendingMarker {
			return false, "", nil
		}
		return false, value, nil
	}
	return false, "", nil
}

// Complete replaces the pending marker with the order number for the full
// TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, tenantID, key, orderNumber string) error {
	if err := s.client.Set(ctx, s.key(tenantID, key), orderNumber, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose order was never created, so a retry can
// try again.
func (s *IdempotencyStore) Release(ctx context.Context, tenantID, key string) error {
	if err := s.client.Del(ctx, s.key(tenantID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(tenantID, key string) string {
	return fmt.Sprintf("idem:%s:%s", tenantID, key)
}
