package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingValue is stored while the reserving request is still creating its order.
const pendingValue = "pending"

// releaseScript deletes a key only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// IdempotencyStore maps Idempotency-Key values to order ids in Redis.
// Key format: idem:order:<customer_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore wraps the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Reserve claims key with SET NX. A key that is already taken reports the order
// id stored under it, or 0 while it still holds the pending marker.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (int64, bool, error) {
	k := s.key(key)
	ok, err := s.client.SetNX(ctx, k, pendingValue, ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	v, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired between SETNX and GET; the caller retries.
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("idempotency reserve: %w", err)
	case v == pendingValue:
		return 0, false, nil
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency reserve: corrupt value %q", v)
	}
	return id, false, nil
}

// Complete overwrites the pending marker with the created order id.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), orderID, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release frees a reservation that never produced an order.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(key)}, pendingValue).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

// Ping satisfies the readiness probe.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:order:" + k
}
