package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockTTL = 30 * time.Second

// SellerLock is a per-seller mutex backed by Redis SET NX. It serializes
// the active-auction check and insert during auction creation; the TTL
// bounds how long a crashed holder can block the seller.
// Key format: lock:seller:<seller_id>
type SellerLock struct {
	client *redis.Client
}

// NewSellerLock creates a SellerLock wrapping the given Redis client.
func NewSellerLock(client *redis.Client) *SellerLock {
	return &SellerLock{client: client}
}

// Acquire attempts to take the seller's lock. Returns false when another
// create for the same seller currently holds it.
func (l *SellerLock) Acquire(ctx context.Context, sellerID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(sellerID), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("seller lock acquire: %w", err)
	}
	return ok, nil
}

// Release frees the seller's lock.
func (l *SellerLock) Release(ctx context.Context, sellerID string) error {
	return l.client.Del(ctx, l.key(sellerID)).Err()
}

func (l *SellerLock) key(sellerID string) string {
	return "lock:seller:" + sellerID
}
