package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for auction close events.
// Key format: settled:<auction_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this auction's close has already been settled.
func (d *DedupChecker) IsDuplicate(ctx context.Context, auctionID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(auctionID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this auction's close has been settled (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, auctionID string) error {
	return d.client.Set(ctx, d.key(auctionID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(auctionID string) string {
	return "settled:" + auctionID
}
