package ports

import (
	"context"
	"time"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// AuctionFilter carries the optional filters for listing auctions.
type AuctionFilter struct {
	CreatedBy string // empty = all auctions
}

// AuctionRepository defines persistence operations for auctions.
type AuctionRepository interface {
	Create(ctx context.Context, a *domain.Auction) (*domain.Auction, error)
	FindByID(ctx context.Context, id string) (*domain.Auction, error)
	Find(ctx context.Context, filter AuctionFilter) ([]*domain.Auction, error)
	Delete(ctx context.Context, id string) error

	// FindActiveBySeller returns the seller's auctions whose end time is at
	// or after now (the "at most one active auction per seller" check).
	FindActiveBySeller(ctx context.Context, sellerID string, now time.Time) ([]*domain.Auction, error)

	// Republish atomically rearms a closed auction: the update matches only
	// when end_time <= now, sets the new window, empties the bid ledger and
	// clears the commission flag. Returns domain.ErrAuctionStillActive when
	// the auction has not closed yet.
	Republish(ctx context.Context, id string, start, end, now time.Time) (*domain.Auction, error)

	// AppendBid atomically appends a bid. The update matches only while the
	// bidding window is open (start_time <= now < end_time); outside the
	// window it returns domain.ErrAuctionNotOpen.
	AppendBid(ctx context.Context, id string, bid domain.Bid, now time.Time) (*domain.Auction, error)

	// MarkCommissionCalculated flips commission_calculated from false to
	// true. The boolean result reports whether this call performed the flip,
	// making the accrual trigger exactly-once per auction lifetime.
	MarkCommissionCalculated(ctx context.Context, id string) (bool, error)

	// ClearCommissionCalculated rolls the flag back to false after a failed
	// settlement so the sweep picks the auction up again.
	ClearCommissionCalculated(ctx context.Context, id string) error

	// FindClosedUnsettled lists auctions with end_time <= now that still
	// have commission_calculated=false. Used by the settlement sweep.
	FindClosedUnsettled(ctx context.Context, now time.Time) ([]*domain.Auction, error)
}
