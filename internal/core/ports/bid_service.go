package ports

import (
	"context"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// PlaceBidInput carries the data for a single bid placement.
type PlaceBidInput struct {
	AuctionID  string
	BidderID   string
	BidderName string
	Amount     float64
}

// BidService appends bids to an auction's ledger while its window is open.
type BidService interface {
	Place(ctx context.Context, input PlaceBidInput) (*domain.Auction, error)
}
