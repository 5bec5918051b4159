package ports

import (
	"context"
	"time"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// CreateAuctionInput carries all data needed to create a new auction.
type CreateAuctionInput struct {
	SellerID    string
	Title       string
	Description string
	Category    string
	Condition   string
	StartingBid float64
	StartTime   time.Time
	EndTime     time.Time
	Image       *MediaFile // nil = missing attachment
}

// RepublishInput carries the parameters for reopening a closed auction.
type RepublishInput struct {
	AuctionID   string
	RequesterID string
	StartTime   time.Time
	EndTime     time.Time
}

// RepublishResult is returned on a successful republish: the rearmed
// auction and the owner with commission zeroed.
type RepublishResult struct {
	Auction *domain.Auction
	Owner   *domain.User
}

// AuctionService defines the auction lifecycle use cases.
type AuctionService interface {
	Create(ctx context.Context, input CreateAuctionInput) (*domain.Auction, error)
	Republish(ctx context.Context, input RepublishInput) (*RepublishResult, error)
	// Remove deletes the auction. Allowed for the owner and for Super
	// Admins; anyone else gets domain.ErrForbidden.
	Remove(ctx context.Context, id, requesterID, role string) error
	List(ctx context.Context, filter AuctionFilter) ([]*domain.Auction, error)
	// Detail returns the auction together with its ranked bid standings.
	Detail(ctx context.Context, id string) (*domain.Auction, []domain.Bid, error)
}
