package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/api/metrics"
	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

type BidService struct {
	repo   ports.AuctionRepository
	logger zerolog.Logger
}

func NewBidService(repo ports.AuctionRepository, logger zerolog.Logger) *BidService {
	return &BidService{repo: repo, logger: logger}
}

// Place validates and appends a bid to the auction's ledger. The append
// itself is a conditional update matching only while the window is open,
// so the ledger stays immutable once the auction closes even if a bid
// races the end time.
func (s *BidService) Place(ctx context.Context, input ports.PlaceBidInput) (*domain.Auction, error) {
	if input.BidderID == "" || input.Amount <= 0 {
		return nil, domain.ErrBidTooLow
	}

	auction, err := s.repo.FindByID(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}
	if auction.CreatedBy == input.BidderID {
		return nil, domain.ErrOwnAuctionBid
	}

	now := time.Now().UTC()
	if !auction.IsOpen(now) {
		return nil, domain.ErrAuctionNotOpen
	}
	if input.Amount < auction.StartingBid {
		return nil, domain.ErrBidTooLow
	}
	if highest, ok := auction.HighestBid(); ok && input.Amount <= highest.Amount {
		return nil, domain.ErrBidTooLow
	}

	bid := domain.Bid{
		BidderID:   input.BidderID,
		BidderName: input.BidderName,
		Amount:     input.Amount,
		PlacedAt:   now,
	}

	updated, err := s.repo.AppendBid(ctx, input.AuctionID, bid, now)
	if err != nil {
		return nil, err
	}

	metrics.BidsPlacedTotal.Inc()
	s.logger.Info().
		Str("auction_id", input.AuctionID).
		Str("bidder_id", input.BidderID).
		Float64("amount", input.Amount).
		Msg("bid placed")

	return updated, nil
}
