package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/api/metrics"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) guarding close
// events against duplicate processing across sweep runs.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, auctionID string) (bool, error)
	Mark(ctx context.Context, auctionID string) error
}

type settlementService struct {
	auctions ports.AuctionRepository
	users    ports.UserRepository
	dedup    DedupChecker
	rate     float64
	log      zerolog.Logger
}

// NewSettlementService returns a SettlementService accruing commission
// at the given rate (fraction of the winning bid).
func NewSettlementService(
	auctions ports.AuctionRepository,
	users ports.UserRepository,
	dedup DedupChecker,
	rate float64,
	log zerolog.Logger,
) ports.SettlementService {
	return &settlementService{auctions: auctions, users: users, dedup: dedup, rate: rate, log: log}
}

// Process settles a single closed auction: it accrues the seller's
// commission exactly once and records the winner's spend. A second call
// for the same auction is a no-op, guarded both by the Redis dedup key
// and by the commission_calculated compare-and-set in the store.
func (s *settlementService) Process(ctx context.Context, event ports.CloseEvent) error {
	start := time.Now()

	isDup, err := s.dedup.IsDuplicate(ctx, event.AuctionID)
	if err != nil {
		s.log.Warn().Err(err).Str("auction_id", event.AuctionID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("auction_id", event.AuctionID).Msg("duplicate close event skipped")
		return nil
	}

	auction, err := s.auctions.FindByID(ctx, event.AuctionID)
	if err != nil {
		metrics.SettlementErrorsTotal.WithLabelValues("auction_not_found").Inc()
		return fmt.Errorf("settle auction: %w", err)
	}

	now := time.Now().UTC()
	if !auction.IsClosed(now) {
		// The sweep raced a republish; the auction is live again.
		s.log.Debug().Str("auction_id", auction.ID).Msg("auction no longer closed, skipping settlement")
		return nil
	}
	if auction.CommissionCalculated {
		return nil
	}

	// The flip is a compare-and-set on commission_calculated=false, so at
	// most one Process call per auction lifetime reaches the accrual below.
	// A failure after the flip unwinds it, otherwise a transient error
	// would leave the auction marked settled with no commission paid.
	flipped, err := s.auctions.MarkCommissionCalculated(ctx, auction.ID)
	if err != nil {
		metrics.SettlementErrorsTotal.WithLabelValues("mark_failed").Inc()
		return fmt.Errorf("settle auction: mark commission: %w", err)
	}
	if !flipped {
		return nil
	}

	winner, hasBids := auction.HighestBid()
	if !hasBids {
		s.markProcessed(ctx, event.AuctionID)
		s.log.Info().Str("auction_id", auction.ID).Msg("auction closed without bids, nothing to settle")
		return nil
	}

	commission := s.rate * winner.Amount
	if err := s.users.AccrueCommission(ctx, auction.CreatedBy, commission); err != nil {
		metrics.SettlementErrorsTotal.WithLabelValues("accrue_failed").Inc()
		s.unwind(ctx, auction.ID, auction.CreatedBy, 0)
		return fmt.Errorf("settle auction: accrue commission: %w", err)
	}

	if err := s.users.RecordWin(ctx, winner.BidderID, winner.Amount); err != nil {
		metrics.SettlementErrorsTotal.WithLabelValues("record_win_failed").Inc()
		s.unwind(ctx, auction.ID, auction.CreatedBy, commission)
		return fmt.Errorf("settle auction: record win: %w", err)
	}

	s.markProcessed(ctx, event.AuctionID)
	metrics.CommissionAccruedTotal.Add(commission)
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("auction_id", auction.ID).
		Str("seller_id", auction.CreatedBy).
		Str("winner_id", winner.BidderID).
		Float64("winning_bid", winner.Amount).
		Float64("commission", commission).
		Msg("auction settled")

	return nil
}

// markProcessed sets the dedup key once the settlement is complete. A
// failure here only costs a redundant store lookup on the next sweep.
func (s *settlementService) markProcessed(ctx context.Context, auctionID string) {
	if err := s.dedup.Mark(ctx, auctionID); err != nil {
		s.log.Warn().Err(err).Str("auction_id", auctionID).Msg("failed to set dedup key")
	}
}

// unwind reverses a partially applied settlement so the next sweep can
// retry it: any commission already accrued is compensated, then the
// commission flag rolls back to false. When the compensation itself
// fails the flag stays set, since a retry would then pay twice.
func (s *settlementService) unwind(ctx context.Context, auctionID, sellerID string, accrued float64) {
	if accrued > 0 {
		if err := s.users.AccrueCommission(ctx, sellerID, -accrued); err != nil {
			metrics.SettlementErrorsTotal.WithLabelValues("unwind_failed").Inc()
			s.log.Error().Err(err).
				Str("auction_id", auctionID).
				Str("seller_id", sellerID).
				Float64("commission", accrued).
				Msg("failed to compensate commission, settlement not retryable")
			return
		}
	}
	if err := s.auctions.ClearCommissionCalculated(ctx, auctionID); err != nil {
		metrics.SettlementErrorsTotal.WithLabelValues("unwind_failed").Inc()
		s.log.Error().Err(err).Str("auction_id", auctionID).Msg("failed to roll back commission flag")
	}
}
