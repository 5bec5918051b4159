package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/api/metrics"
	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// SellerLock serializes the active-auction check and the subsequent
// insert for a single seller. Backed by Redis in production; without it
// two concurrent creates from the same seller could both pass the check.
type SellerLock interface {
	Acquire(ctx context.Context, sellerID string) (bool, error)
	Release(ctx context.Context, sellerID string) error
}

type AuctionService struct {
	repo   ports.AuctionRepository
	users  ports.UserRepository
	media  ports.MediaStore
	lock   SellerLock
	logger zerolog.Logger
}

func NewAuctionService(
	repo ports.AuctionRepository,
	users ports.UserRepository,
	media ports.MediaStore,
	lock SellerLock,
	logger zerolog.Logger,
) *AuctionService {
	return &AuctionService{repo: repo, users: users, media: media, lock: lock, logger: logger}
}

// Create validates and persists a new auction. Checks run fail-fast in a
// fixed order: image, required fields, start not in the past, start
// before end, no other active auction for the seller. The image upload
// happens last so a failed upload leaves no partial record behind.
func (s *AuctionService) Create(ctx context.Context, input ports.CreateAuctionInput) (*domain.Auction, error) {
	if input.Image == nil {
		return nil, domain.ErrImageRequired
	}
	if !domain.IsAllowedImageType(input.Image.ContentType) {
		return nil, domain.ErrInvalidImageFormat
	}
	if input.Title == "" || input.Description == "" || input.Category == "" || input.Condition == "" ||
		input.StartingBid <= 0 || input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	if input.StartTime.Before(now) {
		return nil, domain.ErrStartTimeInPast
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.ErrInvalidTimeWindow
	}

	// Hold the per-seller lock across the active-auction check, the upload
	// and the insert, so concurrent creates cannot both pass the check.
	locked, err := s.lock.Acquire(ctx, input.SellerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("seller_id", input.SellerID).Msg("seller lock unavailable, falling back to unguarded check")
	} else if !locked {
		return nil, domain.ErrActiveAuctionExists
	} else {
		defer func() {
			if relErr := s.lock.Release(ctx, input.SellerID); relErr != nil {
				s.logger.Warn().Err(relErr).Str("seller_id", input.SellerID).Msg("seller lock release failed")
			}
		}()
	}

	active, err := s.repo.FindActiveBySeller(ctx, input.SellerID, now)
	if err != nil {
		return nil, fmt.Errorf("check active auctions: %w", err)
	}
	if len(active) > 0 {
		return nil, domain.ErrActiveAuctionExists
	}

	image, err := s.media.Upload(ctx, *input.Image, ports.FolderAuctions)
	if err != nil {
		s.logger.Error().Err(err).Str("seller_id", input.SellerID).Msg("auction image upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrMediaUpload, err)
	}

	auction := &domain.Auction{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Condition:   input.Condition,
		StartingBid: input.StartingBid,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Image:       image,
		Bids:        []domain.Bid{},
		CreatedBy:   input.SellerID,
		CreatedAt:   now,
	}

	created, err := s.repo.Create(ctx, auction)
	if err != nil {
		s.logger.Error().Err(err).Str("seller_id", input.SellerID).Msg("failed to create auction")
		return nil, err
	}

	metrics.AuctionsCreatedTotal.WithLabelValues(created.Category).Inc()
	s.logger.Info().
		Str("auction_id", created.ID).
		Str("seller_id", input.SellerID).
		Time("start_time", created.StartTime).
		Msg("auction created")

	return created, nil
}

// Republish reopens a closed auction with a fresh window. The bid ledger
// is emptied, the commission flag cleared, and the owner's unpaid
// commission reset to zero unconditionally.
func (s *AuctionService) Republish(ctx context.Context, input ports.RepublishInput) (*ports.RepublishResult, error) {
	auction, err := s.repo.FindByID(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}
	if auction.CreatedBy != input.RequesterID {
		return nil, domain.ErrForbidden
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, domain.ErrRepublishTimes
	}

	now := time.Now().UTC()
	if !auction.IsClosed(now) {
		return nil, domain.ErrAuctionStillActive
	}
	if input.StartTime.Before(now) {
		return nil, domain.ErrStartTimeInPast
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.ErrInvalidTimeWindow
	}

	updated, err := s.repo.Republish(ctx, input.AuctionID, input.StartTime, input.EndTime, now)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.ResetCommission(ctx, auction.CreatedBy)
	if err != nil {
		s.logger.Error().Err(err).Str("auction_id", input.AuctionID).Str("seller_id", auction.CreatedBy).Msg("commission reset failed")
		return nil, err
	}

	metrics.AuctionsRepublishedTotal.Inc()
	s.logger.Info().
		Str("auction_id", updated.ID).
		Time("start_time", updated.StartTime).
		Msg("auction republished")

	return &ports.RepublishResult{Auction: updated, Owner: owner}, nil
}

// Remove deletes the auction. Super Admins may delete any listing;
// everyone else only their own.
func (s *AuctionService) Remove(ctx context.Context, id, requesterID, role string) error {
	auction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role != domain.RoleSuperAdmin && auction.CreatedBy != requesterID {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("auction_id", id).Msg("failed to delete auction")
		return err
	}
	s.logger.Info().Str("auction_id", id).Msg("auction deleted")
	return nil
}

// List returns auctions matching the filter, unordered and unpaginated.
func (s *AuctionService) List(ctx context.Context, filter ports.AuctionFilter) ([]*domain.Auction, error) {
	return s.repo.Find(ctx, filter)
}

// Detail returns the auction and its bid standings, highest amount
// first, ties kept in insertion order.
func (s *AuctionService) Detail(ctx context.Context, id string) (*domain.Auction, []domain.Bid, error) {
	auction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return auction, domain.RankBids(auction.Bids), nil
}
