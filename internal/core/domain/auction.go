package domain

import (
	"errors"
	"sort"
	"time"
)

// Sentinel errors for the auction lifecycle. The API error handler maps
// these to HTTP status codes and user-facing messages.
var (
	ErrInvalidID           = errors.New("invalid id format")
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrImageRequired       = errors.New("auction item image is required")
	ErrInvalidImageFormat  = errors.New("invalid image format")
	ErrMissingFields       = errors.New("missing required fields")
	ErrStartTimeInPast     = errors.New("start time cannot be in the past")
	ErrInvalidTimeWindow   = errors.New("start time must be earlier than end time")
	ErrActiveAuctionExists = errors.New("one auction already in progress")
	ErrAuctionStillActive  = errors.New("auction is still active")
	ErrRepublishTimes      = errors.New("start time and end time are mandatory to republish")
	ErrMediaUpload         = errors.New("media upload failed")
	ErrForbidden           = errors.New("access forbidden")

	ErrAuctionNotOpen = errors.New("auction is not open for bidding")
	ErrBidTooLow      = errors.New("bid amount is too low")
	ErrOwnAuctionBid  = errors.New("sellers cannot bid on their own auction")
)

// allowedImageTypes is the fixed allow-list of raster formats accepted
// for auction item and profile images.
var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// IsAllowedImageType reports whether the given MIME type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// ImageRef points at an uploaded image in the media store.
type ImageRef struct {
	MediaID string `json:"media_id" bson:"media_id"`
	URL     string `json:"url" bson:"url"`
}

// Bid is a single entry in an auction's append-only bid ledger.
type Bid struct {
	BidderID   string    `json:"bidder_id" bson:"bidder_id"`
	BidderName string    `json:"bidder_name" bson:"bidder_name"`
	Amount     float64   `json:"amount" bson:"amount"`
	PlacedAt   time.Time `json:"placed_at" bson:"placed_at"`
}

// Auction is the core aggregate root.
type Auction struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	Title                string    `json:"title" bson:"title"`
	Description          string    `json:"description" bson:"description"`
	Category             string    `json:"category" bson:"category"`
	Condition            string    `json:"condition" bson:"condition"`
	StartingBid          float64   `json:"starting_bid" bson:"starting_bid"`
	StartTime            time.Time `json:"start_time" bson:"start_time"`
	EndTime              time.Time `json:"end_time" bson:"end_time"`
	Image                ImageRef  `json:"image" bson:"image"`
	Bids                 []Bid     `json:"bids" bson:"bids"`
	CommissionCalculated bool      `json:"commission_calculated" bson:"commission_calculated"`
	CreatedBy            string    `json:"created_by" bson:"created_by"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
}

// IsClosed reports whether the auction has ended. Closing is a derived,
// time-based predicate; no status flag is stored.
func (a *Auction) IsClosed(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// IsOpen reports whether the auction currently accepts bids.
func (a *Auction) IsOpen(now time.Time) bool {
	return !now.Before(a.StartTime) && now.Before(a.EndTime)
}

// HighestBid returns the current winning bid. The second return value is
// false when the ledger is empty.
func (a *Auction) HighestBid() (Bid, bool) {
	ranked := RankBids(a.Bids)
	if len(ranked) == 0 {
		return Bid{}, false
	}
	return ranked[0], true
}

// RankBids returns the bids ordered by amount descending. Equal amounts
// keep their insertion order, so the earlier bid wins a tie. The input
// slice is not modified.
func RankBids(bids []Bid) []Bid {
	ranked := make([]Bid, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount > ranked[j].Amount
	})
	return ranked
}
