package handler

import (
	"time"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// Every success response carries the same envelope shape; 4xx/5xx render
// through the central error handler as {"success": false, "message": ...}.

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type auctionResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	AuctionItem *domain.Auction `json:"auctionItem"`
}

type auctionListResponse struct {
	Success bool              `json:"success"`
	Items   []*domain.Auction `json:"items"`
}

type auctionDetailResponse struct {
	Success     bool            `json:"success"`
	AuctionItem *domain.Auction `json:"auctionItem"`
	Bidders     []domain.Bid    `json:"bidders"`
}

type republishResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	AuctionItem *domain.Auction `json:"auctionItem"`
	CreatedBy   *domain.User    `json:"createdBy"`
}

type republishRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type placeBidRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type leaderboardResponse struct {
	Success     bool           `json:"success"`
	Leaderboard []*domain.User `json:"leaderboard"`
}
