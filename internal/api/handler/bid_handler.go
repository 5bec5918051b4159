package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biddaddy/auction-api/internal/core/ports"
)

// BidHandler handles bid placement.
type BidHandler struct {
	service ports.BidService
}

func NewBidHandler(service ports.BidService) *BidHandler {
	return &BidHandler{service: service}
}

// Place handles POST /v1/auctions/:id/bids.
//
// @Summary      Place a bid on an open auction
// @Tags         bids
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Auction id"
// @Success      201  {object}  auctionResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auctions/{id}/bids [post]
func (h *BidHandler) Place(c echo.Context) error {
	bidderID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	bidderName, _ := c.Get("user_name").(string)

	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auction, err := h.service.Place(c.Request().Context(), ports.PlaceBidInput{
		AuctionID:  c.Param("id"),
		BidderID:   bidderID,
		BidderName: bidderName,
		Amount:     req.Amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, auctionResponse{
		Success:     true,
		Message:     "Bid placed.",
		AuctionItem: auction,
	})
}
