package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biddaddy/auction-api/internal/core/ports"
)

// AuctionHandler handles HTTP requests for the auction lifecycle.
type AuctionHandler struct {
	service ports.AuctionService
}

func NewAuctionHandler(service ports.AuctionService) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// Create handles POST /v1/auctions. The payload is a multipart form:
// text fields plus one "image" attachment.
//
// @Summary      Create a new auction listing
// @Tags         auctions
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  auctionResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/auctions [post]
func (h *AuctionHandler) Create(c echo.Context) error {
	sellerID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	startingBid, startTime, endTime, err := parseAuctionFields(c)
	if err != nil {
		return err
	}

	image, closeFile, err := formFile(c, "image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image attachment")
	}
	defer closeFile()

	auction, err := h.service.Create(c.Request().Context(), ports.CreateAuctionInput{
		SellerID:    sellerID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Condition:   c.FormValue("condition"),
		StartingBid: startingBid,
		StartTime:   startTime,
		EndTime:     endTime,
		Image:       image,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, auctionResponse{
		Success:     true,
		Message:     fmt.Sprintf("Auction is created and is scheduled for %s", auction.StartTime.Format(time.RFC3339)),
		AuctionItem: auction,
	})
}

// parseAuctionFields converts the numeric and time form values. Absent
// fields stay zero so the service's required-fields check fires; present
// but malformed values are a transport-level 400.
func parseAuctionFields(c echo.Context) (startingBid float64, startTime, endTime time.Time, err error) {
	if raw := c.FormValue("starting_bid"); raw != "" {
		startingBid, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "starting_bid must be a number")
		}
	}
	if raw := c.FormValue("start_time"); raw != "" {
		startTime, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return 0, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "start_time must be RFC3339")
		}
	}
	if raw := c.FormValue("end_time"); raw != "" {
		endTime, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return 0, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end_time must be RFC3339")
		}
	}
	return startingBid, startTime, endTime, nil
}

// List handles GET /v1/auctions.
//
// @Summary      List all auction items
// @Tags         auctions
// @Produce      json
// @Success      200  {object}  auctionListResponse
// @Router       /v1/auctions [get]
func (h *AuctionHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), ports.AuctionFilter{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auctionListResponse{Success: true, Items: items})
}

// Mine handles GET /v1/auctions/mine.
//
// @Summary      List the caller's own auction items
// @Tags         auctions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  auctionListResponse
// @Router       /v1/auctions/mine [get]
func (h *AuctionHandler) Mine(c echo.Context) error {
	sellerID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), ports.AuctionFilter{CreatedBy: sellerID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auctionListResponse{Success: true, Items: items})
}

// Detail handles GET /v1/auctions/:id. The bidders list is the ranked
// standings: highest amount first, ties in insertion order.
//
// @Summary      Get an auction with its ranked bidders
// @Tags         auctions
// @Produce      json
// @Param        id  path  string  true  "Auction id"
// @Success      200  {object}  auctionDetailResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auctions/{id} [get]
func (h *AuctionHandler) Detail(c echo.Context) error {
	auction, bidders, err := h.service.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auctionDetailResponse{
		Success:     true,
		AuctionItem: auction,
		Bidders:     bidders,
	})
}

// Republish handles PUT /v1/auctions/:id/republish.
//
// @Summary      Republish a closed auction with a fresh window
// @Tags         auctions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Auction id"
// @Success      200  {object}  republishResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auctions/{id}/republish [put]
func (h *AuctionHandler) Republish(c echo.Context) error {
	requesterID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req republishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Republish(c.Request().Context(), ports.RepublishInput{
		AuctionID:   c.Param("id"),
		RequesterID: requesterID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, republishResponse{
		Success:     true,
		Message:     fmt.Sprintf("Auction is republished and will be active on %s", result.Auction.StartTime.Format(time.RFC3339)),
		AuctionItem: result.Auction,
		CreatedBy:   result.Owner,
	})
}

// Remove handles DELETE /v1/auctions/:id. Super Admins can delete any
// listing, sellers only their own.
//
// @Summary      Delete an auction item
// @Tags         auctions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Auction id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auctions/{id} [delete]
func (h *AuctionHandler) Remove(c echo.Context) error {
	requesterID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.Request().Context(), c.Param("id"), requesterID, role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "Auction item deleted successfully.",
	})
}
