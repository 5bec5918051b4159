package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Validation and
	// conflict failures both render as 400, matching the API contract.
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "Invalid Id Format."
	case errors.Is(err, domain.ErrAuctionNotFound):
		return http.StatusNotFound, "Auction not found."
	case errors.Is(err, domain.ErrImageRequired):
		return http.StatusBadRequest, "Auction item image is required."
	case errors.Is(err, domain.ErrProfileImageRequired):
		return http.StatusBadRequest, "Profile image is required."
	case errors.Is(err, domain.ErrInvalidImageFormat):
		return http.StatusBadRequest, "Invalid image format."
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "Please provide all details."
	case errors.Is(err, domain.ErrMissingUserFields):
		return http.StatusBadRequest, "Please fill all the fields."
	case errors.Is(err, domain.ErrStartTimeInPast):
		return http.StatusBadRequest, "Start time cannot be in the past."
	case errors.Is(err, domain.ErrInvalidTimeWindow):
		return http.StatusBadRequest, "Start time must be earlier than end time."
	case errors.Is(err, domain.ErrActiveAuctionExists):
		return http.StatusBadRequest, "One auction already in progress."
	case errors.Is(err, domain.ErrAuctionStillActive):
		return http.StatusBadRequest, "Auction is still active."
	case errors.Is(err, domain.ErrRepublishTimes):
		return http.StatusBadRequest, "Start time and End time of the auction is mandatory to republish."
	case errors.Is(err, domain.ErrAuctionNotOpen):
		return http.StatusBadRequest, "Auction is not open for bidding."
	case errors.Is(err, domain.ErrBidTooLow):
		return http.StatusBadRequest, "Bid amount is too low."
	case errors.Is(err, domain.ErrOwnAuctionBid):
		return http.StatusBadRequest, "You cannot bid on your own auction."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access forbidden."
	case errors.Is(err, domain.ErrMediaUpload):
		return http.StatusInternalServerError, "Failed to upload image."
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password."
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role."
	case errors.Is(err, domain.ErrPaymentMethodRequired):
		return http.StatusBadRequest, "Please provide at least one payment method (Bank, UPI, PayPal, or Credit Card)."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error."
}
