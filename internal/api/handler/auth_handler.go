package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biddaddy/auction-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register. The payload is a multipart form:
// text fields plus one "profileImage" attachment.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	image, closeFile, err := formFile(c, "profileImage")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image attachment")
	}
	defer closeFile()

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		UserName:     c.FormValue("user_name"),
		Email:        c.FormValue("email"),
		Password:     c.FormValue("password"),
		Phone:        c.FormValue("phone"),
		Address:      c.FormValue("address"),
		Role:         c.FormValue("role"),
		ProfileImage: image,
		Payment: ports.PaymentInput{
			BankAccountNumber: c.FormValue("bank_account_number"),
			BankAccountName:   c.FormValue("bank_account_name"),
			BankName:          c.FormValue("bank_name"),
			UPIID:             c.FormValue("upi_id"),
			PaypalEmail:       c.FormValue("paypal_email"),
			CardNumber:        c.FormValue("card_number"),
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "User Registered.",
		Token:   token,
		User:    user,
	})
}

// Login handles POST /auth/login.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful.",
		Token:   token,
		User:    user,
	})
}

// Logout handles GET /auth/logout. Sessions are stateless bearer
// tokens; this endpoint exists so clients have a uniform place to end a
// session.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "Logged out successfully.",
	})
}

// Me handles GET /auth/me.
//
// @Summary      Get the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, User: user})
}

// Leaderboard handles GET /v1/leaderboard — users ranked by money spent.
//
// @Summary      Top spenders leaderboard
// @Tags         users
// @Produce      json
// @Success      200  {object}  leaderboardResponse
// @Router       /v1/leaderboard [get]
func (h *AuthHandler) Leaderboard(c echo.Context) error {
	users, err := h.authService.Leaderboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Success: true, Leaderboard: users})
}
