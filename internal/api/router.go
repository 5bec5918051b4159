package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/biddaddy/auction-api/internal/api/handler"
	"github.com/biddaddy/auction-api/internal/api/middleware"
	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// Deps bundles everything the router needs to wire routes.
type Deps struct {
	Auctions  ports.AuctionService
	Bids      ports.BidService
	Auth      ports.AuthService
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auction"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auctionHandler := handler.NewAuctionHandler(deps.Auctions)
	bidHandler := handler.NewBidHandler(deps.Bids)

	authMW := middleware.Auth(deps.JWTSecret)
	sellerOnly := middleware.RBAC(domain.RoleAuctioneer, domain.RoleSuperAdmin)
	bidderOnly := middleware.RBAC(domain.RoleBidder, domain.RoleUser)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authMW)

	// --- Auction routes ---
	v1 := e.Group("/v1")
	v1.GET("/auctions", auctionHandler.List)
	v1.GET("/auctions/mine", auctionHandler.Mine, authMW, sellerOnly)
	v1.GET("/auctions/:id", auctionHandler.Detail)
	v1.POST("/auctions", auctionHandler.Create, authMW, sellerOnly)
	v1.PUT("/auctions/:id/republish", auctionHandler.Republish, authMW, sellerOnly)
	v1.DELETE("/auctions/:id", auctionHandler.Remove, authMW, sellerOnly)
	v1.POST("/auctions/:id/bids", bidHandler.Place, authMW, bidderOnly)
	v1.GET("/leaderboard", authHandler.Leaderboard)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
