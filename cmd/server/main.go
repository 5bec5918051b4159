// Package main is the entry point for the auction marketplace API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/biddaddy/auction-api/internal/api"
	"github.com/biddaddy/auction-api/internal/core/service"
	"github.com/biddaddy/auction-api/internal/infrastructure/db/mongo"
	"github.com/biddaddy/auction-api/internal/infrastructure/db/redis"
	"github.com/biddaddy/auction-api/internal/infrastructure/media"
	"github.com/biddaddy/auction-api/internal/infrastructure/queue"
	"github.com/biddaddy/auction-api/internal/infrastructure/scheduler"
	"github.com/biddaddy/auction-api/internal/pkg/config"
	"github.com/biddaddy/auction-api/pkg/logger"
)

const tokenTTL = 7 * 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting auction API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB client")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis client")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// --- Repositories ---
	auctionRepo := mongo.NewAuctionRepository(db)
	userRepo := mongo.NewUserRepository(db)

	if err := auctionRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure auction indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Media store (S3-compatible bucket) ---
	s3Client, err := newS3Client(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build S3 client")
	}
	mediaStore := media.NewS3MediaStore(s3Client, cfg.Media.Bucket, cfg.Media.PublicBaseURL)

	// --- Services ---
	sellerLock := redis.NewSellerLock(rdb)
	dedup := redis.NewDedupChecker(rdb)

	auctionService := service.NewAuctionService(auctionRepo, userRepo, mediaStore, sellerLock, log)
	bidService := service.NewBidService(auctionRepo, log)
	authService := service.NewAuthService(userRepo, mediaStore, cfg.JWTSecret, tokenTTL, log)
	settlementService := service.NewSettlementService(auctionRepo, userRepo, dedup, cfg.CommissionRate, log)

	// --- Settlement pipeline: sharded workers fed by the cron sweeper ---
	dispatcher := queue.NewDispatcher(cfg.SettleWorkers, settlementService, log)
	dispatcher.Start(ctx)

	sweeper := scheduler.NewSweeper(auctionRepo, dispatcher, log)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start settlement sweeper")
	}
	defer sweeper.Stop()

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auctions:  auctionService,
		Bids:      bidService,
		Auth:      authService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down auction API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("auction API server stopped")
}

// newS3Client builds an S3 client against the configured endpoint with static
// credentials. Path-style addressing keeps MinIO-style deployments working.
func newS3Client(ctx context.Context, cfg config.MediaConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}
