// Package scheduler periodically finds auctions that have passed their
// end time without a settled commission and feeds them to the settlement
// dispatcher. Closing itself stays a derived predicate on end_time; the
// sweep only reacts to it, it never stores a status.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/core/ports"
)

// Enqueuer accepts close events for asynchronous settlement.
type Enqueuer interface {
	Enqueue(event ports.CloseEvent)
}

type Sweeper struct {
	cron     *cron.Cron
	auctions ports.AuctionRepository
	queue    Enqueuer
	log      zerolog.Logger
}

func NewSweeper(auctions ports.AuctionRepository, queue Enqueuer, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		auctions: auctions,
		queue:    queue,
		log:      log,
	}
}

// Start schedules the sweep every minute and launches the cron runner.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("@every 1m", func() { s.Sweep(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Msg("settlement sweeper started")
	return nil
}

// Stop halts the cron runner. Running sweeps finish on their own.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("settlement sweeper stopped")
}

// Sweep enqueues every closed, unsettled auction for settlement. Safe to
// run concurrently with itself: settlement is idempotent.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	auctions, err := s.auctions.FindClosedUnsettled(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("settlement sweep query failed")
		return
	}
	for _, a := range auctions {
		s.queue.Enqueue(ports.CloseEvent{AuctionID: a.ID})
	}
	if len(auctions) > 0 {
		s.log.Info().Int("count", len(auctions)).Msg("close events enqueued")
	}
}
