package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// sweepRepo only serves FindClosedUnsettled; the sweeper touches nothing else.
type sweepRepo struct {
	ports.AuctionRepository
	closed  []*domain.Auction
	findErr error
}

func (r *sweepRepo) FindClosedUnsettled(_ context.Context, _ time.Time) ([]*domain.Auction, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.closed, nil
}

type recordingQueue struct {
	events []ports.CloseEvent
}

func (q *recordingQueue) Enqueue(event ports.CloseEvent) {
	q.events = append(q.events, event)
}

func TestSweeper_Sweep_EnqueuesClosedUnsettled(t *testing.T) {
	repo := &sweepRepo{closed: []*domain.Auction{
		{ID: "auc_1"},
		{ID: "auc_2"},
	}}
	queue := &recordingQueue{}
	s := NewSweeper(repo, queue, zerolog.Nop())

	s.Sweep(context.Background())

	if len(queue.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(queue.events))
	}
	if queue.events[0].AuctionID != "auc_1" || queue.events[1].AuctionID != "auc_2" {
		t.Errorf("unexpected events: %+v", queue.events)
	}
}

func TestSweeper_Sweep_NothingToDo(t *testing.T) {
	queue := &recordingQueue{}
	s := NewSweeper(&sweepRepo{}, queue, zerolog.Nop())

	s.Sweep(context.Background())

	if len(queue.events) != 0 {
		t.Errorf("expected no events, got %d", len(queue.events))
	}
}

func TestSweeper_Sweep_QueryFailureEnqueuesNothing(t *testing.T) {
	repo := &sweepRepo{findErr: errors.New("db unavailable")}
	queue := &recordingQueue{}
	s := NewSweeper(repo, queue, zerolog.Nop())

	s.Sweep(context.Background())

	if len(queue.events) != 0 {
		t.Errorf("query failure must not enqueue, got %d events", len(queue.events))
	}
}
