package ports

import (
	"context"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// ResetCommission zeroes the user's unpaid commission and returns the
	// updated record.
	ResetCommission(ctx context.Context, id string) (*domain.User, error)

	// AccrueCommission increments the user's unpaid commission by amount.
	AccrueCommission(ctx context.Context, id string, amount float64) error

	// RecordWin increments the winner's money_spent by amount and
	// auctions_won by one.
	RecordWin(ctx context.Context, id string, amount float64) error

	// FindSpenders returns users with money_spent > 0 ordered descending,
	// the top-spender leaderboard.
	FindSpenders(ctx context.Context) ([]*domain.User, error)
}
