package ports

import (
	"context"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// PaymentInput holds the payout options supplied at registration.
type PaymentInput struct {
	BankAccountNumber string
	BankAccountName   string
	BankName          string
	UPIID             string
	PaypalEmail       string
	CardNumber        string
}

// RegisterInput carries the data for a new user registration.
type RegisterInput struct {
	UserName     string
	Email        string
	Password     string
	Phone        string
	Address      string
	Role         string
	ProfileImage *MediaFile // nil = missing attachment
	Payment      PaymentInput
}

// AuthService defines registration, login and profile use cases.
type AuthService interface {
	// Register creates the user and returns a signed JWT for the session.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// Leaderboard lists users with money_spent > 0, biggest spender first.
	Leaderboard(ctx context.Context) ([]*domain.User, error)
}
