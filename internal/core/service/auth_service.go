package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// AuthService implements registration, login and profile lookups.
type AuthService struct {
	users     ports.UserRepository
	media     ports.MediaStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, media ports.MediaStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, media: media, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register validates the input, uploads the profile image and creates
// the user. Auctioneers must supply at least one payout method. The
// upload runs after all synchronous checks so a rejected registration
// never leaves an orphaned image behind.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	if input.ProfileImage == nil {
		return "", nil, domain.ErrProfileImageRequired
	}
	if !domain.IsAllowedImageType(input.ProfileImage.ContentType) {
		return "", nil, domain.ErrInvalidImageFormat
	}
	if input.UserName == "" || input.Email == "" || input.Password == "" || input.Phone == "" || input.Address == "" || input.Role == "" {
		return "", nil, domain.ErrMissingUserFields
	}
	if !domain.ValidRole(input.Role) {
		return "", nil, domain.ErrInvalidRole
	}

	payment := domain.PaymentMethods{
		BankTransfer: domain.BankTransfer{
			AccountNumber: input.Payment.BankAccountNumber,
			AccountName:   input.Payment.BankAccountName,
			BankName:      input.Payment.BankName,
		},
		UPIID:       input.Payment.UPIID,
		PaypalEmail: input.Payment.PaypalEmail,
		CardNumber:  input.Payment.CardNumber,
	}
	if input.Role == domain.RoleAuctioneer && !payment.HasAny() {
		return "", nil, domain.ErrPaymentMethodRequired
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("check existing email: %w", err)
	}

	image, err := s.media.Upload(ctx, *input.ProfileImage, ports.FolderProfiles)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("profile image upload failed")
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMediaUpload, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		UserName:       input.UserName,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Phone:          input.Phone,
		Address:        input.Address,
		Role:           input.Role,
		ProfileImage:   image,
		PaymentMethods: payment,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return token, created, nil
}

// Login authenticates by email and password. Lookup and password
// failures collapse into the same error so callers cannot probe which
// emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Profile returns the user record for the authenticated id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Leaderboard lists users who have spent money, biggest spender first.
func (s *AuthService) Leaderboard(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindSpenders(ctx)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"user_name": user.UserName,
		"role":      user.Role,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
