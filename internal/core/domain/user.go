package domain

import (
	"errors"
	"time"
)

const (
	RoleUser       = "user"
	RoleBidder     = "Bidder"
	RoleAuctioneer = "Auctioneer"
	RoleSuperAdmin = "Super Admin"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrProfileImageRequired  = errors.New("profile image is required")
	ErrMissingUserFields     = errors.New("missing registration fields")
	ErrUserExists            = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrPaymentMethodRequired = errors.New("at least one payment method is required")
	ErrInvalidRole           = errors.New("invalid role")
)

// ValidRole reports whether role is one of the accepted role names.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleBidder, RoleAuctioneer, RoleSuperAdmin:
		return true
	}
	return false
}

// BankTransfer holds bank account details for seller payouts.
type BankTransfer struct {
	AccountNumber string `json:"bank_account_number,omitempty" bson:"bank_account_number,omitempty"`
	AccountName   string `json:"bank_account_name,omitempty" bson:"bank_account_name,omitempty"`
	BankName      string `json:"bank_name,omitempty" bson:"bank_name,omitempty"`
}

// PaymentMethods groups the payout options an auctioneer may register.
type PaymentMethods struct {
	BankTransfer BankTransfer `json:"bank_transfer,omitempty" bson:"bank_transfer,omitempty"`
	UPIID        string       `json:"upi_id,omitempty" bson:"upi_id,omitempty"`
	PaypalEmail  string       `json:"paypal_email,omitempty" bson:"paypal_email,omitempty"`
	CardNumber   string       `json:"card_number,omitempty" bson:"card_number,omitempty"`
}

// HasAny reports whether at least one payout option is present.
func (p PaymentMethods) HasAny() bool {
	bank := p.BankTransfer.AccountNumber != "" && p.BankTransfer.AccountName != "" && p.BankTransfer.BankName != ""
	return bank || p.UPIID != "" || p.PaypalEmail != "" || p.CardNumber != ""
}

// User models a registered marketplace participant.
type User struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	UserName         string         `json:"user_name" bson:"user_name"`
	Email            string         `json:"email" bson:"email"`
	PasswordHash     string         `json:"-" bson:"password_hash"`
	Phone            string         `json:"phone" bson:"phone"`
	Address          string         `json:"address,omitempty" bson:"address,omitempty"`
	Role             string         `json:"role" bson:"role"`
	ProfileImage     ImageRef       `json:"profile_image" bson:"profile_image"`
	PaymentMethods   PaymentMethods `json:"payment_methods,omitempty" bson:"payment_methods,omitempty"`
	UnpaidCommission float64        `json:"unpaid_commission" bson:"unpaid_commission"`
	AuctionsWon      int64          `json:"auctions_won" bson:"auctions_won"`
	MoneySpent       float64        `json:"money_spent" bson:"money_spent"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
}

// AccrueCommission adds amount to the seller's unpaid commission.
// Commission is only ever mutated through named operations so the
// accrual/reset invariants stay auditable.
func (u *User) AccrueCommission(amount float64) {
	u.UnpaidCommission += amount
}

// ResetCommission zeroes the unpaid commission. Called when the owner
// republishes a closed auction.
func (u *User) ResetCommission() {
	u.UnpaidCommission = 0
}

// RecordWin updates the winner's counters after settlement.
func (u *User) RecordWin(amount float64) {
	u.MoneySpent += amount
	u.AuctionsWon++
}
