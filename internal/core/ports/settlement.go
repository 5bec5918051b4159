package ports

import "context"

// CloseEvent signals that an auction has passed its end time and is due
// for commission settlement.
type CloseEvent struct {
	AuctionID string
}

// SettlementService accrues seller commission and records winner spend
// when an auction closes. Process must be idempotent.
type SettlementService interface {
	Process(ctx context.Context, event CloseEvent) error
}
