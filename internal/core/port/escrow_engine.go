package port

import (
	"context"

	"creator-ledger/internal/core/domain"
)

// EscrowEngine is the primary port into the ledger: the four mutating
// operations plus the read accessors the metadata layer and the HTTP
// adapter build on. Every error is one of the domain sentinel errors.
type EscrowEngine interface {
	// CreateCampaign locks totalBudget for a new campaign owned by owner
	// and emits CampaignCreated. Atomic: the campaign and its event are
	// created together or not at all.
	CreateCampaign(ctx context.Context, owner string, totalBudget int64) (*domain.Campaign, error)
	// CreatePayout authorizes a future disbursement, reserving amount out
	// of the campaign's remaining budget and freezing the fee split.
	CreatePayout(ctx context.Context, campaignID int64, caller, recipient string, amount int64) (*domain.PayoutRequest, error)
	// CompletePayout settles an authorized payout: net to the recipient,
	// fee to the collector, in one atomic unit. A second call on the same
	// payout fails with ErrPayoutAlreadyCompleted and moves no funds.
	CompletePayout(ctx context.Context, payoutID, caller string) (*domain.PayoutRequest, error)
	// CloseCampaign cancels pending payouts, refunds reclaimed plus
	// remaining budget to the owner and closes the campaign for good.
	CloseCampaign(ctx context.Context, campaignID int64, caller string) (*domain.Campaign, error)

	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	GetPayout(ctx context.Context, id string) (*domain.PayoutRequest, error)
	ListPayouts(ctx context.Context, campaignID int64) ([]domain.PayoutRequest, error)
	Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error)
	Balance(ctx context.Context, account string) (int64, error)
	// FeeConfig exposes the current fee settings for preview UIs. Changing
	// it never affects already-authorized payouts.
	FeeConfig() domain.FeeConfig
}
