package port

import (
	"context"
	"time"

	"creator-ledger/internal/core/domain"
)

// CreatePayoutParams carries an authorization intent into the store. The id
// and fee snapshot are minted by the escrow service before the transaction;
// all preconditions that depend on campaign state are re-checked by the
// domain transition under the campaign lock.
type CreatePayoutParams struct {
	PayoutID   string
	CampaignID int64
	Caller     string
	Recipient  string
	Amount     int64
	Fee        domain.FeeConfig
	Now        time.Time
}

type CompletePayoutParams struct {
	PayoutID string
	Caller   string
	Now      time.Time
}

type CloseCampaignParams struct {
	CampaignID int64
	Caller     string
	Now        time.Time
}

// LedgerStore is the durable, transactional record of campaigns, payout
// requests, account balances and the event log. It is the only component
// allowed to mutate custody state. Implementations must make each mutating
// method atomic: entity update, balance credits and event append all land
// in one transaction scoped to the affected campaign. They must also be safe
// for concurrent use; operations on distinct campaigns proceed in parallel.
// Serialization failures are reported as domain.ErrConcurrencyConflict.
type LedgerStore interface {
	// CreateCampaign persists a validated campaign, assigns its id and
	// appends the CampaignCreated event. The id is written back to c.
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	// CreatePayout applies Campaign.AuthorizePayout under the campaign
	// lock, persists the pending payout and the budget decrement, and
	// appends the PayoutAuthorized event.
	CreatePayout(ctx context.Context, p CreatePayoutParams) (*domain.PayoutRequest, error)
	// CompletePayout applies PayoutRequest.Complete, credits the net
	// amount to the recipient and the fee amount to the fee collector,
	// and appends the PayoutCompleted event. All or nothing.
	CompletePayout(ctx context.Context, p CompletePayoutParams) (*domain.PayoutRequest, error)
	// CloseCampaign applies Campaign.Close, cancels pending payouts,
	// credits the refund to the owner and appends the CampaignClosed
	// event.
	CloseCampaign(ctx context.Context, p CloseCampaignParams) (*domain.Campaign, error)

	// GetCampaign returns the campaign or nil when it does not exist.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// GetPayout returns the payout request or nil when it does not exist.
	GetPayout(ctx context.Context, id string) (*domain.PayoutRequest, error)
	// ListPayouts returns every payout request of a campaign in creation
	// order, enough to recompute the budget invariant at any time.
	ListPayouts(ctx context.Context, campaignID int64) ([]domain.PayoutRequest, error)
	// Events returns up to limit events with Seq > afterSeq in log order.
	// A non-positive limit means no limit.
	Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error)
	// Balance returns the value released to an account so far; zero for
	// accounts never credited.
	Balance(ctx context.Context, account string) (int64, error)
}
