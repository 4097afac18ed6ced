package domain

import "time"

const (
	PayoutStatusPending   = "pending"
	PayoutStatusCompleted = "completed"
	PayoutStatusCancelled = "cancelled"
)

// PayoutRequest is an authorized, not yet settled disbursement. The amount
// was already reserved out of the campaign budget when the request was
// created; FeeAmount/NetAmount were fixed at that moment and are never
// recomputed at settlement.
type PayoutRequest struct {
	ID           string
	CampaignID   int64
	Recipient    string
	Amount       int64
	FeeAmount    int64
	NetAmount    int64
	FeeRateBps   int
	FeeCollector string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Complete transitions the payout to completed. The status check comes
// before the caller check so a settled payout reports its terminal state
// regardless of who asks. The store must credit NetAmount to the recipient
// and FeeAmount to the fee collector atomically with this transition.
func (p *PayoutRequest) Complete(caller string, campaign *Campaign, now time.Time) error {
	switch p.Status {
	case PayoutStatusCompleted:
		return ErrPayoutAlreadyCompleted
	case PayoutStatusCancelled:
		return ErrPayoutCancelled
	}
	if !CanPerform(OpCompletePayout, caller, campaign, p) {
		return ErrUnauthorized
	}
	p.Status = PayoutStatusCompleted
	p.UpdatedAt = now
	return nil
}

// cancel reclaims a pending payout as part of closing its campaign. It is
// never reachable on its own: only Campaign.Close cancels payouts.
func (p *PayoutRequest) cancel(now time.Time) error {
	switch p.Status {
	case PayoutStatusCompleted:
		return ErrPayoutAlreadyCompleted
	case PayoutStatusCancelled:
		return ErrPayoutCancelled
	}
	p.Status = PayoutStatusCancelled
	p.UpdatedAt = now
	return nil
}
