package domain

import (
	"strings"
	"time"
)

const (
	CampaignStatusActive = "active"
	CampaignStatusClosed = "closed"
)

// Campaign is an escrow account for a single campaign. Amounts are stored in
// integer currency units (e.g. cents). TotalBudget is fixed at creation;
// RemainingBudget only ever shrinks, by payout authorization or by close.
//
// Invariant, checked by tests after every operation:
//
//	TotalBudget == RemainingBudget + Σ(Amount of pending and completed
//	payouts) + RefundedAmount
type Campaign struct {
	ID              int64
	Owner           string
	TotalBudget     int64
	RemainingBudget int64
	RefundedAmount  int64
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCampaign validates the creation inputs and returns an active campaign
// with its full budget unallocated. The id is assigned by the store.
func NewCampaign(owner string, totalBudget int64, now time.Time) (*Campaign, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrInvalidOwner
	}
	if totalBudget <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Campaign{
		Owner:           owner,
		TotalBudget:     totalBudget,
		RemainingBudget: totalBudget,
		Status:          CampaignStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AuthorizePayout reserves amount out of the remaining budget and returns the
// resulting pending payout request with the fee split frozen from the given
// snapshot. Preconditions are checked in order: campaign active, caller is
// the owner, amount positive, recipient present, budget sufficient. The
// first failure wins and leaves the campaign untouched.
func (c *Campaign) AuthorizePayout(payoutID, caller, recipient string, amount int64, fee FeeConfig, now time.Time) (*PayoutRequest, error) {
	if c.Status != CampaignStatusActive {
		return nil, ErrCampaignNotActive
	}
	if !CanPerform(OpCreatePayout, caller, c, nil) {
		return nil, ErrUnauthorized
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, ErrInvalidOwner
	}
	if amount > c.RemainingBudget {
		return nil, ErrInsufficientBudget
	}

	net, feeAmount := ComputeFee(amount, fee.RateBps)
	c.RemainingBudget -= amount
	c.UpdatedAt = now
	return &PayoutRequest{
		ID:           payoutID,
		CampaignID:   c.ID,
		Recipient:    recipient,
		Amount:       amount,
		FeeAmount:    feeAmount,
		NetAmount:    net,
		FeeRateBps:   fee.RateBps,
		FeeCollector: fee.Collector,
		Status:       PayoutStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Close terminates the campaign. Every pending payout is cancelled and its
// reserved amount reclaimed; the returned refund (reclaimed + remaining
// budget) is what the store must credit back to the owner in the same
// transaction. Completed payouts are untouched. Closing is terminal.
func (c *Campaign) Close(caller string, pending []*PayoutRequest, now time.Time) (refund int64, err error) {
	if c.Status != CampaignStatusActive {
		return 0, ErrCampaignNotActive
	}
	if !CanPerform(OpCloseCampaign, caller, c, nil) {
		return 0, ErrUnauthorized
	}

	refund = c.RemainingBudget
	for _, p := range pending {
		if err := p.cancel(now); err != nil {
			return 0, err
		}
		refund += p.Amount
	}
	c.RemainingBudget = 0
	c.RefundedAmount = refund
	c.Status = CampaignStatusClosed
	c.UpdatedAt = now
	return refund, nil
}
