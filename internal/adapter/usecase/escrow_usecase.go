package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"creator-ledger/internal/core/domain"
	"creator-ledger/internal/core/port"
)

// maxConflictRetries bounds transparent retries of serialization conflicts
// before the conflict is surfaced to the caller.
const maxConflictRetries = 3

// EscrowService implements port.EscrowEngine. It validates input shape,
// mints payout ids, captures the fee snapshot and delegates the atomic work
// to the ledger store, retrying serialization conflicts transparently.
type EscrowService struct {
	store port.LedgerStore
	fee   domain.FeeConfig
}

// NewEscrowService creates the engine with the provided store and the fee
// configuration active for payouts authorized from now on.
func NewEscrowService(store port.LedgerStore, fee domain.FeeConfig) *EscrowService {
	return &EscrowService{store: store, fee: fee}
}

var _ port.EscrowEngine = (*EscrowService)(nil)

// withRetry runs fn again on concurrency conflicts, up to the bound.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if err = fn(); !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (s *EscrowService) CreateCampaign(ctx context.Context, owner string, totalBudget int64) (*domain.Campaign, error) {
	campaign, err := domain.NewCampaign(owner, totalBudget, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err = withRetry(func() error { return s.store.CreateCampaign(ctx, campaign) }); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *EscrowService) CreatePayout(ctx context.Context, campaignID int64, caller, recipient string, amount int64) (*domain.PayoutRequest, error) {
	params := port.CreatePayoutParams{
		PayoutID:   uuid.NewString(),
		CampaignID: campaignID,
		Caller:     caller,
		Recipient:  recipient,
		Amount:     amount,
		Fee:        s.fee,
		Now:        time.Now().UTC(),
	}
	var payout *domain.PayoutRequest
	err := withRetry(func() error {
		var err error
		payout, err = s.store.CreatePayout(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *EscrowService) CompletePayout(ctx context.Context, payoutID, caller string) (*domain.PayoutRequest, error) {
	params := port.CompletePayoutParams{
		PayoutID: payoutID,
		Caller:   caller,
		Now:      time.Now().UTC(),
	}
	var payout *domain.PayoutRequest
	err := withRetry(func() error {
		var err error
		payout, err = s.store.CompletePayout(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *EscrowService) CloseCampaign(ctx context.Context, campaignID int64, caller string) (*domain.Campaign, error) {
	params := port.CloseCampaignParams{
		CampaignID: campaignID,
		Caller:     caller,
		Now:        time.Now().UTC(),
	}
	var campaign *domain.Campaign
	err := withRetry(func() error {
		var err error
		campaign, err = s.store.CloseCampaign(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *EscrowService) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	campaign, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, domain.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *EscrowService) GetPayout(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	payout, err := s.store.GetPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, domain.ErrPayoutNotFound
	}
	return payout, nil
}

func (s *EscrowService) ListPayouts(ctx context.Context, campaignID int64) ([]domain.PayoutRequest, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, domain.ErrCampaignNotFound
	}
	return s.store.ListPayouts(ctx, campaignID)
}

func (s *EscrowService) Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error) {
	return s.store.Events(ctx, afterSeq, limit)
}

func (s *EscrowService) Balance(ctx context.Context, account string) (int64, error) {
	return s.store.Balance(ctx, account)
}

func (s *EscrowService) FeeConfig() domain.FeeConfig {
	return s.fee
}
