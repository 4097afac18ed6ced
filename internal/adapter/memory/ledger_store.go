// Package memory provides an in-process LedgerStore used by tests and by
// STORE=memory deployments. Mutating operations take an exclusive lock on
// the affected campaign for their full duration, so campaigns never contend
// with each other; the registry lock is only held for map access and log
// appends.
package memory

import (
	"context"
	"sync"

	"creator-ledger/internal/core/domain"
	"creator-ledger/internal/core/port"
)

type campaignState struct {
	mu       sync.Mutex
	campaign domain.Campaign
	payouts  []*domain.PayoutRequest // creation order
	byID     map[string]*domain.PayoutRequest
}

// LedgerStore implements port.LedgerStore on plain maps.
type LedgerStore struct {
	mu          sync.Mutex // guards the maps below, the counters and the event log
	campaigns   map[int64]*campaignState
	payoutIndex map[string]int64 // payout id -> campaign id
	accounts    map[string]int64
	events      []domain.Event
	nextID      int64
	nextSeq     uint64
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		campaigns:   make(map[int64]*campaignState),
		payoutIndex: make(map[string]int64),
		accounts:    make(map[string]int64),
	}
}

var _ port.LedgerStore = (*LedgerStore)(nil)

// appendLocked assigns the next sequence number and appends the event.
// Callers hold s.mu and still hold the campaign lock of the mutation the
// event describes, so the log order matches the mutation order.
func (s *LedgerStore) appendLocked(evt domain.Event) {
	s.nextSeq++
	evt.Seq = s.nextSeq
	s.events = append(s.events, evt)
}

func (s *LedgerStore) state(campaignID int64) *campaignState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.campaigns[campaignID]
}

func (s *LedgerStore) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	cs := &campaignState{
		campaign: *c,
		byID:     make(map[string]*domain.PayoutRequest),
	}
	s.campaigns[c.ID] = cs
	s.appendLocked(domain.NewCampaignCreated(c))
	return nil
}

func (s *LedgerStore) CreatePayout(ctx context.Context, p port.CreatePayoutParams) (*domain.PayoutRequest, error) {
	cs := s.state(p.CampaignID)
	if cs == nil {
		return nil, domain.ErrCampaignNotFound
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	payout, err := cs.campaign.AuthorizePayout(p.PayoutID, p.Caller, p.Recipient, p.Amount, p.Fee, p.Now)
	if err != nil {
		return nil, err
	}
	cs.payouts = append(cs.payouts, payout)
	cs.byID[payout.ID] = payout

	s.mu.Lock()
	s.payoutIndex[payout.ID] = p.CampaignID
	s.appendLocked(domain.NewPayoutAuthorized(payout))
	s.mu.Unlock()

	out := *payout
	return &out, nil
}

func (s *LedgerStore) CompletePayout(ctx context.Context, p port.CompletePayoutParams) (*domain.PayoutRequest, error) {
	s.mu.Lock()
	campaignID, ok := s.payoutIndex[p.PayoutID]
	cs := s.campaigns[campaignID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrPayoutNotFound
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	payout := cs.byID[p.PayoutID]
	if err := payout.Complete(p.Caller, &cs.campaign, p.Now); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if payout.NetAmount > 0 {
		s.accounts[payout.Recipient] += payout.NetAmount
	}
	if payout.FeeAmount > 0 {
		s.accounts[payout.FeeCollector] += payout.FeeAmount
	}
	s.appendLocked(domain.NewPayoutCompleted(payout))
	s.mu.Unlock()

	out := *payout
	return &out, nil
}

func (s *LedgerStore) CloseCampaign(ctx context.Context, p port.CloseCampaignParams) (*domain.Campaign, error) {
	cs := s.state(p.CampaignID)
	if cs == nil {
		return nil, domain.ErrCampaignNotFound
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	var pending []*domain.PayoutRequest
	for _, payout := range cs.payouts {
		if payout.Status == domain.PayoutStatusPending {
			pending = append(pending, payout)
		}
	}
	refund, err := cs.campaign.Close(p.Caller, pending, p.Now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if refund > 0 {
		s.accounts[cs.campaign.Owner] += refund
	}
	s.appendLocked(domain.NewCampaignClosed(&cs.campaign))
	s.mu.Unlock()

	out := cs.campaign
	return &out, nil
}

func (s *LedgerStore) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	cs := s.state(id)
	if cs == nil {
		return nil, nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.campaign
	return &out, nil
}

func (s *LedgerStore) GetPayout(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	s.mu.Lock()
	campaignID, ok := s.payoutIndex[id]
	cs := s.campaigns[campaignID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := *cs.byID[id]
	return &out, nil
}

func (s *LedgerStore) ListPayouts(ctx context.Context, campaignID int64) ([]domain.PayoutRequest, error) {
	cs := s.state(campaignID)
	if cs == nil {
		return nil, nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]domain.PayoutRequest, 0, len(cs.payouts))
	for _, payout := range cs.payouts {
		out = append(out, *payout)
	}
	return out, nil
}

// Events returns up to limit events with Seq > afterSeq; a non-positive
// limit means no limit.
func (s *LedgerStore) Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Sequence numbers are dense and start at 1, so afterSeq doubles as an
	// index into the log.
	if afterSeq >= uint64(len(s.events)) {
		return nil, nil
	}
	end := len(s.events)
	if limit > 0 && int(afterSeq)+limit < end {
		end = int(afterSeq) + limit
	}
	out := make([]domain.Event, end-int(afterSeq))
	copy(out, s.events[afterSeq:end])
	return out, nil
}

func (s *LedgerStore) Balance(ctx context.Context, account string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[account], nil
}
