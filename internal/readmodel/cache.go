// Package readmodel maintains the metadata layer's read cache from the
// ledger event stream. The ledger never depends on it; it is the external
// collaborator that keeps cached budgets, statuses and payout counters in
// sync with what the ledger emitted.
package readmodel

import (
	"encoding/json"
	"fmt"
	"sync"

	"creator-ledger/internal/core/domain"
)

// CampaignView is the cached projection of one campaign: what the
// listing and detail endpoints of the metadata layer would render.
type CampaignView struct {
	ID                string
	Owner             string
	TotalBudget       uint64
	RemainingBudget   uint64
	RefundedAmount    uint64
	Active            bool
	PayoutsAuthorized int
	PayoutsCompleted  int
}

// Cache applies ledger events to campaign views. Delivery is at-least-once:
// Apply is idempotent on replay because events at or below the last applied
// sequence number are skipped.
type Cache struct {
	mu        sync.RWMutex
	campaigns map[string]*CampaignView
	lastSeq   uint64
}

func NewCache() *Cache {
	return &Cache{campaigns: make(map[string]*CampaignView)}
}

// LastSeq returns the consumer offset: the highest sequence number applied.
func (c *Cache) LastSeq() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeq
}

// Campaign returns a copy of the cached view for a campaign id.
func (c *Cache) Campaign(id string) (CampaignView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	view, ok := c.campaigns[id]
	if !ok {
		return CampaignView{}, false
	}
	return *view, true
}

// Apply folds one event into the cache. Unknown kinds are an error so a
// ledger upgrade is noticed instead of silently skipped.
func (c *Cache) Apply(evt domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if evt.Seq <= c.lastSeq {
		return nil // replay
	}

	switch evt.Kind {
	case domain.EventCampaignCreated:
		var p domain.CampaignCreatedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Kind, err)
		}
		c.campaigns[p.ID] = &CampaignView{
			ID:              p.ID,
			Owner:           p.Owner,
			TotalBudget:     p.TotalBudget,
			RemainingBudget: p.TotalBudget,
			Active:          true,
		}
	case domain.EventPayoutAuthorized:
		var p domain.PayoutAuthorizedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Kind, err)
		}
		if view, ok := c.campaigns[p.CampaignID]; ok {
			view.RemainingBudget -= p.Amount
			view.PayoutsAuthorized++
		}
	case domain.EventPayoutCompleted:
		var p domain.PayoutCompletedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Kind, err)
		}
		if view, ok := c.campaigns[p.CampaignID]; ok {
			view.PayoutsCompleted++
		}
	case domain.EventCampaignClosed:
		var p domain.CampaignClosedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Kind, err)
		}
		if view, ok := c.campaigns[p.CampaignID]; ok {
			view.Active = false
			view.RemainingBudget = 0
			view.RefundedAmount = p.RefundedAmount
		}
	default:
		return fmt.Errorf("unknown event kind %q", evt.Kind)
	}

	c.lastSeq = evt.Seq
	return nil
}
