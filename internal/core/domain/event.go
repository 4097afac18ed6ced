package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Event kinds emitted by the ledger, in the order their operations run.
const (
	EventCampaignCreated  = "campaign.created"
	EventPayoutAuthorized = "payout.authorized"
	EventPayoutCompleted  = "payout.completed"
	EventCampaignClosed   = "campaign.closed"
)

// Event is one entry of the append-only ledger event log. Seq is assigned by
// the store in the same transaction as the mutation the event describes, so
// an event is observable exactly when its mutation is durable, and the log
// order matches the mutation order per campaign. Events are never updated.
type Event struct {
	Seq       uint64
	Kind      string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// Event payloads. Identifiers are opaque strings, numeric fields unsigned;
// the metadata layer consumes these to maintain its read cache.

type CampaignCreatedPayload struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	TotalBudget uint64    `json:"totalBudget"`
	Timestamp   time.Time `json:"timestamp"`
}

type PayoutAuthorizedPayload struct {
	PayoutID   string `json:"payoutId"`
	CampaignID string `json:"campaignId"`
	Recipient  string `json:"recipient"`
	Amount     uint64 `json:"amount"`
	FeeAmount  uint64 `json:"feeAmount"`
	NetAmount  uint64 `json:"netAmount"`
}

type PayoutCompletedPayload struct {
	PayoutID   string `json:"payoutId"`
	CampaignID string `json:"campaignId"`
	Recipient  string `json:"recipient"`
	NetAmount  uint64 `json:"netAmount"`
	FeeAmount  uint64 `json:"feeAmount"`
}

type CampaignClosedPayload struct {
	CampaignID     string `json:"campaignId"`
	RefundedAmount uint64 `json:"refundedAmount"`
}

// CampaignIDString renders a campaign id the way event payloads carry it.
func CampaignIDString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func NewCampaignCreated(c *Campaign) Event {
	return newEvent(EventCampaignCreated, CampaignCreatedPayload{
		ID:          CampaignIDString(c.ID),
		Owner:       c.Owner,
		TotalBudget: uint64(c.TotalBudget),
		Timestamp:   c.CreatedAt,
	}, c.CreatedAt)
}

func NewPayoutAuthorized(p *PayoutRequest) Event {
	return newEvent(EventPayoutAuthorized, PayoutAuthorizedPayload{
		PayoutID:   p.ID,
		CampaignID: CampaignIDString(p.CampaignID),
		Recipient:  p.Recipient,
		Amount:     uint64(p.Amount),
		FeeAmount:  uint64(p.FeeAmount),
		NetAmount:  uint64(p.NetAmount),
	}, p.CreatedAt)
}

func NewPayoutCompleted(p *PayoutRequest) Event {
	return newEvent(EventPayoutCompleted, PayoutCompletedPayload{
		PayoutID:   p.ID,
		CampaignID: CampaignIDString(p.CampaignID),
		Recipient:  p.Recipient,
		NetAmount:  uint64(p.NetAmount),
		FeeAmount:  uint64(p.FeeAmount),
	}, p.UpdatedAt)
}

func NewCampaignClosed(c *Campaign) Event {
	return newEvent(EventCampaignClosed, CampaignClosedPayload{
		CampaignID:     CampaignIDString(c.ID),
		RefundedAmount: uint64(c.RefundedAmount),
	}, c.UpdatedAt)
}

func newEvent(kind string, payload any, at time.Time) Event {
	raw, _ := json.Marshal(payload)
	return Event{Kind: kind, Payload: raw, CreatedAt: at}
}
