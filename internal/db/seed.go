package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"creator-ledger/internal/core/domain"
)

// Seed inserts a few demo campaigns into the ledger for local development:
// one campaign with a pending payout already authorized and one untouched.
// The matching ledger events are inserted too so the read model has
// something to replay.
func Seed(ctx context.Context, pool *pgxpool.Pool, fee domain.FeeConfig) error {
	now := time.Now().UTC()

	campaigns := []*domain.Campaign{
		{ID: 1, Owner: "brand-acme", TotalBudget: 500000, RemainingBudget: 500000, Status: domain.CampaignStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Owner: "brand-blossom", TotalBudget: 250000, RemainingBudget: 250000, Status: domain.CampaignStatusActive, CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range campaigns {
		_, err := pool.Exec(ctx, `INSERT INTO campaigns
    (id, owner_id, total_budget, remaining_budget, refunded_amount, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT DO NOTHING`,
			c.ID, c.Owner, c.TotalBudget, c.RemainingBudget, c.RefundedAmount, c.Status, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return err
		}
		evt := domain.NewCampaignCreated(c)
		_, err = pool.Exec(ctx, `INSERT INTO ledger_events (kind, payload, created_at) VALUES ($1,$2,$3)`,
			evt.Kind, evt.Payload, evt.CreatedAt)
		if err != nil {
			return err
		}
	}

	// Authorize one demo payout on the first campaign.
	payout, err := campaigns[0].AuthorizePayout(uuid.NewString(), campaigns[0].Owner, "creator-nova", 30000, fee, now)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `UPDATE campaigns SET remaining_budget = $1, updated_at = $2 WHERE id = $3`,
		campaigns[0].RemainingBudget, campaigns[0].UpdatedAt, campaigns[0].ID)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `INSERT INTO payout_requests
    (id, campaign_id, recipient, amount, fee_amount, net_amount, fee_rate_bps, fee_collector, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) ON CONFLICT DO NOTHING`,
		payout.ID, payout.CampaignID, payout.Recipient, payout.Amount, payout.FeeAmount, payout.NetAmount,
		payout.FeeRateBps, payout.FeeCollector, payout.Status, payout.CreatedAt, payout.UpdatedAt)
	if err != nil {
		return err
	}
	evt := domain.NewPayoutAuthorized(payout)
	_, err = pool.Exec(ctx, `INSERT INTO ledger_events (kind, payload, created_at) VALUES ($1,$2,$3)`,
		evt.Kind, evt.Payload, evt.CreatedAt)
	if err != nil {
		return err
	}

	// Seeded campaigns use explicit ids; move the sequence past them.
	_, err = pool.Exec(ctx, `SELECT setval('campaigns_id_seq', (SELECT max(id) FROM campaigns))`)
	return err
}
