package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"creator-ledger/internal/core/domain"
	"creator-ledger/internal/core/port"
)

// LedgerStore implements port.LedgerStore using pgxpool for PostgreSQL.
// Every mutating operation runs in one serializable transaction and takes a
// row lock on the affected campaign, so concurrent authorizations against
// the same campaign serialize while distinct campaigns run in parallel.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore returns a new store instance.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

var _ port.LedgerStore = (*LedgerStore)(nil)

// translate maps serialization failures and deadlocks to the domain error
// the escrow service retries on.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return domain.ErrConcurrencyConflict
	}
	return err
}

const campaignColumns = `id, owner_id, total_budget, remaining_budget, refunded_amount, status, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Owner, &c.TotalBudget, &c.RemainingBudget, &c.RefundedAmount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const payoutColumns = `id, campaign_id, recipient, amount, fee_amount, net_amount, fee_rate_bps, fee_collector, status, created_at, updated_at`

func scanPayout(row pgx.Row) (*domain.PayoutRequest, error) {
	var p domain.PayoutRequest
	err := row.Scan(&p.ID, &p.CampaignID, &p.Recipient, &p.Amount, &p.FeeAmount, &p.NetAmount, &p.FeeRateBps, &p.FeeCollector, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockCampaign loads a campaign row FOR UPDATE inside tx.
func lockCampaign(ctx context.Context, tx pgx.Tx, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(tx.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	return c, err
}

func appendEvent(ctx context.Context, tx pgx.Tx, evt domain.Event) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_events (kind, payload, created_at) VALUES ($1, $2, $3)`,
		evt.Kind, evt.Payload, evt.CreatedAt)
	return err
}

// credit adds amount to an account balance, creating the account row on
// first use. Zero credits are skipped so accounts only exist once value
// actually reached them.
func credit(ctx context.Context, tx pgx.Tx, account string, amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO accounts (id, balance, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at`,
		account, amount, now)
	return err
}

func (s *LedgerStore) begin(ctx context.Context) (pgx.Tx, error) {
	return s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
}

func (s *LedgerStore) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `INSERT INTO campaigns
        (owner_id, total_budget, remaining_budget, refunded_amount, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		c.Owner, c.TotalBudget, c.RemainingBudget, c.RefundedAmount, c.Status, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return translate(err)
	}
	if err = appendEvent(ctx, tx, domain.NewCampaignCreated(c)); err != nil {
		return translate(err)
	}
	return translate(tx.Commit(ctx))
}

func (s *LedgerStore) CreatePayout(ctx context.Context, p port.CreatePayoutParams) (*domain.PayoutRequest, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	campaign, err := lockCampaign(ctx, tx, p.CampaignID)
	if err != nil {
		return nil, translate(err)
	}
	payout, err := campaign.AuthorizePayout(p.PayoutID, p.Caller, p.Recipient, p.Amount, p.Fee, p.Now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `UPDATE campaigns SET remaining_budget = $1, updated_at = $2 WHERE id = $3`,
		campaign.RemainingBudget, campaign.UpdatedAt, campaign.ID)
	if err != nil {
		return nil, translate(err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO payout_requests
        (id, campaign_id, recipient, amount, fee_amount, net_amount, fee_rate_bps, fee_collector, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		payout.ID, payout.CampaignID, payout.Recipient, payout.Amount, payout.FeeAmount, payout.NetAmount,
		payout.FeeRateBps, payout.FeeCollector, payout.Status, payout.CreatedAt, payout.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if err = appendEvent(ctx, tx, domain.NewPayoutAuthorized(payout)); err != nil {
		return nil, translate(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, translate(err)
	}
	return payout, nil
}

func (s *LedgerStore) CompletePayout(ctx context.Context, p port.CompletePayoutParams) (*domain.PayoutRequest, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	payout, err := scanPayout(tx.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1 FOR UPDATE`, p.PayoutID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPayoutNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	// Lock the campaign too: settlement must serialize against a
	// concurrent close of the same campaign.
	campaign, err := lockCampaign(ctx, tx, payout.CampaignID)
	if err != nil {
		return nil, translate(err)
	}
	if err = payout.Complete(p.Caller, campaign, p.Now); err != nil {
		return nil, err
	}

	// Status flip, both credits and the event land in this transaction or
	// none of them do.
	_, err = tx.Exec(ctx, `UPDATE payout_requests SET status = $1, updated_at = $2 WHERE id = $3`,
		payout.Status, payout.UpdatedAt, payout.ID)
	if err != nil {
		return nil, translate(err)
	}
	if err = credit(ctx, tx, payout.Recipient, payout.NetAmount, p.Now); err != nil {
		return nil, translate(err)
	}
	if err = credit(ctx, tx, payout.FeeCollector, payout.FeeAmount, p.Now); err != nil {
		return nil, translate(err)
	}
	if err = appendEvent(ctx, tx, domain.NewPayoutCompleted(payout)); err != nil {
		return nil, translate(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, translate(err)
	}
	return payout, nil
}

func (s *LedgerStore) CloseCampaign(ctx context.Context, p port.CloseCampaignParams) (*domain.Campaign, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	campaign, err := lockCampaign(ctx, tx, p.CampaignID)
	if err != nil {
		return nil, translate(err)
	}
	rows, err := tx.Query(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE campaign_id = $1 AND status = $2 ORDER BY created_at FOR UPDATE`,
		p.CampaignID, domain.PayoutStatusPending)
	if err != nil {
		return nil, translate(err)
	}
	pending, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PayoutRequest, error) {
		return scanPayout(row)
	})
	if err != nil {
		return nil, translate(err)
	}

	refund, err := campaign.Close(p.Caller, pending, p.Now)
	if err != nil {
		return nil, err
	}

	for _, payout := range pending {
		_, err = tx.Exec(ctx, `UPDATE payout_requests SET status = $1, updated_at = $2 WHERE id = $3`,
			payout.Status, payout.UpdatedAt, payout.ID)
		if err != nil {
			return nil, translate(err)
		}
	}
	_, err = tx.Exec(ctx, `UPDATE campaigns SET remaining_budget = 0, refunded_amount = $1, status = $2, updated_at = $3 WHERE id = $4`,
		campaign.RefundedAmount, campaign.Status, campaign.UpdatedAt, campaign.ID)
	if err != nil {
		return nil, translate(err)
	}
	if err = credit(ctx, tx, campaign.Owner, refund, p.Now); err != nil {
		return nil, translate(err)
	}
	if err = appendEvent(ctx, tx, domain.NewCampaignClosed(campaign)); err != nil {
		return nil, translate(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, translate(err)
	}
	return campaign, nil
}

// GetCampaign returns a campaign by id, nil when absent.
func (s *LedgerStore) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetPayout returns a payout request by id, nil when absent.
func (s *LedgerStore) GetPayout(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	p, err := scanPayout(s.pool.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPayouts returns every payout of a campaign in creation order.
func (s *LedgerStore) ListPayouts(ctx context.Context, campaignID int64) ([]domain.PayoutRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE campaign_id = $1 ORDER BY created_at, id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayoutRequest, error) {
		p, err := scanPayout(row)
		if err != nil {
			return domain.PayoutRequest{}, err
		}
		return *p, nil
	})
}

// Events returns up to limit events after the given sequence number. A
// non-positive limit means no limit; LIMIT NULL reads to the end of the log.
func (s *LedgerStore) Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT seq, kind, payload, created_at FROM ledger_events WHERE seq > $1 ORDER BY seq LIMIT $2`,
		afterSeq, lim)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var evt domain.Event
		err := row.Scan(&evt.Seq, &evt.Kind, &evt.Payload, &evt.CreatedAt)
		return evt, err
	})
}

// Balance returns the released balance of an account, zero when the account
// was never credited.
func (s *LedgerStore) Balance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
