package readmodel

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creator-ledger/internal/adapter/memory"
	"creator-ledger/internal/adapter/usecase"
	"creator-ledger/internal/core/domain"
)

func newEngine(t *testing.T) *usecase.EscrowService {
	t.Helper()
	return usecase.NewEscrowService(memory.NewLedgerStore(), domain.FeeConfig{RateBps: 100, Collector: "platform"})
}

func drainInto(t *testing.T, cache *Cache, engine *usecase.EscrowService) {
	t.Helper()
	events, err := engine.Events(context.Background(), cache.LastSeq(), 1000)
	require.NoError(t, err)
	for _, evt := range events {
		require.NoError(t, cache.Apply(evt))
	}
}

func TestCacheFollowsCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	cache := NewCache()

	campaign, err := engine.CreateCampaign(ctx, "brand", 1000)
	require.NoError(t, err)
	payout, err := engine.CreatePayout(ctx, campaign.ID, "brand", "creator", 300)
	require.NoError(t, err)
	drainInto(t, cache, engine)

	id := domain.CampaignIDString(campaign.ID)
	view, ok := cache.Campaign(id)
	require.True(t, ok)
	require.Equal(t, "brand", view.Owner)
	require.Equal(t, uint64(700), view.RemainingBudget)
	require.Equal(t, 1, view.PayoutsAuthorized)
	require.Zero(t, view.PayoutsCompleted)
	require.True(t, view.Active)

	_, err = engine.CompletePayout(ctx, payout.ID, "creator")
	require.NoError(t, err)
	_, err = engine.CloseCampaign(ctx, campaign.ID, "brand")
	require.NoError(t, err)
	drainInto(t, cache, engine)

	view, ok = cache.Campaign(id)
	require.True(t, ok)
	require.Equal(t, 1, view.PayoutsCompleted)
	require.False(t, view.Active)
	require.Zero(t, view.RemainingBudget)
	require.Equal(t, uint64(700), view.RefundedAmount)
}

// TestCacheReplayIsIdempotent re-applies the whole stream; an at-least-once
// consumer must not double count.
func TestCacheReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	cache := NewCache()

	campaign, err := engine.CreateCampaign(ctx, "brand", 1000)
	require.NoError(t, err)
	_, err = engine.CreatePayout(ctx, campaign.ID, "brand", "creator", 300)
	require.NoError(t, err)
	drainInto(t, cache, engine)

	id := domain.CampaignIDString(campaign.ID)
	before, _ := cache.Campaign(id)
	seq := cache.LastSeq()

	// full replay from the beginning
	events, err := engine.Events(ctx, 0, 1000)
	require.NoError(t, err)
	for _, evt := range events {
		require.NoError(t, cache.Apply(evt))
	}

	after, _ := cache.Campaign(id)
	require.Equal(t, before, after)
	require.Equal(t, seq, cache.LastSeq())
}

func TestCacheRejectsUnknownKind(t *testing.T) {
	cache := NewCache()
	err := cache.Apply(domain.Event{Seq: 1, Kind: "mystery", Payload: []byte(`{}`)})
	require.Error(t, err)
}

func TestConsumerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := newEngine(t)
	cache := NewCache()
	consumer := NewConsumer(engine, cache, slog.New(slog.NewTextHandler(io.Discard, nil)), 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	campaign, err := engine.CreateCampaign(ctx, "brand", 500)
	require.NoError(t, err)

	id := domain.CampaignIDString(campaign.ID)
	require.Eventually(t, func() bool {
		_, ok := cache.Campaign(id)
		return ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
