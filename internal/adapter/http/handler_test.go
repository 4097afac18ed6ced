package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"creator-ledger/internal/adapter/memory"
	"creator-ledger/internal/adapter/usecase"
	"creator-ledger/internal/core/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := usecase.NewEscrowService(memory.NewLedgerStore(), domain.FeeConfig{RateBps: 100, Collector: "platform"})
	h := NewHandler(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var campaign campaignResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/campaigns",
		map[string]any{"owner": "brand", "total_budget": 1000}, &campaign)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "active", campaign.Status)
	require.Equal(t, int64(1000), campaign.RemainingBudget)

	var payout payoutResponse
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/payouts", srv.URL, campaign.ID),
		map[string]any{"caller": "brand", "recipient": "creator", "amount": 1000}, &payout)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, int64(10), payout.FeeAmount)
	require.Equal(t, int64(990), payout.NetAmount)

	status = doJSON(t, http.MethodPost, srv.URL+"/api/v1/payouts/"+payout.ID+"/complete",
		map[string]any{"caller": "creator"}, &payout)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "completed", payout.Status)

	// settling twice is a conflict
	status = doJSON(t, http.MethodPost, srv.URL+"/api/v1/payouts/"+payout.ID+"/complete",
		map[string]any{"caller": "creator"}, nil)
	require.Equal(t, http.StatusConflict, status)

	var balance balanceResponse
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/accounts/creator/balance", nil, &balance)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(990), balance.Balance)

	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/close", srv.URL, campaign.ID),
		map[string]any{"caller": "brand"}, &campaign)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "closed", campaign.Status)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)

	// invalid input
	status := doJSON(t, http.MethodPost, srv.URL+"/api/v1/campaigns",
		map[string]any{"owner": "brand", "total_budget": 0}, nil)
	require.Equal(t, http.StatusBadRequest, status)

	// missing entities
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/campaigns/99", nil, nil)
	require.Equal(t, http.StatusNotFound, status)
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/payouts/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, status)

	var campaign campaignResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/api/v1/campaigns",
		map[string]any{"owner": "brand", "total_budget": 100}, &campaign)
	require.Equal(t, http.StatusCreated, status)

	// a stranger moving funds is forbidden
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/payouts", srv.URL, campaign.ID),
		map[string]any{"caller": "mallory", "recipient": "mallory", "amount": 50}, nil)
	require.Equal(t, http.StatusForbidden, status)
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/close", srv.URL, campaign.ID),
		map[string]any{"caller": "mallory"}, nil)
	require.Equal(t, http.StatusForbidden, status)

	// over-reservation is a conflict
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/payouts", srv.URL, campaign.ID),
		map[string]any{"caller": "brand", "recipient": "creator", "amount": 500}, nil)
	require.Equal(t, http.StatusConflict, status)

	// malformed id and body
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/campaigns/notanumber", nil, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestEventStreamEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var campaign campaignResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/campaigns",
		map[string]any{"owner": "brand", "total_budget": 100}, &campaign)
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/campaigns/%d/payouts", srv.URL, campaign.ID),
		map[string]any{"caller": "brand", "recipient": "creator", "amount": 40}, nil)

	var events []eventResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events", nil, &events)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events, 2)
	require.Equal(t, domain.EventCampaignCreated, events[0].Kind)
	require.Equal(t, domain.EventPayoutAuthorized, events[1].Kind)

	// resume after the first event
	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/events?after="+fmt.Sprint(events[0].Seq), nil, &events)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventPayoutAuthorized, events[0].Kind)

	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/events?after=bogus", nil, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestFeePreviewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var fee feeResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/v1/fee", nil, &fee)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 100, fee.RateBps)
	require.Equal(t, "platform", fee.Collector)
	require.Nil(t, fee.Amount)

	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/fee?amount=1000", nil, &fee)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, fee.NetAmount)
	require.Equal(t, int64(990), *fee.NetAmount)
	require.Equal(t, int64(10), *fee.FeeAmount)

	status = doJSON(t, http.MethodGet, srv.URL+"/api/v1/fee?amount=-3", nil, nil)
	require.Equal(t, http.StatusBadRequest, status)
}
