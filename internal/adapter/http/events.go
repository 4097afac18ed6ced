package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"creator-ledger/internal/core/domain"
)

const defaultEventLimit = 100

type eventResponse struct {
	Seq       uint64          `json:"seq"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// handleEvents serves the append-only event stream. Consumers pass the last
// sequence number they applied as `after` and page forward; delivery is
// at-least-once, so consumers must be idempotent on replay.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		after uint64
		limit = defaultEventLimit
		err   error
	)
	if s := q.Get("after"); s != "" {
		if after, err = strconv.ParseUint(s, 10, 64); err != nil {
			http.Error(w, "invalid 'after' sequence", http.StatusBadRequest)
			return
		}
	}
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit <= 0 {
			http.Error(w, "invalid 'limit'", http.StatusBadRequest)
			return
		}
	}
	events, err := h.engine.Events(r.Context(), after, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, evt := range events {
		out = append(out, eventResponse{Seq: evt.Seq, Kind: evt.Kind, Payload: evt.Payload, CreatedAt: evt.CreatedAt})
	}
	h.writeJSON(w, http.StatusOK, out)
}

type feeResponse struct {
	RateBps   int    `json:"rate_bps"`
	Collector string `json:"collector"`
	Amount    *int64 `json:"amount,omitempty"`
	NetAmount *int64 `json:"net_amount,omitempty"`
	FeeAmount *int64 `json:"fee_amount,omitempty"`
}

// handleFeeConfig returns the current fee configuration, and, when an
// `amount` query parameter is given, a preview of the (net, fee) split a
// payout authorized right now would be frozen with.
func (h *Handler) handleFeeConfig(w http.ResponseWriter, r *http.Request) {
	fee := h.engine.FeeConfig()
	resp := feeResponse{RateBps: fee.RateBps, Collector: fee.Collector}
	if s := r.URL.Query().Get("amount"); s != "" {
		amount, err := strconv.ParseInt(s, 10, 64)
		if err != nil || amount <= 0 {
			http.Error(w, "invalid 'amount'", http.StatusBadRequest)
			return
		}
		net, feeAmount := domain.ComputeFee(amount, fee.RateBps)
		resp.Amount = &amount
		resp.NetAmount = &net
		resp.FeeAmount = &feeAmount
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// handleBalance reports the value the ledger has released to an account so
// far (settlements and refunds). Unknown accounts report zero.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "id")
	balance, err := h.engine.Balance(r.Context(), account)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{Account: account, Balance: balance})
}
