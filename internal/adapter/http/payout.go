package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"creator-ledger/internal/core/domain"
)

type createPayoutRequest struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

type completePayoutRequest struct {
	Caller string `json:"caller"`
}

type payoutResponse struct {
	ID           string    `json:"id"`
	CampaignID   int64     `json:"campaign_id"`
	Recipient    string    `json:"recipient"`
	Amount       int64     `json:"amount"`
	FeeAmount    int64     `json:"fee_amount"`
	NetAmount    int64     `json:"net_amount"`
	FeeRateBps   int       `json:"fee_rate_bps"`
	FeeCollector string    `json:"fee_collector"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toPayoutResponse(p *domain.PayoutRequest) payoutResponse {
	return payoutResponse{
		ID:           p.ID,
		CampaignID:   p.CampaignID,
		Recipient:    p.Recipient,
		Amount:       p.Amount,
		FeeAmount:    p.FeeAmount,
		NetAmount:    p.NetAmount,
		FeeRateBps:   p.FeeRateBps,
		FeeCollector: p.FeeCollector,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// handleCreatePayout authorizes a disbursement: the amount is reserved out
// of the campaign budget and the fee split frozen, but no value moves yet.
func (h *Handler) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	var req createPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	payout, err := h.engine.CreatePayout(r.Context(), id, req.Caller, req.Recipient, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toPayoutResponse(payout))
}

func (h *Handler) handleGetPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := h.engine.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPayoutResponse(payout))
}

// handleCompletePayout settles an authorized payout. The recipient may pull
// their own funds or the campaign owner may push on their behalf; repeated
// settlement attempts fail with 409 and move no funds.
func (h *Handler) handleCompletePayout(w http.ResponseWriter, r *http.Request) {
	var req completePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	payout, err := h.engine.CompletePayout(r.Context(), chi.URLParam(r, "id"), req.Caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPayoutResponse(payout))
}
