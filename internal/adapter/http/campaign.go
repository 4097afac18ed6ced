package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"creator-ledger/internal/core/domain"
)

type createCampaignRequest struct {
	Owner       string `json:"owner"`
	TotalBudget int64  `json:"total_budget"`
}

type closeCampaignRequest struct {
	Caller string `json:"caller"`
}

type campaignResponse struct {
	ID              int64     `json:"id"`
	Owner           string    `json:"owner"`
	TotalBudget     int64     `json:"total_budget"`
	RemainingBudget int64     `json:"remaining_budget"`
	RefundedAmount  int64     `json:"refunded_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:              c.ID,
		Owner:           c.Owner,
		TotalBudget:     c.TotalBudget,
		RemainingBudget: c.RemainingBudget,
		RefundedAmount:  c.RefundedAmount,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// campaignID parses the {id} path parameter. A malformed id is reported as
// 400 and the second return value is false.
func (h *Handler) campaignID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// handleCreateCampaign locks the requested budget for a new campaign. On
// success it returns HTTP 201 with the campaign record; the minted id keys
// the metadata layer's descriptive record.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	campaign, err := h.engine.CreateCampaign(r.Context(), req.Owner, req.TotalBudget)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCampaignResponse(campaign))
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	campaign, err := h.engine.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
}

// handleCloseCampaign terminates a campaign, refunding remaining plus
// reclaimed budget to the owner. Closed campaigns stay queryable for audit.
func (h *Handler) handleCloseCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	var req closeCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	campaign, err := h.engine.CloseCampaign(r.Context(), id, req.Caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
}

func (h *Handler) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignID(w, r)
	if !ok {
		return
	}
	payouts, err := h.engine.ListPayouts(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]payoutResponse, 0, len(payouts))
	for i := range payouts {
		out = append(out, toPayoutResponse(&payouts[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}
