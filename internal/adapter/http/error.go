package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"creator-ledger/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinel errors to HTTP status codes. Unknown
// errors are logged and reported as a generic 500 so internals never leak.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidOwner):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrPayoutNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCampaignNotActive),
		errors.Is(err, domain.ErrInsufficientBudget),
		errors.Is(err, domain.ErrPayoutAlreadyCompleted),
		errors.Is(err, domain.ErrPayoutCancelled),
		errors.Is(err, domain.ErrConcurrencyConflict):
		status = http.StatusConflict
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// encoding should rarely fail; log and move on
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
