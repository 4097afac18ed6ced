package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creator-ledger/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. It holds the escrow engine to execute ledger operations and a logger
// for structured logging. Routes are registered on a chi.Router.
type Handler struct {
	engine port.EscrowEngine
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. Caller identity
// for fund-moving endpoints is taken from the request body; this service
// sits behind the platform gateway which has already authenticated it.
func NewHandler(engine port.EscrowEngine, logger *slog.Logger) *Handler {
	h := &Handler{engine: engine, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/campaigns", h.handleCreateCampaign)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Post("/campaigns/{id}/close", h.handleCloseCampaign)
		r.Get("/campaigns/{id}/payouts", h.handleListPayouts)
		r.Post("/campaigns/{id}/payouts", h.handleCreatePayout)
		r.Get("/payouts/{id}", h.handleGetPayout)
		r.Post("/payouts/{id}/complete", h.handleCompletePayout)
		r.Get("/events", h.handleEvents)
		r.Get("/fee", h.handleFeeConfig)
		r.Get("/accounts/{id}/balance", h.handleBalance)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
