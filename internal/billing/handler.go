// AngelaMos | 2026
// handler.go

package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/defensordigital/defensor-api/internal/core"
)

const signatureHeader = "x-perfect-signature"

type Handler struct {
	authenticator *Authenticator
	reconciler    *Reconciler
}

func NewHandler(authenticator *Authenticator, reconciler *Reconciler) *Handler {
	return &Handler{
		authenticator: authenticator,
		reconciler:    reconciler,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/perfectpay-webhook", h.HandleWebhook)
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	// Signature first: an unauthenticated event must be rejected
	// before any processing or store access.
	if !h.authenticator.Authentic(r.Header.Get(signatureHeader)) {
		core.Unauthorized(w, "invalid webhook signature")
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		core.BadRequest(w, "invalid webhook payload")
		return
	}

	event := PaymentEvent{
		CustomerEmail: payload.Customer.Email,
		Status:        payload.SalesDetails.Status,
	}

	result, err := h.reconciler.Reconcile(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "customer email is required")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	message := "evento processado"
	if !result.Applied {
		message = "evento ignorado"
	}

	core.OK(w, webhookResponse{
		Message:         message,
		Applied:         result.Applied,
		AccountsUpdated: result.AccountsUpdated,
	})
}
