package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/internal/service"
	"github.com/pasarantar/storefront/pkg/httputil"
	"github.com/pasarantar/storefront/pkg/validator"
)

// CheckoutHandler submits the session cart as an order.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	log      *slog.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// Submit handles POST /api/v1/checkout.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var info domain.CustomerCheckoutInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.checkout.Submit(r.Context(), sessionID(r), info)
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.log)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
