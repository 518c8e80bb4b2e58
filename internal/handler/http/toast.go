package http

import (
	"net/http"

	"github.com/pasarantar/storefront/internal/notifier"
	"github.com/pasarantar/storefront/pkg/httputil"
)

// ToastHandler exposes the session's toast notification. The storefront UI
// polls Get and calls Dismiss when the shopper closes the toast early.
type ToastHandler struct {
	notifier *notifier.Notifier
}

func NewToastHandler(n *notifier.Notifier) *ToastHandler {
	return &ToastHandler{notifier: n}
}

type toastResponse struct {
	Visible bool            `json:"visible"`
	Toast   *notifier.Toast `json:"toast,omitempty"`
}

// Get handles GET /api/v1/toast.
func (h *ToastHandler) Get(w http.ResponseWriter, r *http.Request) {
	toast, ok := h.notifier.Get(sessionID(r))
	resp := toastResponse{Visible: ok}
	if ok {
		resp.Toast = &toast
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// Dismiss handles DELETE /api/v1/toast.
func (h *ToastHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.notifier.Hide(sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}
