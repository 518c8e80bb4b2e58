package http

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/pasarantar/storefront/pkg/errors"
	"github.com/pasarantar/storefront/pkg/httputil"
	"github.com/pasarantar/storefront/pkg/logger"
)

const (
	headerSessionID  = "X-Session-ID"
	headerCustomerID = "X-Customer-ID"
)

type contextKey string

const (
	sessionIDKey  contextKey = "session_id"
	customerIDKey contextKey = "customer_id"
)

// RequireSession extracts the shopper session from the X-Session-ID header
// and rejects requests that lack one. The optional X-Customer-ID header
// identifies a logged-in customer.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(headerSessionID)
		if sessionID == "" {
			httputil.WriteError(w, r, apperrors.InvalidInput("X-Session-ID header is required"), slog.Default())
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		ctx = logger.WithSessionID(ctx, sessionID)
		if customerID := r.Header.Get(headerCustomerID); customerID != "" {
			ctx = context.WithValue(ctx, customerIDKey, customerID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}

func customerID(r *http.Request) string {
	id, _ := r.Context().Value(customerIDKey).(string)
	return id
}
