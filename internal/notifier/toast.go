// Package notifier keeps the per-session toast notification shown after cart
// actions. At most one toast is visible per session; showing a new one
// replaces the current toast and restarts the auto-dismiss countdown.
package notifier

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultDismissAfter = 4 * time.Second

// Toast levels.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is the notification currently visible for a session. ImageURL and
// VariantLabel are set for add-to-cart toasts so the UI can render the
// product thumbnail next to the message.
type Toast struct {
	Message      string    `json:"message"`
	Type         string    `json:"type"`
	ImageURL     string    `json:"image_url,omitempty"`
	VariantLabel string    `json:"variant_label,omitempty"`
	ShownAt      time.Time `json:"shown_at"`
}

type toastState struct {
	toast Toast
	// gen identifies the Show call that produced the current toast. The
	// dismiss timer captures both the state pointer and the gen it was
	// armed for and does nothing unless both still match, so a toast shown
	// later is never dismissed by an earlier toast's timer, even after the
	// session's state has been dropped and recreated.
	gen   uint64
	timer *time.Timer
}

// Notifier manages one toast slot per session.
type Notifier struct {
	mu           sync.Mutex
	dismissAfter time.Duration
	sessions     map[string]*toastState
	log          *slog.Logger
}

func New(dismissAfter time.Duration, log *slog.Logger) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{
		dismissAfter: dismissAfter,
		sessions:     make(map[string]*toastState),
		log:          log,
	}
}

// Show displays a toast for the session, replacing any toast already visible
// and restarting the auto-dismiss countdown from zero.
func (n *Notifier) Show(sessionID, message, toastType string) Toast {
	return n.show(sessionID, Toast{Message: message, Type: toastType})
}

// ShowItem displays the add-to-cart confirmation for a product variant.
func (n *Notifier) ShowItem(sessionID, productName, imageURL, variantLabel string) Toast {
	return n.show(sessionID, Toast{
		Message:      productName + " (" + variantLabel + ") ditambahkan ke keranjang",
		Type:         ToastSuccess,
		ImageURL:     imageURL,
		VariantLabel: variantLabel,
	})
}

func (n *Notifier) show(sessionID string, toast Toast) Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.sessions[sessionID]
	if !ok {
		state = &toastState{}
		n.sessions[sessionID] = state
	}
	if state.timer != nil {
		state.timer.Stop()
	}

	state.gen++
	toast.ShownAt = time.Now().UTC()
	state.toast = toast

	gen := state.gen
	state.timer = time.AfterFunc(n.dismissAfter, func() {
		n.expire(sessionID, state, gen)
	})

	n.log.Debug("toast shown",
		slog.String("session_id", sessionID),
		slog.String("toast_type", toast.Type),
	)
	return state.toast
}

// Hide dismisses the session's toast immediately. Hiding when nothing is
// visible is a no-op.
func (n *Notifier) Hide(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.sessions[sessionID]
	if !ok {
		return
	}
	if state.timer != nil {
		state.timer.Stop()
	}
	delete(n.sessions, sessionID)
}

// Get returns the session's visible toast, if any.
func (n *Notifier) Get(sessionID string) (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.sessions[sessionID]
	if !ok {
		return Toast{}, false
	}
	return state.toast, true
}

// expire is the timer callback. It drops the session's toast state only when
// the map still holds the exact state this timer was armed for, at the same
// gen. The pointer comparison keeps a stale timer harmless even when Hide
// and a new Show have replaced the state since the timer fired.
func (n *Notifier) expire(sessionID string, state *toastState, gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	current, ok := n.sessions[sessionID]
	if !ok || current != state || current.gen != gen {
		return
	}
	delete(n.sessions, sessionID)
}
