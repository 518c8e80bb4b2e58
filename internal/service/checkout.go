package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/internal/event"
	"github.com/pasarantar/storefront/internal/notifier"
	"github.com/pasarantar/storefront/internal/repository"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
	"github.com/pasarantar/storefront/pkg/httpclient"
	"github.com/pasarantar/storefront/pkg/logger"
	"github.com/pasarantar/storefront/pkg/validator"
)

// HTTPDoer executes a single HTTP request. Satisfied by both the retrying
// client and its circuit breaker wrapper.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// orderRequest is the wire format of the order API's create-order endpoint.
type orderRequest struct {
	CustomerName        string      `json:"customerName"`
	CustomerWhatsapp    string      `json:"customerWhatsapp"`
	CustomerID          string      `json:"customerId,omitempty"`
	CustomerAddress     string      `json:"customerAddress"`
	CustomerCoordinates string      `json:"customerCoordinates,omitempty"`
	ShippingMethod      string      `json:"shippingMethod"`
	DeliveryDay         string      `json:"deliveryDay,omitempty"`
	PaymentMethod       string      `json:"paymentMethod"`
	Notes               string      `json:"notes,omitempty"`
	Items               []orderItem `json:"items"`
}

type orderItem struct {
	ProductID        string `json:"productId"`
	ProductVariantID string `json:"productVariantId"`
	Quantity         int    `json:"quantity"`
	Notes            string `json:"notes,omitempty"`
}

// orderResponse is the order API's standard success envelope.
type orderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		OrderNumber string `json:"orderNumber"`
	} `json:"data"`
}

// CheckoutService submits the session's cart to the order API. The cart is
// cleared only after the API confirms the order; any failure leaves the cart
// exactly as it was so the shopper can retry.
type CheckoutService struct {
	repo        repository.CartRepository
	client      HTTPDoer
	notifier    *notifier.Notifier
	events      *event.Producer
	orderAPIURL string
	log         *slog.Logger
}

func NewCheckoutService(repo repository.CartRepository, client HTTPDoer, n *notifier.Notifier, events *event.Producer, orderAPIURL string, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		repo:        repo,
		client:      client,
		notifier:    n,
		events:      events,
		orderAPIURL: orderAPIURL,
		log:         log,
	}
}

// Submit validates the checkout details and posts the cart to the order API.
// An empty cart is rejected locally without touching the network.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, info domain.CustomerCheckoutInfo) (*domain.SubmitResult, error) {
	if err := validator.Validate(info); err != nil {
		return nil, err
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, apperrors.Wrap(err, "failed to load cart for checkout")
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	result, err := s.submitOrder(ctx, cart, info)
	if err != nil {
		s.notifier.Show(sessionID, submitFailureMessage(err), notifier.ToastError)
		return nil, err
	}

	// The order is confirmed; clearing the cart is best effort from here.
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		logger.WithContext(ctx, s.log).Error("failed to clear cart after order",
			slog.String("order_number", result.OrderNumber),
			slog.String("error", err.Error()))
	}
	s.events.OrderSubmitted(ctx, cart, result.OrderNumber)
	s.notifier.Show(sessionID,
		fmt.Sprintf("Pesanan %s berhasil dibuat", result.OrderNumber),
		notifier.ToastSuccess,
	)
	return result, nil
}

func (s *CheckoutService) submitOrder(ctx context.Context, cart *domain.Cart, info domain.CustomerCheckoutInfo) (*domain.SubmitResult, error) {
	payload := orderRequest{
		CustomerName:     info.Name,
		CustomerWhatsapp: info.Phone,
		CustomerID:       cart.CustomerID,
		CustomerAddress:  info.Address,
		ShippingMethod:   info.ShippingMethod,
		DeliveryDay:      info.DeliveryDay,
		PaymentMethod:    info.PaymentMethod,
		Notes:            info.Notes,
		Items:            make([]orderItem, 0, len(cart.Items)),
	}
	if info.Coordinates != nil {
		payload.CustomerCoordinates = info.Coordinates.String()
	}
	for _, item := range cart.Items {
		payload.Items = append(payload.Items, orderItem{
			ProductID:        item.Product.ID,
			ProductVariantID: item.Variant.ID,
			Quantity:         item.Quantity,
			Notes:            item.Note,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode order request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	// One key per submission attempt so the order API can deduplicate the
	// retries performed by the transport underneath.
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		req.Header.Set("X-Correlation-ID", cid)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return nil, apperrors.ServiceUnavailable("order api is temporarily unavailable")
		}
		return nil, apperrors.Wrap(err, "order api request failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "order api")
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode order response")
	}
	if !decoded.Success {
		msg := decoded.Message
		if msg == "" {
			msg = "order was rejected"
		}
		return nil, apperrors.InvalidInput(msg)
	}
	if decoded.Data.OrderNumber == "" {
		return nil, errors.New("order api returned no order number")
	}

	return &domain.SubmitResult{
		OrderNumber: decoded.Data.OrderNumber,
		Message:     decoded.Message,
	}, nil
}

// submitFailureMessage picks the toast text for a failed submission,
// preferring the order API's own message when one survived translation.
func submitFailureMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Gagal membuat pesanan, silakan coba lagi"
}
