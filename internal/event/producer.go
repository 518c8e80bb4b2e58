package event

import (
	"context"
	"log/slog"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/pkg/kafka"
	"github.com/pasarantar/storefront/pkg/logger"
)

const source = "storefront"

// Topics the storefront publishes to.
const (
	TopicCartEvents  = "storefront.cart.events"
	TopicOrderEvents = "storefront.order.events"
)

// Event types emitted by the storefront.
const (
	TypeCartUpdated    = "storefront.cart.updated"
	TypeCartCleared    = "storefront.cart.cleared"
	TypeOrderSubmitted = "storefront.order.submitted"
)

// CartUpdatedPayload describes the cart after a mutation.
type CartUpdatedPayload struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id,omitempty"`
	ItemCount  int    `json:"item_count"`
	Total      int64  `json:"total"`
	LineCount  int    `json:"line_count"`
}

// CartClearedPayload is emitted when a cart is emptied outside checkout.
type CartClearedPayload struct {
	SessionID string `json:"session_id"`
}

// OrderSubmittedPayload is emitted after the order API accepts a submission.
type OrderSubmittedPayload struct {
	SessionID   string `json:"session_id"`
	CustomerID  string `json:"customer_id,omitempty"`
	OrderNumber string `json:"order_number"`
	ItemCount   int    `json:"item_count"`
	Total       int64  `json:"total"`
}

// Producer publishes storefront events. Publishing is best effort: a broker
// failure is logged and never surfaces to the request path.
type Producer struct {
	producer *kafka.Producer
	log      *slog.Logger
}

func NewProducer(producer *kafka.Producer, log *slog.Logger) *Producer {
	return &Producer{producer: producer, log: log}
}

func (p *Producer) CartUpdated(ctx context.Context, cart *domain.Cart) {
	p.publish(ctx, TopicCartEvents, TypeCartUpdated, cart.SessionID, "cart", CartUpdatedPayload{
		SessionID:  cart.SessionID,
		CustomerID: cart.CustomerID,
		ItemCount:  cart.ItemCount,
		Total:      cart.Total,
		LineCount:  len(cart.Items),
	})
}

func (p *Producer) CartCleared(ctx context.Context, sessionID string) {
	p.publish(ctx, TopicCartEvents, TypeCartCleared, sessionID, "cart", CartClearedPayload{
		SessionID: sessionID,
	})
}

func (p *Producer) OrderSubmitted(ctx context.Context, cart *domain.Cart, orderNumber string) {
	p.publish(ctx, TopicOrderEvents, TypeOrderSubmitted, orderNumber, "order", OrderSubmittedPayload{
		SessionID:   cart.SessionID,
		CustomerID:  cart.CustomerID,
		OrderNumber: orderNumber,
		ItemCount:   cart.ItemCount,
		Total:       cart.Total,
	})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, payload any) {
	if p.producer == nil {
		return
	}
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, payload)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}
	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.log.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
