package domain

import "fmt"

// Coordinates is a delivery point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// String renders the pair as "lat,lng", the format the order API expects.
func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
}

// Shipping and payment methods accepted by the order API.
const (
	ShippingDelivery = "delivery"
	ShippingPickup   = "pickup"

	PaymentCOD      = "cod"
	PaymentTransfer = "transfer"
	PaymentQRIS     = "qris"
)

// CustomerCheckoutInfo carries the delivery details collected at checkout.
// Phone is the customer's WhatsApp number in international format.
type CustomerCheckoutInfo struct {
	Name           string       `json:"name" validate:"required,min=2,max=120"`
	Phone          string       `json:"phone" validate:"required,e164"`
	Address        string       `json:"address" validate:"required,min=10,max=500"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	ShippingMethod string       `json:"shipping_method" validate:"required,oneof=delivery pickup"`
	DeliveryDay    string       `json:"delivery_day,omitempty" validate:"omitempty,max=40"`
	PaymentMethod  string       `json:"payment_method" validate:"required,oneof=cod transfer qris"`
	Notes          string       `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// SubmitResult is the outcome of a successful order submission.
type SubmitResult struct {
	OrderNumber string `json:"order_number"`
	Message     string `json:"message,omitempty"`
}
