package domain

import (
	"time"
)

const (
	// MinQuantity and MaxQuantity bound the quantity of any single line item.
	// Writes outside this range are clamped, never rejected.
	MinQuantity = 1
	MaxQuantity = 99
)

// LineItem is one (product, variant) entry in a cart. The pair of
// Product.ID and Variant.ID is the line item's identity; adding the same
// pair again merges quantities instead of creating a second line.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Variant  VariantSnapshot `json:"variant"`
	Quantity int             `json:"quantity"`
	Note     string          `json:"note,omitempty"`
	AddedAt  time.Time       `json:"added_at"`
}

// Subtotal returns the line's price contribution in whole Rupiah.
func (li LineItem) Subtotal() int64 {
	return li.Variant.Price * int64(li.Quantity)
}

// Cart is a session-scoped shopping cart. Total and ItemCount are derived
// from Items and are recomputed on every mutation; they are stored rather
// than computed on read so that persisted snapshots are self-describing.
type Cart struct {
	SessionID  string     `json:"session_id"`
	CustomerID string     `json:"customer_id,omitempty"`
	Items      []LineItem `json:"items"`
	Total      int64      `json:"total"`
	ItemCount  int        `json:"item_count"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// clampQuantity forces q into [MinQuantity, MaxQuantity].
func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// FindItemIndex returns the index of the line item matching the
// (productID, variantID) pair, or -1 when no such line exists.
func (c *Cart) FindItemIndex(productID, variantID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID && item.Variant.ID == variantID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of the given variant to the cart. If the
// (product, variant) pair already has a line, the quantities are summed.
// The resulting quantity is always clamped to [MinQuantity, MaxQuantity].
func (c *Cart) AddItem(product ProductSnapshot, variant VariantSnapshot, quantity int) {
	quantity = clampQuantity(quantity)

	if idx := c.FindItemIndex(product.ID, variant.ID); idx >= 0 {
		c.Items[idx].Quantity = clampQuantity(c.Items[idx].Quantity + quantity)
	} else {
		c.Items = append(c.Items, LineItem{
			Product:  product,
			Variant:  variant,
			Quantity: quantity,
			AddedAt:  time.Now().UTC(),
		})
	}
	c.recompute()
}

// UpdateQuantity replaces the quantity of the matching line item, clamped to
// [MinQuantity, MaxQuantity]. A quantity of zero or less therefore floors to
// one rather than removing the line; removal goes through RemoveItem only.
// Returns false when no matching line exists, in which case the cart is
// unchanged.
func (c *Cart) UpdateQuantity(productID, variantID string, quantity int) bool {
	idx := c.FindItemIndex(productID, variantID)
	if idx < 0 {
		return false
	}
	c.Items[idx].Quantity = clampQuantity(quantity)
	c.recompute()
	return true
}

// UpdateNote replaces the free-text note on the matching line item.
// Returns false when no matching line exists.
func (c *Cart) UpdateNote(productID, variantID, note string) bool {
	idx := c.FindItemIndex(productID, variantID)
	if idx < 0 {
		return false
	}
	c.Items[idx].Note = note
	c.recompute()
	return true
}

// RemoveItem deletes the matching line item. Returns false when no matching
// line exists; removing an absent pair is not an error.
func (c *Cart) RemoveItem(productID, variantID string) bool {
	idx := c.FindItemIndex(productID, variantID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.recompute()
	return true
}

// Clear removes every line item.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.recompute()
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recompute refreshes the derived Total and ItemCount fields and stamps
// UpdatedAt. Every mutating method ends with this call.
func (c *Cart) recompute() {
	var total int64
	var count int
	for _, item := range c.Items {
		total += item.Subtotal()
		count += item.Quantity
	}
	c.Total = total
	c.ItemCount = count
	c.UpdatedAt = time.Now().UTC()
}
