package domain

import (
	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

// ProductSnapshot is the read-only capture of a catalog product taken at the
// moment it is added to a cart. The catalog itself is owned by the product
// API; the cart only ever sees these frozen copies.
type ProductSnapshot struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	CategoryID      string `json:"category_id,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	IsOnSale        bool   `json:"is_on_sale,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	BasePrice       int64  `json:"base_price,omitempty"`
}

// VariantSnapshot is the purchasable configuration (weight/size) of a product
// captured at add-to-cart time. Price is in whole Indonesian Rupiah.
type VariantSnapshot struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Weight        string `json:"weight"`
	Unit          string `json:"unit"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price,omitempty"`
	InStock       bool   `json:"in_stock"`
	MinOrderQty   int    `json:"min_order_qty,omitempty"`
}

// WeightLabel returns the display label for the variant, e.g. "500 gr".
func (v VariantSnapshot) WeightLabel() string {
	if v.Unit == "" {
		return v.Weight
	}
	return v.Weight + " " + v.Unit
}

// Validate checks the snapshot's internal invariants. A discounted variant
// must not have a sale price above its original price.
func (v VariantSnapshot) Validate() error {
	if v.ID == "" {
		return apperrors.InvalidInput("variant id is required")
	}
	if v.ProductID == "" {
		return apperrors.InvalidInput("variant product id is required")
	}
	if v.Price < 0 {
		return apperrors.InvalidInput("variant price must not be negative")
	}
	if v.OriginalPrice > 0 && v.Price > v.OriginalPrice {
		return apperrors.InvalidInput("variant price must not exceed its original price")
	}
	return nil
}
