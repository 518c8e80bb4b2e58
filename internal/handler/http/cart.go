package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/internal/service"
	"github.com/pasarantar/storefront/pkg/format"
	"github.com/pasarantar/storefront/pkg/httputil"
	"github.com/pasarantar/storefront/pkg/validator"
)

// CartHandler exposes the session cart over HTTP.
type CartHandler struct {
	carts *service.CartService
	log   *slog.Logger
}

func NewCartHandler(carts *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

type addItemRequest struct {
	Product  domain.ProductSnapshot `json:"product" validate:"required"`
	Variant  domain.VariantSnapshot `json:"variant" validate:"required"`
	Quantity int                    `json:"quantity"`
	Note     string                 `json:"note" validate:"max=500"`
}

type updateItemRequest struct {
	Quantity *int    `json:"quantity" validate:"omitempty"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

// cartResponse decorates the cart with display strings for the storefront UI.
type cartResponse struct {
	*domain.Cart
	TotalDisplay string `json:"total_display"`
}

func newCartResponse(cart *domain.Cart) cartResponse {
	return cartResponse{Cart: cart, TotalDisplay: format.Rupiah(cart.Total)}
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Get(r.Context(), sessionID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sessionID(r), customerID(r), req.Product, req.Variant, req.Quantity, req.Note)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}

// UpdateItem handles PUT /api/v1/cart/items/{productID}/{variantID}. Either
// field may be present; an unknown (product, variant) pair returns the cart
// unchanged.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	variantID := chi.URLParam(r, "variantID")

	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	sess := sessionID(r)
	cart := h.carts.Get(ctx, sess)
	if req.Quantity != nil {
		cart = h.carts.UpdateQuantity(ctx, sess, productID, variantID, *req.Quantity)
	}
	if req.Note != nil {
		cart = h.carts.UpdateNote(ctx, sess, productID, variantID, *req.Note)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}/{variantID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.RemoveItem(r.Context(), sessionID(r),
		chi.URLParam(r, "productID"), chi.URLParam(r, "variantID"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Clear(r.Context(), sessionID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}
