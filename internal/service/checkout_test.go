package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/internal/event"
	"github.com/pasarantar/storefront/internal/notifier"
	"github.com/pasarantar/storefront/internal/repository/memory"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
	"github.com/pasarantar/storefront/pkg/httpclient"
)

func checkoutInfo() domain.CustomerCheckoutInfo {
	return domain.CustomerCheckoutInfo{
		Name:           "Budi Santoso",
		Phone:          "+6281234567890",
		Address:        "Jl. Melati No. 12, Kel. Sukamaju, Jakarta Timur",
		ShippingMethod: domain.ShippingDelivery,
		PaymentMethod:  domain.PaymentCOD,
	}
}

type checkoutFixture struct {
	svc      *CheckoutService
	repo     *memory.CartRepository
	notifier *notifier.Notifier
}

func newCheckoutFixture(t *testing.T, orderAPIURL string) checkoutFixture {
	t.Helper()
	log := testLogger()
	repo := memory.NewCartRepository()
	n := notifier.New(time.Minute, log)
	client := httpclient.New(httpclient.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
	svc := NewCheckoutService(repo, client, n, event.NewProducer(nil, log), orderAPIURL, log)
	return checkoutFixture{svc: svc, repo: repo, notifier: n}
}

func seedCart(t *testing.T, repo *memory.CartRepository, sessionID string) *domain.Cart {
	t.Helper()
	cart := domain.NewCart(sessionID)
	cart.AddItem(testProduct(), testVariant(), 2)
	cart.UpdateNote("p1", "v1", "potong dadu")
	require.NoError(t, repo.Save(context.Background(), cart))
	return cart
}

func TestCheckoutService_Submit(t *testing.T) {
	var captured struct {
		idempotencyKey string
		contentType    string
		rawBody        []byte
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.idempotencyKey = r.Header.Get("Idempotency-Key")
		captured.contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured.rawBody = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"Pesanan berhasil dibuat","data":{"orderNumber":"PA-20260831-0042"}}`)
	}))
	defer srv.Close()

	fx := newCheckoutFixture(t, srv.URL)
	seedCart(t, fx.repo, "sess-1")

	result, err := fx.svc.Submit(context.Background(), "sess-1", checkoutInfo())
	require.NoError(t, err)
	assert.Equal(t, "PA-20260831-0042", result.OrderNumber)

	// request shape
	assert.Equal(t, "application/json", captured.contentType)
	_, uuidErr := uuid.Parse(captured.idempotencyKey)
	assert.NoError(t, uuidErr, "Idempotency-Key must be a UUID")

	// assert on the raw JSON keys the order API actually receives
	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(captured.rawBody, &sent))
	assert.JSONEq(t, `"Budi Santoso"`, string(sent["customerName"]))
	assert.JSONEq(t, `"+6281234567890"`, string(sent["customerWhatsapp"]))
	assert.JSONEq(t, `"Jl. Melati No. 12, Kel. Sukamaju, Jakarta Timur"`, string(sent["customerAddress"]))
	assert.JSONEq(t, `"delivery"`, string(sent["shippingMethod"]))
	assert.JSONEq(t, `"cod"`, string(sent["paymentMethod"]))
	assert.JSONEq(t, `[{"productId":"p1","productVariantId":"v1","quantity":2,"notes":"potong dadu"}]`, string(sent["items"]))
	for _, stale := range []string{"customerPhone", "deliveryAddress", "coordinates"} {
		assert.NotContains(t, sent, stale)
	}

	// success clears the cart
	_, err = fx.repo.Get(context.Background(), "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	toast, ok := fx.notifier.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, notifier.ToastSuccess, toast.Type)
	assert.Contains(t, toast.Message, "PA-20260831-0042")
}

func TestCheckoutService_Submit_SendsCoordinates(t *testing.T) {
	var sent map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"success":true,"data":{"orderNumber":"PA-1"}}`)
	}))
	defer srv.Close()

	fx := newCheckoutFixture(t, srv.URL)
	seedCart(t, fx.repo, "sess-1")

	info := checkoutInfo()
	info.Coordinates = &domain.Coordinates{Latitude: -6.2088, Longitude: 106.8456}
	_, err := fx.svc.Submit(context.Background(), "sess-1", info)
	require.NoError(t, err)
	assert.JSONEq(t, `"-6.2088,106.8456"`, string(sent["customerCoordinates"]))
}

func TestCheckoutService_Submit_EmptyCartRejectedLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	fx := newCheckoutFixture(t, srv.URL)

	_, err := fx.svc.Submit(context.Background(), "sess-1", checkoutInfo())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.False(t, called, "empty cart must not reach the order api")
}

func TestCheckoutService_Submit_InvalidInfoRejected(t *testing.T) {
	fx := newCheckoutFixture(t, "http://order-api.invalid")
	seedCart(t, fx.repo, "sess-1")

	info := checkoutInfo()
	info.Phone = "0812 not a phone"
	_, err := fx.svc.Submit(context.Background(), "sess-1", info)
	assert.Error(t, err)

	// the cart is untouched
	cart, getErr := fx.repo.Get(context.Background(), "sess-1")
	require.NoError(t, getErr)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestCheckoutService_Submit_APIRejectionKeepsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"message":"Stok tidak mencukupi"}`)
	}))
	defer srv.Close()

	fx := newCheckoutFixture(t, srv.URL)
	seedCart(t, fx.repo, "sess-1")

	_, err := fx.svc.Submit(context.Background(), "sess-1", checkoutInfo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stok tidak mencukupi")

	cart, getErr := fx.repo.Get(context.Background(), "sess-1")
	require.NoError(t, getErr)
	assert.Equal(t, 2, cart.ItemCount)

	toast, ok := fx.notifier.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, notifier.ToastError, toast.Type)
}

func TestCheckoutService_Submit_SuccessFalseEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Jadwal pengiriman penuh"}`)
	}))
	defer srv.Close()

	fx := newCheckoutFixture(t, srv.URL)
	seedCart(t, fx.repo, "sess-1")

	_, err := fx.svc.Submit(context.Background(), "sess-1", checkoutInfo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Jadwal pengiriman penuh")

	cart, getErr := fx.repo.Get(context.Background(), "sess-1")
	require.NoError(t, getErr)
	assert.False(t, cart.IsEmpty())
}

func TestCheckoutService_Submit_NetworkFailureKeepsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	fx := newCheckoutFixture(t, srv.URL)
	seedCart(t, fx.repo, "sess-1")

	_, err := fx.svc.Submit(context.Background(), "sess-1", checkoutInfo())
	require.Error(t, err)

	cart, getErr := fx.repo.Get(context.Background(), "sess-1")
	require.NoError(t, getErr)
	assert.Equal(t, 2, cart.ItemCount)
}
