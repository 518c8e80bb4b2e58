package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToast_VisibleAfterAdd(t *testing.T) {
	fx := newFixture(t, nil)
	_ = fx.do(t, http.MethodPost, "/api/v1/cart/items", "sess-1", addItemBody(1))

	resp := fx.do(t, http.MethodGet, "/api/v1/toast", "sess-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Visible bool `json:"visible"`
		Toast   *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"toast"`
	}
	decodeData(t, resp, &payload)
	require.True(t, payload.Visible)
	assert.Equal(t, "success", payload.Toast.Type)
	assert.Equal(t, "Daging Sapi Rendang (500 gr) ditambahkan ke keranjang", payload.Toast.Message)
}

func TestToast_Dismiss(t *testing.T) {
	fx := newFixture(t, nil)
	_ = fx.do(t, http.MethodPost, "/api/v1/cart/items", "sess-1", addItemBody(1))

	resp := fx.do(t, http.MethodDelete, "/api/v1/toast", "sess-1", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp := fx.do(t, http.MethodGet, "/api/v1/toast", "sess-1", nil)
	var payload struct {
		Visible bool `json:"visible"`
	}
	decodeData(t, getResp, &payload)
	assert.False(t, payload.Visible)
}

func TestToast_EmptyForFreshSession(t *testing.T) {
	fx := newFixture(t, nil)

	resp := fx.do(t, http.MethodGet, "/api/v1/toast", "sess-1", nil)
	var payload struct {
		Visible bool `json:"visible"`
	}
	decodeData(t, resp, &payload)
	assert.False(t, payload.Visible)
}
