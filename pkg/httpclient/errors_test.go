package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

func responseWithBody(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_EnvelopeMessage(t *testing.T) {
	resp := responseWithBody(http.StatusBadRequest, `{"success":false,"message":"minimum order is 2 for this variant"}`)

	err := ParseResponseError(resp, "order-api")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "minimum order is 2")
}

func TestParseResponseError_Unstructured(t *testing.T) {
	resp := responseWithBody(http.StatusBadGateway, "upstream timeout")

	err := ParseResponseError(resp, "order-api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestParseResponseError_ServiceUnavailable(t *testing.T) {
	resp := responseWithBody(http.StatusServiceUnavailable, `{"success":false,"message":"maintenance"}`)

	err := ParseResponseError(resp, "order-api")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestParseResponseError_Conflict(t *testing.T) {
	resp := responseWithBody(http.StatusConflict, `{"success":false,"message":"duplicate order"}`)

	err := ParseResponseError(resp, "order-api")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(422))
	assert.False(t, IsClientError(399))
	assert.False(t, IsClientError(500))
}
