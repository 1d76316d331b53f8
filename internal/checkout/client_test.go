package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifyServer(t *testing.T, status int, body map[string]any) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/verifyPayment", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api")
}

func TestVerifyPaymentMismatchIsVerdict(t *testing.T) {
	c := newVerifyServer(t, http.StatusBadRequest, map[string]any{
		"success": false, "message": "payment not verified - signature mismatch",
	})

	ok, err := c.VerifyPayment(context.Background(), "order_abc", "pay_xyz", "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPaymentMissingFieldsIsError(t *testing.T) {
	c := newVerifyServer(t, http.StatusBadRequest, map[string]any{
		"success": false, "message": "order_id, payment_id, and signature are required",
	})

	ok, err := c.VerifyPayment(context.Background(), "order_abc", "pay_xyz", "")
	assert.False(t, ok)

	var endpointErr *EndpointError
	require.ErrorAs(t, err, &endpointErr)
	assert.Equal(t, http.StatusBadRequest, endpointErr.StatusCode)
	assert.Equal(t, "order_id, payment_id, and signature are required", endpointErr.Message)
}

func TestVerifyPaymentServerErrorIsError(t *testing.T) {
	c := newVerifyServer(t, http.StatusInternalServerError, map[string]any{
		"success": false, "message": "Something went wrong",
	})

	ok, err := c.VerifyPayment(context.Background(), "order_abc", "pay_xyz", "sig")
	assert.False(t, ok)

	var endpointErr *EndpointError
	assert.True(t, errors.As(err, &endpointErr))
}
