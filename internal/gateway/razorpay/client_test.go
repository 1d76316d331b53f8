package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(49900), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{
			ID:        "order_abc",
			Entity:    "order",
			Amount:    req.Amount,
			AmountDue: req.Amount,
			Currency:  req.Currency,
			Receipt:   req.Receipt,
			Status:    "created",
		})
	}))
	defer srv.Close()

	client := New(Config{KeyID: "rzp_test_key", KeySecret: "rzp_test_secret", BaseURL: srv.URL})

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "receipt_order_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestClientCreateSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions", r.URL.Path)

		var req SubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plan_monthly", req.PlanID)
		assert.Equal(t, 1, req.CustomerNotify)
		assert.Equal(t, 12, req.TotalCount)

		_ = json.NewEncoder(w).Encode(Subscription{
			ID:         "sub_123",
			Entity:     "subscription",
			PlanID:     req.PlanID,
			Status:     "created",
			TotalCount: req.TotalCount,
		})
	}))
	defer srv.Close()

	client := New(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})

	sub, err := client.CreateSubscription(context.Background(), SubscriptionRequest{
		PlanID:         "plan_monthly",
		CustomerNotify: 1,
		TotalCount:     12,
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_123", sub.ID)
	assert.Equal(t, 12, sub.TotalCount)
}

func TestClientGatewayErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer srv.Close()

	client := New(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 0, Currency: "INR"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Description, "atleast INR 1.00")
}

func TestClientGatewayErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client := New(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "SERVER_ERROR", apiErr.Code)
}

func TestClientDefaultBaseURL(t *testing.T) {
	client := New(Config{KeyID: "k", KeySecret: "s"})
	assert.Equal(t, "https://api.razorpay.com", client.baseURL)
}
