package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/arjyapattanayak/coursepay/internal/gateway/razorpay"
)

// EndpointError is a failure the backend reported through the response
// envelope. It is distinct from a transport error: the request arrived and
// the backend answered with success=false.
type EndpointError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *EndpointError) Error() string {
	return fmt.Sprintf("checkout endpoint: %s (http %d)", e.Message, e.StatusCode)
}

// Client is a typed HTTP client for the purchase endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the API at baseURL (including the route
// prefix, e.g. "http://localhost:4000/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}
}

// CreateOrder requests a one-time payment intent. The returned order comes
// back from the gateway verbatim.
func (c *Client) CreateOrder(ctx context.Context, courseID string, amount int64) (razorpay.Order, error) {
	var order razorpay.Order
	err := c.post(ctx, "/createOrder", map[string]any{
		"courseId": courseID,
		"amount":   amount,
	}, &order)
	return order, err
}

// BuySubscription requests a recurring payment intent.
func (c *Client) BuySubscription(ctx context.Context, courseID, planID string) (razorpay.Subscription, error) {
	var resp struct {
		Success      bool                  `json:"success"`
		Subscription razorpay.Subscription `json:"subscription"`
	}
	err := c.post(ctx, "/buySubscription", map[string]any{
		"courseId": courseID,
		"planId":   planID,
	}, &resp)
	return resp.Subscription, err
}

// VerifyPayment relays a one-time payment claim. A negative verdict returns
// (false, nil); errors are transport or server-side failures.
func (c *Client) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
	return c.verify(ctx, "/verifyPayment", map[string]any{
		"order_id":   orderID,
		"payment_id": paymentID,
		"signature":  signature,
	})
}

// VerifySubscription relays a subscription payment claim.
func (c *Client) VerifySubscription(ctx context.Context, subscriptionID, paymentID, signature string) (bool, error) {
	return c.verify(ctx, "/verifySubscription", map[string]any{
		"subscription_id": subscriptionID,
		"payment_id":      paymentID,
		"signature":       signature,
	})
}

func (c *Client) verify(ctx context.Context, path string, payload map[string]any) (bool, error) {
	status, data, err := c.do(ctx, path, payload)
	if err != nil {
		return false, err
	}
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if unmarshalErr := json.Unmarshal(data, &envelope); unmarshalErr != nil {
		return false, fmt.Errorf("decode %s response: %w", path, unmarshalErr)
	}
	switch {
	case status == http.StatusOK && envelope.Success:
		return true, nil
	case status == http.StatusBadRequest && strings.Contains(envelope.Message, "not verified"):
		// The backend examined the claim and rejected it. Any other 400
		// (missing fields, malformed body) is a caller error, not a verdict.
		return false, nil
	default:
		return false, &EndpointError{StatusCode: status, Message: envelope.Message}
	}
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	status, data, err := c.do(ctx, path, payload)
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(status)
		}
		return &EndpointError{StatusCode: status, Message: envelope.Message}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, payload map[string]any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return resp.StatusCode, data, nil
}
