package razorpay

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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arjyapattanayak/coursepay/internal/obs"
	"github.com/arjyapattanayak/coursepay/internal/resilience"
)

const defaultBaseURL = "https://api.razorpay.com"

// Client talks to the Razorpay REST API using basic auth.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      resilience.HTTPClient
}

// Config groups Client construction parameters.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
	Breaker   *resilience.Breaker
}

// New constructs a Client. The underlying transport is instrumented for
// tracing and guarded by the provided circuit breaker.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = resilience.NewBreaker(5, 0.5, 30*time.Second).WithTarget("razorpay")
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   base,
		http: resilience.HTTPClient{
			Client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
			Breaker: breaker,
			Timeout: timeout,
		},
	}
}

// CreateOrder opens a one-time payment intent with the gateway.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	if err := c.post(ctx, "/v1/orders", "orders.create", req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// CreateSubscription opens a recurring payment intent with the gateway.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (Subscription, error) {
	var sub Subscription
	if err := c.post(ctx, "/v1/subscriptions", "subscriptions.create", req, &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (c *Client) post(ctx context.Context, path, operation string, payload, out any) error {
	ctx, span := otel.Tracer("gateway.razorpay").Start(ctx, "razorpay."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("gateway.operation", operation))

	start := time.Now()
	result := "error"
	defer func() {
		if obs.GatewayRequestDuration != nil {
			obs.GatewayRequestDuration.WithLabelValues(operation, result).Observe(obs.DurationMillis(time.Since(start)))
		}
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "SERVER_ERROR", Description: "gateway request failed"}
		var envelope errorEnvelope
		if unmarshalErr := json.Unmarshal(data, &envelope); unmarshalErr == nil && envelope.Error.Description != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Description = envelope.Error.Description
		}
		span.RecordError(apiErr)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	result = "success"
	return nil
}
