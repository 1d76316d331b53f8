package resilience

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps an http.Client with timeout and circuit-breaker logic.
// Requests are never retried; a failed purchase attempt is re-driven by the
// user, not by this layer.
type HTTPClient struct {
	Client  *http.Client
	Breaker *Breaker
	Timeout time.Duration
}

// Do executes the request once. When the breaker is open ErrOpenCircuit is
// returned without touching the network. A 5xx response is reported to the
// breaker as a failure but still handed to the caller so the response body can
// be inspected for diagnostics.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	breaker := cl.Breaker
	if breaker == nil {
		// default to a closed breaker that never trips
		breaker = NewBreaker(1, 1, time.Second)
	}
	if !breaker.Allow(ctx) {
		return nil, ErrOpenCircuit
	}

	timeout := cl.Timeout
	if timeout <= 0 {
		timeout = cl.Client.Timeout
	}
	callCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := cl.Client.Do(req.WithContext(callCtx))
	if err != nil {
		breaker.Report(ctx, false)
		return nil, err
	}
	if cancel != nil {
		// The per-call context dies when Do returns, which would abort any
		// body read the caller does afterwards. Drain the body while the
		// context is still live and hand back a buffered copy.
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			breaker.Report(ctx, false)
			return nil, readErr
		}
		resp.Body = io.NopCloser(bytes.NewReader(data))
	}
	breaker.Report(ctx, resp.StatusCode < http.StatusInternalServerError)
	return resp, nil
}
