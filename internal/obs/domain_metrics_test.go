package obs_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/arjyapattanayak/coursepay/internal/obs"
)

func TestMustRegisterDomainMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("coursepay", registry)

	// Registration is once per process; repeated calls must not panic.
	obs.MustRegisterDomainMetrics("coursepay", registry)

	if obs.PaymentIntentTotal == nil || obs.PaymentVerifyTotal == nil || obs.GatewayRequestDuration == nil {
		t.Fatal("expected domain collectors to be initialised")
	}

	obs.PaymentIntentTotal.WithLabelValues("order", "success").Inc()
	if got := testutil.ToFloat64(obs.PaymentIntentTotal.WithLabelValues("order", "success")); got != 1 {
		t.Fatalf("expected counter 1, got %v", got)
	}

	obs.GatewayRequestDuration.WithLabelValues("orders.create", "success").Observe(12)
	if samples := testutil.CollectAndCount(obs.GatewayRequestDuration); samples == 0 {
		t.Fatal("expected histogram sample")
	}
}
