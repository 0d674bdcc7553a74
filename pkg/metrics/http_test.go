package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/pos-cart/{id}", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/pos-cart/{id}", "200", 30*time.Millisecond)
	m.Observe("POST", "/api/pos-cart/{id}/add", "201", 10*time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/pos-cart/{id}", "200"))
	if got != 2 {
		t.Fatalf("GET counter = %v, want 2", got)
	}
	got = testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/pos-cart/{id}/add", "201"))
	if got != 1 {
		t.Fatalf("POST counter = %v, want 1", got)
	}
}

func TestObserveNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("", "", "", time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("unknown", "unknown", "unknown"))
	if got != 1 {
		t.Fatalf("counter = %v, want 1", got)
	}
}

func TestObserveOnUnregisteredMetricsIsNoOp(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.Observe("GET", "/health/live", "200", time.Millisecond)

	var nilMetrics *HTTPMetrics
	nilMetrics.Observe("GET", "/health/live", "200", time.Millisecond)
}
