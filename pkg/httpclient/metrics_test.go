package httpclient

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserveCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	transport := &fakeTransport{resp: stubResponse{status: 404, body: `{"message":"city not found"}`}}
	client := NewClient(transport, WithMetrics(metrics))
	ctx := context.Background()

	_, _, _ = client.GetJSON(ctx, "http://anyurl.com", nil, nil)
	transport.resp = stubResponse{status: 200, body: "{}"}
	_, _, _ = client.GetJSON(ctx, "http://anyurl.com", nil, nil)
	_, _, _ = client.GetJSON(ctx, "http://anyurl.com", nil, nil)
	transport.err = errors.New("connection refused")
	_, _, _ = client.Post(ctx, "http://anyurl.com", nil, nil, map[string]string{})

	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "404")); got != 1 {
		t.Fatalf("expected one 404, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("GET", "200")); got != 2 {
		t.Fatalf("expected two 200s, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("POST", statusTransportError)); got != 1 {
		t.Fatalf("expected one transport error, got %v", got)
	}
	if got := testutil.CollectAndCount(metrics.RequestDuration); got != 2 {
		t.Fatalf("expected duration series for GET and POST, got %d", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.observe("GET", 200, 0)
}
