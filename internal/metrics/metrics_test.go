package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Tick("RUN")
	m.Tick("FAULT")
	if got := testutil.ToFloat64(m.ticks); got != 2 {
		t.Fatalf("expected 2 ticks, got %f", got)
	}
	if got := testutil.ToFloat64(m.status.WithLabelValues("FAULT")); got != 1 {
		t.Fatalf("expected FAULT gauge 1, got %f", got)
	}
	if got := testutil.ToFloat64(m.status.WithLabelValues("RUN")); got != 0 {
		t.Fatalf("expected RUN gauge 0, got %f", got)
	}

	m.SetSubscribers(3)
	if got := testutil.ToFloat64(m.subscribers); got != 3 {
		t.Fatalf("expected 3 subscribers, got %f", got)
	}

	m.Published(3)
	m.Published(2)
	if got := testutil.ToFloat64(m.published); got != 2 {
		t.Fatalf("expected 2 published, got %f", got)
	}
	if got := testutil.ToFloat64(m.delivered); got != 5 {
		t.Fatalf("expected 5 deliveries, got %f", got)
	}

	m.Dropped(1)
	if got := testutil.ToFloat64(m.dropped); got != 1 {
		t.Fatalf("expected 1 drop, got %f", got)
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Fatalf("gather: n=%d err=%v", n, err)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Tick("RUN")
	m.SetSubscribers(1)
	m.Published(1)
	m.Dropped(1)
}
