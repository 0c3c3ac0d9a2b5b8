package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutboxMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)

	m.IncPublished()
	m.IncPublished()
	m.IncFailed()
	m.IncDLQ("max_attempts")

	if got := testutil.ToFloat64(m.published); got != 2 {
		t.Fatalf("expected 2 published, got %v", got)
	}
	if got := testutil.ToFloat64(m.failed); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.dlq.WithLabelValues("max_attempts")); got != 1 {
		t.Fatalf("expected 1 dlq entry, got %v", got)
	}
}

func TestOutboxMetricsNilSafe(t *testing.T) {
	var m *OutboxMetrics
	m.IncPublished()
	m.IncFailed()
	m.IncDLQ("non_retryable")

	empty := NewOutboxMetrics(nil)
	empty.IncPublished()
	empty.IncDLQ("")
}
