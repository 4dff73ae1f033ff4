package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/example/orbitsim/internal/metrics"
)

func TestObserveRecordsGauges(t *testing.T) {
	r := NewReporter("")
	r.Observe("random", 0, metrics.Aggregate{Throughput: 123, DropRate: 0.5, AvgDelay: 10, Cost: 20, AvgHops: 2})

	if got := testutil.ToFloat64(r.throughput.WithLabelValues("random", "0")); got != 123 {
		t.Fatalf("expected throughput 123, got %v", got)
	}
	if got := testutil.ToFloat64(r.dropRate.WithLabelValues("random", "0")); got != 0.5 {
		t.Fatalf("expected drop rate 0.5, got %v", got)
	}
}

func TestShutdownWithoutServerIsNoop(t *testing.T) {
	r := NewReporter("")
	if err := r.Shutdown(nil); err != nil {
		t.Fatalf("expected no-op shutdown, got %v", err)
	}
}
