package telemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"slabbench/internal/bench/config"
	"slabbench/internal/bench/core"
	"slabbench/internal/bench/maps"
)

// value reads the counter or gauge sample of name for variant from the
// default registry.
func value(t *testing.T, name, variant string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "variant" || lp.GetValue() != variant {
					continue
				}
				if c := m.GetCounter(); c != nil {
					return c.GetValue()
				}
				if g := m.GetGauge(); g != nil {
					return g.GetValue()
				}
			}
		}
	}
	return 0
}

func TestObserver_UpdatesVariantSeries(t *testing.T) {
	v := maps.Variant("TELEMETRY_TEST")
	obs := Observer(v)

	obs.ObserveSetup(&core.Trial{CapacityPerSegment: 4096})
	obs.ObserveIteration(v, 100, 2500, 20*time.Millisecond)
	obs.ObserveIteration(v, 100, 2600, 30*time.Millisecond)
	obs.ObserveError(v, errors.New("boom"))

	l := v.String()
	if got := value(t, "slabbench_operations_total", l); got != 200 {
		t.Fatalf("operations: got %v want 200", got)
	}
	if got := value(t, "slabbench_payload_bytes_total", l); got != 5100 {
		t.Fatalf("payload bytes: got %v want 5100", got)
	}
	if got := value(t, "slabbench_trial_errors_total", l); got != 1 {
		t.Fatalf("errors: got %v want 1", got)
	}
	if got := value(t, "slabbench_capacity_per_segment_bytes", l); got != 4096 {
		t.Fatalf("capacity gauge: got %v want 4096", got)
	}
}

func TestObserver_WiredIntoRunTrial(t *testing.T) {
	cfg := config.Config{
		Type:             "BASELINE",
		MinObjectSize:    1,
		MaxObjectSize:    8,
		Segments:         1,
		OpsPerInvocation: 50,
		Seed:             5,
	}
	before := value(t, "slabbench_operations_total", "BASELINE")
	if _, err := core.RunTrial(context.Background(), cfg, core.RunOptions{Iterations: 2, Observer: Observer(maps.Baseline)}); err != nil {
		t.Fatalf("RunTrial: %v", err)
	}
	after := value(t, "slabbench_operations_total", "BASELINE")
	if after-before != 100 {
		t.Fatalf("operations delta: got %v want 100", after-before)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	Observer(maps.SlabOnHeap).ObserveIteration(maps.SlabOnHeap, 1, 1, time.Millisecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, name := range []string{"slabbench_operations_total", "slabbench_iteration_seconds_bucket"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
