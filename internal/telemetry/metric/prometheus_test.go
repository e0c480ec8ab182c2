package metric

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type fakeCache struct{ n int }

func (f *fakeCache) Len() int { return f.n }

func TestCollectorExposesCounters(t *testing.T) {
	counters := NewCounters()
	counters.Record("heartbeat", 250*time.Millisecond)
	counters.Record("heartbeat", 250*time.Millisecond)

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(counters, &fakeCache{n: 42}))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	byName := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				byName[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				byName[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	if byName["macpulse_operations_total"] != 2 {
		t.Errorf("operations_total = %v, want 2", byName["macpulse_operations_total"])
	}
	if byName["macpulse_operation_latency_seconds_total"] != 0.5 {
		t.Errorf("latency total = %v, want 0.5", byName["macpulse_operation_latency_seconds_total"])
	}
	if byName["macpulse_cache_entries"] != 42 {
		t.Errorf("cache_entries = %v, want 42", byName["macpulse_cache_entries"])
	}
}

func TestCollectorNilCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(NewCounters(), nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "macpulse_cache_entries" {
			t.Error("cache_entries should be absent without a cache")
		}
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	counters := NewCounters()
	counters.Record("heartbeat", time.Millisecond)

	reg := NewRegistry(counters, &fakeCache{n: 1})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "macpulse_operations_total") {
		t.Error("exposition should include macpulse_operations_total")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("exposition should include runtime collector metrics")
	}
}
