package metric

import (
	"sync"
	"testing"
	"time"
)

func TestRecordAndSnapshot(t *testing.T) {
	c := NewCounters()

	c.Record("heartbeat", 10*time.Millisecond)
	c.Record("heartbeat", 30*time.Millisecond)
	c.Record("device_get", 5*time.Millisecond)

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() has %d categories, want 2", len(snap))
	}

	hb := snap["heartbeat"]
	if hb.Invocations != 2 {
		t.Errorf("heartbeat invocations = %d, want 2", hb.Invocations)
	}
	if hb.TotalElapsed != 40*time.Millisecond {
		t.Errorf("heartbeat total = %v, want 40ms", hb.TotalElapsed)
	}
	if hb.Mean != 20*time.Millisecond {
		t.Errorf("heartbeat mean = %v, want 20ms", hb.Mean)
	}
}

func TestSnapshotEmptyCategory(t *testing.T) {
	c := NewCounters()
	snap := c.Snapshot()
	if len(snap) != 0 {
		t.Errorf("fresh Counters snapshot has %d categories, want 0", len(snap))
	}
}

func TestReset(t *testing.T) {
	c := NewCounters()
	c.Record("heartbeat", time.Millisecond)
	c.Record("device_get", time.Millisecond)

	c.Reset()

	snap := c.Snapshot()
	// Category names survive reset with zeroed values.
	if len(snap) != 2 {
		t.Fatalf("Snapshot() after Reset has %d categories, want 2", len(snap))
	}
	for name, s := range snap {
		if s.Invocations != 0 || s.TotalElapsed != 0 || s.Mean != 0 {
			t.Errorf("category %q not zeroed after Reset: %+v", name, s)
		}
	}
}

func TestSnapshotAndReset(t *testing.T) {
	c := NewCounters()
	c.Record("heartbeat", 10*time.Millisecond)

	first := c.SnapshotAndReset()
	if first["heartbeat"].Invocations != 1 {
		t.Errorf("first snapshot invocations = %d, want 1", first["heartbeat"].Invocations)
	}

	second := c.Snapshot()
	if second["heartbeat"].Invocations != 0 {
		t.Errorf("counters not zeroed by SnapshotAndReset: %+v", second["heartbeat"])
	}
}

func TestAggregate(t *testing.T) {
	c := NewCounters()
	c.Record("heartbeat", 10*time.Millisecond)
	c.Record("heartbeat", 10*time.Millisecond)
	c.Record("device_get", 40*time.Millisecond)

	agg := c.Aggregate()
	if agg.Invocations != 3 {
		t.Errorf("aggregate invocations = %d, want 3", agg.Invocations)
	}
	if agg.TotalElapsed != 60*time.Millisecond {
		t.Errorf("aggregate total = %v, want 60ms", agg.TotalElapsed)
	}
	if agg.Mean != 20*time.Millisecond {
		t.Errorf("aggregate mean = %v, want 20ms", agg.Mean)
	}
}

func TestCategories(t *testing.T) {
	c := NewCounters()
	c.Record("a", 0)
	c.Record("b", 0)

	names := c.Categories()
	if len(names) != 2 {
		t.Errorf("Categories() = %v, want 2 names", names)
	}
}

func TestConcurrentRecord(t *testing.T) {
	c := NewCounters()

	const workers = 50
	const records = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < records; j++ {
				c.Record("heartbeat", time.Microsecond)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap["heartbeat"].Invocations != workers*records {
		t.Errorf("invocations = %d, want %d (lost updates)",
			snap["heartbeat"].Invocations, workers*records)
	}
	if snap["heartbeat"].TotalElapsed != workers*records*time.Microsecond {
		t.Errorf("total = %v, want %v",
			snap["heartbeat"].TotalElapsed, workers*records*time.Microsecond)
	}
}

func TestConcurrentRecordNewCategories(t *testing.T) {
	c := NewCounters()

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d"}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(name, time.Nanosecond)
			}
		}(names[i%len(names)])
	}
	wg.Wait()

	snap := c.Snapshot()
	if len(snap) != len(names) {
		t.Fatalf("Snapshot() has %d categories, want %d", len(snap), len(names))
	}
	for _, name := range names {
		if snap[name].Invocations != 1000 {
			t.Errorf("category %q invocations = %d, want 1000", name, snap[name].Invocations)
		}
	}
}
