package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.StartPhase("density")
	time.Sleep(2 * time.Millisecond)
	p.StartPhase("pressure")
	time.Sleep(1 * time.Millisecond)
	p.EndTick()

	if p.Avg("density") <= 0 {
		t.Error("density phase not recorded")
	}
	if p.Avg("pressure") <= 0 {
		t.Error("pressure phase not recorded")
	}
	if p.Total() < p.Avg("density") {
		t.Errorf("total %v less than density phase %v", p.Total(), p.Avg("density"))
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(5)
	if p.Total() != 0 {
		t.Errorf("total = %v with no samples, want 0", p.Total())
	}
	if p.Avg("anything") != 0 {
		t.Errorf("avg = %v with no samples, want 0", p.Avg("anything"))
	}
	if names := p.SortedNames(); len(names) != 0 {
		t.Errorf("names = %v with no samples, want empty", names)
	}
}

func TestPerfCollectorWindowWraps(t *testing.T) {
	p := NewPerfCollector(2)
	for i := 0; i < 5; i++ {
		p.StartTick()
		p.StartPhase("grid")
		p.EndTick()
	}
	if p.sampleCount != 2 {
		t.Errorf("sampleCount = %d, want window size 2", p.sampleCount)
	}
}

func TestPerfCollectorSortedNames(t *testing.T) {
	p := NewPerfCollector(4)
	p.StartTick()
	p.StartPhase("fast")
	p.StartPhase("slow")
	time.Sleep(2 * time.Millisecond)
	p.EndTick()

	names := p.SortedNames()
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 entries", names)
	}
	if names[0] != "slow" {
		t.Errorf("slowest-first ordering broken: %v", names)
	}
}
