package geo

import (
	"testing"
	"time"
)

func TestDistance(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 4, Z: 0}
	if got := Distance(a, b); got != 5 {
		t.Fatalf("expected distance 5, got %v", got)
	}
}

func TestLongLat(t *testing.T) {
	long, lat := LongLat(Vec3{X: 1, Y: 0, Z: 0})
	if long != 0 {
		t.Fatalf("expected long 0, got %v", long)
	}
	if lat != 0 {
		t.Fatalf("expected lat 0, got %v", lat)
	}

	long, _ = LongLat(Vec3{X: 0, Y: 1, Z: 0})
	if long != 90 {
		t.Fatalf("expected long 90, got %v", long)
	}
}

func TestLocalHourOffset(t *testing.T) {
	if got := LocalHourOffset(0); got != 0 {
		t.Fatalf("expected offset 0 at longitude 0, got %v", got)
	}
	if got := LocalHourOffset(180); got != 12 {
		t.Fatalf("expected offset 12 at longitude 180, got %v", got)
	}
}

func TestClockAdvancesAndIndexesFiles(t *testing.T) {
	start := time.Date(2023, 9, 28, 8, 26, 0, 0, time.UTC)
	c := NewClock(start)

	for i := 0; i < 1000; i++ {
		if c.FileIndex() != 0 {
			t.Fatalf("expected file index 0 at step %d, got %d", i, c.FileIndex())
		}
		c.Advance()
	}

	if c.FileIndex() != 1 {
		t.Fatalf("expected file index 1 after 1000 steps, got %d", c.FileIndex())
	}
	if c.Offset() != 0 {
		t.Fatalf("expected offset 0 after 1000 steps, got %d", c.Offset())
	}
	if !c.Now().Equal(start.Add(1000 * StepDelta)) {
		t.Fatalf("unexpected clock time: %v", c.Now())
	}
}
