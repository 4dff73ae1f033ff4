package network

import (
	"math/rand"
	"testing"

	"github.com/example/orbitsim/internal/geo"
)

func TestSatelliteSetPositionDerivesLongLat(t *testing.T) {
	sat := NewSatellite(0)
	sat.SetPosition(geo.Vec3{X: 1, Y: 0, Z: 0})
	if sat.Long != 0 || sat.Lat != 0 {
		t.Fatalf("unexpected long/lat: %v %v", sat.Long, sat.Lat)
	}
}

func TestISLFailureForcesMinimumCapacity(t *testing.T) {
	a := NewSatellite(0)
	b := NewSatellite(1)
	a.SetPosition(geo.Vec3{X: 0, Y: 0, Z: 0})
	b.SetPosition(geo.Vec3{X: 1_000_000, Y: 0, Z: 0})
	a.FailedISL = true

	if got := a.ISLCapacityTo(b); got != 1 {
		t.Fatalf("expected 1 bps under ISL failure, got %v", got)
	}
}

func TestGroundstationBufferTogglesOnThroughput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	gs := NewGroundstation(636, 0, rng)
	gs.OutgoingStreams[CoreSink] = []Stream{{Path: []NodeID{0, 636}, Rate: gs.OutgoingThroughput}}
	gs.UpdateBuffer()
	if gs.BufferLevel != GroundstationBufferSize {
		t.Fatalf("expected full buffer, got %v", gs.BufferLevel)
	}

	gs.OutgoingStreams[CoreSink] = []Stream{{Path: []NodeID{0, 636}, Rate: 1}}
	gs.UpdateBuffer()
	if gs.BufferLevel != 0 {
		t.Fatalf("expected empty buffer, got %v", gs.BufferLevel)
	}
}

func TestGroundstationDelayStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	gs := NewGroundstation(636, 0, rng)
	for i := 0; i < 1000; i++ {
		gs.UpdateDelay(rng)
		if gs.Delay < delayLowerLimitMS || gs.Delay > delayUpperLimitMS+gs.BufferLevel/gs.OutgoingThroughput+1e-9 {
			t.Fatalf("delay escaped bounds: %v", gs.Delay)
		}
	}
}

func TestStreamContainsNodeAndAppend(t *testing.T) {
	s := Stream{Path: []NodeID{0, 1}, Rate: 10}
	if !s.ContainsNode(1) {
		t.Fatalf("expected path to contain node 1")
	}
	appended := s.Appended(2, 5)
	if len(appended.Path) != 3 || appended.Path[2] != 2 || appended.Rate != 5 {
		t.Fatalf("unexpected appended stream: %+v", appended)
	}
	if len(s.Path) != 2 {
		t.Fatalf("original stream path mutated: %+v", s.Path)
	}
}
