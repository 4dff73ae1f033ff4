package strategy

import (
	"math/rand"
	"testing"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

func TestBentPipeEmptyWithoutGSL(t *testing.T) {
	s := network.NewSatellite(0)
	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(1)),
	}

	NewBentPipe().SetTargets(step)
	if len(s.TargetIDs) != 0 {
		t.Fatalf("expected empty target list, got %v", s.TargetIDs)
	}
}

func TestBentPipeUsesOnlyGSL(t *testing.T) {
	s := network.NewSatellite(0)
	s.ISLConnections = []network.NodeID{1, 2}
	s.GSLConnections = []network.NodeID{100}

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(1)),
	}

	NewBentPipe().SetTargets(step)
	if len(s.TargetIDs) != 1 || s.TargetIDs[0] != 100 {
		t.Fatalf("expected single GSL target, got %v", s.TargetIDs)
	}
}

func TestRandomUsesUnionOfConnections(t *testing.T) {
	s := network.NewSatellite(0)
	s.ISLConnections = []network.NodeID{1}
	s.GSLConnections = []network.NodeID{100}

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(2)),
	}

	NewRandom().SetTargets(step)
	if len(s.TargetIDs) != 2 {
		t.Fatalf("expected 2 targets, got %v", s.TargetIDs)
	}
}

func TestDijkstraSingleHopToGroundstation(t *testing.T) {
	s := network.NewSatellite(0)
	s.SetPosition(geo.Vec3{X: 0, Y: 0, Z: 0})
	s.GSLConnections = []network.NodeID{100}

	gs := network.NewGroundstation(100, 0, nil)
	gs.SetPosition(geo.Vec3{X: 1_000, Y: 0, Z: 0})

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{100: gs},
		Rng:            rand.New(rand.NewSource(3)),
	}

	NewDijkstra().SetTargets(step)
	if len(s.TargetIDs) != 1 || s.TargetIDs[0] != 100 {
		t.Fatalf("expected direct GSL target, got %v", s.TargetIDs)
	}
}

func TestDijkstraUnreachableGivesEmptyTargets(t *testing.T) {
	s := network.NewSatellite(0)

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(4)),
	}

	NewDijkstra().SetTargets(step)
	if len(s.TargetIDs) != 0 {
		t.Fatalf("expected no targets for isolated satellite, got %v", s.TargetIDs)
	}
}

// TestQLearningConvergesToLowCostAction exercises the testable property
// from the reference design: with exploration disabled, repeatedly
// observing one action costing 10 and another costing 100 must converge
// the argmax choice onto the cheap one.
func TestQLearningConvergesToLowCostAction(t *testing.T) {
	q := NewQLearning()
	q.epsilon = 0 // force pure exploitation

	s := network.NewSatellite(0)
	s.ISLConnections = []network.NodeID{1, 2}

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(5)),
		Hour:           0,
	}

	for i := 0; i < 1000; i++ {
		q.SetTargets(step)
		chosen := s.TargetIDs[0]
		if chosen == 1 {
			s.Cost = 10
		} else {
			s.Cost = 100
		}
		q.Learn(step)
	}

	q.SetTargets(step)
	if s.TargetIDs[0] != 1 {
		t.Fatalf("expected convergence to the low-cost action 1, got %v", s.TargetIDs[0])
	}
}

func TestUCB1PrefersUnseenActionFirst(t *testing.T) {
	u := NewUCB1()
	s := network.NewSatellite(0)
	s.ISLConnections = []network.NodeID{1, 2}

	step := Step{
		SatelliteOrder: []network.NodeID{0},
		Satellites:     map[network.NodeID]*network.Satellite{0: s},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Rng:            rand.New(rand.NewSource(6)),
	}

	u.SetTargets(step)
	if len(s.TargetIDs) != 2 {
		t.Fatalf("expected both actions ranked, got %v", s.TargetIDs)
	}

	s.Cost = 50
	u.Learn(step)

	u.SetTargets(step)
	if s.TargetIDs[0] == s.TargetIDs[1] {
		t.Fatalf("unexpected duplicate target")
	}
	// The still-unseen action must now be ranked first (score -Inf).
	seen := u.stats[0][s.TargetIDs[0]]
	if seen != nil {
		t.Fatalf("expected an unseen action to rank first, got stats %+v", seen)
	}
}
