package propagator

import (
	"math/rand"
	"testing"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

func twoSatWorld(t *testing.T, genRate, linkCapacity float64) (World, *network.Satellite, *network.Satellite, *network.Groundstation) {
	t.Helper()

	src := network.NewSatellite(0)
	src.SetPosition(geo.Vec3{X: 0, Y: 0, Z: 0})
	src.SetGenerationRate(genRate, 1)
	src.TargetIDs = []network.NodeID{1}
	src.ISLConnections = []network.NodeID{1}
	src.OutgoingThroughputs = map[network.NodeID]float64{1: linkCapacity}

	dst := network.NewSatellite(1)
	dst.SetPosition(geo.Vec3{X: 0, Y: 0, Z: 7_371_000})
	dst.TargetIDs = []network.NodeID{100}
	dst.GSLConnections = []network.NodeID{100}
	dst.OutgoingThroughputs = map[network.NodeID]float64{100: linkCapacity}

	gs := network.NewGroundstation(100, 0, rand.New(rand.NewSource(1)))
	gs.OutgoingThroughput = linkCapacity * 10
	gs.SetPosition(geo.Vec3{X: 0, Y: 0, Z: 6_371_000})

	// One attenuation-table row, wide enough to cover every elevation bin
	// (MinElevation..MaxElevation in StepElev increments).
	row := make([]float64, 701)
	for i := range row {
		row[i] = 0.5
	}

	w := World{
		SatelliteOrder: []network.NodeID{0, 1},
		Satellites:     map[network.NodeID]*network.Satellite{0: src, 1: dst},
		Groundstations: map[network.NodeID]*network.Groundstation{100: gs},
		Attenuation:    [][]float64{row},
		Rng:            rand.New(rand.NewSource(2)),
	}
	return w, src, dst, gs
}

func TestPropagateCarriesGenerationToSink(t *testing.T) {
	w, src, dst, gs := twoSatWorld(t, 1_000, 1e12)
	_ = src

	res := Run(w)
	if res.Overflowed {
		t.Fatalf("unexpected overflow")
	}

	out, ok := dst.OutgoingStreams[100]
	if !ok || len(out) == 0 {
		t.Fatalf("expected satellite 1 to forward a stream to the ground station")
	}

	sinkOut, ok := gs.OutgoingStreams[network.CoreSink]
	if !ok || len(sinkOut) == 0 {
		t.Fatalf("expected ground station to forward to core sink")
	}
	if sinkOut[0].Rate <= 0 {
		t.Fatalf("expected positive rate reaching core, got %v", sinkOut[0].Rate)
	}
}

func TestPropagateCapsTrafficAtLinkCapacity(t *testing.T) {
	w, src, dst, _ := twoSatWorld(t, 1e9, 1_000)
	_ = src
	_ = dst

	Run(w)

	total := 0.0
	for _, s := range w.Satellites[1].IncomingStreams[0] {
		total += s.Rate
	}
	if total > 1_000+1e-6 {
		t.Fatalf("expected capped traffic at <=1000, got %v", total)
	}
}

func TestPropagateSkipsLoopingPath(t *testing.T) {
	// A three-node ring: 0 -> 1 -> 2 -> 0. Satellite 2 must never route
	// the stream it received (path [0,1,2]) back to 0, since that would
	// revisit a node already on the path.
	sat0 := network.NewSatellite(0)
	sat0.SetGenerationRate(1_000, 1)
	sat0.TargetIDs = []network.NodeID{1}
	sat0.ISLConnections = []network.NodeID{1, 2}
	sat0.OutgoingThroughputs = map[network.NodeID]float64{1: 1e9}

	sat1 := network.NewSatellite(1)
	sat1.TargetIDs = []network.NodeID{2}
	sat1.ISLConnections = []network.NodeID{0, 2}
	sat1.OutgoingThroughputs = map[network.NodeID]float64{2: 1e9}

	sat2 := network.NewSatellite(2)
	sat2.TargetIDs = []network.NodeID{0}
	sat2.ISLConnections = []network.NodeID{1, 0}
	sat2.OutgoingThroughputs = map[network.NodeID]float64{0: 1e9}

	w := World{
		SatelliteOrder: []network.NodeID{0, 1, 2},
		Satellites:     map[network.NodeID]*network.Satellite{0: sat0, 1: sat1, 2: sat2},
		Groundstations: map[network.NodeID]*network.Groundstation{},
		Attenuation:    [][]float64{{0}},
		Rng:            rand.New(rand.NewSource(3)),
	}

	Run(w)

	if _, ok := sat2.OutgoingStreams[0]; ok {
		t.Fatalf("looping stream must not be re-routed back onto its own path")
	}
	if out, ok := sat1.OutgoingStreams[2]; !ok || len(out) == 0 {
		t.Fatalf("expected satellite 1 to forward traffic to satellite 2 before the loop check kicks in")
	}
}
