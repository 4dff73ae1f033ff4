// Package propagator implements the flow-propagation core: building, from
// every satellite's ordered target list, the set of per-path streams that
// actually reach "core", honouring link capacity and loop-freedom.
//
// This is the direct translation of the original PaketManager.update_streams
// work-queue algorithm: a FIFO seeded with satellites in ascending id order,
// capacity-aware splitting per target, and re-enqueue on change.
package propagator

import (
	"math"
	"math/rand"

	"github.com/example/orbitsim/internal/network"
)

// MaxIterations bounds worst-case pathological recirculation; on hit the
// propagator stops and returns partial results rather than looping forever.
const MaxIterations = 100_000

// World is the set of nodes the propagator operates over for one step.
type World struct {
	// SatelliteOrder lists every satellite id in ascending order; this is
	// the propagator's initial FIFO seed order.
	SatelliteOrder []network.NodeID
	Satellites     map[network.NodeID]*network.Satellite
	Groundstations map[network.NodeID]*network.Groundstation
	Attenuation    [][]float64
	Rng            *rand.Rand
}

// Result reports whether the propagator exhausted its iteration cap, which
// is a non-fatal condition: the caller proceeds with whatever state exists.
type Result struct {
	Overflowed bool
	Iterations int
}

// Run resets every node's stream buckets, seeds generation traffic, and
// drains the FIFO work queue until quiescent or MaxIterations is hit.
func Run(w World) Result {
	for _, id := range w.SatelliteOrder {
		s := w.Satellites[id]
		s.IncomingStreams = network.StreamBucket{}
		s.OutgoingStreams = network.StreamBucket{}
		if s.GenerationRate > 0 {
			s.IncomingStreams[network.GenerationSource] = []network.Stream{
				{Path: []network.NodeID{s.ID}, Rate: s.GenerationRate},
			}
		}
	}
	for _, gs := range w.Groundstations {
		gs.IncomingStreams = network.StreamBucket{}
		gs.OutgoingStreams = network.StreamBucket{}
	}

	queue := make([]network.NodeID, len(w.SatelliteOrder))
	copy(queue, w.SatelliteOrder)
	queued := make(map[network.NodeID]bool, len(w.SatelliteOrder))
	for _, id := range queue {
		queued[id] = true
	}

	iterations := 0
	overflowed := false

	for len(queue) > 0 {
		if iterations > MaxIterations {
			overflowed = true
			break
		}

		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		if sat, ok := w.Satellites[id]; ok {
			iterations += processSatellite(w, sat, &queue, queued)
			continue
		}

		gs := w.Groundstations[id]
		processGroundstation(gs)
	}

	return Result{Overflowed: overflowed, Iterations: iterations}
}

func flatten(bucket network.StreamBucket) []network.Stream {
	var out []network.Stream
	for _, streams := range bucket {
		out = append(out, streams...)
	}
	return out
}

func dedupeTargets(targets []network.NodeID) []network.NodeID {
	seen := make(map[network.NodeID]bool, len(targets))
	out := make([]network.NodeID, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func streamsEqual(a, b []network.Stream) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rate != b[i].Rate || len(a[i].Path) != len(b[i].Path) {
			return false
		}
		for j := range a[i].Path {
			if a[i].Path[j] != b[i].Path[j] {
				return false
			}
		}
	}
	return true
}

// physicalCapacity returns 0.9 times the physical link capacity from sat to
// target, recomputing GSL noise fresh (mirroring the original's second,
// independent random draw inside the propagator).
func physicalCapacity(w World, sat *network.Satellite, target network.NodeID) float64 {
	const safetyMargin = 0.9
	if sat.IsISLTarget(target) {
		return safetyMargin * sat.ISLCapacityTo(w.Satellites[target])
	}
	gs := w.Groundstations[target]
	row := w.Attenuation[gs.AttenuationRow]
	return safetyMargin * sat.GSLCapacityTo(gs, row, w.Rng)
}

// processSatellite drains one satellite's remaining incoming streams across
// its ordered target list and returns the number of stream-creation events
// it performed (for the global iteration cap).
func processSatellite(w World, sat *network.Satellite, queue *[]network.NodeID, queued map[network.NodeID]bool) int {
	remaining := flatten(sat.IncomingStreams)
	events := 0

	for _, target := range dedupeTargets(sat.TargetIDs) {
		var eligible, ineligible []network.Stream
		for _, st := range remaining {
			if st.ContainsNode(target) {
				ineligible = append(ineligible, st)
			} else {
				eligible = append(eligible, st)
			}
		}

		r := 0.0
		for _, st := range eligible {
			r += st.Rate
		}
		if r == 0 {
			break
		}

		capacity := physicalCapacity(w, sat, target)
		linkCapacity := sat.OutgoingThroughputs[target]
		newTraffic := math.Min(linkCapacity, math.Min(capacity, r))
		shareNew := newTraffic / r
		shareCC := math.Min(1, capacity/r)

		newStreams := make([]network.Stream, 0, len(eligible))
		residuals := make([]network.Stream, 0, len(eligible))
		for _, st := range eligible {
			events++
			newStreams = append(newStreams, st.Appended(target, shareNew*st.Rate))
			if shareCC < 1 {
				residuals = append(residuals, network.Stream{Path: append([]network.NodeID{}, st.Path...), Rate: (1 - shareCC) * st.Rate})
			}
		}
		remaining = append(ineligible, residuals...)

		var oldStreams []network.Stream
		if targetSat, ok := w.Satellites[target]; ok {
			oldStreams = targetSat.IncomingStreams[sat.ID]
			targetSat.IncomingStreams[sat.ID] = newStreams
		} else {
			targetGS := w.Groundstations[target]
			oldStreams = targetGS.IncomingStreams[sat.ID]
			targetGS.IncomingStreams[sat.ID] = newStreams
		}
		sat.OutgoingStreams[target] = newStreams

		if !streamsEqual(newStreams, oldStreams) && newTraffic >= 1 && !queued[target] {
			*queue = append(*queue, target)
			queued[target] = true
		}
	}

	return events
}

func processGroundstation(gs *network.Groundstation) {
	remaining := flatten(gs.IncomingStreams)
	r := 0.0
	for _, st := range remaining {
		r += st.Rate
	}
	if r == 0 {
		gs.OutgoingStreams[network.CoreSink] = nil
		return
	}

	newTraffic := math.Min(gs.OutgoingThroughput, r)
	share := newTraffic / r

	newStreams := make([]network.Stream, 0, len(remaining))
	for _, st := range remaining {
		newStreams = append(newStreams, st.Appended(network.CoreSink, share*st.Rate))
	}
	gs.OutgoingStreams[network.CoreSink] = newStreams
}
