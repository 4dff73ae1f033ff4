// Package sim orchestrates one full run loop: per-step input loading,
// failure-mask application, GSL assignment, strategy invocation, throughput
// update, propagation, metric evaluation, and record emission — the
// concurrency and flow described in spec.md §5, generalised across an
// arbitrary (strategy, repetition) worker pool.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/example/orbitsim/internal/config"
	"github.com/example/orbitsim/internal/inputs"
	"github.com/example/orbitsim/internal/network"
)

// World holds the node state for one worker's run: every satellite and
// ground station, created once at init and mutated step by step.
type World struct {
	SatelliteOrder     []network.NodeID
	GroundstationOrder []network.NodeID
	Satellites         map[network.NodeID]*network.Satellite
	SatelliteSlice     []*network.Satellite
	Groundstations     map[network.NodeID]*network.Groundstation
	Attenuation        [][]float64
}

// newWorld creates the fixed satellite/ground-station population and loads
// the two run-constant input arrays (ground-station positions, atmospheric
// attenuation), mirroring the reference system's network_init().
func newWorld(source inputs.Source, cfg config.Config, rng *rand.Rand) (*World, error) {
	gsPositions, err := source.GroundstationPositions()
	if err != nil {
		return nil, fmt.Errorf("sim: loading groundstation positions: %w", err)
	}
	attenuation, err := source.AtmosphericAttenuation()
	if err != nil {
		return nil, fmt.Errorf("sim: loading atmospheric attenuation: %w", err)
	}

	w := &World{
		Satellites:     make(map[network.NodeID]*network.Satellite, cfg.Nsat),
		Groundstations: make(map[network.NodeID]*network.Groundstation, cfg.Ngs),
		Attenuation:    attenuation,
	}

	for i := 0; i < cfg.Nsat; i++ {
		id := network.NodeID(i)
		sat := network.NewSatellite(id)
		w.Satellites[id] = sat
		w.SatelliteSlice = append(w.SatelliteSlice, sat)
		w.SatelliteOrder = append(w.SatelliteOrder, id)
	}

	for i := 0; i < cfg.Ngs; i++ {
		id := network.NodeID(cfg.Nsat + i)
		gs := network.NewGroundstation(id, i, rng)
		if i < len(gsPositions) {
			gs.SetPosition(gsPositions[i])
		}
		w.Groundstations[id] = gs
		w.GroundstationOrder = append(w.GroundstationOrder, id)
	}

	return w, nil
}

// sampleSubset draws a uniform random subset of ids without replacement,
// sized int(len(ids)*share) (truncated), matching random.sample's semantics used by
// the reference system's failure-injection helpers.
func sampleSubset(ids []network.NodeID, share float64, rng *rand.Rand) map[network.NodeID]bool {
	k := int(float64(len(ids)) * share)
	if k <= 0 {
		return nil
	}
	if k > len(ids) {
		k = len(ids)
	}

	perm := rng.Perm(len(ids))
	out := make(map[network.NodeID]bool, k)
	for i := 0; i < k; i++ {
		out[ids[perm[i]]] = true
	}
	return out
}
