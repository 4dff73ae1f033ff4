// Package strategy implements the seven routing strategies that share one
// contract: choose an ordered target list for every satellite each step,
// then learn from the cost the evaluator assigns to that choice.
package strategy

import (
	"math/rand"

	"github.com/example/orbitsim/internal/network"
)

// Step carries everything a strategy needs to pick targets for one step: the
// full node maps (read-only apart from TargetIDs, which the strategy owns),
// plus the satellite ids in ascending order for deterministic iteration.
type Step struct {
	SatelliteOrder []network.NodeID
	Satellites     map[network.NodeID]*network.Satellite
	Groundstations map[network.NodeID]*network.Groundstation
	Hour           int // hour-of-day, 0-23, for time-dependent state bins
	UTCSeconds     int
	Rng            *rand.Rand
}

// Strategy is the common contract every routing policy implements.
type Strategy interface {
	// Name identifies the strategy for CLI selection and output records.
	Name() string

	// SetTargets chooses target_ids for every satellite in step.Satellites.
	SetTargets(step Step)

	// Learn updates internal estimators from the cost field the evaluator
	// has just written onto each satellite.
	Learn(step Step)

	// Reset clears any learned state, for a fresh repetition.
	Reset()
}

func shuffle(ids []network.NodeID, rng *rand.Rand) []network.NodeID {
	out := append([]network.NodeID{}, ids...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func union(a, b []network.NodeID) []network.NodeID {
	out := make([]network.NodeID, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
