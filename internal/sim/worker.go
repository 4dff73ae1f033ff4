package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/example/orbitsim/internal/config"
	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/inputs"
	"github.com/example/orbitsim/internal/metrics"
	"github.com/example/orbitsim/internal/network"
	"github.com/example/orbitsim/internal/propagator"
	"github.com/example/orbitsim/internal/results"
	"github.com/example/orbitsim/internal/strategy"
	"github.com/example/orbitsim/internal/telemetry"
	"github.com/example/orbitsim/internal/topology"
)

// Worker runs one (strategy, repetition) pair end to end, owning its own
// seeded RNG, strategy instance, and output writer — no state is shared
// with any other worker, matching the reference system's process isolation.
type Worker struct {
	RunID      string
	Strategy   strategy.Strategy
	Repetition int
	Seed       int64
	Cfg        config.Config
	Source     inputs.Source
	Results    *results.Writer
	Telemetry  *telemetry.Reporter
}

// Run executes Cfg.MaxTimeSteps steps, returning the first fatal error
// (an inputs.ShapeError or a write failure) it encounters. A propagator
// iteration overflow is logged but never returned, per the error-handling
// design's distinction between fatal and non-fatal conditions.
func (w *Worker) Run(ctx context.Context) error {
	rng := rand.New(rand.NewSource(w.Seed))

	world, err := newWorld(w.Source, w.Cfg, rng)
	if err != nil {
		return err
	}

	clock := geo.NewClock(w.Cfg.StartTime)

	var failedISL, failedGSL, failedGS map[network.NodeID]bool
	var epochSampled, epochReset bool

	for step := 0; step < w.Cfg.MaxTimeSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := clock.Now()

		if !epochSampled && !now.Before(w.Cfg.FailureTime) {
			if w.Cfg.ISLFailures {
				failedISL = sampleSubset(world.SatelliteOrder, w.Cfg.ISLFailureShare, rng)
			}
			if w.Cfg.GSLFailures {
				failedGSL = sampleSubset(world.SatelliteOrder, w.Cfg.GSLFailureShare, rng)
			}
			if w.Cfg.GSFailures {
				failedGS = sampleSubset(world.GroundstationOrder, w.Cfg.GSFailureShare, rng)
			}
			epochSampled = true
			log.Printf("sim[%s]: network failure at step %d", w.RunID, step)
		}
		if !epochReset && !now.Before(w.Cfg.ResetTime) {
			failedISL, failedGSL, failedGS = nil, nil, nil
			epochReset = true
			log.Printf("sim[%s]: network fixed at step %d", w.RunID, step)
		}
		for _, id := range world.SatelliteOrder {
			sat := world.Satellites[id]
			sat.FailedISL = failedISL[id]
			sat.FailedGSL = failedGSL[id]
		}
		for _, id := range world.GroundstationOrder {
			world.Groundstations[id].Failed = failedGS[id]
		}

		if err := loadStep(world, w.Source, clock.Step(), w.Cfg.GrowthFactor); err != nil {
			return err
		}

		topology.AssignGSLs(world.SatelliteSlice, world.Groundstations)

		stepCtx := strategy.Step{
			SatelliteOrder: world.SatelliteOrder,
			Satellites:     world.Satellites,
			Groundstations: world.Groundstations,
			Hour:           now.Hour(),
			UTCSeconds:     now.Hour()*3600 + now.Minute()*60 + now.Second(),
			Rng:            rng,
		}
		w.Strategy.SetTargets(stepCtx)

		for _, id := range world.SatelliteOrder {
			world.Satellites[id].UpdateOutgoingThroughput(world.Satellites, world.Groundstations, world.Attenuation, rng)
		}

		propResult := propagator.Run(propagator.World{
			SatelliteOrder: world.SatelliteOrder,
			Satellites:     world.Satellites,
			Groundstations: world.Groundstations,
			Attenuation:    world.Attenuation,
			Rng:            rng,
		})
		if propResult.Overflowed {
			log.Printf("sim[%s]: propagator hit the iteration cap at step %d, using partial results", w.RunID, step)
		}

		for _, id := range world.SatelliteOrder {
			world.Satellites[id].UpdateBuffer(world.Satellites, world.Groundstations, world.Attenuation, rng)
		}
		for _, id := range world.GroundstationOrder {
			gs := world.Groundstations[id]
			gs.UpdateBuffer()
			gs.UpdateDelay(rng)
		}

		lookup := metrics.Lookup{Satellites: world.Satellites, Groundstations: world.Groundstations}
		for _, id := range world.SatelliteOrder {
			metrics.EvaluateSatellite(world.Satellites[id], lookup)
		}
		agg := metrics.ComputeAggregate(world.Satellites, world.Groundstations)

		w.Strategy.Learn(stepCtx)

		if w.Results != nil {
			rec := results.Record{
				Episode:        step,
				Time:           now,
				AvgDelay:       agg.AvgDelay,
				DropRate:       agg.DropRate,
				GenerationRate: agg.GenerationRate,
				Throughput:     agg.Throughput,
				AvgHops:        agg.AvgHops,
				MainLinkOut:    agg.MainLinkOutShare,
				Cost:           agg.Cost,
			}
			if err := w.Results.Write(rec); err != nil {
				return err
			}
		}
		if w.Telemetry != nil {
			w.Telemetry.Observe(w.Strategy.Name(), w.Repetition, agg)
		}

		clock.Advance()
	}

	return nil
}

// loadStep pulls this step's per-satellite arrays from source and writes
// them onto the world's satellites, converting the raw int neighbour/
// visibility lists into NodeIDs.
func loadStep(world *World, source inputs.Source, step int, growthFactor float64) error {
	positions, err := source.SatellitePositions(step)
	if err != nil {
		return fmt.Errorf("sim: loading satellite positions at step %d: %w", step, err)
	}
	neighbours, err := source.ISLNeighbours(step)
	if err != nil {
		return fmt.Errorf("sim: loading ISL neighbours at step %d: %w", step, err)
	}
	visibility, err := source.VisibleGroundstations(step)
	if err != nil {
		return fmt.Errorf("sim: loading groundstation visibility at step %d: %w", step, err)
	}
	generation, err := source.DataGeneration(step)
	if err != nil {
		return fmt.Errorf("sim: loading data generation at step %d: %w", step, err)
	}

	for i, id := range world.SatelliteOrder {
		for _, n := range neighbours[i] {
			if _, ok := world.Satellites[network.NodeID(n)]; !ok {
				return &inputs.ShapeError{Field: "grid neighbour id", Expected: len(world.SatelliteOrder), Got: n}
			}
		}
		for _, g := range visibility[i] {
			if _, ok := world.Groundstations[network.NodeID(g)]; !ok {
				return &inputs.ShapeError{Field: "satellite_visibility_groundstations id", Expected: len(world.GroundstationOrder), Got: g}
			}
		}
		sat := world.Satellites[id]
		sat.SetPosition(positions[i])
		sat.ISLConnections = toNodeIDs(neighbours[i])
		sat.VisibleGroundstations = toNodeIDs(visibility[i])
		sat.SetGenerationRate(generation[i], growthFactor)
		sat.TargetIDs = nil
	}
	return nil
}

func toNodeIDs(raw []int) []network.NodeID {
	if raw == nil {
		return nil
	}
	out := make([]network.NodeID, len(raw))
	for i, v := range raw {
		out[i] = network.NodeID(v)
	}
	return out
}
