// Package metrics derives per-node drop rate, delay, and cost from the
// stream state the propagator left behind, plus the per-step aggregates
// reported in the output record.
package metrics

import (
	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

// TTL is the maximum tolerable end-to-end delay, in milliseconds; streams
// that exceed it are treated as fully dropped.
const TTL = 200.0

// speedOfLightMsPerMs is c expressed in metres per millisecond, so that
// distance/c yields a delay directly in milliseconds.
const speedOfLightMsPerMs = 299792.458

// Lookup resolves node ids (satellite or ground station) to the position
// and buffering state the delay computation needs, without requiring the
// caller to hand every formula a pair of maps.
type Lookup struct {
	Satellites     map[network.NodeID]*network.Satellite
	Groundstations map[network.NodeID]*network.Groundstation
}

func (l Lookup) isGroundstation(id network.NodeID) bool {
	_, ok := l.Groundstations[id]
	return ok
}

func (l Lookup) position(id network.NodeID) geo.Vec3 {
	if s, ok := l.Satellites[id]; ok {
		return s.Position
	}
	return l.Groundstations[id].Position
}

// streamDelay returns the propagation-plus-queuing delay, in ms, for one
// delivered stream's path. The trailing core-sink hop carries no physical
// distance and is excluded; a ground-station hop contributes its own
// already-computed Delay (random walk plus its queuing term) rather than a
// second, redundant queuing computation.
func streamDelay(path []network.NodeID, l Lookup) float64 {
	physical := path
	if len(physical) > 0 && physical[len(physical)-1] == network.CoreSink {
		physical = physical[:len(physical)-1]
	}

	var delay float64
	for i := 0; i+1 < len(physical); i++ {
		a, b := l.position(physical[i]), l.position(physical[i+1])
		delay += geo.Distance(a, b) / speedOfLightMsPerMs
	}

	for i := 1; i < len(physical); i++ {
		node := physical[i]
		if l.isGroundstation(node) {
			delay += l.Groundstations[node].Delay
			continue
		}
		sat := l.Satellites[node]
		if sat.BufferLevel <= 0 {
			continue
		}
		rate := sat.OutgoingStreams.TotalRate()
		if rate > 0 {
			delay += sat.BufferLevel / rate
		}
	}

	return delay
}

// EvaluateSatellite derives drop_rate, local_drop_rate, delay, and cost for
// one satellite from the streams the propagator produced this step, and
// writes them back onto the satellite.
func EvaluateSatellite(s *network.Satellite, l Lookup) {
	var delivered, weightedDelay float64
	for _, gs := range l.Groundstations {
		for _, st := range gs.OutgoingStreams[network.CoreSink] {
			if len(st.Path) == 0 || st.Path[0] != s.ID {
				continue
			}
			delivered += st.Rate
			weightedDelay += streamDelay(st.Path, l) * st.Rate
		}
	}

	dropRate, delay := 0.0, 0.0
	if s.GenerationRate > 0 {
		dropRate = 1 - delivered/s.GenerationRate
		if dropRate < 0 {
			dropRate = 0
		}
		undeliveredRate := s.GenerationRate - delivered
		if undeliveredRate < 0 {
			undeliveredRate = 0
		}
		delay = (weightedDelay + TTL*undeliveredRate) / s.GenerationRate
	}

	cost := dropRate*TTL + (1-dropRate)*delay
	if delay >= TTL {
		dropRate, delay, cost = 1, TTL, TTL
	}

	incoming := s.IncomingStreams.TotalRate()
	outgoing := s.OutgoingStreams.TotalRate()
	localDrop := 0.0
	if incoming > 0 {
		localDrop = 1 - outgoing/incoming
	}

	s.DropRate = dropRate
	s.LocalDropRate = localDrop
	s.Delay = delay
	s.Cost = cost
}

// Aggregate holds the per-step summary reported in the output record.
type Aggregate struct {
	AvgDelay         float64
	DropRate         float64
	GenerationRate   float64
	Throughput       float64
	AvgHops          float64
	MainLinkOutShare float64
	Cost             float64
}

// ComputeAggregate folds every satellite's per-source metrics, plus the
// delivered-stream path lengths, into the step-level summary.
func ComputeAggregate(satellites map[network.NodeID]*network.Satellite, groundstations map[network.NodeID]*network.Groundstation) Aggregate {
	var genTotal, delayNumer, delayDenom, dropNumer float64
	for _, s := range satellites {
		genTotal += s.GenerationRate
		dropNumer += s.GenerationRate * s.DropRate
		weight := s.GenerationRate * (1 - s.DropRate)
		delayNumer += weight * s.Delay
		delayDenom += weight
	}

	agg := Aggregate{GenerationRate: genTotal}
	if delayDenom > 0 {
		agg.AvgDelay = delayNumer / delayDenom
	}
	if genTotal > 0 {
		agg.DropRate = dropNumer / genTotal
	}
	agg.Throughput = (1 - agg.DropRate) * genTotal
	agg.Cost = agg.DropRate*TTL + (1-agg.DropRate)*agg.AvgDelay

	var hopNumer, hopDenom float64
	for _, gs := range groundstations {
		for _, st := range gs.OutgoingStreams[network.CoreSink] {
			hops := float64(len(st.Path) - 2)
			hopNumer += hops * st.Rate
			hopDenom += st.Rate
		}
	}
	if hopDenom > 0 {
		agg.AvgHops = hopNumer / hopDenom
	}

	var shareSum float64
	var shareCount int
	for _, s := range satellites {
		if len(s.TargetIDs) == 0 {
			continue
		}
		total := s.OutgoingStreams.TotalRate()
		if total <= 0 {
			continue
		}
		primary := 0.0
		if streams, ok := s.OutgoingStreams[s.TargetIDs[0]]; ok {
			for _, st := range streams {
				primary += st.Rate
			}
		}
		shareSum += primary / total
		shareCount++
	}
	if shareCount > 0 {
		agg.MainLinkOutShare = shareSum / float64(shareCount)
	}

	return agg
}
