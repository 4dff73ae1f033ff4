package strategy

import (
	"strconv"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

// originVertex is a virtual source connected to every ground station at
// weight 0, letting a single lvlath Dijkstra run produce, for every
// satellite, its next hop towards the nearest ground station.
const originVertex = "__origin__"

func nodeVertex(id network.NodeID) string { return strconv.Itoa(int(id)) }

func vertexNode(v string) network.NodeID {
	n, _ := strconv.Atoi(v)
	return network.NodeID(n)
}

// buildGraph constructs the reversed shortest-path graph shared by Dijkstra
// and Gounder: edges flow from ground stations and between ISL neighbours,
// towards satellites, so that a single-source run from originVertex yields
// each satellite's predecessor (= its next hop back towards a sink).
func buildGraph(step Step) *core.Graph {
	g := core.NewGraph(core.WithWeighted(), core.WithDirected(true))
	_ = g.AddVertex(originVertex)
	for _, gs := range step.Groundstations {
		_ = g.AddVertex(nodeVertex(gs.ID))
		_, _ = g.AddEdge(originVertex, nodeVertex(gs.ID), 0)
	}
	for _, id := range step.SatelliteOrder {
		_ = g.AddVertex(nodeVertex(id))
	}

	seenISL := make(map[[2]network.NodeID]bool)
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		for _, gsID := range s.GSLConnections {
			gs := step.Groundstations[gsID]
			w := int64(geo.Distance(s.Position, gs.Position))
			_, _ = g.AddEdge(nodeVertex(gsID), nodeVertex(id), w)
		}
		for _, peer := range s.ISLConnections {
			key := [2]network.NodeID{id, peer}
			rev := [2]network.NodeID{peer, id}
			if seenISL[key] || seenISL[rev] {
				continue
			}
			seenISL[key] = true
			other := step.Satellites[peer]
			if other == nil {
				continue
			}
			w := int64(geo.Distance(s.Position, other.Position))
			_, _ = g.AddEdge(nodeVertex(id), nodeVertex(peer), w)
			_, _ = g.AddEdge(nodeVertex(peer), nodeVertex(id), w)
		}
	}
	return g
}

// dijkstraPredecessors computes, for every satellite, its next hop towards
// the nearest reachable ground station (empty if unreachable). It is pure:
// it neither mutates satellite state nor depends on a strategy instance, so
// both the Dijkstra strategy and the tile-coded context features can share it.
func dijkstraPredecessors(step Step) map[network.NodeID]network.NodeID {
	g := buildGraph(step)
	_, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(originVertex), dijkstra.WithReturnPath())
	result := make(map[network.NodeID]network.NodeID, len(step.SatelliteOrder))
	if err != nil {
		return result
	}
	for _, id := range step.SatelliteOrder {
		pred, ok := prev[nodeVertex(id)]
		if !ok || pred == "" {
			continue
		}
		result[id] = vertexNode(pred)
	}
	return result
}

// Dijkstra assigns every satellite a single next-hop target: its
// predecessor on the shortest path to the nearest reachable ground station.
type Dijkstra struct{}

func NewDijkstra() *Dijkstra { return &Dijkstra{} }

func (d *Dijkstra) Name() string { return "dijkstra" }

func (d *Dijkstra) SetTargets(step Step) {
	predecessors := dijkstraPredecessors(step)
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		if target, ok := predecessors[id]; ok {
			s.TargetIDs = []network.NodeID{target}
		} else {
			s.TargetIDs = nil
		}
	}
}

func (d *Dijkstra) Learn(step Step) {}

func (d *Dijkstra) Reset() {}
