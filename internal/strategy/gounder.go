package strategy

import (
	"math"
	"sort"

	"github.com/katalvlaran/lvlath/dijkstra"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

// GounderK is the number of predecessor candidates Gounder keeps per satellite.
const GounderK = 4

type gounderCandidate struct {
	id    network.NodeID
	total float64
}

// gounderRanking computes, for every satellite, its K nearest predecessor
// candidates (ISL peers or GSL ground stations) ranked ascending by total
// distance to any ground station. Pure: shared by the Gounder strategy and
// the tile-coded context's "order" feature.
func gounderRanking(step Step) map[network.NodeID][]network.NodeID {
	graph := buildGraph(step)
	dist, _, err := dijkstra.Dijkstra(graph, dijkstra.Source(originVertex))
	result := make(map[network.NodeID][]network.NodeID, len(step.SatelliteOrder))
	if err != nil {
		return result
	}

	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		candidates := make([]gounderCandidate, 0, len(s.ISLConnections)+len(s.GSLConnections))

		for _, peer := range s.ISLConnections {
			other := step.Satellites[peer]
			if other == nil {
				continue
			}
			d, ok := dist[nodeVertex(peer)]
			if !ok || d == math.MaxInt64 {
				continue
			}
			candidates = append(candidates, gounderCandidate{
				id:    peer,
				total: float64(d) + geo.Distance(s.Position, other.Position),
			})
		}
		for _, gsID := range s.GSLConnections {
			gs := step.Groundstations[gsID]
			candidates = append(candidates, gounderCandidate{
				id:    gsID,
				total: geo.Distance(s.Position, gs.Position),
			})
		}

		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].total != candidates[j].total {
				return candidates[i].total < candidates[j].total
			}
			return candidates[i].id < candidates[j].id
		})

		limit := GounderK
		if limit > len(candidates) {
			limit = len(candidates)
		}
		targets := make([]network.NodeID, limit)
		for i := 0; i < limit; i++ {
			targets[i] = candidates[i].id
		}
		result[id] = targets
	}
	return result
}

// Gounder is a K-best variant of Dijkstra: for every satellite it ranks each
// reachable neighbour (ISL peer or GSL ground station) by the neighbour's
// own best distance to a ground station plus the hop's own length, and keeps
// the K cheapest as an ordered target list.
type Gounder struct{}

func NewGounder() *Gounder { return &Gounder{} }

func (g *Gounder) Name() string { return "gounder" }

func (g *Gounder) SetTargets(step Step) {
	ranking := gounderRanking(step)
	for _, id := range step.SatelliteOrder {
		step.Satellites[id].TargetIDs = ranking[id]
	}
}

func (g *Gounder) Learn(step Step) {}

func (g *Gounder) Reset() {}
