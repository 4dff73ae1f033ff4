// Package topology builds the per-step directed topology: it assigns each
// ground station to at most K nearest visible satellites (closest-first,
// ties broken by ascending satellite id). ISL neighbour lists are taken
// as given from the input source and are not altered here.
package topology

import (
	"sort"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

// AntennasPerGroundstation is the maximum number of satellites a single
// ground station may be linked to in one step.
const AntennasPerGroundstation = 8

type candidate struct {
	satID    network.NodeID
	distance float64
}

// AssignGSLs clears every satellite's GSL_connections and rebuilds them by
// assigning, for each ground station, the nearest AntennasPerGroundstation
// visible satellites.
func AssignGSLs(satellites []*network.Satellite, groundstations map[network.NodeID]*network.Groundstation) {
	for _, s := range satellites {
		s.GSLConnections = s.GSLConnections[:0]
	}

	byGS := make(map[network.NodeID][]candidate)
	for _, s := range satellites {
		for _, gsID := range s.VisibleGroundstations {
			gs := groundstations[gsID]
			d := geo.Distance(s.Position, gs.Position)
			byGS[gsID] = append(byGS[gsID], candidate{satID: s.ID, distance: d})
		}
	}

	satByID := make(map[network.NodeID]*network.Satellite, len(satellites))
	for _, s := range satellites {
		satByID[s.ID] = s
	}

	for gsID, candidates := range byGS {
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].distance != candidates[j].distance {
				return candidates[i].distance < candidates[j].distance
			}
			return candidates[i].satID < candidates[j].satID
		})

		limit := AntennasPerGroundstation
		if limit > len(candidates) {
			limit = len(candidates)
		}
		for i := 0; i < limit; i++ {
			sat := satByID[candidates[i].satID]
			sat.GSLConnections = append(sat.GSLConnections, gsID)
		}
	}
}
