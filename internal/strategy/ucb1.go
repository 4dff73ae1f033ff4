package strategy

import (
	"math"
	"sort"

	"github.com/example/orbitsim/internal/network"
)

// ucbExploration is the UCB1 exploration constant c; the source material
// gives the score formula but not a calibrated value, so the classic UCB1
// constant is used here.
const ucbExploration = 2.0

type ucbStat struct {
	avgCost float64
	n       float64
}

// UCB1 maintains one (avg_cost, n) estimator per (satellite, action) and
// picks the lowest-score action each step, exploring unseen actions first.
type UCB1 struct {
	stats map[network.NodeID]map[network.NodeID]*ucbStat
}

func NewUCB1() *UCB1 {
	return &UCB1{stats: map[network.NodeID]map[network.NodeID]*ucbStat{}}
}

func (u *UCB1) Name() string { return "ucb1" }

func (u *UCB1) row(id network.NodeID) map[network.NodeID]*ucbStat {
	row, ok := u.stats[id]
	if !ok {
		row = map[network.NodeID]*ucbStat{}
		u.stats[id] = row
	}
	return row
}

func ucbScore(row map[network.NodeID]*ucbStat, action network.NodeID, totalN float64) float64 {
	stat, ok := row[action]
	if !ok || stat.n == 0 {
		return math.Inf(-1)
	}
	return stat.avgCost - ucbExploration*math.Sqrt(2*math.Log(totalN)/stat.n)
}

func (u *UCB1) SetTargets(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		actions := union(s.ISLConnections, s.GSLConnections)
		if len(actions) == 0 {
			s.TargetIDs = nil
			continue
		}

		row := u.row(id)
		totalN := 0.0
		for _, stat := range row {
			totalN += stat.n
		}
		if totalN < 1 {
			totalN = 1
		}

		sort.Slice(actions, func(i, j int) bool {
			si, sj := ucbScore(row, actions[i], totalN), ucbScore(row, actions[j], totalN)
			if si != sj {
				return si < sj
			}
			return actions[i] < actions[j]
		})
		s.TargetIDs = actions
	}
}

func (u *UCB1) Learn(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		if len(s.TargetIDs) == 0 || s.Cost <= 0 {
			continue
		}
		chosen := s.TargetIDs[0]
		row := u.row(id)
		stat, ok := row[chosen]
		if !ok {
			stat = &ucbStat{}
			row[chosen] = stat
		}
		stat.avgCost = (stat.avgCost*stat.n + s.Cost) / (stat.n + 1)
		stat.n++
	}
}

func (u *UCB1) Reset() {
	u.stats = map[network.NodeID]map[network.NodeID]*ucbStat{}
}
