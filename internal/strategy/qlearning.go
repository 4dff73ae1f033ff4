package strategy

import (
	"math"
	"sort"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/network"
)

const (
	qAlpha        = 0.15
	qGamma        = 0.90
	qEpsilonStart = 0.15
	qEpsilonMin   = 0.02
	qEpsilonDecay = 0.9995
)

// qState is the 5-tuple of bins a satellite's Q-table is keyed on.
type qState struct {
	islDegree     int
	gslDegree     int
	minGSLDist    int
	bestISLCapBin int
	hourBin       int
}

func islDegreeBin(n int) int {
	if n > 3 {
		return 3
	}
	return n
}

func gslDegreeBin(n int) int {
	if n > 2 {
		return 2
	}
	return n
}

// minGSLDistanceBin buckets the nearest GSL distance into 300km-wide bins,
// capped at bin 8; bin 9 means "no GSL connection at all".
func minGSLDistanceBin(s *network.Satellite, step Step) int {
	if len(s.GSLConnections) == 0 {
		return 9
	}
	min := math.MaxFloat64
	for _, gsID := range s.GSLConnections {
		gs := step.Groundstations[gsID]
		d := geo.Distance(s.Position, gs.Position)
		if d < min {
			min = d
		}
	}
	const binWidth = 300_000.0
	bin := int(min / binWidth)
	if bin > 8 {
		bin = 8
	}
	return bin
}

// bestISLCapacityBin buckets the best outgoing ISL capacity on a log10 scale.
func bestISLCapacityBin(s *network.Satellite) int {
	best := 0.0
	for _, peer := range s.ISLConnections {
		if c := s.OutgoingThroughputs[peer]; c > best {
			best = c
		}
	}
	switch {
	case best <= 0:
		return 0
	case best < 1e8:
		return 1
	case best < 1e9:
		return 2
	case best < 5e9:
		return 3
	default:
		return 4
	}
}

func computeQState(s *network.Satellite, step Step) qState {
	return qState{
		islDegree:     islDegreeBin(len(s.ISLConnections)),
		gslDegree:     gslDegreeBin(len(s.GSLConnections)),
		minGSLDist:    minGSLDistanceBin(s, step),
		bestISLCapBin: bestISLCapacityBin(s),
		hourBin:       step.Hour / 4,
	}
}

// QLearning maintains one Q-table per satellite over (state, action) pairs,
// action being any current ISL or GSL neighbour, trained on the realized
// per-step cost via the standard tabular TD(0) update.
type QLearning struct {
	tables  map[network.NodeID]map[qState]map[network.NodeID]float64
	pending map[network.NodeID]struct {
		state  qState
		action network.NodeID
	}
	epsilon float64
}

func NewQLearning() *QLearning {
	return &QLearning{
		tables: map[network.NodeID]map[qState]map[network.NodeID]float64{},
		pending: map[network.NodeID]struct {
			state  qState
			action network.NodeID
		}{},
		epsilon: qEpsilonStart,
	}
}

func (q *QLearning) Name() string { return "q_learning" }

func (q *QLearning) rowFor(id network.NodeID, state qState) map[network.NodeID]float64 {
	table, ok := q.tables[id]
	if !ok {
		table = map[qState]map[network.NodeID]float64{}
		q.tables[id] = table
	}
	row, ok := table[state]
	if !ok {
		row = map[network.NodeID]float64{}
		table[state] = row
	}
	return row
}

func rankDescending(row map[network.NodeID]float64, actions []network.NodeID) []network.NodeID {
	ranked := append([]network.NodeID{}, actions...)
	sort.Slice(ranked, func(i, j int) bool {
		qi, qj := row[ranked[i]], row[ranked[j]]
		if qi != qj {
			return qi > qj
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

func argmax(row map[network.NodeID]float64, actions []network.NodeID) network.NodeID {
	best := actions[0]
	bestQ := row[best]
	for _, a := range actions[1:] {
		if v := row[a]; v > bestQ || (v == bestQ && a < best) {
			bestQ, best = v, a
		}
	}
	return best
}

func (q *QLearning) SetTargets(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		actions := union(s.ISLConnections, s.GSLConnections)
		if len(actions) == 0 {
			s.TargetIDs = nil
			continue
		}

		state := computeQState(s, step)
		row := q.rowFor(id, state)

		var chosen network.NodeID
		if step.Rng.Float64() < q.epsilon {
			chosen = actions[step.Rng.Intn(len(actions))]
		} else {
			chosen = argmax(row, actions)
		}

		ranked := rankDescending(row, actions)
		targets := make([]network.NodeID, 0, len(ranked))
		targets = append(targets, chosen)
		for _, a := range ranked {
			if a != chosen {
				targets = append(targets, a)
			}
		}
		s.TargetIDs = targets

		q.pending[id] = struct {
			state  qState
			action network.NodeID
		}{state: state, action: chosen}
	}

	q.epsilon = math.Max(qEpsilonMin, q.epsilon*qEpsilonDecay)
}

func (q *QLearning) Learn(step Step) {
	for _, id := range step.SatelliteOrder {
		pending, ok := q.pending[id]
		if !ok {
			continue
		}
		s := step.Satellites[id]
		row := q.rowFor(id, pending.state)

		reward := -s.Cost
		maxNext := 0.0
		first := true
		for _, v := range row {
			if first || v > maxNext {
				maxNext = v
				first = false
			}
		}

		old := row[pending.action]
		row[pending.action] = (1-qAlpha)*old + qAlpha*(reward+qGamma*maxNext)
	}
}

func (q *QLearning) Reset() {
	q.tables = map[network.NodeID]map[qState]map[network.NodeID]float64{}
	q.pending = map[network.NodeID]struct {
		state  qState
		action network.NodeID
	}{}
	q.epsilon = qEpsilonStart
}
