package strategy

import (
	"math"
	"sort"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/linkphys"
	"github.com/example/orbitsim/internal/network"
)

// Context axes available to the tile-coded strategy. An axis not present in
// the enabled set always contributes bin 0 to every tile key.
const (
	AxisDistance      = "distance"
	AxisData          = "data"
	AxisLocalTime     = "local_time"
	AxisUTCTime       = "utc_time"
	AxisDijkstra      = "dijkstra"
	AxisOrder         = "order"
	AxisTotalDistance = "total_distance"
	AxisElevation     = "elevation"
)

const (
	tileGrids             = 8
	tileBinWidthDistance  = 1e5 // dp, metres per bin
	tileBinWidthData      = 1.0
	tileBinWidthTime      = 3600.0 // seconds
	tileBinWidthTotalDist = 1e6    // metres
	tileBinWidthElevation = 1e4
	tileDataLogBase       = 30.0
	tileMaxCount          = 1e10
)

// tileKey is the per-grid discretised context; only enabled axes vary, the
// rest stay at 0 so they never discriminate between tiles.
type tileKey [8]int

// TileCodedUCB generalises UCB1 with multi-grid tile coding over a
// configurable subset of context axes, so that the exploration estimator
// can condition on distance, traffic load, time of day, and agreement with
// the Dijkstra/Gounder strategies.
type TileCodedUCB struct {
	axes map[string]bool

	// stats[grid][satellite][action][tile]
	stats []map[network.NodeID]map[network.NodeID]map[tileKey]*ucbStat

	pending map[network.NodeID]struct {
		action network.NodeID
		tiles  []tileKey
	}

	// set fresh at the start of each SetTargets call.
	dijkstraPred map[network.NodeID]network.NodeID
	gounderRank  map[network.NodeID][]network.NodeID
}

// NewTileCodedUCB constructs a tile-coded UCB strategy over the given axes
// (defaults to just AxisDistance when none given). The dijkstra/order axes
// are computed internally each step via the same pure graph helpers the
// Dijkstra and Gounder strategies use, independent of whether those
// strategies are also running.
func NewTileCodedUCB(axes []string) *TileCodedUCB {
	if len(axes) == 0 {
		axes = []string{AxisDistance}
	}
	enabled := make(map[string]bool, len(axes))
	for _, a := range axes {
		enabled[a] = true
	}

	stats := make([]map[network.NodeID]map[network.NodeID]map[tileKey]*ucbStat, tileGrids)
	for g := range stats {
		stats[g] = map[network.NodeID]map[network.NodeID]map[tileKey]*ucbStat{}
	}

	return &TileCodedUCB{
		axes:  enabled,
		stats: stats,
		pending: map[network.NodeID]struct {
			action network.NodeID
			tiles  []tileKey
		}{},
	}
}

func (t *TileCodedUCB) Name() string { return "tile_coded_ucb" }

func tileBin(value, binWidth float64, grid int) int {
	offset := binWidth * float64(grid) / float64(tileGrids)
	return int(math.Floor((value + offset) / binWidth))
}

func boolBin(v bool) int {
	if v {
		return 1
	}
	return 0
}

// rawFeatures holds the raw (un-tiled) context feature values that
// computeFeatures derives for choosing action from satellite s.
type rawFeatures struct {
	distance      float64
	data          float64
	localTime     float64
	utcTime       float64
	dijkstraMatch bool
	orderMatch    bool
	totalDistance float64
	elevation     float64
}

func (t *TileCodedUCB) computeFeatures(step Step, s *network.Satellite, action network.NodeID) rawFeatures {
	var f rawFeatures

	isGS := false
	var actionPos geo.Vec3
	if gs, ok := step.Groundstations[action]; ok {
		isGS = true
		actionPos = gs.Position
	} else if sat, ok := step.Satellites[action]; ok {
		actionPos = sat.Position
	}

	f.distance = geo.Distance(s.Position, actionPos)
	f.data = math.Log(s.GenerationRate+1) / math.Log(tileDataLogBase)

	hourOffset := geo.LocalHourOffset(s.Long)
	local := step.UTCSeconds + hourOffset*3600
	for local < 0 {
		local += 86400
	}
	f.localTime = float64(local % 86400)
	f.utcTime = float64(step.UTCSeconds % 86400)

	if pred, ok := t.dijkstraPred[s.ID]; ok {
		f.dijkstraMatch = pred == action
	}
	if ranked := t.gounderRank[s.ID]; len(ranked) > 0 {
		f.orderMatch = ranked[0] == action
	}

	if isGS {
		f.totalDistance = f.distance
		f.elevation = linkphys.Elevation(
			[3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			[3]float64{actionPos.X, actionPos.Y, actionPos.Z},
			f.distance,
		)
	} else if sat, ok := step.Satellites[action]; ok {
		best := math.MaxFloat64
		for _, gsID := range sat.GSLConnections {
			gs := step.Groundstations[gsID]
			d := geo.Distance(sat.Position, gs.Position)
			if d < best {
				best = d
			}
		}
		if best < math.MaxFloat64 {
			f.totalDistance = f.distance + best
		} else {
			f.totalDistance = f.distance
		}
	}

	return f
}

func (t *TileCodedUCB) tileFor(f rawFeatures, grid int) tileKey {
	var k tileKey
	if t.axes[AxisDistance] {
		k[0] = tileBin(f.distance, tileBinWidthDistance, grid)
	}
	if t.axes[AxisData] {
		k[1] = tileBin(f.data, tileBinWidthData, grid)
	}
	if t.axes[AxisLocalTime] {
		k[2] = tileBin(f.localTime, tileBinWidthTime, grid)
	}
	if t.axes[AxisUTCTime] {
		k[3] = tileBin(f.utcTime, tileBinWidthTime, grid)
	}
	if t.axes[AxisDijkstra] {
		k[4] = boolBin(f.dijkstraMatch)
	}
	if t.axes[AxisOrder] {
		k[5] = boolBin(f.orderMatch)
	}
	if t.axes[AxisTotalDistance] {
		k[6] = tileBin(f.totalDistance, tileBinWidthTotalDist, grid)
	}
	if t.axes[AxisElevation] {
		k[7] = tileBin(f.elevation, tileBinWidthElevation, grid)
	}
	return k
}

func (t *TileCodedUCB) statFor(grid int, sat, action network.NodeID, tile tileKey) *ucbStat {
	bySat, ok := t.stats[grid][sat]
	if !ok {
		bySat = map[network.NodeID]map[tileKey]*ucbStat{}
		t.stats[grid][sat] = bySat
	}
	byTile, ok := bySat[action]
	if !ok {
		byTile = map[tileKey]*ucbStat{}
		bySat[action] = byTile
	}
	stat, ok := byTile[tile]
	if !ok {
		stat = &ucbStat{}
		byTile[tile] = stat
	}
	return stat
}

func (t *TileCodedUCB) score(step Step, s *network.Satellite, action network.NodeID) (float64, []tileKey) {
	tiles := make([]tileKey, tileGrids)
	var sum float64
	for g := 0; g < tileGrids; g++ {
		f := t.computeFeatures(step, s, action)
		tile := t.tileFor(f, g)
		tiles[g] = tile

		totalN := 0.0
		if bySat, ok := t.stats[g][s.ID]; ok {
			if byTile, ok := bySat[action]; ok {
				for _, stat := range byTile {
					totalN += stat.n
				}
			}
		}
		if totalN < 1 {
			totalN = 1
		}

		stat := t.statFor(g, s.ID, action, tile)
		if stat.n == 0 {
			return math.Inf(-1), tiles
		}
		sum += stat.avgCost - ucbExploration*math.Sqrt(2*math.Log(totalN)/stat.n)
	}
	return sum / tileGrids, tiles
}

func (t *TileCodedUCB) SetTargets(step Step) {
	if t.axes[AxisDijkstra] {
		t.dijkstraPred = dijkstraPredecessors(step)
	}
	if t.axes[AxisOrder] {
		t.gounderRank = gounderRanking(step)
	}

	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		actions := union(s.ISLConnections, s.GSLConnections)
		if len(actions) == 0 {
			s.TargetIDs = nil
			continue
		}

		scores := make(map[network.NodeID]float64, len(actions))
		tileSets := make(map[network.NodeID][]tileKey, len(actions))
		for _, a := range actions {
			sc, tiles := t.score(step, s, a)
			scores[a] = sc
			tileSets[a] = tiles
		}

		sort.Slice(actions, func(i, j int) bool {
			if scores[actions[i]] != scores[actions[j]] {
				return scores[actions[i]] < scores[actions[j]]
			}
			return actions[i] < actions[j]
		})
		s.TargetIDs = actions

		t.pending[id] = struct {
			action network.NodeID
			tiles  []tileKey
		}{action: actions[0], tiles: tileSets[actions[0]]}
	}
}

func (t *TileCodedUCB) Learn(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		pending, ok := t.pending[id]
		if !ok || s.Cost <= 0 {
			continue
		}
		for g := 0; g < tileGrids; g++ {
			stat := t.statFor(g, id, pending.action, pending.tiles[g])
			stat.avgCost = (stat.avgCost*stat.n + s.Cost) / (stat.n + 1)
			if stat.n < tileMaxCount {
				stat.n++
			}
		}
	}
}

func (t *TileCodedUCB) Reset() {
	for g := range t.stats {
		t.stats[g] = map[network.NodeID]map[network.NodeID]map[tileKey]*ucbStat{}
	}
	t.pending = map[network.NodeID]struct {
		action network.NodeID
		tiles  []tileKey
	}{}
}
