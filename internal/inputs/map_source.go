package inputs

import "github.com/example/orbitsim/internal/geo"

// MapSource is an in-memory Source for tests: every per-step field is a
// slice indexed directly by step, with no chunk-file emulation.
type MapSource struct {
	SatPositionsByStep [][]geo.Vec3
	GSPositions        []geo.Vec3
	ISLGrid            [][][]int // ISLGrid[step][satellite] = neighbour ids
	Visibility         [][][]int // Visibility[step][satellite] = visible gs ids
	Generation         [][]float64
	Attenuation        [][]float64
}

func (m *MapSource) SatellitePositions(step int) ([]geo.Vec3, error) {
	return m.SatPositionsByStep[step], nil
}

func (m *MapSource) GroundstationPositions() ([]geo.Vec3, error) {
	return m.GSPositions, nil
}

func (m *MapSource) ISLNeighbours(step int) ([][]int, error) {
	return m.ISLGrid[step], nil
}

func (m *MapSource) VisibleGroundstations(step int) ([][]int, error) {
	return m.Visibility[step], nil
}

func (m *MapSource) DataGeneration(step int) ([]float64, error) {
	return m.Generation[step], nil
}

func (m *MapSource) AtmosphericAttenuation() ([][]float64, error) {
	return m.Attenuation, nil
}
