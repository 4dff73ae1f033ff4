// Package inputs defines the boundary between externally supplied
// per-step orbital/visibility/generation data and the simulator: a small
// Source interface, a gob-encoded FileSource backing it from disk, and a
// MapSource test double for unit tests.
package inputs

import (
	"fmt"

	"github.com/example/orbitsim/internal/geo"
)

// ShapeError reports a dimension or range mismatch in input data: a wrong
// array length, or a neighbour/visibility id that names no known node. A
// missing file is reported as a wrapped open error instead. Either kind is
// fatal to the worker that hit it, but never to the whole run.
type ShapeError struct {
	Field    string
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("inputs: %s: expected %d, got %d", e.Field, e.Expected, e.Got)
}

// Source is the read-only boundary the simulator pulls per-step data
// through. Ground-station positions and the atmospheric-attenuation table
// are fixed for the whole run; everything else is indexed by absolute step.
type Source interface {
	SatellitePositions(step int) ([]geo.Vec3, error)
	GroundstationPositions() ([]geo.Vec3, error)
	ISLNeighbours(step int) ([][]int, error)
	VisibleGroundstations(step int) ([][]int, error)
	DataGeneration(step int) ([]float64, error)
	AtmosphericAttenuation() ([][]float64, error)
}
