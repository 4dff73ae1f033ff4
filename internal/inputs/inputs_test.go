package inputs

import (
	"testing"

	"github.com/example/orbitsim/internal/geo"
)

func TestMapSourceRoundTrip(t *testing.T) {
	src := &MapSource{
		SatPositionsByStep: [][]geo.Vec3{{{X: 1}, {X: 2}}},
		GSPositions:        []geo.Vec3{{X: 10}},
		ISLGrid:            [][][]int{{{1}, {0}}},
		Visibility:         [][][]int{{{0}, {0}}},
		Generation:         [][]float64{{1e9, 2e9}},
		Attenuation:        [][]float64{{0.1, 0.2}},
	}

	pos, err := src.SatellitePositions(0)
	if err != nil || len(pos) != 2 || pos[1].X != 2 {
		t.Fatalf("unexpected satellite positions: %v %v", pos, err)
	}

	gsPos, err := src.GroundstationPositions()
	if err != nil || len(gsPos) != 1 {
		t.Fatalf("unexpected gs positions: %v %v", gsPos, err)
	}

	grid, err := src.ISLNeighbours(0)
	if err != nil || grid[0][0] != 1 {
		t.Fatalf("unexpected ISL grid: %v %v", grid, err)
	}

	gen, err := src.DataGeneration(0)
	if err != nil || gen[1] != 2e9 {
		t.Fatalf("unexpected generation row: %v %v", gen, err)
	}

	atten, err := src.AtmosphericAttenuation()
	if err != nil || len(atten) != 1 {
		t.Fatalf("unexpected attenuation table: %v %v", atten, err)
	}
}

func TestShapeErrorMessage(t *testing.T) {
	err := &ShapeError{Field: "grid row", Expected: 636, Got: 3}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
}
