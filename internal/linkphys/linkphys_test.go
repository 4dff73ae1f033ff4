package linkphys

import (
	"math"
	"math/rand"
	"testing"
)

func defaultISL() ISLParams {
	return ISLParams{
		Bandwidth:      5e9,
		Power:          0.1,
		ApertureDiam:   0.1,
		NoiseTemp:      290,
		BeamDivergence: 1.744e-5,
		PointingLoss:   0.9,
	}
}

func TestISLCapacityPositive(t *testing.T) {
	cap := ISLCapacity(defaultISL(), 1_000_000, false)
	if cap <= 0 {
		t.Fatalf("expected positive capacity, got %v", cap)
	}
}

func TestISLCapacityDecreasesWithDistance(t *testing.T) {
	p := defaultISL()
	near := ISLCapacity(p, 500_000, false)
	far := ISLCapacity(p, 2_000_000, false)
	if far >= near {
		t.Fatalf("expected capacity to decrease with distance: near=%v far=%v", near, far)
	}
}

func TestISLFailedReturnsOneBps(t *testing.T) {
	if got := ISLCapacity(defaultISL(), 1_000_000, true); got != 1 {
		t.Fatalf("expected 1 bps on failure, got %v", got)
	}
}

func defaultGSL() GSLParams {
	return GSLParams{
		EIRP:         34.6,
		GainRx:       10.8,
		CarrierGHz:   19,
		Bandwidth:    250e6,
		MinElevation: 20,
		MaxElevation: 90,
		StepElev:     0.1,
		SkyTempK:     275,
	}
}

func TestElevationBinNonNegativeNearMinimum(t *testing.T) {
	p := defaultGSL()
	bin := ElevationBin(p, 20.05)
	if bin < 0 {
		t.Fatalf("expected non-negative bin, got %d", bin)
	}
}

func TestGSLFailedReturnsOneBps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	row := make([]float64, 700)
	if got := GSLCapacity(defaultGSL(), 1_000_000, row, 0, true, rng); got != 1 {
		t.Fatalf("expected 1 bps on failure, got %v", got)
	}
}

func TestGSLCapacityPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	row := make([]float64, 700)
	for i := range row {
		row[i] = 0.5
	}
	cap := GSLCapacity(defaultGSL(), 1_000_000, row, 100, false, rng)
	if cap <= 0 || math.IsNaN(cap) {
		t.Fatalf("expected positive capacity, got %v", cap)
	}
}
