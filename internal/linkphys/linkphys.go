// Package linkphys implements the Shannon-capacity link models for
// inter-satellite laser links (ISL) and ground-station radio links (GSL).
package linkphys

import (
	"math"
	"math/rand"
)

// Boltzmann is the Boltzmann constant in J/K.
const Boltzmann = 1.38e-23

// ISLParams are the immutable physical parameters of one satellite's laser terminal.
type ISLParams struct {
	Bandwidth       float64 // Hz
	Power           float64 // W
	ApertureDiam    float64 // m
	NoiseTemp       float64 // K
	BeamDivergence  float64 // rad
	PointingLoss    float64 // unitless factor
}

// ISLCapacity returns the Shannon capacity of an ISL of the given distance (m).
// The 0.08 "upload factor" is applied verbatim per the original source; it is
// intentionally absent from GSLCapacity (see spec Open Questions).
func ISLCapacity(p ISLParams, distance float64, failed bool) float64 {
	if failed {
		return 1
	}

	effectiveArea := math.Pi * (p.ApertureDiam / 2) * (p.ApertureDiam / 2)
	receivedPowerDensity := p.Power / (math.Pi * (distance * p.BeamDivergence) * (distance * p.BeamDivergence))
	receivedPower := receivedPowerDensity * effectiveArea * p.PointingLoss
	noisePower := Boltzmann * p.NoiseTemp * p.Bandwidth

	return 0.08 * p.Bandwidth * math.Log2(1+receivedPower/noisePower)
}

// GSLParams are the immutable physical parameters of one satellite's radio terminal.
type GSLParams struct {
	EIRP         float64 // dBW
	GainRx       float64 // dB
	CarrierGHz   float64 // GHz
	Bandwidth    float64 // Hz
	MinElevation float64 // degrees
	MaxElevation float64 // degrees
	StepElev     float64 // degrees
	SkyTempK     float64 // K, T_mr
}

const speedOfLight = 299792458.0 // m/s

// Elevation returns the elevation angle in degrees of a satellite as seen
// from a ground station, given their ECEF positions and distance.
func Elevation(satVector, gsVector [3]float64, distance float64) float64 {
	satGsVec := [3]float64{satVector[0] - gsVector[0], satVector[1] - gsVector[1], satVector[2] - gsVector[2]}
	gsNorm := math.Sqrt(gsVector[0]*gsVector[0] + gsVector[1]*gsVector[1] + gsVector[2]*gsVector[2])
	dot := satGsVec[0]*gsVector[0] + satGsVec[1]*gsVector[1] + satGsVec[2]*gsVector[2]
	angle := math.Acos(dot / (distance * gsNorm))
	return 90 - 180*angle/math.Pi
}

// ElevationBin discretises an elevation (degrees) into the attenuation table's bin index.
func ElevationBin(p GSLParams, elevation float64) int {
	n := int(math.Round((p.MaxElevation - p.MinElevation) / p.StepElev))
	best := 0
	bestDiff := math.MaxFloat64
	for i := 0; i < n; i++ {
		candidate := p.MinElevation + float64(i)*p.StepElev
		diff := math.Abs(candidate - elevation)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// GSLCapacity returns the Shannon capacity (bps) of a GSL given distance (m),
// the discretised atmospheric attenuation table row for the target ground
// station, the elevation bin, and a source of Gaussian perturbation.
func GSLCapacity(p GSLParams, distance float64, attenuationRow []float64, elevBin int, failed bool, rng *rand.Rand) float64 {
	if failed {
		return 1
	}

	aAtmos := attenuationRow[elevBin] * (1 + 0.05*rng.NormFloat64())

	fsplGHz := p.CarrierGHz * 1e9
	fspl := 20 * math.Log10(4*math.Pi*distance*fsplGHz/speedOfLight)

	tSky := p.SkyTempK*(1-math.Pow(10, -aAtmos/10)) + 2.7*math.Pow(10, -aAtmos/10)
	pNoise := Boltzmann * p.Bandwidth * tSky * (1 + 0.02*rng.NormFloat64())

	pRx := math.Pow(10, (p.EIRP-fspl+p.GainRx-aAtmos)/10)

	return p.Bandwidth * math.Log2(1+pRx/pNoise)
}
