package network

import (
	"math"
	"math/rand"

	"github.com/example/orbitsim/internal/geo"
	"github.com/example/orbitsim/internal/linkphys"
)

// SatelliteBufferSize is the estimated on-board buffer capacity, in bits.
const SatelliteBufferSize = 4e8

// Satellite holds all mutable per-step state for one satellite, plus its
// immutable physical link parameters. Only integer ids reference other
// nodes; Satellite never holds a pointer to another Satellite.
type Satellite struct {
	ID NodeID

	Position geo.Vec3
	Long     float64
	Lat      float64

	ISL linkphys.ISLParams
	GSL linkphys.GSLParams

	ISLConnections        []NodeID
	VisibleGroundstations []NodeID
	GSLConnections        []NodeID

	TargetIDs           []NodeID
	OutgoingThroughputs map[NodeID]float64
	GenerationRate      float64

	IncomingStreams StreamBucket
	OutgoingStreams StreamBucket

	BufferLevel   float64
	Delay         float64
	DropRate      float64
	LocalDropRate float64
	IncomingData  float64
	Cost          float64

	FailedISL bool
	FailedGSL bool
}

// NewSatellite returns a satellite with default physical parameters
// matching the reference constellation (src/satellite.py defaults).
func NewSatellite(id NodeID) *Satellite {
	return &Satellite{
		ID: id,
		ISL: linkphys.ISLParams{
			Bandwidth:      5e9,
			Power:          0.1,
			ApertureDiam:   0.1,
			NoiseTemp:      290,
			BeamDivergence: 1.744e-5,
			PointingLoss:   0.9,
		},
		GSL: linkphys.GSLParams{
			EIRP:         34.6,
			GainRx:       10.8,
			CarrierGHz:   19,
			Bandwidth:    250e6,
			MinElevation: 20,
			MaxElevation: 90,
			StepElev:     0.1,
			SkyTempK:     275,
		},
		OutgoingThroughputs: map[NodeID]float64{},
		IncomingStreams:     StreamBucket{},
		OutgoingStreams:     StreamBucket{},
	}
}

// SetPosition recomputes the satellite's ECEF position and derived long/lat.
func (s *Satellite) SetPosition(p geo.Vec3) {
	s.Position = p
	s.Long, s.Lat = geo.LongLat(p)
}

// SetGenerationRate applies the growth factor to a raw generation-rate sample.
func (s *Satellite) SetGenerationRate(raw, growthFactor float64) {
	s.GenerationRate = growthFactor * raw
}

// ISLCapacityTo returns the physical ISL capacity to another satellite.
func (s *Satellite) ISLCapacityTo(other *Satellite) float64 {
	dist := geo.Distance(s.Position, other.Position)
	return linkphys.ISLCapacity(s.ISL, dist, s.FailedISL)
}

// GSLCapacityTo returns the physical GSL capacity to a ground station, given
// its atmospheric-attenuation table row and a shared RNG for perturbation.
func (s *Satellite) GSLCapacityTo(gs *Groundstation, attenuationRow []float64, rng *rand.Rand) float64 {
	dist := geo.Distance(s.Position, gs.Position)
	elev := linkphys.Elevation(
		[3]float64{s.Position.X, s.Position.Y, s.Position.Z},
		[3]float64{gs.Position.X, gs.Position.Y, gs.Position.Z},
		dist,
	)
	bin := linkphys.ElevationBin(s.GSL, elev)
	return linkphys.GSLCapacity(s.GSL, dist, attenuationRow, bin, s.FailedGSL || gs.Failed, rng)
}

// IsISLTarget reports whether id is one of this satellite's ISL neighbours.
func (s *Satellite) IsISLTarget(id NodeID) bool {
	for _, n := range s.ISLConnections {
		if n == id {
			return true
		}
	}
	return false
}

// IsGSLTarget reports whether id is one of this satellite's assigned ground stations.
func (s *Satellite) IsGSLTarget(id NodeID) bool {
	for _, n := range s.GSLConnections {
		if n == id {
			return true
		}
	}
	return false
}

// UpdateOutgoingThroughput recomputes the capacity ceiling for every current
// target, using ISL or GSL physics depending on which connection set the
// target belongs to. Negative results (shouldn't occur, but mirrors the
// defensive clamp in the original) are floored to zero.
func (s *Satellite) UpdateOutgoingThroughput(satellites map[NodeID]*Satellite, groundstations map[NodeID]*Groundstation, attenuation [][]float64, rng *rand.Rand) {
	s.OutgoingThroughputs = make(map[NodeID]float64, len(s.TargetIDs))
	for _, target := range s.TargetIDs {
		var capacity float64
		if s.IsISLTarget(target) {
			capacity = s.ISLCapacityTo(satellites[target])
		} else if s.IsGSLTarget(target) {
			gs := groundstations[target]
			row := attenuation[gs.AttenuationRow]
			capacity = s.GSLCapacityTo(gs, row, rng)
		}
		if capacity < 0 {
			capacity = 0
		}
		s.OutgoingThroughputs[target] = capacity
	}
}

// UpdateBuffer sets BufferLevel to full capacity iff outgoing traffic meets
// or exceeds the outgoing capacity assigned across all current targets.
func (s *Satellite) UpdateBuffer(satellites map[NodeID]*Satellite, groundstations map[NodeID]*Groundstation, attenuation [][]float64, rng *rand.Rand) {
	outgoingTraffic := s.OutgoingStreams.TotalRate()

	outgoingCapacity := 0.0
	for _, target := range s.TargetIDs {
		linkCap, ok := s.OutgoingThroughputs[target]
		if !ok {
			continue
		}
		var physical float64
		if s.IsISLTarget(target) {
			physical = s.ISLCapacityTo(satellites[target])
		} else if s.IsGSLTarget(target) {
			gs := groundstations[target]
			row := attenuation[gs.AttenuationRow]
			physical = s.GSLCapacityTo(gs, row, rng)
		}
		outgoingCapacity += math.Min(linkCap, physical)
	}

	if outgoingTraffic >= outgoingCapacity {
		s.BufferLevel = SatelliteBufferSize
	} else {
		s.BufferLevel = 0
	}
}
