package network

import (
	"math"
	"math/rand"

	"github.com/example/orbitsim/internal/geo"
)

// GroundstationOutgoingThroughput is the estimated core-uplink capacity, in bps.
const GroundstationOutgoingThroughput = 5e10

// GroundstationBufferSize is the estimated buffer capacity, in bits.
const GroundstationBufferSize = 8e9

const (
	delayLowerLimitMS = 1.0
	delayUpperLimitMS = 5.0
)

// Groundstation is a traffic sink: it never routes, only drains incoming
// streams onto the abstract "core" network via OutgoingStreams[CoreSink].
type Groundstation struct {
	ID NodeID

	Position geo.Vec3
	Long     float64
	Lat      float64

	// AttenuationRow indexes this ground station's row in the
	// atmospheric-attenuation table (== ID - Nsat).
	AttenuationRow int

	OutgoingThroughput float64

	BufferLevel float64
	Delay       float64
	DropRate    float64

	IncomingStreams StreamBucket
	OutgoingStreams StreamBucket

	Failed bool
}

// NewGroundstation returns a ground station with default capacity/buffer
// parameters and a delay sampled uniformly in [1,5] ms (exactly 1 ms when
// rng is nil).
func NewGroundstation(id NodeID, attenuationRow int, rng *rand.Rand) *Groundstation {
	delay := delayLowerLimitMS
	if rng != nil {
		delay += rng.Float64() * (delayUpperLimitMS - delayLowerLimitMS)
	}
	return &Groundstation{
		ID:                 id,
		AttenuationRow:     attenuationRow,
		OutgoingThroughput: GroundstationOutgoingThroughput,
		Delay:              delay,
		IncomingStreams:    StreamBucket{},
		OutgoingStreams:    StreamBucket{},
	}
}

// SetPosition recomputes the ground station's ECEF position and derived long/lat.
func (g *Groundstation) SetPosition(p geo.Vec3) {
	g.Position = p
	g.Long, g.Lat = geo.LongLat(p)
}

// UpdateBuffer sets BufferLevel to full capacity iff outgoing traffic meets
// or exceeds the fixed core-uplink throughput.
func (g *Groundstation) UpdateBuffer() {
	outgoing := g.OutgoingStreams.TotalRate()
	if outgoing >= g.OutgoingThroughput {
		g.BufferLevel = GroundstationBufferSize
	} else {
		g.BufferLevel = 0
	}
}

// UpdateDelay advances the mean-reverting Gaussian random walk used for
// ground-station delay, then adds the queuing delay implied by BufferLevel.
func (g *Groundstation) UpdateDelay(rng *rand.Rand) {
	center := (delayLowerLimitMS + delayUpperLimitMS) / 2
	sigma := (delayUpperLimitMS - delayLowerLimitMS) / 6

	g.Delay += rng.NormFloat64() * sigma
	g.Delay += (center - g.Delay) * 0.1
	g.Delay = math.Max(delayLowerLimitMS, math.Min(delayUpperLimitMS, g.Delay))

	g.Delay += g.BufferLevel / g.OutgoingThroughput
}
