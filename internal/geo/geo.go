// Package geo provides the 3-D geometry and time-stepping primitives shared
// by every other component: ECEF distance, longitude/latitude recovery, and
// the fixed-delta clock that walks the simulation across input files.
package geo

import (
	"math"
	"time"
)

// Vec3 is a position in an Earth-centered, Earth-fixed frame, in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance between two ECEF positions, in metres.
func Distance(a, b Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// LongLat recovers longitude and latitude (degrees) from an ECEF position.
func LongLat(p Vec3) (long, lat float64) {
	long = math.Atan2(p.Y, p.X) * 180 / math.Pi
	hyp := math.Sqrt(p.X*p.X + p.Y*p.Y)
	lat = math.Atan2(p.Z, hyp) * 180 / math.Pi
	return long, lat
}

// LocalHourOffset returns the local-time hour offset from UTC implied by a
// satellite's longitude, matching the original utils.utc_to_local convention.
func LocalHourOffset(longitude float64) int {
	return int(math.Floor((longitude+180)/15)) - 12
}

// StepDelta is the fixed simulation time step.
const StepDelta = 15 * time.Second

// StepsPerFile is the number of time steps stored per input file.
const StepsPerFile = 1000

// Clock walks simulated time forward in fixed StepDelta increments and
// tracks which input file/offset a given step falls into.
type Clock struct {
	current time.Time
	step    int
}

// NewClock creates a clock starting at the given UTC instant.
func NewClock(start time.Time) *Clock {
	return &Clock{current: start.UTC()}
}

// Now returns the current simulated UTC instant.
func (c *Clock) Now() time.Time {
	return c.current
}

// Step returns the number of steps advanced since construction.
func (c *Clock) Step() int {
	return c.step
}

// FileIndex and Offset locate the current step within the input file layout.
func (c *Clock) FileIndex() int {
	return c.step / StepsPerFile
}

func (c *Clock) Offset() int {
	return c.step % StepsPerFile
}

// Advance moves the clock forward by one StepDelta.
func (c *Clock) Advance() {
	c.current = c.current.Add(StepDelta)
	c.step++
}
