package strategy

// Random orders every satellite's combined ISL/GSL neighbours uniformly at
// random each step. It carries no learned state.
type Random struct{}

func NewRandom() *Random { return &Random{} }

func (r *Random) Name() string { return "random" }

func (r *Random) SetTargets(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		s.TargetIDs = shuffle(union(s.ISLConnections, s.GSLConnections), step.Rng)
	}
}

func (r *Random) Learn(step Step) {}

func (r *Random) Reset() {}

// BentPipe routes only via directly visible ground stations, shuffled; a
// satellite with no GSL connection gets an empty target list and drops all
// of its traffic.
type BentPipe struct{}

func NewBentPipe() *BentPipe { return &BentPipe{} }

func (b *BentPipe) Name() string { return "bent_pipe" }

func (b *BentPipe) SetTargets(step Step) {
	for _, id := range step.SatelliteOrder {
		s := step.Satellites[id]
		if len(s.GSLConnections) == 0 {
			s.TargetIDs = nil
			continue
		}
		s.TargetIDs = shuffle(s.GSLConnections, step.Rng)
	}
}

func (b *BentPipe) Learn(step Step) {}

func (b *BentPipe) Reset() {}
