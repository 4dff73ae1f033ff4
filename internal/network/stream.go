package network

// NodeID identifies either a satellite (id < Nsat) or a ground station
// (Nsat <= id < Nsat+Ngs). No node-to-node pointers are used anywhere in
// this package; every reference between nodes is by id.
type NodeID int

// CoreSink is the sentinel terminal hop appended to a stream's path once it
// reaches a ground station's core uplink.
const CoreSink = -1

// GenerationSource is the reserved incoming-stream key for locally
// generated traffic.
const GenerationSource = -2

// Stream is a (path, rate) pair: path traces the data's provenance back to
// its source satellite, rate is in bits per second.
type Stream struct {
	Path []NodeID
	Rate float64
}

// Clone returns a deep copy of the stream so callers can mutate the path
// slice without aliasing.
func (s Stream) Clone() Stream {
	path := make([]NodeID, len(s.Path))
	copy(path, s.Path)
	return Stream{Path: path, Rate: s.Rate}
}

// ContainsNode reports whether id already appears in the stream's path,
// the loop-prevention check the propagator relies on.
func (s Stream) ContainsNode(id NodeID) bool {
	for _, p := range s.Path {
		if p == id {
			return true
		}
	}
	return false
}

// Appended returns a copy of the stream with target appended to its path
// and rate replaced.
func (s Stream) Appended(target NodeID, rate float64) Stream {
	path := make([]NodeID, len(s.Path)+1)
	copy(path, s.Path)
	path[len(s.Path)] = target
	return Stream{Path: path, Rate: rate}
}

// StreamBucket maps an incoming-node id (or GenerationSource) to the
// streams it has offered.
type StreamBucket map[NodeID][]Stream

// TotalRate sums the rate of every stream in every bucket entry.
func (b StreamBucket) TotalRate() float64 {
	total := 0.0
	for _, streams := range b {
		for _, s := range streams {
			total += s.Rate
		}
	}
	return total
}
