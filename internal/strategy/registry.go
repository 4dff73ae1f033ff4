package strategy

import "fmt"

// Names lists every strategy the registry can build, in a fixed display order.
var Names = []string{"random", "bent_pipe", "dijkstra", "gounder", "q_learning", "ucb1", "tile_coded_ucb"}

// New builds a fresh instance of the named strategy. Each call returns an
// independent instance with its own learned state, suitable for one worker.
func New(name string) (Strategy, error) {
	switch name {
	case "random":
		return NewRandom(), nil
	case "bent_pipe":
		return NewBentPipe(), nil
	case "dijkstra":
		return NewDijkstra(), nil
	case "gounder":
		return NewGounder(), nil
	case "q_learning":
		return NewQLearning(), nil
	case "ucb1":
		return NewUCB1(), nil
	case "tile_coded_ucb":
		return NewTileCodedUCB([]string{AxisDistance}), nil
	default:
		return nil, fmt.Errorf("strategy: unknown strategy %q", name)
	}
}
