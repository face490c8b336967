package classifier

import "errors"

var (
	// ErrClosed is returned when classifying through a simulator that was closed
	ErrClosed = errors.New("simulator is closed")

	// ErrSuperseded is reported by a run that was replaced by a newer one
	ErrSuperseded = errors.New("classification superseded")

	// ErrCanceled is reported by a run that was reset, torn down, or whose context ended
	ErrCanceled = errors.New("classification canceled")

	// ErrInvalidCatalog is returned when a waste type table fails validation
	ErrInvalidCatalog = errors.New("invalid waste type catalog")
)

// Result represents the classification result
type Result struct {
	// Type is the material label of the selected waste type
	Type string

	// Confidence is the simulated accuracy percentage
	Confidence float64

	Recyclable   bool
	Origin       string
	Instructions string
	Tips         []string

	// Seed is the hash the selection was derived from
	Seed uint32

	// Index is the position of the selected record in the catalog
	Index int
}

// Event is a single observation of a run: a progress update, or the terminal result
type Event struct {
	RunID string

	// Progress is in [0,100] and never decreases within a run
	Progress int

	// Result is set only on the final event of a completed run
	Result *Result
}

// State is the lifecycle position of a run
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Metrics provides statistics about the simulator's runs
type Metrics struct {
	Started    int
	Completed  int
	Superseded int
	Canceled   int
}
