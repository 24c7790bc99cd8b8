package dispatch

import "time"

// Result classifies how a dispatch ended.
type Result int

const (
	ResultOK Result = iota
	ResultNotFound
	ResultFault
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNotFound:
		return "not_found"
	case ResultFault:
		return "handler_failed"
	default:
		return "unknown"
	}
}

// Outcome describes one completed dispatch.
type Outcome struct {
	Method   string
	Path     string
	Route    string
	Matched  bool
	Status   int
	Result   Result
	Err      error
	Duration time.Duration
}

// Observer receives an Outcome for every dispatched request.
// Implementations must be safe for concurrent use.
type Observer interface {
	Observe(Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Outcome)

func (f ObserverFunc) Observe(o Outcome) {
	f(o)
}
