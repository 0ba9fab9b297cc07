package ingest

// State is the lifecycle position of a Loop.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateReading
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateReading:
		return "reading"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Active reports whether the loop holds, or is acquiring, the serial session.
func (s State) Active() bool {
	return s == StateConnecting || s == StateReading
}
