package sim

import "fmt"

// Phase is the lifecycle state of a Simulator.
type Phase int

const (
	Uninitialized Phase = iota
	Ready
	Running
	Completed
	// Aborted marks a run interrupted by its context.
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
