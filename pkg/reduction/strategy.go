package reduction

import (
	"fmt"
	"strings"
)

// Strategy selects how local results reach the global accumulator.
type Strategy int

const (
	// CriticalMerge: every worker adds its local result under a mutex.
	CriticalMerge Strategy = iota
	// QueueMerge: worker 0 drains a BoundedQueue filled by the other workers.
	QueueMerge
)

func (s Strategy) String() string {
	switch s {
	case CriticalMerge:
		return "critical"
	case QueueMerge:
		return "queue"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration name onto a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "critical", "mutex":
		return CriticalMerge, nil
	case "queue":
		return QueueMerge, nil
	default:
		return 0, fmt.Errorf("%w: unknown merge strategy %q", ErrInvalidArgument, name)
	}
}
