// Package trace records a blast-radius traversal as a JSONL event log
// and loads such logs back for inspection.
package trace

import "time"

// EventType categorizes a traversal event.
type EventType int

const (
	EventStart EventType = iota
	EventSeed
	EventExpand
	EventFinish
)

func (e EventType) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventSeed:
		return "seed"
	case EventExpand:
		return "expand"
	case EventFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Event is a single entry in the traversal timeline.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Detail    string // revision range for start, summary for finish

	// Symbol fields (expand events)
	Symbol string
	Kind   string

	// File fields (seed and expand events)
	File      string
	Line      uint32
	Character uint32

	// Running counters
	Seeds int // seed events: positions queued for the file
	Nodes int // expand events: graph size after the expansion
}

// Trace is a loaded traversal session.
type Trace struct {
	SessionID string
	StartTime time.Time
	EndTime   time.Time
	Events    []Event

	// Derived data
	FilesVisited []string // files that contributed a symbol, first-seen order
}

// Duration returns the wall time the traversal took.
func (t *Trace) Duration() time.Duration {
	if t.StartTime.IsZero() || t.EndTime.IsZero() {
		return 0
	}
	return t.EndTime.Sub(t.StartTime)
}

// EventsOfType returns all events of the given type.
func (t *Trace) EventsOfType(et EventType) []Event {
	var result []Event
	for _, e := range t.Events {
		if e.Type == et {
			result = append(result, e)
		}
	}
	return result
}

// FileEvents returns all events that touch the given file path.
func (t *Trace) FileEvents(path string) []Event {
	var result []Event
	for _, e := range t.Events {
		if e.File == path {
			result = append(result, e)
		}
	}
	return result
}
