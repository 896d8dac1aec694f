package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Load reads a traversal trace file written by a Recorder.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads JSONL trace events from r. Malformed lines are skipped so
// a truncated or hand-edited log still loads.
func Parse(r io.Reader) (*Trace, error) {
	t := &Trace{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue // skip malformed lines
		}

		et, ok := parseEventType(e.Type)
		if !ok {
			continue
		}

		if t.SessionID == "" && e.SessionID != "" {
			t.SessionID = e.SessionID
		}

		ts := parseTimestamp(e.Timestamp)
		if t.StartTime.IsZero() && !ts.IsZero() {
			t.StartTime = ts
		}
		if !ts.IsZero() {
			t.EndTime = ts
		}

		if et == EventExpand && e.File != "" && !seen[e.File] {
			seen[e.File] = true
			t.FilesVisited = append(t.FilesVisited, e.File)
		}

		t.Events = append(t.Events, Event{
			Type:      et,
			Timestamp: ts,
			Detail:    e.Detail,
			Symbol:    e.Symbol,
			Kind:      e.Kind,
			File:      e.File,
			Line:      e.Line,
			Character: e.Character,
			Seeds:     e.Seeds,
			Nodes:     e.Nodes,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning trace: %w", err)
	}

	return t, nil
}

func parseEventType(s string) (EventType, bool) {
	switch s {
	case "start":
		return EventStart, true
	case "seed":
		return EventSeed, true
	case "expand":
		return EventExpand, true
	case "finish":
		return EventFinish, true
	default:
		return 0, false
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
