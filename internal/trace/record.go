package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sprite-ai/blastr/internal/model"
)

// entry is the wire form of an Event, one JSON object per line.
type entry struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Kind      string `json:"kind,omitempty"`
	File      string `json:"file,omitempty"`
	Line      uint32 `json:"line,omitempty"`
	Character uint32 `json:"character,omitempty"`
	Seeds     int    `json:"seeds,omitempty"`
	Nodes     int    `json:"nodes,omitempty"`
}

// Recorder appends traversal events to a writer as JSONL. It is not
// safe for concurrent use; the traversal it observes is single-threaded.
type Recorder struct {
	enc       *json.Encoder
	sessionID string
	now       func() time.Time
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc:       json.NewEncoder(w),
		sessionID: fmt.Sprintf("blastr-%d", time.Now().UnixNano()),
		now:       time.Now,
	}
}

func (r *Recorder) write(e entry) {
	e.Timestamp = r.now().UTC().Format(time.RFC3339Nano)
	// Encode errors surface as a truncated log, not a failed traversal.
	_ = r.enc.Encode(e)
}

// Start records the beginning of a traversal over a revision range.
func (r *Recorder) Start(detail string) {
	r.write(entry{Type: EventStart.String(), SessionID: r.sessionID, Detail: detail})
}

// Seed records the positions queued for one changed file.
func (r *Recorder) Seed(file string, seeds int) {
	r.write(entry{Type: EventSeed.String(), File: file, Seeds: seeds})
}

// Expand records one worklist expansion and the graph size after it.
func (r *Recorder) Expand(item *model.HierarchyItem, nodes int) {
	r.write(entry{
		Type:      EventExpand.String(),
		Symbol:    item.Name,
		Kind:      item.Kind,
		File:      item.DefinedAt.Path,
		Line:      item.DefinedAt.Pos.Line,
		Character: item.DefinedAt.Pos.Character,
		Nodes:     nodes,
	})
}

// Finish records the end of the traversal with its summary line.
func (r *Recorder) Finish(summary string) {
	r.write(entry{Type: EventFinish.String(), Detail: summary})
}
