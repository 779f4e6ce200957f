package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection is the full ordered set of events as persisted: one JSON
// array, no envelope. Order carries no meaning; the render layer sorts.
type Collection []Event

// wireEvent is the persisted representation of an Event. Timestamps
// travel as RFC 3339 strings.
type wireEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

func (w wireEvent) toEvent() (Event, error) {
	start, err := time.Parse(time.RFC3339, w.Start)
	if err != nil {
		return Event{}, fmt.Errorf("bad start timestamp %q: %w", w.Start, err)
	}
	end, err := time.Parse(time.RFC3339, w.End)
	if err != nil {
		return Event{}, fmt.Errorf("bad end timestamp %q: %w", w.End, err)
	}
	return Event{
		ID:         w.ID,
		Title:      w.Title,
		Start:      start,
		End:        end,
		Status:     w.Status,
		Notes:      w.Notes,
		Attachment: w.Attachment,
	}, nil
}

func fromEvent(e Event) wireEvent {
	return wireEvent{
		ID:         e.ID,
		Title:      e.Title,
		Start:      e.Start.Format(time.RFC3339Nano),
		End:        e.End.Format(time.RFC3339Nano),
		Status:     e.Status,
		Notes:      e.Notes,
		Attachment: e.Attachment,
	}
}

// ParseCollection decodes the persisted JSON array strictly: any entry
// that does not decode fails the whole parse. Mutations use this path;
// they must not operate on a base state they cannot fully interpret.
func ParseCollection(data []byte) (Collection, error) {
	var wires []wireEvent
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	events := make(Collection, 0, len(wires))
	for i, w := range wires {
		e, err := w.toEvent()
		if err != nil {
			return nil, fmt.Errorf("parse collection entry %d (ID %q): %w", i, w.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// ParseCollectionLenient decodes the persisted JSON array for display.
// Individually malformed entries (undecodable JSON, bad timestamps,
// missing required fields, end not strictly after start) are dropped
// and reported as warnings; a blob that is not a JSON array at all
// degrades to an empty collection. It never returns an error: a broken
// entry must not take down the whole calendar page.
func ParseCollectionLenient(data []byte) (Collection, []string) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return Collection{}, []string{fmt.Sprintf("unparsable collection blob: %v", err)}
	}
	var warnings []string
	events := make(Collection, 0, len(raws))
	for i, raw := range raws {
		var w wireEvent
		if err := json.Unmarshal(raw, &w); err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		e, err := w.toEvent()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if issues := e.ValidateExisting(); len(issues) > 0 {
			warnings = append(warnings, fmt.Sprintf("entry %d (ID %q): %s: %s", i, w.ID, issues[0].Field, issues[0].Message))
			continue
		}
		events = append(events, e)
	}
	return events, warnings
}

// Marshal encodes the collection as the persisted JSON array, indented
// so commits in the backing repository diff cleanly.
func (c Collection) Marshal() ([]byte, error) {
	wires := make([]wireEvent, 0, len(c))
	for _, e := range c {
		wires = append(wires, fromEvent(e))
	}
	return json.MarshalIndent(wires, "", "  ")
}

// FindIndex returns the position of the event with the given ID, or -1
// if no event carries it.
func (c Collection) FindIndex(id string) int {
	for i, e := range c {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy whose backing array is independent of the
// receiver.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}
