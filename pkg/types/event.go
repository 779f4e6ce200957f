package types

import (
	"fmt"
	"strings"
	"time"
)

// Event statuses. The workflow states a content item moves through.
// Any status in the set is valid in any update; transitions are not
// constrained here.
const (
	StatusDraft       = "Draft"
	StatusPlanned     = "Planned"
	StatusInProgress  = "In Progress"
	StatusNeedsReview = "Needs Review"
	StatusApproved    = "Approved"
	StatusPublished   = "Published"
	StatusConfirmed   = "Confirmed"
)

// validStatuses is the set of recognized status values.
var validStatuses = map[string]bool{
	StatusDraft:       true,
	StatusPlanned:     true,
	StatusInProgress:  true,
	StatusNeedsReview: true,
	StatusApproved:    true,
	StatusPublished:   true,
	StatusConfirmed:   true,
}

// Statuses returns the recognized status values in workflow order.
func Statuses() []string {
	return []string{
		StatusDraft,
		StatusPlanned,
		StatusInProgress,
		StatusNeedsReview,
		StatusApproved,
		StatusPublished,
		StatusConfirmed,
	}
}

// Event is one scheduled content item.
type Event struct {
	ID         string    // assigned on creation, immutable afterwards
	Title      string    // human-readable name (required, non-empty)
	Start      time.Time // approval / visible-from instant
	End        time.Time // publish / visible-until instant, strictly after Start
	Status     string    // one of the Status constants
	Notes      string    // optional free text
	Attachment string    // optional external links, newline-joined
}

// FieldError describes a single validation failure, addressed to the
// input field the UI should highlight.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AttachmentLinks splits the newline-joined attachment blob into
// individual link strings, skipping blank lines.
func (e Event) AttachmentLinks() []string {
	var links []string
	for _, line := range strings.Split(e.Attachment, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			links = append(links, line)
		}
	}
	return links
}

// SetAttachmentLinks stores the given links as a newline-joined blob.
func (e *Event) SetAttachmentLinks(links []string) {
	e.Attachment = strings.Join(links, "\n")
}

// ValidateNew checks the shape of an event about to be created. The ID
// is ignored; the store assigns one.
func (e Event) ValidateNew() []FieldError {
	return e.validate(false)
}

// ValidateExisting checks the shape of an event targeting an existing
// record, where the ID is required.
func (e Event) ValidateExisting() []FieldError {
	return e.validate(true)
}

// validate returns all field-level issues at once so the UI can
// highlight every offending input in a single pass. An empty slice
// means the event is acceptable.
func (e Event) validate(requireID bool) []FieldError {
	var errs []FieldError
	if requireID && strings.TrimSpace(e.ID) == "" {
		errs = append(errs, FieldError{Field: "id", Message: "id is required"})
	}
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
	}
	if e.Start.IsZero() {
		errs = append(errs, FieldError{Field: "start", Message: "start is required"})
	}
	if e.End.IsZero() {
		errs = append(errs, FieldError{Field: "end", Message: "end is required"})
	}
	if e.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "status is required"})
	} else if !validStatuses[e.Status] {
		errs = append(errs, FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", e.Status)})
	}
	if !e.Start.IsZero() && !e.End.IsZero() && !e.Start.Before(e.End) {
		errs = append(errs, FieldError{Field: "end", Message: "end must be after start"})
	}
	return errs
}
