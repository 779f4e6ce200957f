package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validEvent() Event {
	return Event{
		ID:     "e1",
		Title:  "Launch post",
		Start:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Status: StatusDraft,
	}
}

func TestEventValidateNew(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Event)
		wantField string
	}{
		{
			name:   "valid event passes",
			mutate: func(e *Event) {},
		},
		{
			name:   "missing id is fine for a new event",
			mutate: func(e *Event) { e.ID = "" },
		},
		{
			name:      "empty title rejected",
			mutate:    func(e *Event) { e.Title = "" },
			wantField: "title",
		},
		{
			name:      "whitespace title rejected",
			mutate:    func(e *Event) { e.Title = "   " },
			wantField: "title",
		},
		{
			name:      "zero start rejected",
			mutate:    func(e *Event) { e.Start = time.Time{} },
			wantField: "start",
		},
		{
			name:      "zero end rejected",
			mutate:    func(e *Event) { e.End = time.Time{} },
			wantField: "end",
		},
		{
			name:      "empty status rejected",
			mutate:    func(e *Event) { e.Status = "" },
			wantField: "status",
		},
		{
			name:      "unknown status rejected",
			mutate:    func(e *Event) { e.Status = "Shipped" },
			wantField: "status",
		},
		{
			name:      "end equal to start rejected on the end field",
			mutate:    func(e *Event) { e.End = e.Start },
			wantField: "end",
		},
		{
			name:      "end before start rejected on the end field",
			mutate:    func(e *Event) { e.End = e.Start.Add(-time.Hour) },
			wantField: "end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			errs := e.ValidateNew()
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.NotEmpty(t, errs)
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestEventValidateExisting(t *testing.T) {
	e := validEvent()
	assert.Empty(t, e.ValidateExisting())

	e.ID = ""
	errs := e.ValidateExisting()
	assert.Len(t, errs, 1)
	assert.Equal(t, "id", errs[0].Field)
}

func TestAllStatusesValidate(t *testing.T) {
	for _, status := range Statuses() {
		e := validEvent()
		e.Status = status
		assert.Empty(t, e.ValidateNew(), "status %q should be accepted", status)
	}
}

func TestAttachmentLinks(t *testing.T) {
	var e Event
	assert.Nil(t, e.AttachmentLinks())

	e.SetAttachmentLinks([]string{"https://a.example/one", "https://a.example/two"})
	assert.Equal(t, "https://a.example/one\nhttps://a.example/two", e.Attachment)
	assert.Equal(t, []string{"https://a.example/one", "https://a.example/two"}, e.AttachmentLinks())

	// Blank lines in a hand-edited blob are skipped.
	e.Attachment = "https://a.example/one\n\n  \nhttps://a.example/two\n"
	assert.Equal(t, []string{"https://a.example/one", "https://a.example/two"}, e.AttachmentLinks())
}
