// Package cache holds the client-side mirror of the event collection
// that makes direct-manipulation edits feel instantaneous: a reschedule
// is applied to the mirror before the store round-trip resolves, and
// rolled back to the pre-mutation snapshot if the store rejects it.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slateplan/slateplan/pkg/types"
)

// Updater is the slice of the mutation surface the mirror needs.
type Updater interface {
	UpdateEvent(ctx context.Context, e types.Event) types.Result
}

// Mirror is the last-known collection plus the reconcile machinery.
// It is never the durable source of truth: Replace overwrites it with
// every fresh authoritative read, and authoritative data always wins
// over optimistic state.
type Mirror struct {
	mu       sync.Mutex
	events   types.Collection
	updater  Updater
	onChange func(types.Collection)
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithChangeHandler registers the re-render signal. It fires with a
// copy of the mirror contents immediately after a local apply, after a
// rollback, and after every Replace.
func WithChangeHandler(fn func(types.Collection)) Option {
	return func(m *Mirror) { m.onChange = fn }
}

// New returns an empty mirror; seed it with Replace once the first
// authoritative read lands.
func New(updater Updater, opts ...Option) *Mirror {
	m := &Mirror{updater: updater}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Replace swaps in a fresh authoritative collection.
func (m *Mirror) Replace(events types.Collection) {
	m.mu.Lock()
	m.events = events.Clone()
	m.mu.Unlock()
	m.signal()
}

// Events returns a copy of the mirror contents for rendering.
func (m *Mirror) Events() types.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.Clone()
}

// Reschedule moves one event to a new start/end window. The mirror is
// updated and the change signal fired before the store round-trip; if
// the update fails remotely the pre-mutation snapshot is restored
// field-for-field and the failed result returned. Callers drive this
// off their UI loop; the mirror is safe for concurrent use.
func (m *Mirror) Reschedule(ctx context.Context, id string, start, end time.Time) types.Result {
	if errs := validateWindow(start, end); len(errs) > 0 {
		// Rejected locally: no snapshot, no store call.
		return types.Invalid(errs)
	}

	m.mu.Lock()
	i := m.events.FindIndex(id)
	if i < 0 {
		m.mu.Unlock()
		return types.Fail(fmt.Sprintf("No event with ID %q in the current view. Refresh the calendar.", id))
	}
	snapshot := m.events.Clone()
	moved := m.events[i]
	moved.Start = start
	moved.End = end
	m.events[i] = moved
	m.mu.Unlock()
	m.signal()

	res := m.updater.UpdateEvent(ctx, moved)
	if !res.Success {
		m.mu.Lock()
		m.events = snapshot
		m.mu.Unlock()
		m.signal()
	}
	return res
}

func validateWindow(start, end time.Time) []types.FieldError {
	var errs []types.FieldError
	if start.IsZero() {
		errs = append(errs, types.FieldError{Field: "start", Message: "start is required"})
	}
	if end.IsZero() {
		errs = append(errs, types.FieldError{Field: "end", Message: "end is required"})
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		errs = append(errs, types.FieldError{Field: "end", Message: "end must be after start"})
	}
	return errs
}

func (m *Mirror) signal() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.Events())
}
