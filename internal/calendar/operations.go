package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/slateplan/slateplan/pkg/types"
)

// CreateEvent validates the fields of a new event, assigns it a fresh
// ID, and appends it to the collection.
func (s *Service) CreateEvent(ctx context.Context, e types.Event) types.Result {
	if errs := e.ValidateNew(); len(errs) > 0 {
		return types.Invalid(errs)
	}
	e.ID = s.newID()

	err := s.apply(ctx, func(events types.Collection) (types.Collection, string, error) {
		if events.FindIndex(e.ID) >= 0 {
			// A generated ID collided with an existing one; refuse
			// rather than break ID uniqueness.
			return nil, "", &types.StoreError{Message: fmt.Sprintf("generated ID %s already exists", e.ID)}
		}
		message := fmt.Sprintf("Create event: %s (ID: %s)", e.Title, e.ID)
		return append(events, e), message, nil
	})
	if err != nil {
		return s.failure(err)
	}
	return types.OK(fmt.Sprintf("Created %q.", e.Title))
}

// UpdateEvent replaces the stored event carrying the same ID.
func (s *Service) UpdateEvent(ctx context.Context, e types.Event) types.Result {
	if errs := e.ValidateExisting(); len(errs) > 0 {
		return types.Invalid(errs)
	}

	err := s.apply(ctx, func(events types.Collection) (types.Collection, string, error) {
		i := events.FindIndex(e.ID)
		if i < 0 {
			return nil, "", &types.NotFoundError{ID: e.ID}
		}
		events[i] = e
		message := fmt.Sprintf("Update event: %s (ID: %s)", e.Title, e.ID)
		return events, message, nil
	})
	if err != nil {
		return s.failure(err)
	}
	return types.OK(fmt.Sprintf("Updated %q.", e.Title))
}

// DeleteEvent removes the stored event with the given ID.
func (s *Service) DeleteEvent(ctx context.Context, id string) types.Result {
	if strings.TrimSpace(id) == "" {
		return types.Invalid([]types.FieldError{{Field: "id", Message: "id is required"}})
	}

	var title string
	err := s.apply(ctx, func(events types.Collection) (types.Collection, string, error) {
		i := events.FindIndex(id)
		if i < 0 {
			return nil, "", &types.NotFoundError{ID: id}
		}
		title = events[i].Title
		message := fmt.Sprintf("Delete event: %s (ID: %s)", title, id)
		return append(events[:i], events[i+1:]...), message, nil
	})
	if err != nil {
		return s.failure(err)
	}
	return types.OK(fmt.Sprintf("Deleted %q.", title))
}
