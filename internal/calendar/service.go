// Package calendar implements the read-modify-write synchronization of
// the event collection against the backing store, and the validated
// mutation entry points built on it.
package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slateplan/slateplan/internal/metrics"
	"github.com/slateplan/slateplan/pkg/types"
)

// conflictMessage is surfaced when a compare-and-swap write loses a
// race. The cycle is never retried automatically; the caller re-reads
// and decides.
const conflictMessage = "Someone else changed the calendar while you were editing. Refresh and try again."

// Service orchestrates collection reads and mutations. Every mutation
// is one full read-modify-write cycle ending in at most one
// compare-and-swap write.
type Service struct {
	store    types.Store
	log      zerolog.Logger
	onCommit func()
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithCommitHook registers a callback invoked after every successful
// write, before the operation returns. Subscribers typically invalidate
// cached reads of the collection; the service assumes nothing about
// what they do.
func WithCommitHook(fn func()) Option {
	return func(s *Service) { s.onCommit = fn }
}

// WithIDGenerator overrides event ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService returns a service bound to the given store.
func NewService(store types.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zerolog.Nop(),
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListEvents reads the collection for display. Individually malformed
// entries are dropped with a warning instead of failing the whole
// list; an unparsable blob degrades to an empty list. Only transport
// failures surface as errors.
func (s *Service) ListEvents(ctx context.Context) (types.Collection, error) {
	raw, _, err := s.store.ReadCollection(ctx)
	if err != nil {
		return nil, err
	}
	metrics.StoreReadsTotal.Inc()

	events, warnings := types.ParseCollectionLenient(raw)
	for _, w := range warnings {
		s.log.Warn().Str("reason", w).Msg("dropped malformed event from display read")
	}
	if n := len(warnings); n > 0 {
		metrics.DroppedEventsTotal.Add(float64(n))
	}
	return events, nil
}

// apply runs one read-modify-write cycle: read and strictly parse the
// collection, transform it, and commit the full result under the
// revision token from the read. mutate returns the complete new
// collection plus the commit message; it runs before the write, so
// returning an error leaves the store untouched.
func (s *Service) apply(ctx context.Context, mutate func(types.Collection) (types.Collection, string, error)) error {
	raw, rev, err := s.store.ReadCollection(ctx)
	if err != nil {
		return err
	}
	metrics.StoreReadsTotal.Inc()

	events, err := types.ParseCollection(raw)
	if err != nil {
		// A mutation must not proceed on a base state it cannot fully
		// interpret.
		return &types.StoreError{Message: err.Error()}
	}

	mutated, message, err := mutate(events)
	if err != nil {
		return err
	}

	out, err := mutated.Marshal()
	if err != nil {
		return &types.StoreError{Message: fmt.Sprintf("serialize collection: %v", err)}
	}

	newRev, err := s.store.WriteCollection(ctx, out, rev, message)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			metrics.StoreWritesTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		} else {
			metrics.StoreWritesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return err
	}
	metrics.StoreWritesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.log.Info().Str("rev", newRev).Str("commit", message).Msg("committed collection")

	if s.onCommit != nil {
		s.onCommit()
	}
	return nil
}

// failure maps a synchronization error onto the uniform result
// contract. Field errors never appear here; validation produces them
// before any store traffic.
func (s *Service) failure(err error) types.Result {
	var nf *types.NotFoundError
	if errors.As(err, &nf) {
		return types.Fail(fmt.Sprintf("No event with ID %q. It may have been deleted by someone else; refresh the calendar.", nf.ID))
	}
	if errors.Is(err, types.ErrConflict) {
		return types.Fail(conflictMessage)
	}
	var se *types.StoreError
	if errors.As(err, &se) {
		return types.Fail(fmt.Sprintf("The calendar store rejected the change: %s", se.Message))
	}
	return types.Fail(fmt.Sprintf("The calendar store is unavailable: %v", err))
}
