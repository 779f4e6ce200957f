package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across layers.
var (
	ErrNotFound = errors.New("event not found")
	ErrConflict = errors.New("revision conflict")
)

// NotFoundError reports a mutation that targeted an ID absent from the
// collection (already deleted, or never existed).
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no event with ID %q", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a compare-and-swap write rejected because the
// revision token went stale between read and write.
type ConflictError struct {
	Revision string // the stale token the write carried; empty on a create race
}

func (e *ConflictError) Error() string {
	if e.Revision == "" {
		return "collection was created by a concurrent writer"
	}
	return fmt.Sprintf("revision %s is no longer current", e.Revision)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StoreError is any other failure talking to the remote store. Status
// is the transport status code when one exists, zero otherwise.
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}
