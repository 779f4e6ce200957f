package calendar

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateplan/slateplan/pkg/types"
)

// fakeStore is an in-memory compare-and-swap store with the same
// revision semantics as the real backend: empty revision means absent,
// and a write with a stale revision fails with *ConflictError.
type fakeStore struct {
	mu        sync.Mutex
	data      []byte
	rev       int // 0 = absent
	reads     int
	writes    int
	failWrite error // forced error for the next writes
	messages  []string
}

func (f *fakeStore) ReadCollection(ctx context.Context) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.rev == 0 {
		return []byte("[]"), "", nil
	}
	return append([]byte(nil), f.data...), strconv.Itoa(f.rev), nil
}

func (f *fakeStore) WriteCollection(ctx context.Context, raw []byte, rev string, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failWrite != nil {
		return "", f.failWrite
	}
	current := ""
	if f.rev > 0 {
		current = strconv.Itoa(f.rev)
	}
	if rev != current {
		return "", &types.ConflictError{Revision: rev}
	}
	f.data = append([]byte(nil), raw...)
	f.rev++
	f.messages = append(f.messages, message)
	return strconv.Itoa(f.rev), nil
}

func (f *fakeStore) collection(t *testing.T) types.Collection {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rev == 0 {
		return types.Collection{}
	}
	events, err := types.ParseCollection(f.data)
	require.NoError(t, err)
	return events
}

// interposeStore runs a callback right before the first write reaches
// the inner store, simulating a concurrent writer sneaking in between
// read and write.
type interposeStore struct {
	types.Store
	beforeWrite func()
}

func (s *interposeStore) WriteCollection(ctx context.Context, raw []byte, rev string, message string) (string, error) {
	if s.beforeWrite != nil {
		fn := s.beforeWrite
		s.beforeWrite = nil
		fn()
	}
	return s.Store.WriteCollection(ctx, raw, rev, message)
}

func newEvent(title string) types.Event {
	return types.Event{
		Title:  title,
		Start:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Status: types.StatusDraft,
	}
}

func TestCreateEvent(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	res := svc.CreateEvent(context.Background(), newEvent("Launch post"))
	require.True(t, res.Success, res.Message)
	assert.Empty(t, res.FieldErrors)

	events := store.collection(t)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, "Launch post", events[0].Title)

	require.Len(t, store.messages, 1)
	assert.Equal(t, fmt.Sprintf("Create event: Launch post (ID: %s)", events[0].ID), store.messages[0])
}

func TestCreateEventRejectsZeroDuration(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	e := newEvent("Launch post")
	e.End = e.Start
	res := svc.CreateEvent(context.Background(), e)

	require.False(t, res.Success)
	require.NotEmpty(t, res.FieldErrors)
	assert.Equal(t, "end", res.FieldErrors[0].Field)
	assert.Zero(t, store.writes, "validation failure must not write")
	assert.Zero(t, store.reads, "validation failure must not even read")
}

func TestCreateEventIDsAreUnique(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	for i := 0; i < 5; i++ {
		res := svc.CreateEvent(context.Background(), newEvent(fmt.Sprintf("Post %d", i)))
		require.True(t, res.Success, res.Message)
	}

	seen := map[string]bool{}
	for _, e := range store.collection(t) {
		assert.False(t, seen[e.ID], "duplicate ID %s", e.ID)
		seen[e.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestUpdateEvent(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, WithIDGenerator(func() string { return "e1" }))

	require.True(t, svc.CreateEvent(context.Background(), newEvent("Launch post")).Success)

	updated := newEvent("Launch post v2")
	updated.ID = "e1"
	updated.Status = types.StatusApproved
	res := svc.UpdateEvent(context.Background(), updated)
	require.True(t, res.Success, res.Message)

	events := store.collection(t)
	i := events.FindIndex("e1")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Launch post v2", events[i].Title)
	assert.Equal(t, types.StatusApproved, events[i].Status)
	assert.Contains(t, store.messages[len(store.messages)-1], "Update event: Launch post v2 (ID: e1)")
}

func TestUpdateEventNotFound(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	require.True(t, svc.CreateEvent(context.Background(), newEvent("Launch post")).Success)
	writesBefore := store.writes

	missing := newEvent("Ghost")
	missing.ID = "missing-id"
	res := svc.UpdateEvent(context.Background(), missing)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "missing-id")
	assert.Empty(t, res.FieldErrors, "not-found communicates via message only")
	assert.Equal(t, writesBefore, store.writes, "not-found must not write")
}

func TestUpdateEventPreservesUntouchedFields(t *testing.T) {
	store := &fakeStore{}
	ids := []string{"e1", "e2"}
	svc := NewService(store, WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first := newEvent("Launch post")
	first.Notes = "hero image pending"
	first.Attachment = "https://docs.example/brief"
	require.True(t, svc.CreateEvent(context.Background(), first).Success)
	require.True(t, svc.CreateEvent(context.Background(), newEvent("Newsletter")).Success)

	update := newEvent("Newsletter v2")
	update.ID = "e2"
	require.True(t, svc.UpdateEvent(context.Background(), update).Success)

	events := store.collection(t)
	i := events.FindIndex("e1")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "hero image pending", events[i].Notes)
	assert.Equal(t, "https://docs.example/brief", events[i].Attachment)
}

func TestDeleteEventTwice(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, WithIDGenerator(func() string { return "e1" }))
	require.True(t, svc.CreateEvent(context.Background(), newEvent("Launch post")).Success)

	res := svc.DeleteEvent(context.Background(), "e1")
	require.True(t, res.Success, res.Message)
	assert.Contains(t, store.messages[len(store.messages)-1], "Delete event: Launch post (ID: e1)")
	assert.Empty(t, store.collection(t))
	writesBefore := store.writes

	res = svc.DeleteEvent(context.Background(), "e1")
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "e1")
	assert.Equal(t, writesBefore, store.writes)
	assert.Empty(t, store.collection(t))
}

func TestDeleteEventEmptyID(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	res := svc.DeleteEvent(context.Background(), "  ")
	require.False(t, res.Success)
	require.NotEmpty(t, res.FieldErrors)
	assert.Equal(t, "id", res.FieldErrors[0].Field)
	assert.Zero(t, store.reads)
	assert.Zero(t, store.writes)
}

func TestConflictSurfacedNotRetried(t *testing.T) {
	inner := &fakeStore{}
	svcB := NewService(inner, WithIDGenerator(func() string { return "b1" }))

	// Client A reads, then B commits before A's write lands.
	store := &interposeStore{Store: inner, beforeWrite: func() {
		require.True(t, svcB.CreateEvent(context.Background(), newEvent("B wins")).Success)
	}}
	svcA := NewService(store, WithIDGenerator(func() string { return "a1" }))

	res := svcA.CreateEvent(context.Background(), newEvent("A loses"))
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "Refresh and try again")
	assert.Empty(t, res.FieldErrors)

	// The collection reflects only B's change; no merge, no overwrite.
	events := inner.collection(t)
	require.Len(t, events, 1)
	assert.Equal(t, "b1", events[0].ID)
}

func TestStoreErrorSurfaced(t *testing.T) {
	store := &fakeStore{failWrite: &types.StoreError{Status: 502, Message: "upstream down"}}
	svc := NewService(store, WithIDGenerator(func() string { return "e1" }))

	res := svc.CreateEvent(context.Background(), newEvent("Launch post"))
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "upstream down")
	assert.Empty(t, res.FieldErrors)
}

func TestMutationFailsOnUnparsableBase(t *testing.T) {
	store := &fakeStore{data: []byte("not json"), rev: 1}
	svc := NewService(store)

	e := newEvent("Launch post")
	e.ID = "e1"
	res := svc.UpdateEvent(context.Background(), e)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "rejected")
	assert.Zero(t, store.writes, "a mutation must not write over a base it cannot parse")
}

func TestListEventsIsLenient(t *testing.T) {
	blob := `[
	  {"id":"e1","title":"Good","start":"2025-03-01T09:00:00Z","end":"2025-03-01T10:00:00Z","status":"Draft"},
	  {"id":"e2","title":"Bad","start":"2025-03-02T10:00:00Z","end":"2025-03-02T09:00:00Z","status":"Draft"}
	]`
	store := &fakeStore{data: []byte(blob), rev: 1}
	svc := NewService(store)

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestCommitHook(t *testing.T) {
	store := &fakeStore{}
	calls := 0
	svc := NewService(store, WithCommitHook(func() { calls++ }))

	require.True(t, svc.CreateEvent(context.Background(), newEvent("Launch post")).Success)
	assert.Equal(t, 1, calls)

	// Failures do not invalidate anything.
	bad := newEvent("Bad")
	bad.End = bad.Start
	require.False(t, svc.CreateEvent(context.Background(), bad).Success)
	require.False(t, svc.DeleteEvent(context.Background(), "missing").Success)
	assert.Equal(t, 1, calls)
}
