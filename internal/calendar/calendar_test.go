package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/remote"
	"github.com/sokawa/dayboard/internal/store"
)

var testDay = time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)

func TestNormalize_FieldPriority(t *testing.T) {
	events := Normalize([]RawEvent{
		{ID: "1", Summary: "from summary", Title: "ignored"},
		{ID: "2", Title: "from title"},
	}, testDay)

	require.Len(t, events, 2)
	assert.Equal(t, "from summary", events[0].Title)
	assert.Equal(t, "from title", events[1].Title)
	assert.Equal(t, "2026-08-31", events[0].Date)
}

func TestNormalize_TimePriority(t *testing.T) {
	local := time.Date(2026, 8, 31, 9, 30, 0, 0, time.Local).Format(time.RFC3339)

	events := Normalize([]RawEvent{
		{ID: "dt", Start: RawTime{DateTime: local}},
		{ID: "allday", Start: RawTime{Date: "2026-08-31"}, StartTime: "10:00"},
		{ID: "flat", StartTime: "14:45"},
		{ID: "none"},
	}, testDay)

	require.Len(t, events, 4)
	assert.Equal(t, "09:30", events[0].StartTime)
	// Date-only means all-day: the flat fallback is not consulted.
	assert.Empty(t, events[1].StartTime)
	assert.Equal(t, "14:45", events[2].StartTime)
	assert.Empty(t, events[3].StartTime)
}

func TestIsReauthError(t *testing.T) {
	cases := []struct {
		err    error
		reauth bool
	}{
		{errors.New("oauth2: \"invalid_grant\" token expired"), true},
		{errors.New("googleapi: Error 401: Invalid Credentials"), true},
		{errors.New("googleapi: Error 403: insufficient permissions"), true},
		{errors.New("dial tcp: i/o timeout"), false},
		{errors.New("googleapi: Error 500: backend error"), false},
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.reauth, IsReauthError(tc.err), "err: %v", tc.err)
	}
}

// scriptedSource returns queued results in order.
type scriptedSource struct {
	results []func() ([]RawEvent, error)
	calls   int
}

func (s *scriptedSource) Events(ctx context.Context, day time.Time) ([]RawEvent, error) {
	if s.calls >= len(s.results) {
		return nil, errors.New("unexpected fetch")
	}
	r := s.results[s.calls]
	s.calls++
	return r()
}

func ok(events ...RawEvent) func() ([]RawEvent, error) {
	return func() ([]RawEvent, error) { return events, nil }
}

func fail(err error) func() ([]RawEvent, error) {
	return func() ([]RawEvent, error) { return nil, err }
}

// nullRemote satisfies remote.Store; the syncer must never reach it.
type nullRemote struct{}

func (nullRemote) SelectTasks(ctx context.Context, principalID string) ([]models.Task, error) {
	return nil, nil
}
func (nullRemote) InsertTask(ctx context.Context, task models.Task) error { return nil }
func (nullRemote) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	return nil
}
func (nullRemote) UpsertTask(ctx context.Context, task models.Task) error { return nil }
func (nullRemote) DeleteTask(ctx context.Context, id string) error        { return nil }
func (nullRemote) Subscribe(principalID string) (<-chan remote.ChangeEvent, func()) {
	ch := make(chan remote.ChangeEvent)
	return ch, func() {}
}

func newSyncer(results ...func() ([]RawEvent, error)) (*Syncer, *store.Store) {
	s := store.New(nullRemote{}, "user-1", nil)
	return NewSyncer(&scriptedSource{results: results}, s, nil), s
}

func TestSyncer_MergesFetchedEvents(t *testing.T) {
	sy, s := newSyncer(ok(RawEvent{ID: "ev-1", Summary: "standup", StartTime: "09:00"}))

	require.NoError(t, sy.Fetch(context.Background(), testDay))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsCalendarEvent())
	assert.Equal(t, "standup", tasks[0].Title)
}

func TestSyncer_TransientFailureFallsBackToCache(t *testing.T) {
	sy, s := newSyncer(
		ok(RawEvent{ID: "ev-1", Summary: "standup", StartTime: "09:00"}),
		fail(errors.New("dial tcp: i/o timeout")),
	)

	require.NoError(t, sy.Fetch(context.Background(), testDay))
	// The transient failure is silent and the cached snapshot stands in.
	require.NoError(t, sy.Fetch(context.Background(), testDay))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "standup", tasks[0].Title)
	assert.False(t, sy.NeedsReauth())
}

func TestSyncer_ReauthSuspendsFetching(t *testing.T) {
	sy, s := newSyncer(
		fail(errors.New("oauth2: invalid_grant")),
		ok(RawEvent{ID: "ev-1", Summary: "after reconnect", StartTime: "09:00"}),
	)

	err := sy.Fetch(context.Background(), testDay)
	assert.ErrorIs(t, err, ErrReauthRequired)
	assert.True(t, sy.NeedsReauth())

	// Suspended: the source is not called again.
	err = sy.Fetch(context.Background(), testDay)
	assert.ErrorIs(t, err, ErrReauthRequired)
	assert.Empty(t, s.Tasks())

	sy.Reauthed()
	require.NoError(t, sy.Fetch(context.Background(), testDay))
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "after reconnect", s.Tasks()[0].Title)
}

func TestSyncer_EmptyFetchKeepsPreviousMerge(t *testing.T) {
	sy, s := newSyncer(
		ok(RawEvent{ID: "ev-1", Summary: "standup", StartTime: "09:00"}),
		ok(),
	)

	require.NoError(t, sy.Fetch(context.Background(), testDay))
	require.NoError(t, sy.Fetch(context.Background(), testDay))

	// The empty response did not clear the merged events.
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "standup", s.Tasks()[0].Title)
}
