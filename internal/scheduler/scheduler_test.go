package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
)

type fakeRepo struct {
	users []domain.User
	err   error
}

var _ store.Repo = (*fakeRepo)(nil)

func (f *fakeRepo) GetUser(context.Context, int64) (*domain.User, error) {
	return nil, store.ErrNotFound
}
func (f *fakeRepo) UpsertUser(context.Context, int64, domain.Patch) error { return nil }
func (f *fakeRepo) ListScheduled(context.Context) ([]domain.User, error) {
	return f.users, f.err
}
func (f *fakeRepo) Close() error { return nil }

func mins(m int) *int { return &m }

func TestSchedule_RejectsBadInput(t *testing.T) {
	s := New(zap.NewNop())

	err := s.Schedule(1, 24, 0, "Europe/Kyiv", func() {})
	require.ErrorIs(t, err, ErrInvalidTime)

	err = s.Schedule(1, 8, 60, "Europe/Kyiv", func() {})
	require.ErrorIs(t, err, ErrInvalidTime)

	err = s.Schedule(1, 8, 0, "Atlantis/Lost", func() {})
	require.ErrorIs(t, err, ErrInvalidTimezone)

	err = s.Schedule(1, 8, 0, "", func() {})
	require.ErrorIs(t, err, ErrInvalidTimezone)

	require.Zero(t, s.Count(), "rejected schedules must not install jobs")
}

func TestSchedule_ReplaceKeepsOneJob(t *testing.T) {
	s := New(zap.NewNop())

	require.NoError(t, s.Schedule(1, 8, 0, "Europe/Kyiv", func() {}))
	require.NoError(t, s.Schedule(1, 21, 30, "Europe/Kyiv", func() {}))

	require.Equal(t, 1, s.Count())
	require.Equal(t, JobSpec{Hour: 21, Minute: 30, TZ: "Europe/Kyiv"}, s.Jobs()[1])
	// The old cron entry must be gone too, or both times would fire.
	require.Len(t, s.cron.Entries(), 1)
}

// Replacing with the same wall-clock time swaps the callback without ever
// holding zero or two entries for the user.
func TestSchedule_ReplaceSameTime(t *testing.T) {
	s := New(zap.NewNop())

	require.NoError(t, s.Schedule(1, 8, 0, "Europe/Kyiv", func() {}))
	require.NoError(t, s.Schedule(1, 8, 0, "Europe/Kyiv", func() {}))

	require.Equal(t, 1, s.Count())
	require.Len(t, s.cron.Entries(), 1)
}

// A panicking firing is logged and isolated: it must not unschedule the job
// or take down the cron loop.
func TestFiring_PanicIsolated(t *testing.T) {
	s := New(zap.NewNop())

	fired := 0
	require.NoError(t, s.Schedule(1, 8, 0, "Europe/Kyiv", func() {
		fired++
		panic("collaborator exploded")
	}))

	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	// Run the installed entry directly, as the cron loop would.
	require.NotPanics(t, func() { entries[0].Job.Run() })
	require.Equal(t, 1, fired)

	// The job survives the panic and can fire again.
	require.Equal(t, 1, s.Count())
	require.Len(t, s.cron.Entries(), 1)
	require.NotPanics(t, func() { entries[0].Job.Run() })
	require.Equal(t, 2, fired)
}

func TestSchedule_FailedReplaceKeepsOldJob(t *testing.T) {
	s := New(zap.NewNop())

	require.NoError(t, s.Schedule(1, 8, 0, "Europe/Kyiv", func() {}))
	require.Error(t, s.Schedule(1, 9, 0, "Atlantis/Lost", func() {}))

	require.Equal(t, JobSpec{Hour: 8, Minute: 0, TZ: "Europe/Kyiv"}, s.Jobs()[1])
}

func TestCancel(t *testing.T) {
	s := New(zap.NewNop())

	require.NoError(t, s.Schedule(1, 8, 0, "UTC", func() {}))
	s.Cancel(1)
	require.Zero(t, s.Count())
	require.Empty(t, s.cron.Entries())

	// Cancelling an absent job is a no-op.
	s.Cancel(99)
	require.Zero(t, s.Count())
}

// A reconciled scheduler must reproduce the exact job set that existed before
// a restart for every profile with a valid (time, timezone) pair.
func TestReconcile_RestoresJobSet(t *testing.T) {
	before := New(zap.NewNop())
	require.NoError(t, before.Schedule(1, 8, 0, "Europe/Kyiv", func() {}))
	require.NoError(t, before.Schedule(2, 6, 45, "Asia/Tokyo", func() {}))
	require.NoError(t, before.Schedule(3, 23, 59, "UTC", func() {}))

	repo := &fakeRepo{users: []domain.User{
		{ChatID: 1, NotifyAtM: mins(8 * 60), TZ: "Europe/Kyiv"},
		{ChatID: 2, NotifyAtM: mins(6*60 + 45), TZ: "Asia/Tokyo"},
		{ChatID: 3, NotifyAtM: mins(23*60 + 59), TZ: "UTC"},
	}}

	after := New(zap.NewNop())
	require.NoError(t, after.Reconcile(context.Background(), repo, func(int64) {}))

	require.Equal(t, before.Jobs(), after.Jobs())
}

func TestReconcile_SkipsProfileWithoutTimezone(t *testing.T) {
	repo := &fakeRepo{users: []domain.User{
		{ChatID: 1, NotifyAtM: mins(8 * 60), TZ: "Europe/Kyiv"},
		{ChatID: 2, NotifyAtM: mins(9 * 60), TZ: ""},
	}}

	s := New(zap.NewNop())
	require.NoError(t, s.Reconcile(context.Background(), repo, func(int64) {}))

	require.Equal(t, 1, s.Count())
	_, ok := s.Jobs()[2]
	require.False(t, ok, "profile without timezone must be skipped")
}

func TestReconcile_StoreErrorPropagates(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk on fire")}

	s := New(zap.NewNop())
	require.Error(t, s.Reconcile(context.Background(), repo, func(int64) {}))
}
