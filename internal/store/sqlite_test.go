package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func ptrF(f float64) *float64 { return &f }
func ptrI(i int) *int         { return &i }
func ptrS(s string) *string   { return &s }

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertUser_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.UpsertUser(ctx, 1, domain.Patch{
		Latitude:  ptrF(50.45),
		Longitude: ptrF(30.52),
		TZ:        ptrS("Europe/Kyiv"),
	})
	require.NoError(t, err)

	u, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ChatID)
	require.Equal(t, 50.45, *u.Latitude)
	require.Equal(t, 30.52, *u.Longitude)
	require.Equal(t, "Europe/Kyiv", u.TZ)
	require.Nil(t, u.NotifyAtM, "notification time must stay unset")
}

// Updating only coordinates must not erase a previously stored notification
// time or timezone.
func TestUpsertUser_FieldWise(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, 7, domain.Patch{
		Latitude:  ptrF(50.45),
		Longitude: ptrF(30.52),
		NotifyAtM: ptrI(8 * 60),
		TZ:        ptrS("Europe/Kyiv"),
	}))

	// New location arrives; patch carries coordinates only.
	require.NoError(t, repo.UpsertUser(ctx, 7, domain.Patch{
		Latitude:  ptrF(48.46),
		Longitude: ptrF(35.04),
	}))

	u, err := repo.GetUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 48.46, *u.Latitude)
	require.Equal(t, 35.04, *u.Longitude)
	require.NotNil(t, u.NotifyAtM)
	require.Equal(t, 8*60, *u.NotifyAtM)
	require.Equal(t, "Europe/Kyiv", u.TZ)
}

func TestUpsertUser_TimeOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, 3, domain.Patch{NotifyAtM: ptrI(8 * 60), TZ: ptrS("UTC")}))
	require.NoError(t, repo.UpsertUser(ctx, 3, domain.Patch{NotifyAtM: ptrI(21*60 + 30)}))

	u, err := repo.GetUser(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 21*60+30, *u.NotifyAtM)
	require.Equal(t, "UTC", u.TZ)
}

func TestListScheduled(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// No notification time: excluded.
	require.NoError(t, repo.UpsertUser(ctx, 1, domain.Patch{Latitude: ptrF(1), Longitude: ptrF(2)}))
	// Time and timezone: included.
	require.NoError(t, repo.UpsertUser(ctx, 2, domain.Patch{NotifyAtM: ptrI(9 * 60), TZ: ptrS("Europe/Kyiv")}))
	// Time but no timezone: still included, the loader skips it.
	require.NoError(t, repo.UpsertUser(ctx, 3, domain.Patch{NotifyAtM: ptrI(10 * 60)}))

	users, err := repo.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, int64(2), users[0].ChatID)
	require.Equal(t, int64(3), users[1].ChatID)
	require.Empty(t, users[1].TZ)
}
