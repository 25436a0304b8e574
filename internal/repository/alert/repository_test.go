package alert

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// repositories builds one instance of every Repository implementation so the
// same contract suite runs against each.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": sqlite,
	}
}

func newTestAlert(id, owner string) *domain.Alert {
	return &domain.Alert{
		ID:        id,
		OwnerID:   owner,
		UserEmail: "owner@example.com",
		CreatedAt: time.UnixMilli(1000),
		Status:    domain.StatusActive,
		Location: domain.Position{
			Lat:       12.97,
			Lng:       77.59,
			MapsURL:   "https://maps.example/x",
			Timestamp: time.UnixMilli(1000),
		},
	}
}

// TestRepositoryCreateAndGet round-trips an alert record.
func TestRepositoryCreateAndGet(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			created := newTestAlert("a-1", "u-1")
			require.NoError(t, repo.Create(ctx, created))

			got, err := repo.Get(ctx, "a-1")
			require.NoError(t, err)
			require.Equal(t, created.OwnerID, got.OwnerID)
			require.Equal(t, created.UserEmail, got.UserEmail)
			require.Equal(t, domain.StatusActive, got.Status)
			require.Equal(t, created.Location, got.Location)
			require.Nil(t, got.LastLocation)
			require.Nil(t, got.CancelledAt)
		})
	}
}

// TestRepositoryActiveByOwner finds only the owner's Active alert.
func TestRepositoryActiveByOwner(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.ActiveByOwner(ctx, "u-1")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Create(ctx, newTestAlert("a-1", "u-1")))
			require.NoError(t, repo.Create(ctx, newTestAlert("a-2", "u-2")))

			got, err := repo.ActiveByOwner(ctx, "u-1")
			require.NoError(t, err)
			require.Equal(t, "a-1", got.ID)

			// A cancelled alert no longer counts as active.
			require.NoError(t, repo.SetStatus(ctx, "a-1", domain.StatusCancelled, time.UnixMilli(2000)))

			_, err = repo.ActiveByOwner(ctx, "u-1")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

// TestRepositorySetStatus stamps terminal timestamps and reports missing IDs.
func TestRepositorySetStatus(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := repo.SetStatus(ctx, "missing", domain.StatusCancelled, time.UnixMilli(2000))
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Create(ctx, newTestAlert("a-1", "u-1")))
			require.NoError(t, repo.SetStatus(ctx, "a-1", domain.StatusResolved, time.UnixMilli(2000)))

			got, err := repo.Get(ctx, "a-1")
			require.NoError(t, err)
			require.Equal(t, domain.StatusResolved, got.Status)
			require.NotNil(t, got.CancelledAt)
			require.Equal(t, time.UnixMilli(2000), *got.CancelledAt)

			// A second terminal transition must not move the original
			// timestamp.
			require.NoError(t, repo.SetStatus(ctx, "a-1", domain.StatusCancelled, time.UnixMilli(3000)))

			got, err = repo.Get(ctx, "a-1")
			require.NoError(t, err)
			require.NotNil(t, got.CancelledAt)
			require.Equal(t, time.UnixMilli(2000), *got.CancelledAt)
		})
	}
}

// TestRepositoryPositions verifies append-only ordering and last-location
// bookkeeping.
func TestRepositoryPositions(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := repo.AppendPosition(ctx, "missing", domain.Position{})
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Create(ctx, newTestAlert("a-1", "u-1")))

			got, err := repo.Positions(ctx, "a-1")
			require.NoError(t, err)
			require.Empty(t, got)

			first := domain.Position{Lat: 1, Lng: 2, MapsURL: "m1", Timestamp: time.UnixMilli(1100)}
			second := domain.Position{Lat: 3, Lng: 4, MapsURL: "m2", Timestamp: time.UnixMilli(1200)}

			require.NoError(t, repo.AppendPosition(ctx, "a-1", first))
			require.NoError(t, repo.AppendPosition(ctx, "a-1", second))

			got, err = repo.Positions(ctx, "a-1")
			require.NoError(t, err)
			require.Equal(t, []domain.Position{first, second}, got)

			a, err := repo.Get(ctx, "a-1")
			require.NoError(t, err)
			require.NotNil(t, a.LastLocation)
			require.Equal(t, second, *a.LastLocation)
			require.NotNil(t, a.UpdatedAt)
			require.Equal(t, second.Timestamp, *a.UpdatedAt)
		})
	}
}
