package geo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// TestCacheReportAndCurrent verifies the freshest reading wins and missing
// owners report ErrNoReading.
func TestCacheReportAndCurrent(t *testing.T) {
	t.Parallel()

	cache := NewCache()

	_, err := cache.Current(context.Background(), "u-1")
	require.ErrorIs(t, err, ErrNoReading)

	first := domain.Position{Lat: 1, Lng: 2, Timestamp: time.Unix(100, 0)}
	cache.Report("u-1", first)

	got, err := cache.Current(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, 1.0, got.Lat)
	require.Equal(t, MapsURL(1, 2), got.MapsURL)

	second := domain.Position{Lat: 3, Lng: 4, Timestamp: time.Unix(200, 0)}
	cache.Report("u-1", second)

	got, err = cache.Current(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, 3.0, got.Lat)

	// Owners are independent.
	_, err = cache.Current(context.Background(), "u-2")
	require.ErrorIs(t, err, ErrNoReading)
}

// TestReportStampsTimestamp ensures zero-timestamp readings get stamped.
func TestReportStampsTimestamp(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	cache.Report("u-1", domain.Position{Lat: 5, Lng: 6})

	got, err := cache.Current(context.Background(), "u-1")
	require.NoError(t, err)
	require.False(t, got.Timestamp.IsZero())
}

// TestMapsURL checks the map link format used in outgoing messages.
func TestMapsURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=12.97,77.59",
		MapsURL(12.97, 77.59))
}
