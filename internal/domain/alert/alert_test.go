package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestStatusTerminal verifies which lifecycle stages permit further transitions.
func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, StatusActive.Terminal())
	require.True(t, StatusCancelled.Terminal())
	require.True(t, StatusResolved.Terminal())
}

// TestAlertClone ensures clones share no pointers with the original.
func TestAlertClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Alert)(nil).Clone())

	now := time.Unix(1000, 0)
	last := Position{Lat: 12.97, Lng: 77.59, MapsURL: "https://maps.example/x", Timestamp: now}

	original := &Alert{
		ID:           "a-1",
		OwnerID:      "u-1",
		UserEmail:    "owner@example.com",
		CreatedAt:    now,
		Status:       StatusActive,
		LastLocation: &last,
		UpdatedAt:    &now,
	}

	cloned := original.Clone()
	require.Equal(t, original, cloned)
	require.NotSame(t, original.LastLocation, cloned.LastLocation)
	require.NotSame(t, original.UpdatedAt, cloned.UpdatedAt)

	cloned.LastLocation.Lat = 0
	require.Equal(t, 12.97, original.LastLocation.Lat)
}

// TestUnavailable checks the sentinel substituted on location failure.
func TestUnavailable(t *testing.T) {
	t.Parallel()

	now := time.Unix(2000, 0)
	pos := Unavailable(now)

	require.Equal(t, UnavailableMapsURL, pos.MapsURL)
	require.Zero(t, pos.Lat)
	require.Zero(t, pos.Lng)
	require.Equal(t, now, pos.Timestamp)
}

// TestSkip asserts the whole-channel no-op outcome shape.
func TestSkip(t *testing.T) {
	t.Parallel()

	out := Skip(ChannelSMS, 3, "gateway not configured")

	require.Equal(t, ChannelSMS, out.Channel)
	require.Zero(t, out.Attempted)
	require.Equal(t, 3, out.Skipped)
	require.Equal(t, "gateway not configured", out.Error)
}
