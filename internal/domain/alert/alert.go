package alert

import "time"

// Status represents the lifecycle stage of an alert.
type Status string

const (
	// StatusActive marks an alert that is open and being tracked.
	StatusActive Status = "active"
	// StatusCancelled marks an alert closed by its owner.
	StatusCancelled Status = "cancelled"
	// StatusResolved marks an alert closed by policy rather than its owner.
	StatusResolved Status = "resolved"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusResolved
}

// Contact is an emergency contact snapshot taken at alert creation.
// Contact management lives outside this core; edits made after the snapshot
// do not affect an in-flight dispatch.
type Contact struct {
	// ID identifies the contact within the owner's contact list.
	ID string
	// Name is the display name used in message templates.
	Name string
	// Phone is the raw phone number as entered, possibly empty.
	Phone string
	// Email is the contact's email address, possibly empty.
	Email string
}

// Position is a single immutable location reading.
type Position struct {
	// Lat is the latitude in degrees.
	Lat float64
	// Lng is the longitude in degrees.
	Lng float64
	// MapsURL is a human-openable map link for the reading.
	MapsURL string
	// Timestamp is when the reading was taken.
	Timestamp time.Time
}

// UnavailableMapsURL is the sentinel map link recorded when no location
// reading could be acquired at trigger time.
const UnavailableMapsURL = "Location unavailable"

// Unavailable returns the sentinel position substituted when the location
// provider fails; dispatch must not be blocked by location failure.
func Unavailable(now time.Time) Position {
	return Position{
		MapsURL:   UnavailableMapsURL,
		Timestamp: now,
	}
}

// Alert is a single emergency episode from trigger to cancellation or
// resolution.
type Alert struct {
	// ID uniquely identifies the alert.
	ID string
	// OwnerID is the user the alert belongs to.
	OwnerID string
	// UserEmail is the triggering user's email, embedded in every message.
	UserEmail string
	// CreatedAt is when the alert was triggered.
	CreatedAt time.Time
	// Status is the current lifecycle stage.
	Status Status
	// Location is the reading taken at trigger time (possibly the sentinel).
	Location Position
	// LastLocation is the most recent tracker reading, if any.
	LastLocation *Position
	// UpdatedAt is when the tracker last touched the alert.
	UpdatedAt *time.Time
	// CancelledAt is when the alert reached a terminal state, if it has.
	CancelledAt *time.Time
}

// Clone returns a copy of the alert to avoid leaking internal references.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a

	if a.LastLocation != nil {
		last := *a.LastLocation
		cloned.LastLocation = &last
	}

	if a.UpdatedAt != nil {
		updated := *a.UpdatedAt
		cloned.UpdatedAt = &updated
	}

	if a.CancelledAt != nil {
		cancelled := *a.CancelledAt
		cloned.CancelledAt = &cancelled
	}

	return &cloned
}
