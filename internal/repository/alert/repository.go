package alert

import (
	"context"
	"errors"
	"time"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// Repository defines persistence operations for alert records and their
// append-only position history.
type Repository interface {
	// Create stores a new alert record.
	Create(ctx context.Context, a *domain.Alert) error
	// Get returns the alert with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Alert, error)
	// ActiveByOwner returns the owner's Active alert, or ErrNotFound when
	// the owner has none.
	ActiveByOwner(ctx context.Context, ownerID string) (*domain.Alert, error)
	// SetStatus transitions the alert's lifecycle stage, stamping the
	// terminal timestamp for terminal statuses.
	SetStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
	// AppendPosition adds a reading to the alert's position history and
	// refreshes the alert's last location and update time.
	AppendPosition(ctx context.Context, id string, pos domain.Position) error
	// Positions returns the alert's readings in insertion order.
	Positions(ctx context.Context, id string) ([]domain.Position, error)
}

// ErrNotFound is returned when no matching alert record exists.
var ErrNotFound = errors.New("alert not found")
