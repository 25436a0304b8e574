package alert

import (
	"context"
	"sync"
	"time"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// MemoryRepository keeps alert records in process memory. It backs tests
// and single-node setups that do not need the database file.
type MemoryRepository struct {
	// mu protects both maps.
	mu sync.RWMutex
	// alerts maps alert ID to its record.
	alerts map[string]*domain.Alert
	// positions maps alert ID to its readings in insertion order.
	positions map[string][]domain.Position
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		alerts:    make(map[string]*domain.Alert),
		positions: make(map[string][]domain.Position),
	}
}

// Create stores a new alert record.
func (r *MemoryRepository) Create(_ context.Context, a *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts[a.ID] = a.Clone()

	return nil
}

// Get returns the alert with the given ID, or ErrNotFound.
func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}

	return a.Clone(), nil
}

// ActiveByOwner returns the owner's Active alert, or ErrNotFound.
func (r *MemoryRepository) ActiveByOwner(_ context.Context, ownerID string) (*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.alerts {
		if a.OwnerID == ownerID && a.Status == domain.StatusActive {
			return a.Clone(), nil
		}
	}

	return nil, ErrNotFound
}

// SetStatus transitions the alert's lifecycle stage.
func (r *MemoryRepository) SetStatus(_ context.Context, id string, status domain.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return ErrNotFound
	}

	a.Status = status
	a.UpdatedAt = &at

	// The first terminal transition owns the timestamp.
	if status.Terminal() && a.CancelledAt == nil {
		a.CancelledAt = &at
	}

	return nil
}

// AppendPosition adds a reading and refreshes the alert's last location.
func (r *MemoryRepository) AppendPosition(_ context.Context, id string, pos domain.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return ErrNotFound
	}

	r.positions[id] = append(r.positions[id], pos)

	last := pos
	a.LastLocation = &last
	a.UpdatedAt = &pos.Timestamp

	return nil
}

// Positions returns the alert's readings in insertion order.
func (r *MemoryRepository) Positions(_ context.Context, id string) ([]domain.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.alerts[id]; !ok {
		return nil, ErrNotFound
	}

	stored := r.positions[id]
	out := make([]domain.Position, len(stored))
	copy(out, stored)

	return out, nil
}
