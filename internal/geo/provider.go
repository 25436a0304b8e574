package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// Provider wraps the single "get current position" capability. A reading is
// returned for the given owner, or an error when none is obtainable.
type Provider interface {
	Current(ctx context.Context, ownerID string) (domain.Position, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, ownerID string) (domain.Position, error)

// Current calls the wrapped function.
func (f ProviderFunc) Current(ctx context.Context, ownerID string) (domain.Position, error) {
	return f(ctx, ownerID)
}

// ErrNoReading is returned when no position has been reported for the owner.
var ErrNoReading = errors.New("no location reading available")

// MapsURL builds the map link embedded in every outgoing message.
func MapsURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lng)
}

// Cache is a last-known-position store fed by devices pushing readings
// through the API. The tracker and the trigger flow sample the freshest
// reading per owner; a reading never expires, matching the best-effort
// nature of the location channel.
type Cache struct {
	// mu protects the readings map.
	mu sync.RWMutex
	// readings holds the latest position per owner.
	readings map[string]domain.Position
}

// NewCache returns an empty last-known-position store.
func NewCache() *Cache {
	return &Cache{
		readings: make(map[string]domain.Position),
	}
}

// Report records a reading for the owner, overwriting any previous one.
// A zero timestamp is stamped with the current time.
func (c *Cache) Report(ownerID string, pos domain.Position) {
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}

	if pos.MapsURL == "" {
		pos.MapsURL = MapsURL(pos.Lat, pos.Lng)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.readings[ownerID] = pos
}

// Current returns the latest reading reported for the owner.
func (c *Cache) Current(_ context.Context, ownerID string) (domain.Position, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.readings[ownerID]
	if !ok {
		return domain.Position{}, ErrNoReading
	}

	return pos, nil
}
