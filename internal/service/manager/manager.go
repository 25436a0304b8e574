package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/geo"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	repo "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/repository/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/track"
)

// Dispatcher abstracts the channel fan-out the manager triggers on creation.
type Dispatcher interface {
	Dispatch(
		ctx context.Context,
		a *domain.Alert,
		contacts []domain.Contact,
		enabled []domain.ChannelKind,
	) map[domain.ChannelKind]domain.DispatchOutcome
}

var (
	// ErrNoContacts is returned when a trigger arrives with an empty
	// contact snapshot. Nothing is created.
	ErrNoContacts = errors.New("at least one emergency contact is required")
	// ErrAlreadyActive is returned when the owner already has an Active
	// alert. Nothing is created.
	ErrAlreadyActive = errors.New("an alert is already active for this owner")
	// ErrNotFound is returned when the alert does not exist.
	ErrNotFound = errors.New("alert not found")
	// ErrAlreadyTerminal is returned when cancelling or resolving an alert
	// that is already cancelled or resolved. Nothing is mutated.
	ErrAlreadyTerminal = errors.New("alert is already in a terminal state")
)

// TriggerResult is what a successful trigger hands back to the caller: the
// created alert and the per-channel dispatch summary.
type TriggerResult struct {
	// Alert is the created record, status Active.
	Alert *domain.Alert
	// Outcomes holds one entry per enabled channel.
	Outcomes map[domain.ChannelKind]domain.DispatchOutcome
}

// Manager owns the alert state machine: it creates, cancels and resolves
// alert records, fans creation out through the dispatcher, and runs one
// location tracker per active alert. Operations are serialized per owner;
// alerts of different owners are fully independent.
type Manager struct {
	// repo persists alert records and position histories.
	repo repo.Repository
	// dispatcher fans alerts out across the notification channels.
	dispatcher Dispatcher
	// provider supplies position readings.
	provider geo.Provider

	// trackInterval is the location polling period.
	trackInterval time.Duration
	// readTimeout bounds each location read.
	readTimeout time.Duration

	// rootCtx bounds every tracker's life; rootCancel ends them all.
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// mu protects ownerLocks and trackers.
	mu sync.Mutex
	// ownerLocks serializes trigger/close per owner.
	ownerLocks map[string]*sync.Mutex
	// trackers maps alert ID to its running tracker.
	trackers map[string]*track.Tracker
}

// Option configures the manager.
type Option func(*Manager)

// WithTrackingInterval overrides the location polling period.
func WithTrackingInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.trackInterval = d
		}
	}
}

// WithReadTimeout overrides the bound on individual location reads.
func WithReadTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.readTimeout = d
		}
	}
}

// New creates a manager over the given collaborators.
func New(repository repo.Repository, dispatcher Dispatcher, provider geo.Provider, opts ...Option) *Manager {
	rootCtx, rootCancel := context.WithCancel(context.Background())

	m := &Manager{
		repo:          repository,
		dispatcher:    dispatcher,
		provider:      provider,
		trackInterval: config.DefaultTrackingInterval,
		readTimeout:   config.DefaultTimeout,
		rootCtx:       rootCtx,
		rootCancel:    rootCancel,
		ownerLocks:    make(map[string]*sync.Mutex),
		trackers:      make(map[string]*track.Tracker),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Close stops every running tracker and blocks until they have exited.
func (m *Manager) Close() {
	m.rootCancel()

	m.mu.Lock()
	running := make([]*track.Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		running = append(running, t)
	}
	m.trackers = make(map[string]*track.Tracker)
	m.mu.Unlock()

	for _, t := range running {
		t.Stop()
	}
}

// Trigger opens a new alert for the owner: takes a contact snapshot,
// acquires a best-effort location reading, creates the record, dispatches
// to every enabled channel synchronously, and starts the location tracker.
// An empty enabled list means all channels.
func (m *Manager) Trigger(
	ctx context.Context,
	ownerID, userEmail string,
	contacts []domain.Contact,
	enabled []domain.ChannelKind,
) (*TriggerResult, error) {
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	if len(enabled) == 0 {
		enabled = domain.AllChannels()
	}

	lock := m.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	_, err := m.repo.ActiveByOwner(ctx, ownerID)
	switch {
	case err == nil:
		return nil, ErrAlreadyActive
	case errors.Is(err, repo.ErrNotFound):
		// No active alert, proceed.
	default:
		return nil, fmt.Errorf("look up active alert: %w", err)
	}

	now := time.Now()

	// Location is best effort: dispatch must not be blocked by a failed or
	// denied reading, so the sentinel takes its place.
	location := m.currentLocation(ctx, ownerID, now)

	a := &domain.Alert{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		UserEmail: userEmail,
		CreatedAt: now,
		Status:    domain.StatusActive,
		Location:  location,
	}

	if err := m.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	logger.InfoKV(ctx, "Alert triggered",
		"alert_id", a.ID, "owner_id", ownerID, "contacts", len(contacts), "channels", enabled)

	outcomes := m.dispatcher.Dispatch(ctx, a.Clone(), contacts, enabled)

	tracker := track.New(a.ID, ownerID, m.trackInterval, m.readTimeout, m.provider, m.repo)

	m.mu.Lock()
	m.trackers[a.ID] = tracker
	m.mu.Unlock()

	tracker.Start(m.rootCtx)

	return &TriggerResult{
		Alert:    a.Clone(),
		Outcomes: outcomes,
	}, nil
}

// Cancel closes an alert on behalf of its owner: stops the tracker, then
// marks the record Cancelled. Cancelling an already-terminal alert returns
// ErrAlreadyTerminal without side effects.
func (m *Manager) Cancel(ctx context.Context, alertID string) error {
	return m.close(ctx, alertID, domain.StatusCancelled)
}

// Resolve closes an alert by policy rather than by its owner. Same contract
// as Cancel, terminal status Resolved.
func (m *Manager) Resolve(ctx context.Context, alertID string) error {
	return m.close(ctx, alertID, domain.StatusResolved)
}

// Get returns the alert and its position history.
func (m *Manager) Get(ctx context.Context, alertID string) (*domain.Alert, []domain.Position, error) {
	a, err := m.repo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrNotFound
		}

		return nil, nil, fmt.Errorf("load alert: %w", err)
	}

	positions, err := m.repo.Positions(ctx, alertID)
	if err != nil {
		return nil, nil, fmt.Errorf("load positions: %w", err)
	}

	return a, positions, nil
}

// close transitions an Active alert to the given terminal status.
// The tracker is stopped before the status flips, so once close returns no
// further position can be appended.
func (m *Manager) close(ctx context.Context, alertID string, status domain.Status) error {
	a, err := m.repo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("load alert: %w", err)
	}

	lock := m.ownerLock(a.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the owner lock: a concurrent close may have won.
	a, err = m.repo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("load alert: %w", err)
	}

	if a.Status.Terminal() {
		return ErrAlreadyTerminal
	}

	m.stopTracker(alertID)

	if err := m.repo.SetStatus(ctx, alertID, status, time.Now()); err != nil {
		return fmt.Errorf("set alert status: %w", err)
	}

	logger.InfoKV(ctx, "Alert closed", "alert_id", alertID, "status", status)

	return nil
}

// stopTracker removes and stops the alert's tracker, blocking until its
// loop has exited. A missing tracker is fine (process restart, Resolve
// after Close).
func (m *Manager) stopTracker(alertID string) {
	m.mu.Lock()
	tracker := m.trackers[alertID]
	delete(m.trackers, alertID)
	m.mu.Unlock()

	if tracker != nil {
		tracker.Stop()
	}
}

// currentLocation acquires a bounded best-effort reading, substituting the
// sentinel on failure.
func (m *Manager) currentLocation(ctx context.Context, ownerID string, now time.Time) domain.Position {
	readCtx, cancel := context.WithTimeout(ctx, m.readTimeout)
	defer cancel()

	pos, err := m.provider.Current(readCtx, ownerID)
	if err != nil {
		logger.WarnKV(ctx, "Location unavailable at trigger", "owner_id", ownerID, "error", err)

		return domain.Unavailable(now)
	}

	return pos
}

// ownerLock returns the mutex serializing operations for one owner.
func (m *Manager) ownerLock(ownerID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.ownerLocks[ownerID]
	if !ok {
		lock = new(sync.Mutex)
		m.ownerLocks[ownerID] = lock
	}

	return lock
}
