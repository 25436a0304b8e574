package track

import (
	"context"
	"time"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/geo"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
)

// Recorder receives the readings the tracker produces. The alert repository
// satisfies it.
type Recorder interface {
	AppendPosition(ctx context.Context, id string, pos domain.Position) error
}

// Tracker polls the location provider on a fixed interval while an alert is
// active and appends each reading to the alert's history. At most one
// tracker runs per alert; Stop returns only after the polling goroutine has
// exited, so no tick is observable afterwards.
type Tracker struct {
	// alertID is the alert the readings belong to.
	alertID string
	// ownerID selects whose position the provider reports.
	ownerID string
	// interval is the polling period.
	interval time.Duration
	// readTimeout bounds each provider read.
	readTimeout time.Duration
	// provider supplies position readings.
	provider geo.Provider
	// recorder persists the readings.
	recorder Recorder

	// cancel stops the polling goroutine.
	cancel context.CancelFunc
	// done is closed when the polling goroutine has exited.
	done chan struct{}
}

// New creates a tracker for one alert. Start must be called to begin polling.
func New(alertID, ownerID string, interval, readTimeout time.Duration, provider geo.Provider, recorder Recorder) *Tracker {
	return &Tracker{
		alertID:     alertID,
		ownerID:     ownerID,
		interval:    interval,
		readTimeout: readTimeout,
		provider:    provider,
		recorder:    recorder,
		done:        make(chan struct{}),
	}
}

// Start launches the polling goroutine. The parent context bounds the
// tracker's whole life: cancelling it has the same effect as Stop.
func (t *Tracker) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)

	go t.run(ctx)
}

// Stop cancels polling and blocks until the goroutine has exited.
// It is safe to call more than once.
func (t *Tracker) Stop() {
	if t.cancel == nil {
		return
	}

	t.cancel()
	<-t.done
}

// run is the polling loop. A failed read is logged and skipped; the loop
// only ends on cancellation.
func (t *Tracker) run(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoKV(ctx, "Location tracking stopped", "alert_id", t.alertID)

			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick acquires one reading and records it.
func (t *Tracker) tick(ctx context.Context) {
	readCtx := ctx

	if t.readTimeout > 0 {
		var cancel context.CancelFunc

		readCtx, cancel = context.WithTimeout(ctx, t.readTimeout)
		defer cancel()
	}

	pos, err := t.provider.Current(readCtx, t.ownerID)
	if err != nil {
		logger.WarnKV(ctx, "Location read failed, skipping tick", "alert_id", t.alertID, "error", err)

		return
	}

	if err := t.recorder.AppendPosition(ctx, t.alertID, pos); err != nil {
		logger.ErrorKV(ctx, "Failed to record position", "alert_id", t.alertID, "error", err)
	}
}
