package dispatch

import (
	"context"
	"sync"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/channel"
	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
)

// Dispatcher fans a single alert out to every enabled notification channel.
// Channels run concurrently and independently: one channel's failure never
// blocks or fails another, and disabling a channel does not change the
// outcomes of the rest.
type Dispatcher struct {
	// channels maps each registered medium to its implementation.
	channels map[domain.ChannelKind]channel.Channel
}

// New builds a dispatcher over the provided channel implementations.
func New(channels ...channel.Channel) *Dispatcher {
	registry := make(map[domain.ChannelKind]channel.Channel, len(channels))
	for _, ch := range channels {
		registry[ch.Kind()] = ch
	}

	return &Dispatcher{channels: registry}
}

// Dispatch runs every enabled channel concurrently against the contact
// snapshot and returns one outcome per enabled channel. Channels that are
// enabled but not registered report a full-skip outcome rather than being
// silently dropped, so no channel attempt is ever lost from the summary.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	a *domain.Alert,
	contacts []domain.Contact,
	enabled []domain.ChannelKind,
) map[domain.ChannelKind]domain.DispatchOutcome {
	results := make(map[domain.ChannelKind]domain.DispatchOutcome, len(enabled))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, kind := range enabled {
		ch, ok := d.channels[kind]
		if !ok {
			// Goroutines for earlier kinds may already be writing results.
			mu.Lock()
			results[kind] = domain.Skip(kind, len(contacts), "channel not available")
			mu.Unlock()

			continue
		}

		wg.Add(1)

		go func(kind domain.ChannelKind, ch channel.Channel) {
			defer wg.Done()

			outcome := ch.Dispatch(ctx, a, contacts)

			logger.InfoKV(ctx, "Channel dispatched",
				"alert_id", a.ID,
				"channel", kind,
				"attempted", outcome.Attempted,
				"succeeded", outcome.Succeeded,
				"failed", outcome.Failed,
				"skipped", outcome.Skipped,
			)

			mu.Lock()
			results[kind] = outcome
			mu.Unlock()
		}(kind, ch)
	}

	wg.Wait()

	return results
}
