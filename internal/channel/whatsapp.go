package channel

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/phone"
)

// Opener hands a constructed deep link to the operating environment.
// Success means the link was handed over, not that any message was read or
// even sent; the channel is fire-and-forget by nature.
type Opener func(ctx context.Context, link string) error

// WhatsApp produces messaging deep links, one per phone-bearing contact.
type WhatsApp struct {
	// countryCode is prepended to ten-digit local numbers.
	countryCode string
	// stagger is the pacing delay between consecutive recipients, keeping
	// the environment from rate limiting sequential link openings.
	stagger time.Duration
	// open delivers each link to the environment.
	open Opener
}

// WhatsAppOption configures the channel.
type WhatsAppOption func(*WhatsApp)

// WithStagger overrides the pacing delay between recipients.
func WithStagger(d time.Duration) WhatsAppOption {
	return func(w *WhatsApp) {
		if d >= 0 {
			w.stagger = d
		}
	}
}

// WithOpener replaces how links are handed to the environment.
func WithOpener(open Opener) WhatsAppOption {
	return func(w *WhatsApp) {
		if open != nil {
			w.open = open
		}
	}
}

// NewWhatsApp creates the messaging-link channel. The default opener logs
// the link, leaving actual navigation to whatever surfaces the log stream.
func NewWhatsApp(countryCode string, opts ...WhatsAppOption) *WhatsApp {
	w := &WhatsApp{
		countryCode: countryCode,
		stagger:     config.DefaultLinkStagger,
		open: func(ctx context.Context, link string) error {
			logger.InfoKV(ctx, "Messaging link ready", "link", link)

			return nil
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Kind identifies the medium.
func (w *WhatsApp) Kind() domain.ChannelKind {
	return domain.ChannelWhatsApp
}

// Link builds the deep link for one number in digits-only form.
func (w *WhatsApp) Link(digits, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}

// Dispatch constructs and hands over one link per eligible contact,
// pacing consecutive recipients by the configured stagger. Contacts without
// a usable phone number are skipped. Cancellation stops the remaining
// recipients, counting them as skipped.
func (w *WhatsApp) Dispatch(ctx context.Context, a *domain.Alert, contacts []domain.Contact) domain.DispatchOutcome {
	outcome := domain.DispatchOutcome{Channel: w.Kind()}
	message := AlertLinkText(a)

	first := true

	for i, c := range contacts {
		digits, ok := phone.LinkDigits(c.Phone, w.countryCode)
		if !ok {
			outcome.Skipped++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
			})

			continue
		}

		if !first && w.stagger > 0 {
			select {
			case <-ctx.Done():
				outcome.Skipped += len(contacts) - i

				return outcome
			case <-time.After(w.stagger):
			}
		}

		first = false
		outcome.Attempted++
		link := w.Link(digits, message)

		if err := w.open(ctx, link); err != nil {
			outcome.Failed++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
				Error:     err.Error(),
			})

			continue
		}

		outcome.Succeeded++
		outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
			ContactID: c.ID,
			OK:        true,
			Ref:       link,
		})
	}

	return outcome
}
