package channel

import (
	"context"
	"fmt"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// Channel is one notification medium able to fan a single alert out to a
// contact snapshot. Implementations attempt delivery independently per
// recipient and never let one recipient's failure abort the rest; a
// structurally unavailable channel returns a full-skip outcome instead of
// an error.
type Channel interface {
	// Kind identifies the medium.
	Kind() domain.ChannelKind
	// Dispatch attempts delivery to every eligible contact and reports the
	// aggregated outcome. It never returns an error: failures are recorded
	// inside the outcome.
	Dispatch(ctx context.Context, a *domain.Alert, contacts []domain.Contact) domain.DispatchOutcome
}

// Message templates. The text is fixed; only the user identity and the map
// link vary.
const (
	textTemplate = "EMERGENCY ALERT: %s needs help. Location: %s"
	linkTemplate = "EMERGENCY ALERT\n%s needs help\nLocation: %s"
)

// AlertText renders the message used by the email and SMS channels.
func AlertText(a *domain.Alert) string {
	return fmt.Sprintf(textTemplate, a.UserEmail, a.Location.MapsURL)
}

// AlertLinkText renders the multi-line message embedded in messaging links.
func AlertLinkText(a *domain.Alert) string {
	return fmt.Sprintf(linkTemplate, a.UserEmail, a.Location.MapsURL)
}
