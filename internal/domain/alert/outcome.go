package alert

// ChannelKind identifies one notification medium.
type ChannelKind string

const (
	// ChannelEmail delivers through the external email delivery service.
	ChannelEmail ChannelKind = "email"
	// ChannelWhatsApp produces messaging deep links; delivery is unconfirmed.
	ChannelWhatsApp ChannelKind = "whatsapp"
	// ChannelSMS delivers text messages through the remote gateway.
	ChannelSMS ChannelKind = "sms"
	// ChannelCall places voice calls through the remote gateway.
	ChannelCall ChannelKind = "call"
)

// AllChannels lists every known channel kind in dispatch order.
func AllChannels() []ChannelKind {
	return []ChannelKind{ChannelEmail, ChannelWhatsApp, ChannelSMS, ChannelCall}
}

// RecipientResult records the outcome of one delivery attempt to one contact.
type RecipientResult struct {
	// ContactID identifies the recipient within the alert's contact snapshot.
	ContactID string
	// OK reports whether the attempt succeeded as far as the channel can tell.
	OK bool
	// Ref is the provider's delivery reference (message SID, link URI, ...).
	Ref string
	// Error describes the failure when OK is false.
	Error string
}

// DispatchOutcome aggregates one channel's results for one alert.
// It is recomputable from the per-recipient results and is not persisted.
type DispatchOutcome struct {
	// Channel is the medium this outcome describes.
	Channel ChannelKind
	// Attempted is the number of recipients a provider call was made for.
	Attempted int
	// Succeeded is the number of attempts the provider acknowledged.
	Succeeded int
	// Failed is the number of attempts the provider rejected or that errored.
	Failed int
	// Skipped counts recipients lacking the field the channel requires,
	// or all recipients when the channel is structurally unavailable.
	Skipped int
	// PerRecipient holds the individual attempt results.
	PerRecipient []RecipientResult
	// Error is a channel-level condition (for example an unconfigured
	// provider) reported once rather than per recipient.
	Error string
}

// Skip returns an outcome recording that the whole channel was a no-op,
// with every recipient counted as skipped.
func Skip(kind ChannelKind, contacts int, reason string) DispatchOutcome {
	return DispatchOutcome{
		Channel: kind,
		Skipped: contacts,
		Error:   reason,
	}
}
