package sos

import (
	"time"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// ContactPayload is one emergency contact in a trigger request.
type ContactPayload struct {
	// ID identifies the contact within the owner's contact list.
	ID string `json:"id,omitempty"`
	// Name is the display name used in message templates.
	Name string `json:"name,omitempty"`
	// Phone is the raw phone number as entered, possibly empty.
	Phone string `json:"phone,omitempty"`
	// Email is the contact's email address, possibly empty.
	Email string `json:"email,omitempty"`
}

// TriggerRequest is the body of POST /api/alerts.
type TriggerRequest struct {
	// OwnerID is the user triggering the alert.
	OwnerID string `json:"ownerId"`
	// UserEmail identifies the user in outgoing messages.
	UserEmail string `json:"userEmail"`
	// Contacts is the recipient snapshot for this alert.
	Contacts []ContactPayload `json:"contacts"`
	// Channels selects the notification channels; empty means all.
	Channels []string `json:"channels,omitempty"`
}

// PositionPayload is one location reading on the wire.
type PositionPayload struct {
	// Lat is the latitude in degrees.
	Lat float64 `json:"lat"`
	// Lng is the longitude in degrees.
	Lng float64 `json:"lng"`
	// MapsURL is a human-openable map link for the reading.
	MapsURL string `json:"mapsUrl"`
	// Timestamp is when the reading was taken.
	Timestamp time.Time `json:"timestamp"`
}

// AlertPayload is one alert record on the wire.
type AlertPayload struct {
	// ID uniquely identifies the alert.
	ID string `json:"id"`
	// OwnerID is the user the alert belongs to.
	OwnerID string `json:"ownerId"`
	// UserEmail is the triggering user's email.
	UserEmail string `json:"userEmail,omitempty"`
	// CreatedAt is when the alert was triggered.
	CreatedAt time.Time `json:"createdAt"`
	// Status is the current lifecycle stage.
	Status string `json:"status"`
	// Location is the reading taken at trigger time.
	Location PositionPayload `json:"location"`
	// LastLocation is the most recent tracker reading, if any.
	LastLocation *PositionPayload `json:"lastLocation,omitempty"`
	// UpdatedAt is when the tracker last touched the alert.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	// CancelledAt is when the alert reached a terminal state, if it has.
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// RecipientResultPayload is one delivery attempt on the wire.
type RecipientResultPayload struct {
	// ContactID identifies the recipient.
	ContactID string `json:"contactId"`
	// OK reports whether the attempt succeeded.
	OK bool `json:"ok"`
	// Ref is the provider's delivery reference, if any.
	Ref string `json:"ref,omitempty"`
	// Error describes the failure when OK is false.
	Error string `json:"error,omitempty"`
}

// OutcomePayload is one channel's dispatch summary on the wire.
type OutcomePayload struct {
	// Attempted is the number of recipients a provider call was made for.
	Attempted int `json:"attempted"`
	// Succeeded is the number of acknowledged attempts.
	Succeeded int `json:"succeeded"`
	// Failed is the number of rejected or errored attempts.
	Failed int `json:"failed"`
	// Skipped counts recipients the channel could not address.
	Skipped int `json:"skipped"`
	// Recipients holds the individual attempt results.
	Recipients []RecipientResultPayload `json:"recipients,omitempty"`
	// Error is a channel-level condition reported once.
	Error string `json:"error,omitempty"`
}

// TriggerResponse is the body returned by POST /api/alerts.
type TriggerResponse struct {
	// Alert is the created record.
	Alert AlertPayload `json:"alert"`
	// Outcomes maps channel name to its dispatch summary.
	Outcomes map[string]OutcomePayload `json:"outcomes"`
}

// AlertResponse is the body returned by GET /api/alerts/:id.
type AlertResponse struct {
	// Alert is the stored record.
	Alert AlertPayload `json:"alert"`
	// Positions is the tracker history, oldest first.
	Positions []PositionPayload `json:"positions"`
}

// LocationReport is the body of PUT /api/users/:ownerId/location. Both
// fields are pointers so an absent field is rejected rather than read as
// coordinate zero.
type LocationReport struct {
	// Lat is the latitude in degrees.
	Lat *float64 `json:"lat"`
	// Lng is the longitude in degrees.
	Lng *float64 `json:"lng"`
}

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	// Error describes what went wrong.
	Error string `json:"error"`
}

// toPositionPayload converts a domain reading to its wire form.
func toPositionPayload(pos domain.Position) PositionPayload {
	return PositionPayload{
		Lat:       pos.Lat,
		Lng:       pos.Lng,
		MapsURL:   pos.MapsURL,
		Timestamp: pos.Timestamp,
	}
}

// toAlertPayload converts a domain alert to its wire form.
func toAlertPayload(a *domain.Alert) AlertPayload {
	payload := AlertPayload{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		UserEmail:   a.UserEmail,
		CreatedAt:   a.CreatedAt,
		Status:      string(a.Status),
		Location:    toPositionPayload(a.Location),
		UpdatedAt:   a.UpdatedAt,
		CancelledAt: a.CancelledAt,
	}

	if a.LastLocation != nil {
		last := toPositionPayload(*a.LastLocation)
		payload.LastLocation = &last
	}

	return payload
}

// toOutcomePayload converts a dispatch summary to its wire form.
func toOutcomePayload(outcome domain.DispatchOutcome) OutcomePayload {
	payload := OutcomePayload{
		Attempted: outcome.Attempted,
		Succeeded: outcome.Succeeded,
		Failed:    outcome.Failed,
		Skipped:   outcome.Skipped,
		Error:     outcome.Error,
	}

	for _, r := range outcome.PerRecipient {
		payload.Recipients = append(payload.Recipients, RecipientResultPayload{
			ContactID: r.ContactID,
			OK:        r.OK,
			Ref:       r.Ref,
			Error:     r.Error,
		})
	}

	return payload
}

// toContacts converts the request contacts to their domain form.
func toContacts(payloads []ContactPayload) []domain.Contact {
	contacts := make([]domain.Contact, 0, len(payloads))

	for _, p := range payloads {
		contacts = append(contacts, domain.Contact{
			ID:    p.ID,
			Name:  p.Name,
			Phone: p.Phone,
			Email: p.Email,
		})
	}

	return contacts
}
