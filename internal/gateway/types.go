package gateway

// ContactPayload is one recipient in a gateway send request. Phone numbers
// are expected in canonical international form; the caller skips contacts
// without a phone before sending.
type ContactPayload struct {
	// ID is the caller's identifier for the recipient, echoed for bookkeeping.
	ID string `json:"id,omitempty"`
	// Name is the recipient's display name.
	Name string `json:"name,omitempty"`
	// Phone is the destination number in international form.
	Phone string `json:"phone"`
}

// LocationPayload carries the map link and coordinates of the alert.
type LocationPayload struct {
	// MapsURL is the human-openable map link embedded in messages.
	MapsURL string `json:"mapsUrl"`
	// Lat is the latitude in degrees.
	Lat float64 `json:"lat"`
	// Lng is the longitude in degrees.
	Lng float64 `json:"lng"`
}

// SendRequest is the body of POST /send-sms and POST /make-call.
type SendRequest struct {
	// Contacts are the recipients to deliver to.
	Contacts []ContactPayload `json:"contacts"`
	// UserEmail identifies the person needing help in message templates.
	UserEmail string `json:"userEmail"`
	// Location is where help is needed.
	Location LocationPayload `json:"location"`
}

// SendResult reports one accepted delivery.
type SendResult struct {
	// To is the destination number the provider accepted.
	To string `json:"to"`
	// SID is the provider's reference for the message or call.
	SID string `json:"sid"`
}

// SendResponse is the body returned by the send endpoints.
type SendResponse struct {
	// OK reports whether the batch was accepted.
	OK bool `json:"ok"`
	// Results holds one entry per accepted delivery.
	Results []SendResult `json:"results,omitempty"`
	// Error describes the failure when OK is false.
	Error string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	// Status is "ok" when the gateway is serving.
	Status string `json:"status"`
	// TwilioConfigured reports whether provider credentials are present.
	TwilioConfigured bool `json:"twilioConfigured"`
}

// NotConfiguredMessage is the error string the gateway returns when it has
// no provider credentials. Kept stable so callers can classify the condition.
const NotConfiguredMessage = "twilio not configured"

// NoContactsMessage is the error string returned for an empty contact list.
const NoContactsMessage = "no contacts"
