package gateway

import (
	"context"
	"errors"
	"fmt"

	contract "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
)

var (
	// ErrNotConfigured is returned when no Twilio credentials were supplied.
	ErrNotConfigured = errors.New(contract.NotConfiguredMessage)
	// ErrNoContacts is returned when the request carries no contacts.
	ErrNoContacts = errors.New(contract.NoContactsMessage)
)

const (
	// smsTemplate is the text message body. Arguments: user identity, maps URL.
	smsTemplate = "EMERGENCY ALERT: %s needs help. Location: %s"
	// callTemplate is the TwiML document spoken on voice calls.
	// Arguments: user identity, maps URL.
	callTemplate = "<Response><Say>Emergency alert: %s needs help. Location: %s</Say></Response>"
)

// Service turns batch send requests into per-number Twilio deliveries.
// A nil messenger leaves the service running but unconfigured, so the health
// endpoint can report the state instead of the process refusing to start.
type Service struct {
	// messenger performs the actual deliveries, nil when unconfigured.
	messenger Messenger
}

// NewService creates the gateway service. Pass a nil messenger to run
// without Twilio credentials.
func NewService(messenger Messenger) *Service {
	return &Service{messenger: messenger}
}

// Configured reports whether deliveries can be made.
func (s *Service) Configured() bool {
	return s.messenger != nil
}

// SendSMS texts every contact that has a phone number. Contacts without one
// are skipped. The first delivery failure aborts the batch.
func (s *Service) SendSMS(ctx context.Context, req *contract.SendRequest) ([]contract.SendResult, error) {
	body := fmt.Sprintf(smsTemplate, req.UserEmail, req.Location.MapsURL)

	return s.deliver(ctx, req, func(to string) (string, error) {
		return s.messenger.SendSMS(ctx, to, body)
	})
}

// MakeCall places a voice call to every contact that has a phone number.
// Contacts without one are skipped. The first failure aborts the batch.
func (s *Service) MakeCall(ctx context.Context, req *contract.SendRequest) ([]contract.SendResult, error) {
	twiml := fmt.Sprintf(callTemplate, req.UserEmail, req.Location.MapsURL)

	return s.deliver(ctx, req, func(to string) (string, error) {
		return s.messenger.PlaceCall(ctx, to, twiml)
	})
}

// deliver runs one send function over the request's reachable contacts.
func (s *Service) deliver(
	ctx context.Context,
	req *contract.SendRequest,
	send func(to string) (string, error),
) ([]contract.SendResult, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	if req == nil || len(req.Contacts) == 0 {
		return nil, ErrNoContacts
	}

	results := make([]contract.SendResult, 0, len(req.Contacts))

	for _, c := range req.Contacts {
		if c.Phone == "" {
			continue
		}

		sid, err := send(c.Phone)
		if err != nil {
			return nil, fmt.Errorf("deliver to %s: %w", c.Phone, err)
		}

		logger.InfoKV(ctx, "Delivery accepted", "to", c.Phone, "sid", sid)

		results = append(results, contract.SendResult{To: c.Phone, SID: sid})
	}

	return results, nil
}
