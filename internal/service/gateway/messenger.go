package gateway

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger delivers an SMS or places a voice call to a single number and
// returns the provider's delivery reference.
type Messenger interface {
	// SendSMS sends a text message and returns its SID.
	SendSMS(ctx context.Context, to, body string) (string, error)
	// PlaceCall starts an outbound call speaking the given TwiML and
	// returns its SID.
	PlaceCall(ctx context.Context, to, twiml string) (string, error)
}

// twilioMessenger is the production Messenger backed by the Twilio REST API.
type twilioMessenger struct {
	// client is the authenticated Twilio REST client.
	client *twilio.RestClient
	// from is the E.164 number messages and calls originate from.
	from string
}

// NewTwilioMessenger creates a Messenger over the Twilio REST API.
func NewTwilioMessenger(accountSID, authToken, from string) Messenger {
	return &twilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// SendSMS sends a text message through Twilio.
func (m *twilioMessenger) SendSMS(_ context.Context, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(m.from)
	params.SetBody(body)

	message, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	if message.Sid == nil {
		return "", nil
	}

	return *message.Sid, nil
}

// PlaceCall starts an outbound voice call through Twilio.
func (m *twilioMessenger) PlaceCall(_ context.Context, to, twiml string) (string, error) {
	params := &twilioapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(m.from)
	params.SetTwiml(twiml)

	call, err := m.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}

	if call.Sid == nil {
		return "", nil
	}

	return *call.Sid, nil
}
