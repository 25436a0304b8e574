package channel

import (
	"context"
	"errors"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/phone"
)

// GatewaySender is the slice of the gateway client the channels depend on.
type GatewaySender interface {
	SendSMS(ctx context.Context, req *gateway.SendRequest) (*gateway.SendResponse, error)
	MakeCall(ctx context.Context, req *gateway.SendRequest) (*gateway.SendResponse, error)
}

// SMS delivers alerts as text messages through the remote gateway.
type SMS struct {
	gatewayChannel
}

// NewSMS creates the SMS channel. A nil client marks the channel
// structurally unavailable.
func NewSMS(client GatewaySender, countryCode string) *SMS {
	return &SMS{gatewayChannel{
		kind:        domain.ChannelSMS,
		client:      client,
		countryCode: countryCode,
	}}
}

// Dispatch batches every phone-bearing contact into one gateway call.
func (s *SMS) Dispatch(ctx context.Context, a *domain.Alert, contacts []domain.Contact) domain.DispatchOutcome {
	return s.viaGateway(ctx, a, contacts, func(ctx context.Context, req *gateway.SendRequest) (*gateway.SendResponse, error) {
		return s.client.SendSMS(ctx, req)
	})
}

// Call places voice calls through the remote gateway. Same contract as SMS;
// only the spoken-text template differs, and the gateway owns that.
type Call struct {
	gatewayChannel
}

// NewCall creates the voice-call channel. A nil client marks the channel
// structurally unavailable.
func NewCall(client GatewaySender, countryCode string) *Call {
	return &Call{gatewayChannel{
		kind:        domain.ChannelCall,
		client:      client,
		countryCode: countryCode,
	}}
}

// Dispatch batches every phone-bearing contact into one gateway call.
func (c *Call) Dispatch(ctx context.Context, a *domain.Alert, contacts []domain.Contact) domain.DispatchOutcome {
	return c.viaGateway(ctx, a, contacts, func(ctx context.Context, req *gateway.SendRequest) (*gateway.SendResponse, error) {
		return c.client.MakeCall(ctx, req)
	})
}

// gatewayChannel holds the behaviour shared by the SMS and voice-call
// variants: eligibility filtering, phone normalization, the single batched
// gateway call, and mapping the gateway's per-recipient results back onto
// the contact snapshot.
type gatewayChannel struct {
	// kind is the medium this instance represents.
	kind domain.ChannelKind
	// client reaches the gateway; nil means not configured on our side.
	client GatewaySender
	// countryCode is used to normalize local numbers before transmission.
	countryCode string
}

// Kind identifies the medium.
func (g *gatewayChannel) Kind() domain.ChannelKind {
	return g.kind
}

// viaGateway runs one batched send for all eligible contacts.
//
// Outcome policy: contacts without a phone are skipped and never reach the
// gateway; zero eligible contacts is a no-op, not an error; a gateway-side
// unconfigured provider is a whole-channel skip reported once; any other
// batch failure marks every eligible contact failed.
func (g *gatewayChannel) viaGateway(
	ctx context.Context,
	a *domain.Alert,
	contacts []domain.Contact,
	send func(context.Context, *gateway.SendRequest) (*gateway.SendResponse, error),
) domain.DispatchOutcome {
	if g.client == nil {
		return domain.Skip(g.kind, len(contacts), "gateway not configured")
	}

	outcome := domain.DispatchOutcome{Channel: g.kind}

	eligible := make([]domain.Contact, 0, len(contacts))
	payload := make([]gateway.ContactPayload, 0, len(contacts))

	for _, c := range contacts {
		if c.Phone == "" {
			outcome.Skipped++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
			})

			continue
		}

		eligible = append(eligible, c)
		payload = append(payload, gateway.ContactPayload{
			ID:    c.ID,
			Name:  c.Name,
			Phone: phone.Normalize(c.Phone, g.countryCode),
		})
	}

	if len(eligible) == 0 {
		return outcome
	}

	req := &gateway.SendRequest{
		Contacts:  payload,
		UserEmail: a.UserEmail,
		Location: gateway.LocationPayload{
			MapsURL: a.Location.MapsURL,
			Lat:     a.Location.Lat,
			Lng:     a.Location.Lng,
		},
	}

	resp, err := send(ctx, req)
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			logger.WarnKV(ctx, "Gateway provider not configured", "channel", g.kind)

			return domain.Skip(g.kind, len(contacts), err.Error())
		}

		logger.WarnKV(ctx, "Gateway batch failed", "channel", g.kind, "error", err)

		outcome.Attempted = len(eligible)
		outcome.Failed = len(eligible)

		for _, c := range eligible {
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
				Error:     err.Error(),
			})
		}

		return outcome
	}

	outcome.Attempted = len(eligible)

	// The gateway answers with one result per payload entry, in payload
	// order, so pairing is positional. Keying by number would alias two
	// contacts that share a phone onto one result.
	for i, c := range eligible {
		if i >= len(resp.Results) || resp.Results[i].To != payload[i].Phone {
			outcome.Failed++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
				Error:     "no delivery reference returned",
			})

			continue
		}

		outcome.Succeeded++
		outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
			ContactID: c.ID,
			OK:        true,
			Ref:       resp.Results[i].SID,
		})
	}

	return outcome
}
