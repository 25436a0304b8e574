package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	contract "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gateway"
)

type fakeMessenger struct {
	smsBodies  map[string]string
	callTwiML  map[string]string
	failNumber string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		smsBodies: make(map[string]string),
		callTwiML: make(map[string]string),
	}
}

func (m *fakeMessenger) SendSMS(_ context.Context, to, body string) (string, error) {
	if to == m.failNumber {
		return "", errors.New("provider rejected the number")
	}

	m.smsBodies[to] = body

	return "SM-" + to, nil
}

func (m *fakeMessenger) PlaceCall(_ context.Context, to, twiml string) (string, error) {
	if to == m.failNumber {
		return "", errors.New("provider rejected the number")
	}

	m.callTwiML[to] = twiml

	return "CA-" + to, nil
}

func sendRequest() *contract.SendRequest {
	return &contract.SendRequest{
		Contacts: []contract.ContactPayload{
			{ID: "c1", Name: "Asha", Phone: "+919876543210"},
			{ID: "c2", Name: "Ravi"},
			{ID: "c3", Name: "Meera", Phone: "+919123456780"},
		},
		UserEmail: "owner@example.com",
		Location: contract.LocationPayload{
			MapsURL: "https://www.google.com/maps/search/?api=1&query=12.97,77.59",
			Lat:     12.97,
			Lng:     77.59,
		},
	}
}

func TestService_SendSMS(t *testing.T) {
	t.Parallel()

	messenger := newFakeMessenger()
	svc := gateway.NewService(messenger)

	results, err := svc.SendSMS(context.Background(), sendRequest())
	require.NoError(t, err)

	// The contact without a phone number is skipped silently.
	require.Len(t, results, 2)
	require.Equal(t, "+919876543210", results[0].To)
	require.Equal(t, "SM-+919876543210", results[0].SID)
	require.Equal(t, "+919123456780", results[1].To)

	require.Equal(t,
		"EMERGENCY ALERT: owner@example.com needs help. "+
			"Location: https://www.google.com/maps/search/?api=1&query=12.97,77.59",
		messenger.smsBodies["+919876543210"])
}

func TestService_MakeCall(t *testing.T) {
	t.Parallel()

	messenger := newFakeMessenger()
	svc := gateway.NewService(messenger)

	results, err := svc.MakeCall(context.Background(), sendRequest())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "CA-+919876543210", results[0].SID)

	twiml := messenger.callTwiML["+919876543210"]
	require.Contains(t, twiml, "<Response><Say>")
	require.Contains(t, twiml, "owner@example.com needs help")
}

func TestService_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := gateway.NewService(nil)
	require.False(t, svc.Configured())

	_, err := svc.SendSMS(context.Background(), sendRequest())
	require.ErrorIs(t, err, gateway.ErrNotConfigured)

	_, err = svc.MakeCall(context.Background(), sendRequest())
	require.ErrorIs(t, err, gateway.ErrNotConfigured)
}

func TestService_NoContacts(t *testing.T) {
	t.Parallel()

	svc := gateway.NewService(newFakeMessenger())

	_, err := svc.SendSMS(context.Background(), &contract.SendRequest{UserEmail: "owner@example.com"})
	require.ErrorIs(t, err, gateway.ErrNoContacts)

	_, err = svc.MakeCall(context.Background(), nil)
	require.ErrorIs(t, err, gateway.ErrNoContacts)
}

func TestService_DeliveryFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	messenger := newFakeMessenger()
	messenger.failNumber = "+919876543210"
	svc := gateway.NewService(messenger)

	_, err := svc.SendSMS(context.Background(), sendRequest())
	require.Error(t, err)
	require.NotErrorIs(t, err, gateway.ErrNotConfigured)
}
