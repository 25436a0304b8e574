package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	api "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/api/gateway"
	contract "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/gateway"
	gatewaysvc "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gateway"
)

type stubMessenger struct {
	sms   int
	calls int
}

func (m *stubMessenger) SendSMS(_ context.Context, to, _ string) (string, error) {
	m.sms++

	return "SM-" + to, nil
}

func (m *stubMessenger) PlaceCall(_ context.Context, to, _ string) (string, error) {
	m.calls++

	return "CA-" + to, nil
}

func serve(t *testing.T, messenger gatewaysvc.Messenger) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(api.NewServer(gatewaysvc.NewService(messenger)))
	t.Cleanup(ts.Close)

	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, respBody
}

const sendBody = `{
	"contacts": [
		{"id": "c1", "name": "Asha", "phone": "+919876543210"},
		{"id": "c2", "name": "Ravi"}
	],
	"userEmail": "owner@example.com",
	"location": {"mapsUrl": "https://www.google.com/maps/search/?api=1&query=1,2", "lat": 1, "lng": 2}
}`

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts := serve(t, &stubMessenger{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health contract.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health.Status)
	require.True(t, health.TwilioConfigured)
}

func TestServer_Health_Unconfigured(t *testing.T) {
	t.Parallel()

	ts := serve(t, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)

	defer resp.Body.Close()

	var health contract.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health.Status)
	require.False(t, health.TwilioConfigured)
}

func TestServer_SendSMS(t *testing.T) {
	t.Parallel()

	messenger := &stubMessenger{}
	ts := serve(t, messenger)

	resp, body := postJSON(t, ts.URL+"/send-sms", sendBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded contract.SendResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.True(t, decoded.OK)
	require.Len(t, decoded.Results, 1)
	require.Equal(t, "+919876543210", decoded.Results[0].To)
	require.Equal(t, "SM-+919876543210", decoded.Results[0].SID)
	require.Equal(t, 1, messenger.sms)
}

func TestServer_MakeCall(t *testing.T) {
	t.Parallel()

	messenger := &stubMessenger{}
	ts := serve(t, messenger)

	resp, body := postJSON(t, ts.URL+"/make-call", sendBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded contract.SendResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.True(t, decoded.OK)
	require.Len(t, decoded.Results, 1)
	require.Equal(t, "CA-+919876543210", decoded.Results[0].SID)
	require.Equal(t, 1, messenger.calls)
}

func TestServer_NotConfigured(t *testing.T) {
	t.Parallel()

	ts := serve(t, nil)

	for _, path := range []string{"/send-sms", "/make-call"} {
		resp, body := postJSON(t, ts.URL+path, sendBody)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var decoded contract.SendResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		require.False(t, decoded.OK)
		require.Equal(t, contract.NotConfiguredMessage, decoded.Error)
	}
}

func TestServer_NoContacts(t *testing.T) {
	t.Parallel()

	ts := serve(t, &stubMessenger{})

	resp, body := postJSON(t, ts.URL+"/send-sms", `{"contacts": [], "userEmail": "a@b.c"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var decoded contract.SendResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Equal(t, contract.NoContactsMessage, decoded.Error)
}

func TestServer_ClientRoundTrip(t *testing.T) {
	t.Parallel()

	ts := serve(t, &stubMessenger{})

	client, err := contract.NewClient(ts.URL)
	require.NoError(t, err)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	require.True(t, health.TwilioConfigured)

	resp, err := client.SendSMS(context.Background(), &contract.SendRequest{
		Contacts:  []contract.ContactPayload{{Phone: "+919876543210"}},
		UserEmail: "owner@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Len(t, resp.Results, 1)
}

func TestServer_ClientMapsUnconfigured(t *testing.T) {
	t.Parallel()

	ts := serve(t, nil)

	client, err := contract.NewClient(ts.URL)
	require.NoError(t, err)

	_, err = client.SendSMS(context.Background(), &contract.SendRequest{
		Contacts: []contract.ContactPayload{{Phone: "+919876543210"}},
	})
	require.ErrorIs(t, err, contract.ErrNotConfigured)
}
