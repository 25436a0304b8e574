package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gatewayapi "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/api/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/api/sos"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/gateway"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/service/server"
)

type countingMessenger struct{}

func (countingMessenger) SendSMS(_ context.Context, to, _ string) (string, error) {
	return "SM-" + to, nil
}

func (countingMessenger) PlaceCall(_ context.Context, to, _ string) (string, error) {
	return "CA-" + to, nil
}

// startServer starts the orchestrator with a temporary config and SQLite
// file, wired to the given delivery gateway. Returns the base URL and a stop
// function that shuts the server down gracefully.
func startServer(t *testing.T, gatewayURL string) (baseURL string, stop func()) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			ServerAddress:    addr,
			GatewayURL:       gatewayURL,
			DatabaseFile:     filepath.Join(t.TempDir(), "alerts.db"),
			TrackingInterval: time.Hour,
			Timeout:          3 * time.Second,
		}),
	)

	go func() {
		options := &server.Options{
			ConfigPath:    cfgPath,
			ListenAddress: addr,
		}

		_ = server.Run(ctx, options) //nolint:errcheck // Shutdown errors are irrelevant to the test.
	}()

	baseURL = "http://" + addr

	// Wait for the server to start listening.
	require.Eventually(t, func() bool {
		resp, healthErr := http.Get(baseURL + "/health")
		if healthErr != nil {
			return false
		}

		defer resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	return baseURL, func() {
		cancel()
		time.Sleep(100 * time.Millisecond)
	}
}

func request(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, payload
}

// TestSOS_Roundtrip starts the real orchestrator over an in-process delivery
// gateway and walks an alert from trigger to cancellation with on-disk
// persistence.
func TestSOS_Roundtrip(t *testing.T) {
	t.Parallel()

	gatewayServer := httptest.NewServer(
		gatewayapi.NewServer(gateway.NewService(countingMessenger{})))
	defer gatewayServer.Close()

	baseURL, stop := startServer(t, gatewayServer.URL)
	defer stop()

	// The device pushes a reading before the alert fires.
	status, _ := request(t, http.MethodPut, baseURL+"/api/users/owner-1/location",
		`{"lat": 12.97, "lng": 77.59}`)
	require.Equal(t, http.StatusNoContent, status)

	triggerBody := `{
		"ownerId": "owner-1",
		"userEmail": "owner@example.com",
		"contacts": [
			{"id": "c1", "name": "Asha", "phone": "9876543210", "email": "asha@example.com"},
			{"id": "c2", "name": "Ravi", "email": "ravi@example.com"}
		],
		"channels": ["sms", "call"]
	}`

	status, body := request(t, http.MethodPost, baseURL+"/api/alerts", triggerBody)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created sos.TriggerResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "active", created.Alert.Status)
	require.Contains(t, created.Alert.Location.MapsURL, "12.97")

	for _, name := range []string{"sms", "call"} {
		outcome := created.Outcomes[name]
		require.Equal(t, 1, outcome.Attempted, name)
		require.Equal(t, 1, outcome.Succeeded, name)
		require.Equal(t, 1, outcome.Skipped, name)
	}

	// A second trigger for the same owner conflicts while the first is active.
	status, _ = request(t, http.MethodPost, baseURL+"/api/alerts", triggerBody)
	require.Equal(t, http.StatusConflict, status)

	alertURL := fmt.Sprintf("%s/api/alerts/%s", baseURL, created.Alert.ID)

	status, body = request(t, http.MethodGet, alertURL, "")
	require.Equal(t, http.StatusOK, status)

	var fetched sos.AlertResponse
	require.NoError(t, json.Unmarshal(body, &fetched))
	require.Equal(t, created.Alert.ID, fetched.Alert.ID)

	status, body = request(t, http.MethodPost, alertURL+"/cancel", "")
	require.Equal(t, http.StatusOK, status)

	var cancelled sos.AlertPayload
	require.NoError(t, json.Unmarshal(body, &cancelled))
	require.Equal(t, "cancelled", cancelled.Status)

	status, _ = request(t, http.MethodPost, alertURL+"/cancel", "")
	require.Equal(t, http.StatusConflict, status)
}

// TestSOS_GatewayUnconfigured runs the stack against a credential-less
// gateway: SMS and call report whole-channel skips, nothing fails.
func TestSOS_GatewayUnconfigured(t *testing.T) {
	t.Parallel()

	gatewayServer := httptest.NewServer(gatewayapi.NewServer(gateway.NewService(nil)))
	defer gatewayServer.Close()

	baseURL, stop := startServer(t, gatewayServer.URL)
	defer stop()

	status, body := request(t, http.MethodPost, baseURL+"/api/alerts", `{
		"ownerId": "owner-2",
		"userEmail": "owner@example.com",
		"contacts": [{"id": "c1", "name": "Asha", "phone": "9876543210"}],
		"channels": ["sms"]
	}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created sos.TriggerResponse
	require.NoError(t, json.Unmarshal(body, &created))

	outcome := created.Outcomes["sms"]
	require.Zero(t, outcome.Attempted)
	require.Zero(t, outcome.Failed)
	require.Equal(t, 1, outcome.Skipped)
	require.Contains(t, outcome.Error, "not configured")
}
