package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// testAlert returns a fixed alert used across channel tests.
func testAlert() *domain.Alert {
	return &domain.Alert{
		ID:        "a-1",
		OwnerID:   "u-1",
		UserEmail: "owner@example.com",
		CreatedAt: time.Unix(1000, 0),
		Status:    domain.StatusActive,
		Location: domain.Position{
			Lat:     12.97,
			Lng:     77.59,
			MapsURL: "https://www.google.com/maps/search/?api=1&query=12.97,77.59",
		},
	}
}

// TestEmailDispatch covers delivery, skip counting and failure isolation.
func TestEmailDispatch(t *testing.T) {
	t.Parallel()

	var sent []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload emailPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "svc-1", payload.ServiceID)
		require.Equal(t, "tpl-1", payload.TemplateID)

		to, _ := payload.TemplateParams["to_email"].(string)
		if to == "broken@example.com" {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		sent = append(sent, to)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	email := NewEmail(EmailConfig{
		ServiceURL: srv.URL,
		ServiceID:  "svc-1",
		TemplateID: "tpl-1",
		UserID:     "user-key",
	})

	contacts := []domain.Contact{
		{ID: "c-1", Name: "Asha", Email: "asha@example.com", Phone: "9876543210"},
		{ID: "c-2", Name: "No Mail", Phone: "9876500000"},
		{ID: "c-3", Name: "Broken", Email: "broken@example.com"},
	}

	out := email.Dispatch(context.Background(), testAlert(), contacts)

	require.Equal(t, domain.ChannelEmail, out.Channel)
	require.Equal(t, 2, out.Attempted)
	require.Equal(t, 1, out.Succeeded)
	require.Equal(t, 1, out.Failed)
	require.Equal(t, 1, out.Skipped)
	require.Equal(t, []string{"asha@example.com"}, sent)

	require.Len(t, out.PerRecipient, 3)
	require.True(t, out.PerRecipient[0].OK)
	require.False(t, out.PerRecipient[2].OK)
	require.Contains(t, out.PerRecipient[2].Error, "status 502")
}

// TestEmailUnconfigured asserts the structural full-skip outcome.
func TestEmailUnconfigured(t *testing.T) {
	t.Parallel()

	email := NewEmail(EmailConfig{})

	contacts := []domain.Contact{
		{ID: "c-1", Email: "asha@example.com"},
		{ID: "c-2", Email: "ravi@example.com"},
	}

	out := email.Dispatch(context.Background(), testAlert(), contacts)

	require.Zero(t, out.Attempted)
	require.Equal(t, 2, out.Skipped)
	require.NotEmpty(t, out.Error)
}
