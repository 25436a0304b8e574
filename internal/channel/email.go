package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/logger"
)

// EmailConfig carries the external delivery service coordinates.
type EmailConfig struct {
	// ServiceURL is the delivery endpoint. Empty disables the channel.
	ServiceURL string
	// ServiceID identifies the delivery service account.
	ServiceID string
	// TemplateID selects the alert message template.
	TemplateID string
	// UserID is the account's public key.
	UserID string
}

// Email delivers alerts through an external templated email service.
type Email struct {
	// cfg holds the delivery service coordinates.
	cfg EmailConfig
	// httpClient performs the requests; replaceable for tests.
	httpClient *http.Client
	// timeout bounds each delivery call.
	timeout time.Duration
}

// EmailOption configures the email channel.
type EmailOption func(*Email)

// WithEmailHTTPClient replaces the underlying HTTP client.
func WithEmailHTTPClient(hc *http.Client) EmailOption {
	return func(e *Email) {
		if hc != nil {
			e.httpClient = hc
		}
	}
}

// WithEmailTimeout bounds each delivery call.
func WithEmailTimeout(timeout time.Duration) EmailOption {
	return func(e *Email) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEmail creates the email channel for the given delivery service.
func NewEmail(cfg EmailConfig, opts ...EmailOption) *Email {
	e := &Email{
		cfg:        cfg,
		httpClient: &http.Client{},
		timeout:    config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Kind identifies the medium.
func (e *Email) Kind() domain.ChannelKind {
	return domain.ChannelEmail
}

// emailPayload is the delivery service request body.
type emailPayload struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

// Dispatch sends one templated email per contact that has an address.
// Recipients without an email are skipped; per-recipient delivery errors are
// recorded and do not abort the rest.
func (e *Email) Dispatch(ctx context.Context, a *domain.Alert, contacts []domain.Contact) domain.DispatchOutcome {
	if e.cfg.ServiceURL == "" {
		return domain.Skip(e.Kind(), len(contacts), "email service not configured")
	}

	outcome := domain.DispatchOutcome{Channel: e.Kind()}
	message := AlertText(a)

	for _, c := range contacts {
		if c.Email == "" {
			outcome.Skipped++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
			})

			continue
		}

		outcome.Attempted++

		if err := e.send(ctx, c, a, message); err != nil {
			logger.WarnKV(ctx, "Email delivery failed", "contact_id", c.ID, "error", err)

			outcome.Failed++
			outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
				ContactID: c.ID,
				Error:     err.Error(),
			})

			continue
		}

		outcome.Succeeded++
		outcome.PerRecipient = append(outcome.PerRecipient, domain.RecipientResult{
			ContactID: c.ID,
			OK:        true,
			Ref:       c.Email,
		})
	}

	return outcome
}

// send posts one templated message to the delivery service.
func (e *Email) send(ctx context.Context, c domain.Contact, a *domain.Alert, message string) error {
	name := c.Name
	if name == "" {
		name = "Friend"
	}

	payload := emailPayload{
		ServiceID:  e.cfg.ServiceID,
		TemplateID: e.cfg.TemplateID,
		UserID:     e.cfg.UserID,
		TemplateParams: map[string]any{
			"to_name":   name,
			"to_email":  c.Email,
			"from_name": a.UserEmail,
			"message":   message,
			"location":  a.Location.MapsURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, e.cfg.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("email service status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}
