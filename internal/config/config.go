package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the SOS binaries.
type Config struct {
	// ServerAddress is the listen address of the orchestration HTTP API.
	ServerAddress string `yaml:"server_addr"`
	// GatewayAddress is the listen address of the SMS/call gateway.
	GatewayAddress string `yaml:"gateway_addr"`
	// GatewayURL is the base URL the orchestrator uses to reach the gateway.
	GatewayURL string `yaml:"gateway_url"`
	// DatabaseFile is the path to the SQLite file storing alert records.
	DatabaseFile string `yaml:"database_file"`
	// DefaultCountryCode is prepended to local phone numbers (digits, no plus).
	DefaultCountryCode string `yaml:"default_country_code"`
	// TrackingInterval is the delay between location tracker ticks.
	TrackingInterval time.Duration `yaml:"tracking_interval"`
	// LinkStagger is the delay between consecutive messaging-link recipients.
	LinkStagger time.Duration `yaml:"link_stagger"`
	// Timeout is the bound for outbound provider and gateway calls.
	Timeout time.Duration `yaml:"timeout"`
	// EmailServiceURL is the endpoint of the external email delivery service.
	// Leave empty to disable the email channel.
	EmailServiceURL string `yaml:"email_service_url"`
	// EmailServiceID identifies the delivery service account.
	EmailServiceID string `yaml:"email_service_id"`
	// EmailTemplateID selects the alert message template on the delivery service.
	EmailTemplateID string `yaml:"email_template_id"`
	// EmailUserID is the public key of the delivery service account.
	EmailUserID string `yaml:"email_user_id"`
	// TwilioAccountSID is the Twilio account identifier used by the gateway.
	// Leave empty to run the gateway unconfigured.
	TwilioAccountSID string `yaml:"twilio_account_sid"`
	// TwilioAuthToken is the Twilio API token used by the gateway.
	TwilioAuthToken string `yaml:"twilio_auth_token"`
	// TwilioFromNumber is the E.164 number SMS and calls originate from.
	TwilioFromNumber string `yaml:"twilio_from_number"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "sos-settings.yaml"

	// DefaultDatabaseFilename is the default filename for the alert store.
	DefaultDatabaseFilename = "sos-alerts.db"

	// DefaultCountryCode is used when a contact's number has no country code.
	DefaultCountryCode = "91"

	// DefaultTrackingInterval is the default location polling period.
	DefaultTrackingInterval = 12 * time.Second

	// DefaultLinkStagger is the default pacing step between messaging-link recipients.
	DefaultLinkStagger = 300 * time.Millisecond

	// DefaultTimeout is the default bound for outbound network calls.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when the server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyEnvironment(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvironment lets credentials come from the environment instead of the
// settings file, so secrets can stay out of it.
func applyEnvironment(cfg *Config) {
	if v := os.Getenv("TWILIO_SID"); v != "" {
		cfg.TwilioAccountSID = v
	}

	if v := os.Getenv("TWILIO_TOKEN"); v != "" {
		cfg.TwilioAuthToken = v
	}

	if v := os.Getenv("TWILIO_FROM"); v != "" {
		cfg.TwilioFromNumber = v
	}
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for unset optional values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.GatewayAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.GatewayAddress); err != nil {
			return fmt.Errorf("invalid gateway address: %w", err)
		}
	}

	if cfg.GatewayURL != "" {
		if _, err := url.ParseRequestURI(cfg.GatewayURL); err != nil {
			return fmt.Errorf("invalid gateway URL: %w", err)
		}
	}

	if cfg.EmailServiceURL != "" {
		if _, err := url.ParseRequestURI(cfg.EmailServiceURL); err != nil {
			return fmt.Errorf("invalid email service URL: %w", err)
		}
	}

	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = DefaultDatabaseFilename
	}

	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = DefaultCountryCode
	}

	if cfg.TrackingInterval <= 0 {
		cfg.TrackingInterval = DefaultTrackingInterval
	}

	if cfg.LinkStagger <= 0 {
		cfg.LinkStagger = DefaultLinkStagger
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
