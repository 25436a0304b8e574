// Package config loads, validates and persists YAML settings shared by the
// SOS binaries: listen addresses, the gateway URL, the alert database path,
// phone normalization defaults, tracking cadence, the email delivery
// service coordinates, and the gateway's Twilio credentials. Credentials
// may also come from the TWILIO_SID, TWILIO_TOKEN and TWILIO_FROM
// environment variables, which take precedence over the file.
package config
