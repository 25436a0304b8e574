// Package gateway implements the SMS and voice delivery service sitting
// between the orchestrator and the Twilio REST API.
package gateway
