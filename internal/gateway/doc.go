// Package gateway defines the wire schema of the SMS/voice-call gateway
// (POST /send-sms, POST /make-call, GET /) and an HTTP client for it with
// bounded per-call timeouts. The schema is shared by the gateway server and
// the orchestrator-side channels so both ends stay in lockstep.
package gateway
