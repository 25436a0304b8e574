// Package geo adapts the "get current position" capability behind the
// Provider interface and offers a last-known-position cache fed by devices
// pushing readings through the HTTP API.
package geo
