// Package sos exposes the alert orchestrator over HTTP: triggering,
// lifecycle transitions, alert lookup and device location reports.
package sos
