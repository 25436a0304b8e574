// Package channel implements the notification channel variants an alert
// fans out to: templated email through an external delivery service,
// messaging deep links (fire-and-forget, delivery unconfirmed), and SMS /
// voice calls through the remote gateway. Every variant reports a
// per-recipient DispatchOutcome and isolates failures so one recipient or
// one channel never takes down another.
package channel
