// Package manager implements the alert lifecycle: triggering a new alert,
// fanning it out across the notification channels, running its location
// tracker, and closing it through cancellation or resolution.
package manager
