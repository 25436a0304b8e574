// Package alert provides persistence for alert records and their
// append-only position histories: a Repository interface, an in-memory
// implementation for tests and ephemeral setups, and a SQLite-backed
// implementation for durable storage.
package alert
