// Package dispatch fans one alert out across all enabled notification
// channels concurrently and aggregates per-channel outcomes, preserving
// independence between channels.
package dispatch
