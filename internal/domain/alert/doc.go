// Package alert contains core domain types for the emergency alert business
// logic.
//
// It defines Contact (the dispatch-time snapshot of a recipient), Position
// (an immutable location reading), Alert (one emergency episode and its
// lifecycle status), and the channel dispatch vocabulary (ChannelKind,
// RecipientResult, DispatchOutcome) with Clone helpers to avoid leaking
// internal references.
package alert
