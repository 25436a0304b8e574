// Package phone normalizes raw phone-number strings into the canonical
// international format expected by the SMS/call gateway and into the
// digits-only form used by messaging deep links. Normalization is pure,
// total and deterministic.
package phone
