// Package gateway exposes the delivery gateway over HTTP: a health probe
// and the batch send-sms and make-call endpoints.
package gateway
